// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/blockwise/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for array element types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// Numeric is the subset of DType with arithmetic semantics.
type Numeric = tensor.Numeric

// DataType represents the element type of an array at runtime.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} represents a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// Range is the half-open interval [Start, Stop) with stride Step along one axis.
type Range = tensor.Range

// Slice is one Range per axis, naming a rectangular region of an array.
type Slice = tensor.Slice

// Array is a dense N-dimensional array that may be a view of another array.
//
// Example:
//
//	a, err := tensor.Zeros[float64](tensor.Shape{2, 3})
//	a.Set(1.5, 1, 2)
type Array[T DType] = tensor.Array[T]

// Creation functions

// Zeros creates an array filled with the zero value.
func Zeros[T DType](shape Shape) (*Array[T], error) {
	return tensor.Zeros[T](shape)
}

// Full creates an array filled with value.
//
// Example:
//
//	a, err := tensor.Full(tensor.Shape{2, 3}, float32(3.14))
func Full[T DType](shape Shape, value T) (*Array[T], error) {
	return tensor.Full(shape, value)
}

// FromSlice creates an array holding a copy of data in row-major order.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	a, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Array[T], error) {
	return tensor.FromSlice(data, shape)
}

// Arange creates an array holding 0, 1, 2, ... in row-major order.
func Arange[T DType](shape Shape) (*Array[T], error) {
	return tensor.Arange[T](shape)
}

// MustArange is Arange for shapes known to be valid. It panics on error.
func MustArange[T DType](shape Shape) *Array[T] {
	return tensor.MustArange[T](shape)
}

// Whole returns the Slice covering every element of shape.
func Whole(shape Shape) Slice {
	return tensor.Whole(shape)
}

// TypeOf returns the DataType of T.
func TypeOf[T DType]() DataType {
	return tensor.TypeOf[T]()
}
