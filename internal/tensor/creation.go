package tensor

import "fmt"

// Zeros creates an array filled with zeros.
//
// Example:
//
//	a, err := tensor.Zeros[float32](Shape{3, 4})
func Zeros[T DType](shape Shape) (*Array[T], error) {
	// Data is already zero-initialized by make()
	return newArray[T](shape)
}

// Full creates an array filled with a specific value.
//
// Example:
//
//	a, err := tensor.Full[float32](Shape{3, 3}, 3.14)
func Full[T DType](shape Shape, value T) (*Array[T], error) {
	a, err := newArray[T](shape)
	if err != nil {
		return nil, err
	}
	for i := range a.data {
		a.data[i] = value
	}
	return a, nil
}

// FromSlice creates an array from a Go slice.
// The slice is copied into the array's memory.
func FromSlice[T DType](data []T, shape Shape) (*Array[T], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	a, err := newArray[T](shape)
	if err != nil {
		return nil, err
	}
	copy(a.data, data)
	return a, nil
}

// Arange creates an array holding 0, 1, 2, ... in row-major order.
//
// Example:
//
//	a, _ := tensor.Arange[int64](Shape{5, 10}) // a.At(1, 2) == 12
func Arange[T DType](shape Shape) (*Array[T], error) {
	a, err := newArray[T](shape)
	if err != nil {
		return nil, err
	}
	for i := range a.data {
		a.data[i] = FromFloat64[T](float64(i))
	}
	return a, nil
}

// MustArange is like Arange but panics on an invalid shape.
// Intended for tests and examples.
func MustArange[T DType](shape Shape) *Array[T] {
	a, err := Arange[T](shape)
	if err != nil {
		panic(err)
	}
	return a
}
