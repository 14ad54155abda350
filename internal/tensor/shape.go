package tensor

import "fmt"

// Shape represents the dimensions of an array.
type Shape []int

// NumElements returns the total number of elements in the array.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid: at least one dimension, all dimensions > 0.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("shape must have at least one dimension")
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Next advances idx to the next multi-index in row-major order (last axis
// fastest) and reports whether one exists. idx must start at all zeros.
//
// Example:
//
//	idx := make([]int, len(shape))
//	for ok := true; ok; ok = shape.Next(idx) {
//	    visit(idx)
//	}
func (s Shape) Next(idx []int) bool {
	for d := len(s) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < s[d] {
			return true
		}
		idx[d] = 0
	}
	return false
}

// Ravel returns the row-major flat position of idx within the shape.
func (s Shape) Ravel(idx []int) int {
	flat := 0
	for d, i := range idx {
		flat = flat*s[d] + i
	}
	return flat
}
