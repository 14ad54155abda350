package tensor

import (
	"fmt"
	"strings"
)

// Range addresses the half-open interval [Start, Stop) of one axis,
// taking every Step-th element.
type Range struct {
	Start int `yaml:"start"`
	Stop  int `yaml:"stop"`
	Step  int `yaml:"step"`
}

// Len returns the number of elements the range selects.
func (r Range) Len() int {
	step := r.Step
	if step <= 0 {
		step = 1
	}
	if r.Stop <= r.Start {
		return 0
	}
	return (r.Stop - r.Start + step - 1) / step
}

// String formats the range as start:stop, appending :step when it is not 1.
func (r Range) String() string {
	if r.Step == 1 || r.Step == 0 {
		return fmt.Sprintf("%d:%d", r.Start, r.Stop)
	}
	return fmt.Sprintf("%d:%d:%d", r.Start, r.Stop, r.Step)
}

// Slice describes a rectangular sub-region of an array, one Range per axis.
type Slice []Range

// Shape returns the extent of the region along every axis.
func (s Slice) Shape() Shape {
	shape := make(Shape, len(s))
	for d, r := range s {
		shape[d] = r.Len()
	}
	return shape
}

// Equal reports whether both descriptors address the same region.
func (s Slice) Equal(other Slice) bool {
	if len(s) != len(other) {
		return false
	}
	for d := range s {
		if s[d] != other[d] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the descriptor.
func (s Slice) Clone() Slice {
	out := make(Slice, len(s))
	copy(out, s)
	return out
}

// String formats the descriptor NumPy style, e.g. [0:3, 4:7].
func (s Slice) String() string {
	parts := make([]string, len(s))
	for d, r := range s {
		parts[d] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Whole returns the descriptor covering every element of shape.
func Whole(shape Shape) Slice {
	s := make(Slice, len(shape))
	for d, n := range shape {
		s[d] = Range{Start: 0, Stop: n, Step: 1}
	}
	return s
}
