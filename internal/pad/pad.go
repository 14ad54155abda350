// Package pad implements N-dimensional array padding with NumPy-compatible
// fill policies (constant, edge, linear_ramp, maximum, minimum, mean, median,
// reflect, symmetric, wrap, empty).
package pad

import (
	"errors"
	"fmt"

	"github.com/born-ml/blockwise/internal/tensor"
)

// Common errors.
var (
	ErrUnknownPolicy = errors.New("unknown padding policy")
	ErrInvalidParams = errors.New("invalid padding parameters")
)

// Width is the number of elements added before and after one axis.
type Width struct {
	Before int `yaml:"before"`
	After  int `yaml:"after"`
}

// Total returns Before + After.
func (w Width) Total() int {
	return w.Before + w.After
}

// IsZero reports whether the width adds no elements.
func (w Width) IsZero() bool {
	return w.Before == 0 && w.After == 0
}

// Policy names how the padded border is filled.
type Policy string

// Supported policies.
const (
	Constant   Policy = "constant"
	Edge       Policy = "edge"
	LinearRamp Policy = "linear_ramp"
	Maximum    Policy = "maximum"
	Minimum    Policy = "minimum"
	Mean       Policy = "mean"
	Median     Policy = "median"
	Reflect    Policy = "reflect"
	Symmetric  Policy = "symmetric"
	Wrap       Policy = "wrap"
	Empty      Policy = "empty"
)

// Policies lists every supported policy.
func Policies() []Policy {
	return []Policy{Constant, Edge, LinearRamp, Maximum, Minimum, Mean, Median, Reflect, Symmetric, Wrap, Empty}
}

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	for _, p := range Policies() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// ReflectType selects the symmetry used by Reflect and Symmetric.
type ReflectType string

// Reflection symmetries.
const (
	Even ReflectType = "even"
	Odd  ReflectType = "odd"
)

// Params carries policy-specific arguments.
//
// Per-axis fields follow NumPy broadcasting: empty means the default for every
// axis, a single entry applies to every axis, otherwise one entry per axis.
type Params struct {
	// ConstantValues are the (before, after) fill values of Constant. Default 0.
	ConstantValues [][2]float64
	// EndValues are the (before, after) ramp end values of LinearRamp. Default 0.
	EndValues [][2]float64
	// StatLength limits how many interior elements Maximum, Minimum, Mean and
	// Median look at on each side. 0 means the whole axis.
	StatLength [][2]int
	// ReflectType is the symmetry of Reflect and Symmetric. Default Even.
	ReflectType ReflectType
}

// ConstantValue returns Params filling every border with v.
func ConstantValue(v float64) Params {
	return Params{ConstantValues: [][2]float64{{v, v}}}
}

// EndValue returns Params ramping every border to v.
func EndValue(v float64) Params {
	return Params{EndValues: [][2]float64{{v, v}}}
}

// StatLengthAll returns Params computing statistics over n elements on every side.
func StatLengthAll(n int) Params {
	return Params{StatLength: [][2]int{{n, n}}}
}

// Pad returns a new array whose axis d has size shape[d] + widths[d].Total(),
// holding a at offset widths[d].Before and a border filled per policy.
//
// Axes are padded in order, each one reading the values already written for
// the previous axes, so corners follow NumPy's numpy.pad results.
func Pad[T tensor.DType](a *tensor.Array[T], widths []Width, policy Policy, params Params) (*tensor.Array[T], error) {
	ndim := a.Ndim()
	if len(widths) != ndim {
		return nil, fmt.Errorf("%w: %d pad widths for %d axes", ErrInvalidParams, len(widths), ndim)
	}
	for d, w := range widths {
		if w.Before < 0 || w.After < 0 {
			return nil, fmt.Errorf("%w: axis %d: negative pad width (%d, %d)", ErrInvalidParams, d, w.Before, w.After)
		}
	}

	fill, err := newFiller[T](policy, params, ndim)
	if err != nil {
		return nil, err
	}

	src := a.Shape()
	padded := make(tensor.Shape, ndim)
	interior := make(tensor.Slice, ndim)
	for d, w := range widths {
		padded[d] = src[d] + w.Total()
		interior[d] = tensor.Range{Start: w.Before, Stop: w.Before + src[d], Step: 1}
	}

	out, err := tensor.Zeros[T](padded)
	if err != nil {
		return nil, err
	}
	core, err := out.View(interior)
	if err != nil {
		return nil, err
	}
	if err := core.CopyFrom(a); err != nil {
		return nil, err
	}

	for axis, w := range widths {
		if w.IsZero() {
			continue
		}
		if err := padAxis(out, axis, w, interior, fill); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// padAxis fills the border of one axis for every line running along it.
// Axes before axis span their full padded extent, axes after it only the
// interior, matching NumPy's region of interest.
func padAxis[T tensor.DType](out *tensor.Array[T], axis int, w Width, interior tensor.Slice, fill filler[T]) error {
	roi := make(tensor.Slice, out.Ndim())
	for d := range roi {
		switch {
		case d == axis:
			roi[d] = tensor.Range{Start: 0, Stop: 1, Step: 1}
		case d < axis:
			roi[d] = tensor.Range{Start: 0, Stop: out.Shape()[d], Step: 1}
		default:
			roi[d] = interior[d]
		}
	}

	lines, err := out.View(roi)
	if err != nil {
		return err
	}
	n := out.Shape()[axis] - w.Total()

	var fillErr error
	lines.Each(func(idx []int, _ T) {
		if fillErr != nil {
			return
		}
		start := make([]int, len(idx))
		for d := range idx {
			start[d] = roi[d].Start + idx[d]
		}
		fillErr = fill(line[T]{arr: out, base: start, axis: axis}, axis, w.Before, n, w.After)
	})
	return fillErr
}

// line is a 1-D window of an array along one axis.
type line[T tensor.DType] struct {
	arr  *tensor.Array[T]
	base []int
	axis int
}

func (l line[T]) get(i int) T {
	l.base[l.axis] = i
	return l.arr.At(l.base...)
}

func (l line[T]) set(i int, v T) {
	l.base[l.axis] = i
	l.arr.Set(v, l.base...)
}

// perAxis resolves a NumPy-style broadcast parameter for one axis.
func perAxis[V any](values []V, axis, ndim int, def V) (V, error) {
	switch len(values) {
	case 0:
		return def, nil
	case 1:
		return values[0], nil
	case ndim:
		return values[axis], nil
	default:
		return def, fmt.Errorf("%w: %d per-axis values for %d axes", ErrInvalidParams, len(values), ndim)
	}
}
