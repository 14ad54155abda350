// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pad pads arrays with NumPy-compatible fill policies.
//
// Example:
//
//	padded, err := pad.Pad(a, []pad.Width{{Before: 1, After: 2}, {Before: 0, After: 3}},
//	    pad.Reflect, pad.Params{})
package pad

import (
	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/tensor"
)

// Width is the number of elements added before and after one axis.
type Width = pad.Width

// Policy names how the padded border is filled.
type Policy = pad.Policy

// Params carries policy-specific arguments.
type Params = pad.Params

// ReflectType selects the symmetry used by Reflect and Symmetric.
type ReflectType = pad.ReflectType

// Supported policies.
const (
	Constant   = pad.Constant
	Edge       = pad.Edge
	LinearRamp = pad.LinearRamp
	Maximum    = pad.Maximum
	Minimum    = pad.Minimum
	Mean       = pad.Mean
	Median     = pad.Median
	Reflect    = pad.Reflect
	Symmetric  = pad.Symmetric
	Wrap       = pad.Wrap
	Empty      = pad.Empty
)

// Reflection symmetries.
const (
	Even = pad.Even
	Odd  = pad.Odd
)

// Errors returned by Pad.
var (
	ErrUnknownPolicy = pad.ErrUnknownPolicy
	ErrInvalidParams = pad.ErrInvalidParams
)

// Pad returns a new array with the given border around a.
func Pad[T tensor.DType](a *tensor.Array[T], widths []Width, policy Policy, params Params) (*tensor.Array[T], error) {
	return pad.Pad(a, widths, policy, params)
}

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	return pad.ParsePolicy(name)
}

// Policies lists every supported policy.
func Policies() []Policy {
	return pad.Policies()
}

// ConstantValue returns Params filling every border with v.
func ConstantValue(v float64) Params {
	return pad.ConstantValue(v)
}

// EndValue returns Params ramping every border to v.
func EndValue(v float64) Params {
	return pad.EndValue(v)
}

// StatLengthAll returns Params computing statistics over n elements on every side.
func StatLengthAll(n int) Params {
	return pad.StatLengthAll(n)
}
