// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/blockwise/tensor"
)

// TestArrayAPI verifies the Array alias exposes the expected API.
func TestArrayAPI(t *testing.T) {
	a, err := tensor.Zeros[float32](tensor.Shape{2, 3})
	if err != nil {
		t.Fatalf("Zeros failed: %v", err)
	}

	if !a.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", a.Shape())
	}
	if a.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", a.DType())
	}
	if a.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", a.NumElements())
	}

	a.Set(2.5, 1, 2)
	if got := a.At(1, 2); got != 2.5 {
		t.Errorf("At(1, 2) = %v, want 2.5", got)
	}
}

// TestViewAliasing verifies views share storage through the public API.
func TestViewAliasing(t *testing.T) {
	a := tensor.MustArange[int64](tensor.Shape{4, 4})

	v, err := a.View(tensor.Slice{{Start: 1, Stop: 3, Step: 1}, {Start: 0, Stop: 4, Step: 2}})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if !v.SharesStorage(a) {
		t.Error("view should share storage with its parent")
	}

	v.Set(-7, 1, 1)
	if got := a.At(2, 2); got != -7 {
		t.Errorf("parent At(2, 2) = %d, want -7", got)
	}

	c := v.Contiguous()
	c.Fill(0)
	if got := a.At(2, 2); got != -7 {
		t.Errorf("copy write leaked into parent: At(2, 2) = %d", got)
	}
}

func TestCreation(t *testing.T) {
	a, err := tensor.FromSlice([]uint8{1, 2, 3, 4}, tensor.Shape{2, 2})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if a.At(1, 0) != 3 {
		t.Errorf("At(1, 0) = %d, want 3", a.At(1, 0))
	}

	if _, err := tensor.FromSlice([]uint8{1, 2, 3}, tensor.Shape{2, 2}); err == nil {
		t.Error("expected an error for mismatched data length")
	}

	f, err := tensor.Full(tensor.Shape{3}, true)
	if err != nil {
		t.Fatalf("Full failed: %v", err)
	}
	if f.DType() != tensor.Bool || !f.At(2) {
		t.Errorf("Full(true) = %v", f)
	}

	if got := tensor.Whole(tensor.Shape{2, 5}).String(); got != "[0:2, 0:5]" {
		t.Errorf("Whole = %s, want [0:2, 0:5]", got)
	}
	if tensor.TypeOf[int32]() != tensor.Int32 {
		t.Error("TypeOf[int32] should be Int32")
	}
}
