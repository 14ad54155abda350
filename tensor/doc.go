// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the N-dimensional arrays that blockwise splits
// and stacks.
//
// # Overview
//
// An Array[T] is a dense row-major array with explicit strides and an
// offset into its storage. This package provides:
//   - Generic type-safe arrays (Array[T]) over float32, float64, int32,
//     int64, uint8 and bool
//   - Strided views that alias their parent's storage
//   - Slice descriptors (Slice, Range) naming rectangular regions
//
// # Basic Usage
//
//	import "github.com/born-ml/blockwise/tensor"
//
//	func main() {
//	    a := tensor.MustArange[float32](tensor.Shape{4, 6})
//
//	    // A view shares storage with a.
//	    v, err := a.View(tensor.Slice{{Start: 0, Stop: 2, Step: 1}, {Start: 2, Stop: 6, Step: 2}})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    v.Set(-1, 0, 0) // a.At(0, 2) is now -1
//
//	    // Contiguous copies do not.
//	    c := v.Contiguous()
//	    c.Fill(0)
//	}
//
// # Views and Copies
//
// View never copies; writes through a view are visible in the parent and
// in every other view of the same region. Contiguous, Clone and Data (for
// non-contiguous arrays) return independent storage. Views are not safe
// for concurrent writes when their regions overlap.
package tensor
