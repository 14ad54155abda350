// Package blocks partitions N-dimensional arrays into rectangular blocks and
// reassembles them.
//
// # Overview
//
// Split divides every axis of an array into a requested number of contiguous
// cells, front-loading any remainder, and extracts one block per element of
// the Cartesian product of cells (last axis fastest). Blocks can carry an
// overlapping border: the array is first padded with a fill policy from
// package pad, and each block window is extended by the total pad amount of
// its axis, so neighbouring blocks overlap by exactly that amount.
//
// Stack is the exact inverse. Given the blocks, the slice descriptors Split
// returned and the same pad width, it strips the border of every block and
// writes the cores into a freshly allocated array.
//
//	a, _ := tensor.Arange[int64](tensor.Shape{5, 10})
//	res, err := blocks.Split(a, blocks.PerAxis(2, 3))
//	// len(res.Blocks) == 6, shapes 3x4 3x3 3x3 2x4 2x3 2x3
//	b, _, err := blocks.Stack(res.Arrays(), res.Plan)
//	// b.Equal(a)
//
// # Ownership
//
// In View mode blocks alias the working array: writes to a block are visible
// in the source and in the reassembled output. View mode requires zero
// padding. In Copy mode every block owns its storage.
//
// # Concurrency
//
// Split and Stack are synchronous. Copy-mode extraction and assembly fan out
// across blocks through package parallel; assembly only does so once the
// blocks are known to write disjoint regions. Callers processing View-mode
// blocks concurrently must not write overlapping regions from two goroutines.
package blocks
