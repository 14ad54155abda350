package blocks

import (
	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/tensor"
)

// PartitionAxis divides an axis of the given length into n contiguous cells.
//
// Cell sizes differ by at most one: the first length%n cells hold
// length/n+1 elements, the rest length/n.
//
// Example:
//
//	PartitionAxis(10, 4) // [0:3] [3:6] [6:8] [8:10]
func PartitionAxis(length, n int) ([]tensor.Range, error) {
	if n < 1 || n > length {
		return nil, paramErr(ErrConfiguration, "nblocks", -1,
			"cannot divide an axis of length %d into %d blocks", length, n)
	}

	base, rem := length/n, length%n
	cells := make([]tensor.Range, n)
	start := 0
	for i := range cells {
		size := base
		if i < rem {
			size++
		}
		cells[i] = tensor.Range{Start: start, Stop: start + size, Step: 1}
		start += size
	}
	return cells, nil
}

// Partition applies PartitionAxis to every axis of shape independently.
func Partition(shape tensor.Shape, nblocks []int) ([][]tensor.Range, error) {
	if len(nblocks) != len(shape) {
		return nil, paramErr(ErrShapeMismatch, "nblocks", -1,
			"%d block counts for a %d-dimensional array", len(nblocks), len(shape))
	}
	cells := make([][]tensor.Range, len(shape))
	for d := range shape {
		axisCells, err := PartitionAxis(shape[d], nblocks[d])
		if err != nil {
			return nil, err
		}
		cells[d] = axisCells
	}
	return cells, nil
}

// BlockPlan enumerates one slice descriptor per block, last axis fastest,
// together with each block's per-axis cell coordinates.
//
// Descriptors address the padded array: a cell [start, stop) becomes the
// window [start, stop+total) where total is the axis' Before+After, so
// adjacent windows overlap by exactly the pad amount.
func BlockPlan(cells [][]tensor.Range, widths []pad.Width) ([]tensor.Slice, [][]int) {
	counts := make(tensor.Shape, len(cells))
	for d := range cells {
		counts[d] = len(cells[d])
	}

	plan := make([]tensor.Slice, 0, counts.NumElements())
	coords := make([][]int, 0, counts.NumElements())
	idx := make([]int, len(cells))
	for ok := true; ok; ok = counts.Next(idx) {
		s := make(tensor.Slice, len(cells))
		for d, i := range idx {
			cell := cells[d][i]
			s[d] = tensor.Range{Start: cell.Start, Stop: cell.Stop + widths[d].Total(), Step: 1}
		}
		plan = append(plan, s)
		coords = append(coords, append([]int(nil), idx...))
	}
	return plan, coords
}
