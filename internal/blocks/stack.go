package blocks

import (
	"fmt"
	"time"

	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/parallel"
	"github.com/born-ml/blockwise/internal/tensor"
)

// Stack reassembles blocks produced by Split.
//
// plan holds the descriptors Split returned, in the padded coordinate space,
// and WithPadWidth must repeat the pad width used at split time. Blocks may
// be supplied in any order as long as blocks[i] matches plan[i].
//
// The output shape along axis d is the largest max(start+1, stop) over all
// descriptors minus the axis' total pad. Each block loses Before elements at
// the start and After elements at the end of every axis and is written at
// its unpadded position; the unpadded descriptors are returned alongside.
//
// Unless WithPermissiveCoverage is given, the unpadded regions must cover
// the output exactly once, otherwise ErrIncompleteCoverage is returned.
func Stack[T tensor.DType](blocks []*tensor.Array[T], plan []tensor.Slice, opts ...Option) (*tensor.Array[T], []tensor.Slice, error) {
	o := newOptions(opts)
	started := time.Now()

	if len(blocks) != len(plan) {
		return nil, nil, paramErr(ErrCountMismatch, "blocks", -1,
			"%d blocks but %d slice descriptors", len(blocks), len(plan))
	}
	if len(blocks) == 0 {
		return nil, nil, paramErr(ErrConfiguration, "blocks", -1, "no blocks to stack")
	}

	ndim := len(plan[0])
	widths, err := normalizePad(ndim, o.pad)
	if err != nil {
		return nil, nil, err
	}

	shape, unpadded, err := assemblyPlan(blocks, plan, widths)
	if err != nil {
		return nil, nil, err
	}
	if o.shape != nil && !o.shape.Equal(shape) {
		return nil, nil, paramErr(ErrShapeMismatch, "shape", -1,
			"blocks assemble to %v, expected %v", shape, o.shape)
	}

	disjoint := false
	if !o.permissive {
		if err := checkCoverage(shape, unpadded); err != nil {
			return nil, nil, err
		}
		disjoint = true
	}

	out, err := tensor.Zeros[T](shape)
	if err != nil {
		return nil, nil, err
	}

	trim := make([]tensor.Slice, len(blocks))
	for i, b := range blocks {
		trim[i] = coreSlice(b.Shape(), widths)
	}

	cfg := o.parallel
	if !disjoint {
		// Overlapping writes must land in plan order.
		cfg = parallel.Sequential()
	}
	errs := make([]error, len(blocks))
	parallel.For(len(blocks), func(i int) {
		errs[i] = writeBlock(out, blocks[i], trim[i], unpadded[i])
	}, cfg)
	for i, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
	}

	o.logger.Debug("stack assembled", "shape", shape, "blocks", len(blocks), "pad_width", widths)
	o.metrics.AddElementsCopied("stack", shape.NumElements())
	o.metrics.RecordStack(len(blocks), time.Since(started).Seconds())

	return out, unpadded, nil
}

// StackBlocks reassembles the blocks of a Split result.
func StackBlocks[T tensor.DType](blocks []*Block[T], opts ...Option) (*tensor.Array[T], []tensor.Slice, error) {
	arrays := make([]*tensor.Array[T], len(blocks))
	plan := make([]tensor.Slice, len(blocks))
	for i, b := range blocks {
		arrays[i] = b.Data
		plan[i] = b.Slice
	}
	return Stack(arrays, plan, opts...)
}

// assemblyPlan validates every block against its descriptor and derives the
// output shape and the unpadded descriptors.
func assemblyPlan[T tensor.DType](blocks []*tensor.Array[T], plan []tensor.Slice, widths []pad.Width) (tensor.Shape, []tensor.Slice, error) {
	ndim := len(widths)
	extent := make([]int, ndim)
	unpadded := make([]tensor.Slice, len(plan))

	for i, s := range plan {
		if len(s) != ndim || blocks[i].Ndim() != ndim {
			return nil, nil, paramErr(ErrShapeMismatch, "blocks", -1,
				"block %d has %d dimensions and descriptor %s, expected %d", i, blocks[i].Ndim(), s, ndim)
		}
		if !blocks[i].Shape().Equal(s.Shape()) {
			return nil, nil, paramErr(ErrShapeMismatch, "blocks", -1,
				"block %d has shape %v but descriptor %s spans %v", i, blocks[i].Shape(), s, s.Shape())
		}

		u := make(tensor.Slice, ndim)
		for d, r := range s {
			if r.Step != 1 || r.Start < 0 || r.Stop <= r.Start {
				return nil, nil, paramErr(ErrConfiguration, "blocks", d,
					"descriptor %d has range %s, expected a unit-step non-empty range", i, r)
			}
			if r.Stop-r.Start <= widths[d].Total() {
				return nil, nil, paramErr(ErrShapeMismatch, "blocks", d,
					"block %d spans %d elements, not more than the pad total %d", i, r.Stop-r.Start, widths[d].Total())
			}
			extent[d] = max(extent[d], r.Start+1, r.Stop)
			u[d] = tensor.Range{Start: r.Start, Stop: r.Stop - widths[d].Total(), Step: 1}
		}
		unpadded[i] = u
	}

	shape := make(tensor.Shape, ndim)
	for d := range shape {
		shape[d] = extent[d] - widths[d].Total()
	}
	if err := shape.Validate(); err != nil {
		return nil, nil, paramErr(ErrConfiguration, "pad_width", -1, "output shape %v: %v", shape, err)
	}
	return shape, unpadded, nil
}

// coreSlice strips the border from a block of the given shape.
func coreSlice(shape tensor.Shape, widths []pad.Width) tensor.Slice {
	s := make(tensor.Slice, len(shape))
	for d, n := range shape {
		s[d] = tensor.Range{Start: widths[d].Before, Stop: n - widths[d].After, Step: 1}
	}
	return s
}

// checkCoverage marks every output cell each unpadded region writes and
// fails on a cell written twice or never.
func checkCoverage(shape tensor.Shape, regions []tensor.Slice) error {
	written := make([]bool, shape.NumElements())
	covered := 0
	pos := make([]int, len(shape))

	for i, region := range regions {
		extent := region.Shape()
		idx := make([]int, len(extent))
		for ok := true; ok; ok = extent.Next(idx) {
			for d := range idx {
				pos[d] = region[d].Start + idx[d]
			}
			flat := shape.Ravel(pos)
			if written[flat] {
				return paramErr(ErrIncompleteCoverage, "blocks", -1,
					"block %d %s overlaps an earlier block at %v", i, region, pos)
			}
			written[flat] = true
			covered++
		}
	}

	if missing := len(written) - covered; missing > 0 {
		return paramErr(ErrIncompleteCoverage, "blocks", -1,
			"%d of %d output cells are not covered by any block", missing, len(written))
	}
	return nil
}

func writeBlock[T tensor.DType](out, block *tensor.Array[T], trim, dst tensor.Slice) error {
	core, err := block.View(trim)
	if err != nil {
		return err
	}
	region, err := out.View(dst)
	if err != nil {
		return err
	}
	return region.CopyFrom(core)
}
