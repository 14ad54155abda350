package blocks

import (
	"fmt"
	"time"

	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/parallel"
	"github.com/born-ml/blockwise/internal/tensor"
)

// Block is one extracted sub-array.
type Block[T tensor.DType] struct {
	Data      *tensor.Array[T] // Block contents
	Slice     tensor.Slice     // Region of the working array the block came from
	Index     int              // Position in the block plan
	Coords    []int            // Per-axis cell index
	Ownership Mode             // View if Data aliases the working array
}

// Result is the outcome of Split.
type Result[T tensor.DType] struct {
	// Plan holds one descriptor per block, last axis fastest.
	Plan []tensor.Slice
	// Blocks holds the extracted blocks, in Plan order.
	Blocks []*Block[T]
	// Working is the padded array the descriptors refer to. Without padding
	// it is the source array itself.
	Working *tensor.Array[T]
	// NBlocks and PadWidth are the normalized per-axis parameters.
	NBlocks  []int
	PadWidth []pad.Width
}

// Arrays returns the block contents in Plan order.
func (r *Result[T]) Arrays() []*tensor.Array[T] {
	arrays := make([]*tensor.Array[T], len(r.Blocks))
	for i, b := range r.Blocks {
		arrays[i] = b.Data
	}
	return arrays
}

// Split partitions a into blocks.
//
// nblocks gives the number of blocks per axis. Options select the extraction
// mode (WithMode), the overlapping border (WithPadWidth) and how the border
// is filled (WithPolicy). All parameters are validated before any data is
// read, so on error nothing is returned.
//
// Example:
//
//	res, err := blocks.Split(a, blocks.PerAxis(1, 4),
//	    blocks.WithPadWidth(blocks.PadPair(2, 3)),
//	    blocks.WithPolicy(pad.Constant, pad.ConstantValue(0)))
func Split[T tensor.DType](a *tensor.Array[T], nblocks NBlocks, opts ...Option) (*Result[T], error) {
	o := newOptions(opts)
	started := time.Now()

	counts, widths, err := Normalize(a.Shape(), nblocks, o.pad, o.mode)
	if err != nil {
		return nil, err
	}
	cells, err := Partition(a.Shape(), counts)
	if err != nil {
		return nil, err
	}
	plan, coords := BlockPlan(cells, widths)

	working, err := padWorking(a, widths, o.policy, o.params)
	if err != nil {
		return nil, err
	}

	if o.mode == View && anyPadding(widths) {
		return nil, paramErr(ErrConfiguration, "mode", -1, "view mode requires zero padding")
	}

	o.logger.Debug("split planned",
		"shape", a.Shape(), "working", working.Shape(), "nblocks", counts,
		"pad_width", widths, "mode", o.mode.String(), "blocks", len(plan))

	blocks, err := extract(working, plan, coords, o.mode, o.parallel)
	if err != nil {
		return nil, err
	}

	if o.mode == Copy {
		copied := 0
		for _, b := range blocks {
			copied += b.Data.NumElements()
		}
		o.metrics.AddElementsCopied("split", copied)
	}
	o.metrics.RecordSplit(o.mode.String(), len(blocks), time.Since(started).Seconds())

	return &Result[T]{
		Plan:     plan,
		Blocks:   blocks,
		Working:  working,
		NBlocks:  counts,
		PadWidth: widths,
	}, nil
}

// padWorking returns a surrounded by the requested border. Without padding
// it returns a itself.
func padWorking[T tensor.DType](a *tensor.Array[T], widths []pad.Width, policy pad.Policy, params pad.Params) (*tensor.Array[T], error) {
	if !anyPadding(widths) {
		return a, nil
	}
	working, err := pad.Pad(a, widths, policy, params)
	if err != nil {
		return nil, fmt.Errorf("pad %s with policy %q: %w", a.Shape(), policy, err)
	}
	return working, nil
}

// extract materializes one block per descriptor.
func extract[T tensor.DType](working *tensor.Array[T], plan []tensor.Slice, coords [][]int, mode Mode, cfg parallel.Config) ([]*Block[T], error) {
	blocks := make([]*Block[T], len(plan))
	errs := make([]error, len(plan))

	parallel.For(len(plan), func(i int) {
		view, err := working.View(plan[i])
		if err != nil {
			errs[i] = fmt.Errorf("block %d %s: %w", i, plan[i], err)
			return
		}
		data := view
		if mode == Copy {
			data = view.Contiguous()
		}
		blocks[i] = &Block[T]{
			Data:      data,
			Slice:     plan[i],
			Index:     i,
			Coords:    coords[i],
			Ownership: mode,
		}
	}, cfg)

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return blocks, nil
}
