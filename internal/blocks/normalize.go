package blocks

import (
	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/tensor"
)

// Normalize canonicalizes the block counts and pad widths for an array of
// the given shape into one explicit entry per axis.
//
// View mode combined with any non-zero pad amount is rejected first, since
// it is invalid whatever the other parameters are. Per-axis sequences whose
// length differs from the array rank fail with ErrShapeMismatch; block
// counts outside [1, shape[d]] and negative pad amounts fail with
// ErrConfiguration.
func Normalize(shape tensor.Shape, nblocks NBlocks, padWidth PadWidth, mode Mode) ([]int, []pad.Width, error) {
	if mode == View {
		for _, w := range padWidth.widths {
			if !w.IsZero() {
				return nil, nil, paramErr(ErrConfiguration, "mode", -1,
					"view mode requires zero padding, got pad width %s", padWidth)
			}
		}
	}

	counts, err := normalizeNBlocks(shape, nblocks)
	if err != nil {
		return nil, nil, err
	}
	widths, err := normalizePad(len(shape), padWidth)
	if err != nil {
		return nil, nil, err
	}
	return counts, widths, nil
}

func normalizeNBlocks(shape tensor.Shape, nblocks NBlocks) ([]int, error) {
	ndim := len(shape)
	counts := make([]int, ndim)
	switch {
	case nblocks.uniform:
		for d := range counts {
			counts[d] = nblocks.counts[0]
		}
	case len(nblocks.counts) != ndim:
		return nil, paramErr(ErrShapeMismatch, "nblocks", -1,
			"%d block counts for a %d-dimensional array", len(nblocks.counts), ndim)
	default:
		copy(counts, nblocks.counts)
	}

	for d, n := range counts {
		if n < 1 || n > shape[d] {
			return nil, paramErr(ErrConfiguration, "nblocks", d,
				"%d blocks requested, must be between 1 and the axis length %d", n, shape[d])
		}
	}
	return counts, nil
}

func normalizePad(ndim int, padWidth PadWidth) ([]pad.Width, error) {
	widths := make([]pad.Width, ndim)
	switch padWidth.kind {
	case padNone:
	case padAll, padPair:
		for d := range widths {
			widths[d] = padWidth.widths[0]
		}
	case padPerAxis:
		if len(padWidth.widths) != ndim {
			return nil, paramErr(ErrShapeMismatch, "pad_width", -1,
				"%d pad widths for a %d-dimensional array", len(padWidth.widths), ndim)
		}
		copy(widths, padWidth.widths)
	}

	for d, w := range widths {
		if w.Before < 0 || w.After < 0 {
			return nil, paramErr(ErrConfiguration, "pad_width", d,
				"pad amounts must be non-negative, got (%d, %d)", w.Before, w.After)
		}
	}
	return widths, nil
}

func anyPadding(widths []pad.Width) bool {
	for _, w := range widths {
		if !w.IsZero() {
			return true
		}
	}
	return false
}
