package imgproc

import (
	"fmt"
	"math"

	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/tensor"
)

// Fuse builds a false-colour composite of two images for judging how well
// they overlap. Colour inputs are converted to grayscale first, both are
// zero-padded at the bottom and right to the larger size, and the output
// is H×W×3 with channels (b, a, b): agreeing regions appear gray, a-only
// regions green and b-only regions magenta.
func Fuse(a, b *tensor.Array[uint8]) (*tensor.Array[uint8], error) {
	ga, err := Gray(a)
	if err != nil {
		return nil, fmt.Errorf("fuse first image: %w", err)
	}
	gb, err := Gray(b)
	if err != nil {
		return nil, fmt.Errorf("fuse second image: %w", err)
	}

	h := max(ga.Shape()[0], gb.Shape()[0])
	w := max(ga.Shape()[1], gb.Shape()[1])
	if ga, err = padTo(ga, h, w); err != nil {
		return nil, err
	}
	if gb, err = padTo(gb, h, w); err != nil {
		return nil, err
	}

	out, err := tensor.Zeros[uint8](tensor.Shape{h, w, 3})
	if err != nil {
		return nil, err
	}
	for c, src := range []*tensor.Array[uint8]{gb, ga, gb} {
		plane, err := out.View(tensor.Slice{{0, h, 1}, {0, w, 1}, {c, c + 1, 1}})
		if err != nil {
			return nil, err
		}
		stacked, err := tensor.FromSlice(src.Data(), tensor.Shape{h, w, 1})
		if err != nil {
			return nil, err
		}
		if err := plane.CopyFrom(stacked); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Gray converts an RGB image to luma with the ITU-R 601 weights.
// Single-channel inputs are returned as H×W arrays unchanged.
func Gray(a *tensor.Array[uint8]) (*tensor.Array[uint8], error) {
	shape := a.Shape()
	channels, err := channelCount(shape)
	if err != nil {
		return nil, err
	}
	h, w := shape[0], shape[1]
	src := a.Data()

	switch channels {
	case 1:
		return mustFromSlice(src, tensor.Shape{h, w}), nil
	case 3, 4:
		data := make([]uint8, h*w)
		for i := range data {
			p := src[i*channels:]
			y := 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
			data[i] = uint8(math.Min(255, math.Round(y)))
		}
		return mustFromSlice(data, tensor.Shape{h, w}), nil
	default:
		return nil, fmt.Errorf("%w: cannot convert %d channels to gray", ErrInvalidImage, channels)
	}
}

func padTo(a *tensor.Array[uint8], h, w int) (*tensor.Array[uint8], error) {
	shape := a.Shape()
	if shape[0] == h && shape[1] == w {
		return a, nil
	}
	widths := []pad.Width{{Before: 0, After: h - shape[0]}, {Before: 0, After: w - shape[1]}}
	return pad.Pad(a, widths, pad.Constant, pad.ConstantValue(0))
}
