// Package imgproc holds the image helpers that sit around block tiling:
// conversion between image.Image and arrays, false-colour fusion,
// histogram matching and border statistics.
package imgproc

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/born-ml/blockwise/internal/tensor"
)

// Common errors.
var (
	ErrInvalidImage    = errors.New("invalid image array")
	ErrChannelMismatch = errors.New("images have different channel counts")
	ErrMaskShape       = errors.New("mask does not match image")
	ErrEmptyMask       = errors.New("mask selects no pixels")
)

// FromImage converts img to a uint8 array. Grayscale images become H×W,
// everything else H×W×3 RGB with alpha discarded.
func FromImage(img image.Image) *tensor.Array[uint8] {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		data := make([]uint8, 0, h*w)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				data = append(data, color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			}
		}
		return mustFromSlice(data, tensor.Shape{h, w})
	}

	nrgba := imaging.Clone(img)
	data := make([]uint8, 0, h*w*3)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			data = append(data, row[4*x], row[4*x+1], row[4*x+2])
		}
	}
	return mustFromSlice(data, tensor.Shape{h, w, 3})
}

// ToImage converts an H×W, H×W×1 or H×W×3 array to an image.
func ToImage(a *tensor.Array[uint8]) (image.Image, error) {
	shape := a.Shape()
	channels, err := channelCount(shape)
	if err != nil {
		return nil, err
	}
	h, w := shape[0], shape[1]
	data := a.Data()

	switch channels {
	case 1:
		img := image.NewGray(image.Rect(0, 0, w, h))
		copy(img.Pix, data)
		return img, nil
	case 3:
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for i := 0; i < h*w; i++ {
			img.Pix[4*i] = data[3*i]
			img.Pix[4*i+1] = data[3*i+1]
			img.Pix[4*i+2] = data[3*i+2]
			img.Pix[4*i+3] = 0xff
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %d channels, expected 1 or 3", ErrInvalidImage, channels)
	}
}

// Load decodes an image file into an array.
func Load(path string) (*tensor.Array[uint8], error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return FromImage(img), nil
}

// Save encodes a to path. The format follows the file extension.
func Save(path string, a *tensor.Array[uint8]) error {
	img, err := ToImage(a)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// AsFloat64 widens a uint8 array for the float-valued operations.
func AsFloat64(a *tensor.Array[uint8]) *tensor.Array[float64] {
	src := a.Data()
	data := make([]float64, len(src))
	for i, v := range src {
		data[i] = float64(v)
	}
	return mustFromSlice(data, a.Shape())
}

// ToUint8 rounds and clamps a float array into [0, 255].
func ToUint8(a *tensor.Array[float64]) *tensor.Array[uint8] {
	src := a.Data()
	data := make([]uint8, len(src))
	for i, v := range src {
		data[i] = uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	return mustFromSlice(data, a.Shape())
}

// channelCount returns 1 for H×W arrays and C for H×W×C arrays.
func channelCount(shape tensor.Shape) (int, error) {
	switch len(shape) {
	case 2:
		return 1, nil
	case 3:
		return shape[2], nil
	default:
		return 0, fmt.Errorf("%w: shape %v, expected rows×cols or rows×cols×channels", ErrInvalidImage, shape)
	}
}

func mustFromSlice[T tensor.DType](data []T, shape tensor.Shape) *tensor.Array[T] {
	a, err := tensor.FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return a
}
