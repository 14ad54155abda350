// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package imgproc converts images to arrays and provides the image helpers
// used alongside block tiling: false-colour fusion, histogram matching and
// background estimation.
package imgproc

import (
	"image"

	"github.com/born-ml/blockwise/internal/imgproc"
	"github.com/born-ml/blockwise/internal/tensor"
)

// MatchOption configures MatchHist.
type MatchOption = imgproc.MatchOption

// DefaultBins is the histogram resolution used by MatchHist.
const DefaultBins = imgproc.DefaultBins

// Errors.
var (
	ErrInvalidImage    = imgproc.ErrInvalidImage
	ErrChannelMismatch = imgproc.ErrChannelMismatch
	ErrMaskShape       = imgproc.ErrMaskShape
	ErrEmptyMask       = imgproc.ErrEmptyMask
)

// FromImage converts img to an H×W or H×W×3 uint8 array.
func FromImage(img image.Image) *tensor.Array[uint8] { return imgproc.FromImage(img) }

// ToImage converts an H×W, H×W×1 or H×W×3 array to an image.
func ToImage(a *tensor.Array[uint8]) (image.Image, error) { return imgproc.ToImage(a) }

// Load decodes an image file into an array.
func Load(path string) (*tensor.Array[uint8], error) { return imgproc.Load(path) }

// Save encodes a to path in the format named by its extension.
func Save(path string, a *tensor.Array[uint8]) error { return imgproc.Save(path, a) }

// AsFloat64 widens a uint8 array.
func AsFloat64(a *tensor.Array[uint8]) *tensor.Array[float64] { return imgproc.AsFloat64(a) }

// ToUint8 rounds and clamps a float array into [0, 255].
func ToUint8(a *tensor.Array[float64]) *tensor.Array[uint8] { return imgproc.ToUint8(a) }

// Gray converts an RGB image to ITU-R 601 luma.
func Gray(a *tensor.Array[uint8]) (*tensor.Array[uint8], error) { return imgproc.Gray(a) }

// Fuse builds the (b, a, b) false-colour composite of two images.
func Fuse(a, b *tensor.Array[uint8]) (*tensor.Array[uint8], error) { return imgproc.Fuse(a, b) }

// MatchHist matches the histogram of im to ref channel by channel.
func MatchHist(ref, im *tensor.Array[float64], opts ...MatchOption) (*tensor.Array[float64], error) {
	return imgproc.MatchHist(ref, im, opts...)
}

// WithRefMask restricts the reference histogram to pixels where mask is true.
func WithRefMask(mask *tensor.Array[bool]) MatchOption { return imgproc.WithRefMask(mask) }

// WithMask restricts matching to pixels of the input where mask is true.
func WithMask(mask *tensor.Array[bool]) MatchOption { return imgproc.WithMask(mask) }

// WithBins sets the number of histogram bins.
func WithBins(n int) MatchOption { return imgproc.WithBins(n) }

// TypicalBorderIntensity returns the most frequent border value per channel.
func TypicalBorderIntensity(im *tensor.Array[float64]) ([]float64, error) {
	return imgproc.TypicalBorderIntensity(im)
}

// Extent returns the real-world (x0, x1, y0, y1) extent of an image.
func Extent(origin, spacing [2]float64, size [2]int) ([4]float64, error) {
	return imgproc.Extent(origin, spacing, size)
}
