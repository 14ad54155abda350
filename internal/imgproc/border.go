package imgproc

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/blockwise/internal/tensor"
)

// TypicalBorderIntensity estimates the background intensity of each channel
// as the most frequent value among the pixels on the image border (first
// and last row, first and last column).
func TypicalBorderIntensity(im *tensor.Array[float64]) ([]float64, error) {
	shape := im.Shape()
	channels, err := channelCount(shape)
	if err != nil {
		return nil, err
	}
	rows, cols := shape[0], shape[1]
	data := im.Data()

	border := borderPixels(rows, cols)
	typical := make([]float64, channels)
	values := make([]float64, len(border))
	for c := range typical {
		for i, p := range border {
			values[i] = data[p*channels+c]
		}
		typical[c], _ = stat.Mode(values, nil)
	}
	return typical, nil
}

// borderPixels lists each border pixel of a rows×cols image once, as flat
// row-major indices.
func borderPixels(rows, cols int) []int {
	if rows <= 2 || cols <= 2 {
		all := make([]int, rows*cols)
		for i := range all {
			all[i] = i
		}
		return all
	}
	pixels := make([]int, 0, 2*cols+2*(rows-2))
	for c := 0; c < cols; c++ {
		pixels = append(pixels, c, (rows-1)*cols+c)
	}
	for r := 1; r < rows-1; r++ {
		pixels = append(pixels, r*cols, r*cols+cols-1)
	}
	return pixels
}

// Extent returns the real-world extent (x0, x1, y0, y1) of an image with
// the given origin, pixel spacing and size (width, height), measured
// between the centres of the first and last pixels.
func Extent(origin, spacing [2]float64, size [2]int) ([4]float64, error) {
	if size[0] < 1 || size[1] < 1 {
		return [4]float64{}, fmt.Errorf("%w: size %v", ErrInvalidImage, size)
	}
	return [4]float64{
		origin[0], origin[0] + float64(size[0]-1)*spacing[0],
		origin[1], origin[1] + float64(size[1]-1)*spacing[1],
	}, nil
}
