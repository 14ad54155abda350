package imgproc

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/blockwise/internal/tensor"
)

func fromSlice[T tensor.DType](t *testing.T, data []T, shape ...int) *tensor.Array[T] {
	t.Helper()
	a, err := tensor.FromSlice(data, tensor.Shape(shape))
	require.NoError(t, err)
	return a
}

func TestGray(t *testing.T) {
	rgb := fromSlice(t, []uint8{255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 255}, 2, 2, 3)
	g, err := Gray(rgb)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, g.Shape())
	assert.Equal(t, []uint8{76, 150, 29, 255}, g.Data())

	_, err = Gray(fromSlice(t, make([]uint8, 8), 2, 2, 2))
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = Gray(fromSlice(t, make([]uint8, 8), 8))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestFuse(t *testing.T) {
	a := fromSlice(t, []uint8{1, 2, 3, 4, 5, 6}, 2, 3)
	b := fromSlice(t, []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
		0, 0, 0, 10, 10, 10,
	}, 3, 2, 3)

	f, err := Fuse(a, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 3, 3}, f.Shape())

	wantA := []uint8{1, 2, 3, 4, 5, 6, 0, 0, 0}
	wantB := []uint8{76, 150, 0, 29, 255, 0, 0, 10, 0}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			i := r*3 + c
			assert.Equal(t, wantB[i], f.At(r, c, 0), "red at %d,%d", r, c)
			assert.Equal(t, wantA[i], f.At(r, c, 1), "green at %d,%d", r, c)
			assert.Equal(t, wantB[i], f.At(r, c, 2), "blue at %d,%d", r, c)
		}
	}
}

func TestImageConversion(t *testing.T) {
	rgb := fromSlice(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, 2, 2, 3)
	img, err := ToImage(rgb)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.True(t, FromImage(img).Equal(rgb))

	gray := fromSlice(t, []uint8{0, 64, 128, 255, 1, 2}, 2, 3)
	img, err = ToImage(gray)
	require.NoError(t, err)
	assert.Equal(t, color.GrayModel, img.ColorModel())
	assert.True(t, FromImage(img).Equal(gray))

	_, err = ToImage(fromSlice(t, make([]uint8, 8), 2, 2, 2))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	rgb := tensor.MustArange[uint8](tensor.Shape{4, 5, 3})

	path := filepath.Join(dir, "tile.png")
	require.NoError(t, Save(path, rgb))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(rgb))

	_, err = Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestFloatConversion(t *testing.T) {
	a := fromSlice(t, []float64{-3, 0.4, 0.6, 254.5, 300}, 5)
	assert.Equal(t, []uint8{0, 0, 1, 255, 255}, ToUint8(a).Data())

	u := fromSlice(t, []uint8{0, 7, 255}, 3)
	assert.Equal(t, []float64{0, 7, 255}, AsFloat64(u).Data())
}

func TestMatchHistLinear(t *testing.T) {
	im := tensor.MustArange[float64](tensor.Shape{10, 10})
	refData := make([]float64, 100)
	for i := range refData {
		refData[i] = 2*float64(i) + 10
	}
	ref := fromSlice(t, refData, 10, 10)

	out, err := MatchHist(ref, im, WithBins(100))
	require.NoError(t, err)
	for i, v := range out.Data() {
		assert.InDelta(t, 2*float64(i)+10, v, 2.5, "pixel %d", i)
	}
	assert.True(t, im.Equal(tensor.MustArange[float64](tensor.Shape{10, 10})), "input must not change")
}

func TestMatchHistMasked(t *testing.T) {
	im := tensor.MustArange[float64](tensor.Shape{4, 4, 2})
	ref, err := tensor.Full(tensor.Shape{4, 4, 2}, 100.0)
	require.NoError(t, err)

	maskData := make([]bool, 16)
	maskData[0], maskData[5], maskData[10] = true, true, true
	mask := fromSlice(t, maskData, 4, 4)

	out, err := MatchHist(ref, im, WithMask(mask))
	require.NoError(t, err)
	for p := 0; p < 16; p++ {
		for c := 0; c < 2; c++ {
			v := out.At(p/4, p%4, c)
			if maskData[p] {
				assert.InDelta(t, 100, v, 0.5, "masked pixel %d channel %d", p, c)
			} else {
				assert.Equal(t, im.At(p/4, p%4, c), v, "unmasked pixel %d channel %d", p, c)
			}
		}
	}
}

func TestMatchHistRefMask(t *testing.T) {
	im := tensor.MustArange[float64](tensor.Shape{3, 3})
	ref := fromSlice(t, []float64{50, 50, 50, 50, 0, 0, 0, 0, 0}, 3, 3)
	refMask := fromSlice(t, []bool{true, true, true, true, false, false, false, false, false}, 3, 3)

	out, err := MatchHist(ref, im, WithRefMask(refMask), WithBins(4))
	require.NoError(t, err)
	for _, v := range out.Data() {
		assert.InDelta(t, 50, v, 0.5)
	}
}

func TestMatchHistErrors(t *testing.T) {
	gray := tensor.MustArange[float64](tensor.Shape{3, 3})
	rgb := tensor.MustArange[float64](tensor.Shape{3, 3, 3})

	_, err := MatchHist(gray, rgb)
	assert.ErrorIs(t, err, ErrChannelMismatch)

	_, err = MatchHist(gray, gray, WithMask(fromSlice(t, make([]bool, 6), 2, 3)))
	assert.ErrorIs(t, err, ErrMaskShape)

	_, err = MatchHist(gray, gray, WithRefMask(fromSlice(t, make([]bool, 9), 3, 3, 1)))
	assert.ErrorIs(t, err, ErrMaskShape)

	_, err = MatchHist(gray, gray, WithMask(fromSlice(t, make([]bool, 9), 3, 3)))
	assert.ErrorIs(t, err, ErrEmptyMask)

	_, err = MatchHist(gray, gray, WithBins(0))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = MatchHist(gray, tensor.MustArange[float64](tensor.Shape{9}))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestInterp(t *testing.T) {
	xp := []float64{0, 1, 1, 3}
	fp := []float64{0, 10, 20, 40}

	assert.Equal(t, 0.0, interp(-1, xp, fp))
	assert.Equal(t, 5.0, interp(0.5, xp, fp))
	assert.Equal(t, 30.0, interp(2, xp, fp))
	assert.Equal(t, 40.0, interp(7, xp, fp))
}

func TestTypicalBorderIntensity(t *testing.T) {
	rows, cols := 5, 6
	data := make([]float64, rows*cols*3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for ch := 0; ch < 3; ch++ {
				v := 241.0
				if r > 0 && r < rows-1 && c > 0 && c < cols-1 {
					v = 12
				}
				data[(r*cols+c)*3+ch] = v
			}
		}
	}
	data[0] = 3 // a single stray border pixel in channel 0
	im := fromSlice(t, data, rows, cols, 3)

	typical, err := TypicalBorderIntensity(im)
	require.NoError(t, err)
	assert.Equal(t, []float64{241, 241, 241}, typical)

	gray := fromSlice(t, []float64{
		7, 7, 7,
		7, 1, 9,
		7, 8, 7,
	}, 3, 3)
	typical, err = TypicalBorderIntensity(gray)
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, typical)

	_, err = TypicalBorderIntensity(tensor.MustArange[float64](tensor.Shape{4}))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestBorderPixels(t *testing.T) {
	pixels := borderPixels(4, 5)
	assert.Len(t, pixels, 14)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 9, 10, 14, 15, 16, 17, 18, 19}, pixels)
	assert.Len(t, borderPixels(2, 7), 14)
}

func TestExtent(t *testing.T) {
	ext, err := Extent([2]float64{10, 5}, [2]float64{14e-6, 14e-6}, [2]int{100, 50})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 10 + 99*14e-6, 5, 5 + 49*14e-6}, ext[:], 1e-12)

	_, err = Extent([2]float64{}, [2]float64{1, 1}, [2]int{0, 4})
	assert.ErrorIs(t, err, ErrInvalidImage)
}
