package imgproc

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/blockwise/internal/tensor"
)

// DefaultBins is the histogram resolution used by MatchHist.
const DefaultBins = 256

type matchOptions struct {
	refMask *tensor.Array[bool]
	mask    *tensor.Array[bool]
	bins    int
}

// MatchOption configures MatchHist.
type MatchOption func(*matchOptions)

// WithRefMask restricts the reference histogram to pixels where mask is true.
func WithRefMask(mask *tensor.Array[bool]) MatchOption {
	return func(o *matchOptions) { o.refMask = mask }
}

// WithMask restricts matching to pixels of the input where mask is true.
// Pixels outside the mask are left untouched.
func WithMask(mask *tensor.Array[bool]) MatchOption {
	return func(o *matchOptions) { o.mask = mask }
}

// WithBins sets the number of histogram bins.
func WithBins(n int) MatchOption {
	return func(o *matchOptions) { o.bins = n }
}

// MatchHist returns a copy of im whose intensities follow the histogram of
// ref, channel by channel. Both images are rows×cols or rows×cols×channels
// with the same channel count; masks are rows×cols and apply to every
// channel. Neither input is modified.
func MatchHist(ref, im *tensor.Array[float64], opts ...MatchOption) (*tensor.Array[float64], error) {
	o := matchOptions{bins: DefaultBins}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bins < 1 {
		return nil, fmt.Errorf("%w: %d histogram bins", ErrInvalidImage, o.bins)
	}

	refChannels, err := channelCount(ref.Shape())
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	channels, err := channelCount(im.Shape())
	if err != nil {
		return nil, err
	}
	if refChannels != channels {
		return nil, fmt.Errorf("%w: reference has %d, image has %d", ErrChannelMismatch, refChannels, channels)
	}
	refSel, err := selection(o.refMask, ref.Shape(), "reference mask")
	if err != nil {
		return nil, err
	}
	sel, err := selection(o.mask, im.Shape(), "mask")
	if err != nil {
		return nil, err
	}

	refData := ref.Data()
	out := im.Clone()
	data := out.Data()
	for c := 0; c < channels; c++ {
		refValues := gather(refData, refSel, c, channels)
		values := gather(data, sel, c, channels)

		refCenters, refCDF := cumulativeHistogram(refValues, o.bins)
		centers, cdf := cumulativeHistogram(values, o.bins)

		for i, p := range sel {
			quantile := interp(values[i], centers, cdf)
			data[p*channels+c] = interp(quantile, refCDF, refCenters)
		}
	}
	return out, nil
}

// selection lists the flat pixel indices a mask selects, or every pixel
// when mask is nil.
func selection(mask *tensor.Array[bool], shape tensor.Shape, name string) ([]int, error) {
	rows, cols := shape[0], shape[1]
	if mask == nil {
		sel := make([]int, rows*cols)
		for i := range sel {
			sel[i] = i
		}
		return sel, nil
	}

	if mask.Ndim() != 2 {
		return nil, fmt.Errorf("%w: %s has %d dimensions, expected 2", ErrMaskShape, name, mask.Ndim())
	}
	if !mask.Shape().Equal(tensor.Shape{rows, cols}) {
		return nil, fmt.Errorf("%w: %s is %v, image is %d×%d", ErrMaskShape, name, mask.Shape(), rows, cols)
	}

	var sel []int
	for i, on := range mask.Data() {
		if on {
			sel = append(sel, i)
		}
	}
	if len(sel) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyMask, name)
	}
	return sel, nil
}

func gather(data []float64, sel []int, channel, channels int) []float64 {
	values := make([]float64, len(sel))
	for i, p := range sel {
		values[i] = data[p*channels+channel]
	}
	return values
}

// cumulativeHistogram bins values into n equal-width bins spanning their
// range and returns the bin centres with the normalized cumulative counts.
// A constant input gets the unit-wide range around its value.
func cumulativeHistogram(values []float64, n int) (centers, cdf []float64) {
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, n+1), lo, hi)
	centers = make([]float64, n)
	for i := range centers {
		centers[i] = (edges[i] + edges[i+1]) / 2
	}

	// The last bin is closed on the right.
	dividers := append([]float64(nil), edges...)
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	counts := stat.Histogram(nil, dividers, sorted, nil)

	cdf = floats.CumSum(make([]float64, n), counts)
	floats.Scale(1/cdf[n-1], cdf)
	return centers, cdf
}

// interp evaluates the piecewise-linear function through (xp, fp) at x,
// clamping to the end values outside xp. xp must be non-decreasing.
func interp(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if x <= xp[0] {
		return fp[0]
	}
	if x >= xp[n-1] {
		return fp[n-1]
	}

	// xp[j-1] <= x < xp[j]
	j := sort.Search(n, func(i int) bool { return xp[i] > x })
	x0, x1 := xp[j-1], xp[j]
	return fp[j-1] + (x-x0)*(fp[j]-fp[j-1])/(x1-x0)
}
