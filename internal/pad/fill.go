package pad

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/blockwise/internal/tensor"
)

// filler writes the border of one line whose interior is [before, before+n).
type filler[T tensor.DType] func(l line[T], axis, before, n, after int) error

// newFiller validates params against policy and returns the line filler.
func newFiller[T tensor.DType](policy Policy, params Params, ndim int) (filler[T], error) {
	for name, count := range map[string]int{
		"constant values": len(params.ConstantValues),
		"end values":      len(params.EndValues),
		"stat length":     len(params.StatLength),
	} {
		if count > 1 && count != ndim {
			return nil, fmt.Errorf("%w: %d %s for %d axes", ErrInvalidParams, count, name, ndim)
		}
	}
	for _, sl := range params.StatLength {
		if sl[0] < 0 || sl[1] < 0 {
			return nil, fmt.Errorf("%w: negative stat length %v", ErrInvalidParams, sl)
		}
	}

	reflectType := params.ReflectType
	if reflectType == "" {
		reflectType = Even
	}
	if reflectType != Even && reflectType != Odd {
		return nil, fmt.Errorf("%w: reflect type %q", ErrInvalidParams, reflectType)
	}

	numeric := tensor.TypeOf[T]() != tensor.Bool
	requireNumeric := func(f filler[T]) (filler[T], error) {
		if !numeric {
			return nil, fmt.Errorf("%w: policy %q needs a numeric element type", ErrInvalidParams, policy)
		}
		return f, nil
	}

	switch policy {
	case Constant:
		return constantFiller[T](params.ConstantValues, ndim), nil
	case Empty:
		return func(line[T], int, int, int, int) error { return nil }, nil
	case Edge:
		return fillEdge[T], nil
	case LinearRamp:
		return requireNumeric(rampFiller[T](params.EndValues, ndim))
	case Maximum, Minimum, Mean, Median:
		return requireNumeric(statFiller[T](policy, params.StatLength, ndim))
	case Reflect, Symmetric:
		if reflectType == Odd && !numeric {
			return nil, fmt.Errorf("%w: odd reflection needs a numeric element type", ErrInvalidParams)
		}
		return reflectFiller[T](policy == Symmetric, reflectType == Odd), nil
	case Wrap:
		return fillWrap[T], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}

func constantFiller[T tensor.DType](values [][2]float64, ndim int) filler[T] {
	return func(l line[T], axis, before, n, after int) error {
		cv, err := perAxis(values, axis, ndim, [2]float64{})
		if err != nil {
			return err
		}
		setRange(l, 0, before, tensor.FromFloat64[T](cv[0]))
		setRange(l, before+n, before+n+after, tensor.FromFloat64[T](cv[1]))
		return nil
	}
}

func fillEdge[T tensor.DType](l line[T], _, before, n, after int) error {
	setRange(l, 0, before, l.get(before))
	setRange(l, before+n, before+n+after, l.get(before+n-1))
	return nil
}

// rampFiller fills linearly from the end value at the outer border towards
// (but excluding) the edge value, as numpy.linspace(endpoint=False) does.
func rampFiller[T tensor.DType](values [][2]float64, ndim int) filler[T] {
	return func(l line[T], axis, before, n, after int) error {
		ev, err := perAxis(values, axis, ndim, [2]float64{})
		if err != nil {
			return err
		}
		left := tensor.ToFloat64(l.get(before))
		for i := 0; i < before; i++ {
			l.set(i, tensor.FromFloat64[T](ev[0]+(left-ev[0])*float64(i)/float64(before)))
		}
		right := tensor.ToFloat64(l.get(before + n - 1))
		for j := 0; j < after; j++ {
			k := after - 1 - j
			l.set(before+n+j, tensor.FromFloat64[T](ev[1]+(right-ev[1])*float64(k)/float64(after)))
		}
		return nil
	}
}

// statFiller fills each side with a statistic of the interior elements
// closest to it.
func statFiller[T tensor.DType](policy Policy, lengths [][2]int, ndim int) filler[T] {
	return func(l line[T], axis, before, n, after int) error {
		sl, err := perAxis(lengths, axis, ndim, [2]int{})
		if err != nil {
			return err
		}
		leftLen, rightLen := statWindow(sl[0], n), statWindow(sl[1], n)

		if before > 0 {
			setRange(l, 0, before, statistic(l, policy, before, before+leftLen))
		}
		if after > 0 {
			setRange(l, before+n, before+n+after, statistic(l, policy, before+n-rightLen, before+n))
		}
		return nil
	}
}

func statWindow(length, n int) int {
	if length == 0 || length > n {
		return n
	}
	return length
}

// statistic computes policy over l[from:to].
func statistic[T tensor.DType](l line[T], policy Policy, from, to int) T {
	values := make([]float64, 0, to-from)
	best := l.get(from)
	for i := from; i < to; i++ {
		v := l.get(i)
		f := tensor.ToFloat64(v)
		values = append(values, f)
		if (policy == Maximum && f > tensor.ToFloat64(best)) || (policy == Minimum && f < tensor.ToFloat64(best)) {
			best = v
		}
	}

	switch policy {
	case Mean:
		return tensor.FromFloat64[T](stat.Mean(values, nil))
	case Median:
		sort.Float64s(values)
		mid := len(values) / 2
		if len(values)%2 == 1 {
			return tensor.FromFloat64[T](values[mid])
		}
		return tensor.FromFloat64[T]((values[mid-1] + values[mid]) / 2)
	default:
		return best
	}
}

// reflectFiller mirrors the interior into the border, repeating the mirror
// while the border is wider than the data, like numpy's _set_reflect_both.
// symmetric includes the edge element in the mirror; odd negates around it.
func reflectFiller[T tensor.DType](symmetric, odd bool) filler[T] {
	return func(l line[T], _, before, n, after int) error {
		if n == 1 {
			// A single element has nothing to mirror; NumPy extends the edge.
			return fillEdge(l, 0, before, n, after)
		}
		total := before + n + after
		lp, rp := before, after
		for lp > 0 || rp > 0 {
			lp, rp = reflectOnce(l, total, lp, rp, n, symmetric, odd)
		}
		return nil
	}
}

func reflectOnce[T tensor.DType](l line[T], total, lp, rp, period int, symmetric, odd bool) (int, int) {
	oldLength := total - lp - rp
	edgeOffset := 0
	if symmetric {
		oldLength = oldLength / period * period
		edgeOffset = 1
	} else {
		oldLength = (oldLength-1)/(period-1)*(period-1) + 1
		oldLength--
	}

	if lp > 0 {
		chunk := min(oldLength, lp)
		start := lp - edgeOffset + chunk
		edge := l.get(lp)
		values := make([]T, chunk)
		for k := range values {
			values[k] = l.get(start - k)
			if odd {
				values[k] = twiceMinus(edge, values[k])
			}
		}
		for k, v := range values {
			l.set(lp-chunk+k, v)
		}
		lp -= chunk
	}

	if rp > 0 {
		chunk := min(oldLength, rp)
		start := total - rp + edgeOffset - 2
		edge := l.get(total - rp - 1)
		values := make([]T, chunk)
		for k := range values {
			values[k] = l.get(start - k)
			if odd {
				values[k] = twiceMinus(edge, values[k])
			}
		}
		for k, v := range values {
			l.set(total-rp+k, v)
		}
		rp -= chunk
	}
	return lp, rp
}

// twiceMinus returns 2*edge - v in T's own arithmetic, so integers wrap
// the way NumPy's do.
func twiceMinus[T tensor.DType](edge, v T) T {
	switch e := any(edge).(type) {
	case float32:
		return any(2*e - any(v).(float32)).(T)
	case float64:
		return any(2*e - any(v).(float64)).(T)
	case int32:
		return any(2*e - any(v).(int32)).(T)
	case int64:
		return any(2*e - any(v).(int64)).(T)
	case uint8:
		return any(2*e - any(v).(uint8)).(T)
	default:
		return v
	}
}

func fillWrap[T tensor.DType](l line[T], _, before, n, after int) error {
	for i := 0; i < before; i++ {
		l.set(i, l.get(before+mod(i-before, n)))
	}
	for j := 0; j < after; j++ {
		l.set(before+n+j, l.get(before+mod(n+j, n)))
	}
	return nil
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

func setRange[T tensor.DType](l line[T], from, to int, v T) {
	for i := from; i < to; i++ {
		l.set(i, v)
	}
}
