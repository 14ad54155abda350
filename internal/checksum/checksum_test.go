package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/blockwise/internal/tensor"
)

func TestSumDeterministic(t *testing.T) {
	a := tensor.MustArange[float32](tensor.Shape{4, 5})
	s1, err := Sum(a)
	require.NoError(t, err)
	s2, err := Sum(a.Clone())
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestSumViewMatchesCopy(t *testing.T) {
	a := tensor.MustArange[int64](tensor.Shape{6, 6})
	v, err := a.View(tensor.Slice{{1, 5, 2}, {0, 6, 3}})
	require.NoError(t, err)

	sv, err := Sum(v)
	require.NoError(t, err)
	sc, err := Sum(v.Contiguous())
	require.NoError(t, err)
	assert.Equal(t, sv, sc)
}

func TestSumDistinguishesShapeAndType(t *testing.T) {
	a := tensor.MustArange[int32](tensor.Shape{2, 6})
	b := tensor.MustArange[int32](tensor.Shape{3, 4})
	c := tensor.MustArange[float32](tensor.Shape{2, 6})

	sa, err := Sum(a)
	require.NoError(t, err)
	sb, err := Sum(b)
	require.NoError(t, err)
	sc, err := Sum(c)
	require.NoError(t, err)

	assert.NotEqual(t, sa, sb, "same elements, different shape")
	assert.NotEqual(t, sa, sc, "same shape, different dtype")
}

func TestVerify(t *testing.T) {
	a := tensor.MustArange[uint8](tensor.Shape{3, 3})
	sum, err := Sum(a)
	require.NoError(t, err)
	require.NoError(t, Verify(a, sum))

	a.Set(200, 1, 1)
	assert.ErrorIs(t, Verify(a, sum), ErrChecksumMismatch)
}

func TestSumBool(t *testing.T) {
	a, err := tensor.FromSlice([]bool{true, false, true}, tensor.Shape{3})
	require.NoError(t, err)
	_, err = Sum(a)
	assert.NoError(t, err)
}

func TestFormatParse(t *testing.T) {
	s := Format(0xdeadbeef)
	assert.Equal(t, "00000000deadbeef", s)

	got, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdeadbeef), got)

	_, err = Parse("zz")
	assert.Error(t, err)
}
