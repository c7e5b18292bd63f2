package bitset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequiredBits(t *testing.T) {
	cases := []struct {
		paletteSize int
		want        int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{1 << 10, 10},
		{1<<10 + 1, 11},
	}
	for _, c := range cases {
		require.Equal(t, c.want, RequiredBits(c.paletteSize), "paletteSize=%d", c.paletteSize)
	}
}

func TestGetSetRoundTripStraddling(t *testing.T) {
	// width 5, enough elements that some straddle a 64-bit word boundary.
	const width = 5
	const length = 40
	b, err := NewWithSize(width, length)
	require.NoError(t, err)

	for i := 0; i < length; i++ {
		require.NoError(t, b.Set(i, uint64((i*7+3)%(1<<width))))
	}
	for i := 0; i < length; i++ {
		require.Equal(t, uint64((i*7+3)%(1<<width)), b.Get(i), "index %d", i)
	}
}

func TestWidth64TwoElements(t *testing.T) {
	b, err := NewWithSize(64, 2)
	require.NoError(t, err)
	require.NoError(t, b.Set(0, 0xFFFFFFFFFFFFFFFF))
	require.NoError(t, b.Set(1, 0x0123456789ABCDEF))
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), b.Get(0))
	require.Equal(t, uint64(0x0123456789ABCDEF), b.Get(1))
	require.Len(t, b.Words(), 2)
}

func TestFromWordsExactBitPattern(t *testing.T) {
	// width 1, 64 elements alternating 0/1 pack LSB-first: element i
	// lands on bit i, so the odd bits are set and the word is 0xAAAA...
	b, err := NewWithSize(1, 64)
	require.NoError(t, err)
	for i := 0; i < 64; i++ {
		require.NoError(t, b.Set(i, uint64(i%2)))
	}
	require.Equal(t, uint64(0xAAAAAAAAAAAAAAAA), b.Words()[0])
}

func TestSetRejectsOutOfRangeValue(t *testing.T) {
	b, err := NewWithSize(3, 4)
	require.NoError(t, err)
	require.Error(t, b.Set(0, 8))
	require.Error(t, b.Set(10, 1))
}

func TestFromWordsValidatesLength(t *testing.T) {
	_, err := FromWords([]uint64{0, 0, 0, 0}, 5, 40)
	require.NoError(t, err)
	_, err = FromWords([]uint64{0}, 5, 40)
	require.Error(t, err)
}

func TestGetPanicsOutOfRange(t *testing.T) {
	b, err := NewWithSize(4, 2)
	require.NoError(t, err)
	require.Panics(t, func() { b.Get(5) })
}
