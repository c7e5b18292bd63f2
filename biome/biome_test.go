package biome

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromStringPrefixTolerance(t *testing.T) {
	b, ok := FromString("minecraft:plains")
	require.True(t, ok)
	require.Equal(t, Plains, b)

	b, ok = FromString("plains")
	require.True(t, ok)
	require.Equal(t, Plains, b)
}

func TestFromStringUnknown(t *testing.T) {
	_, ok := FromString("not_a_biome")
	require.False(t, ok)
}

func TestRoundTripAllBiomes(t *testing.T) {
	for i := 0; i < int(numBiomes); i++ {
		b := Biome(i)
		got, ok := FromString(b.FullName())
		require.True(t, ok)
		require.Equal(t, b, got)
	}
}

func TestDefaultIsTheVoid(t *testing.T) {
	var b Biome
	require.Equal(t, TheVoid, b)
	require.Equal(t, "the_void", b.String())
}
