package schem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReshapeResetsGridPreservingEntities(t *testing.T) {
	r := NewRegion("main", [3]int32{}, [3]int32{2, 1, 1})
	r.SetBlock(1, 0, 0, NewBlock("minecraft", "stone", nil))
	r.BlockEntities[[3]int32{0, 0, 0}] = BlockEntity{Tags: map[string]any{"id": "minecraft:chest"}}
	r.Entities = append(r.Entities, Entity{Tags: map[string]any{"id": "minecraft:pig"}})

	r.Reshape([3]int32{3, 1, 1})

	require.Equal(t, [3]int32{3, 1, 1}, r.Shape)
	require.Equal(t, 3, r.Volume())
	require.Equal(t, "minecraft:air", r.Block(0, 0, 0).FullName())
	require.Equal(t, "minecraft:air", r.Block(1, 0, 0).FullName())
	require.Len(t, r.BlockEntities, 1)
	require.Len(t, r.Entities, 1)
}

func TestReshapeToZeroVolume(t *testing.T) {
	r := NewRegion("main", [3]int32{}, [3]int32{2, 2, 2})
	r.Reshape([3]int32{0, 2, 2})
	require.Equal(t, 0, r.Volume())
}
