package schem

import (
	"bytes"
	"testing"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func encodeLitematica(t *testing.T, tree map[string]any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	require.NoError(t, nbt.NewEncoder(gz).Encode(tree, ""))
	require.NoError(t, gz.Close())
	return &buf
}

func minimalSchematicTree() map[string]any {
	return map[string]any{
		"Version":              int32(6),
		"MinecraftDataVersion": int32(3700),
		"Metadata": map[string]any{
			"Author":        "tester",
			"Name":          "cube",
			"Description":   "",
			"TimeCreated":   int64(1000),
			"TimeModified":  int64(2000),
			"RegionCount":   int32(1),
			"TotalBlocks":   int32(1),
			"TotalVolume":   int32(1),
			"EnclosingSize": map[string]any{"x": int32(1), "y": int32(1), "z": int32(1)},
		},
		"Regions": map[string]any{
			"main": map[string]any{
				"Position": map[string]any{"x": int32(0), "y": int32(0), "z": int32(0)},
				"Size":     map[string]any{"x": int32(1), "y": int32(1), "z": int32(1)},
				"BlockStatePalette": []any{
					map[string]any{"Name": "minecraft:air"},
					map[string]any{"Name": "minecraft:stone"},
				},
				"BlockStates":       []int64{1},
				"Entities":          []any{},
				"TileEntities":      []any{},
				"PendingBlockTicks": []any{},
				"PendingFluidTicks": []any{},
			},
		},
	}
}

func TestLoadMinimalSchematic(t *testing.T) {
	buf := encodeLitematica(t, minimalSchematicTree())
	s, err := FromLitematica(buf, StrictLoadOptions())
	require.NoError(t, err)
	require.Len(t, s.Regions, 1)

	r := s.Regions[0]
	require.Equal(t, "main", r.Name)
	require.Equal(t, [3]int32{1, 1, 1}, r.Shape)
	require.Equal(t, int32(3700), s.Metadata.MCDataVersion)
	require.Equal(t, "tester", s.Metadata.Author)

	block := r.Block(0, 0, 0)
	require.Equal(t, "minecraft:stone", block.FullName())
}

func TestRoundTripMinimalSchematic(t *testing.T) {
	buf := encodeLitematica(t, minimalSchematicTree())
	s, err := FromLitematica(buf, StrictLoadOptions())
	require.NoError(t, err)

	tree, err := s.ToNBTLitematica(SaveOptions{})
	require.NoError(t, err)

	buf2 := encodeLitematica(t, tree)
	s2, err := FromLitematica(buf2, StrictLoadOptions())
	require.NoError(t, err)

	require.Equal(t, s.Metadata, s2.Metadata)
	require.Len(t, s2.Regions, 1)
	require.Equal(t, s.Regions[0].Shape, s2.Regions[0].Shape)
	require.Equal(t, "minecraft:stone", s2.Regions[0].Block(0, 0, 0).FullName())
}

func TestMissingRequiredTagFails(t *testing.T) {
	tree := minimalSchematicTree()
	metadata := tree["Metadata"].(map[string]any)
	delete(metadata, "Author")

	buf := encodeLitematica(t, tree)
	_, err := FromLitematica(buf, StrictLoadOptions())
	require.Error(t, err)
	var missing *TagMissing
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "/Metadata/Author", missing.TagPath)
}

func TestBlockIndexOutOfRangeStrictFails(t *testing.T) {
	tree := minimalSchematicTree()
	region := tree["Regions"].(map[string]any)["main"].(map[string]any)
	// Three palette entries need 2-bit elements; the only cell reads 3,
	// one past the end of the palette.
	region["BlockStatePalette"] = []any{
		map[string]any{"Name": "minecraft:air"},
		map[string]any{"Name": "minecraft:stone"},
		map[string]any{"Name": "minecraft:dirt"},
	}
	region["BlockStates"] = []int64{3}

	buf := encodeLitematica(t, tree)
	_, err := FromLitematica(buf, StrictLoadOptions())
	require.Error(t, err)
	var oor *BlockIndexOutOfRange
	require.ErrorAs(t, err, &oor)
}

func TestBlockIndexOutOfRangeDefaultHandlerRecovers(t *testing.T) {
	tree := minimalSchematicTree()
	region := tree["Regions"].(map[string]any)["main"].(map[string]any)
	// Three palette entries need 2-bit elements; the only cell reads 3,
	// one past the end of the palette.
	region["BlockStatePalette"] = []any{
		map[string]any{"Name": "minecraft:air"},
		map[string]any{"Name": "minecraft:stone"},
		map[string]any{"Name": "minecraft:dirt"},
	}
	region["BlockStates"] = []int64{3}

	buf := encodeLitematica(t, tree)
	s, err := FromLitematica(buf, DefaultLoadOptions())
	require.NoError(t, err)
	require.Equal(t, "minecraft:air", s.Regions[0].Block(0, 0, 0).FullName())
}

func TestDuplicateRegionNamesRenamed(t *testing.T) {
	s := New()
	r1 := NewRegion("main", [3]int32{}, [3]int32{1, 1, 1})
	r2 := NewRegion("main", [3]int32{1, 0, 0}, [3]int32{1, 1, 1})
	s.Regions = []*Region{r1, r2}

	tree, err := s.ToNBTLitematica(SaveOptions{RenameDuplicatedRegions: true})
	require.NoError(t, err)
	regions := tree["Regions"].(map[string]any)
	require.Len(t, regions, 2)
	_, hasBase := regions["main"]
	_, hasRenamed := regions["main(1)"]
	require.True(t, hasBase)
	require.True(t, hasRenamed)
}

func TestEnclosingSizeReflectsRegionOffsets(t *testing.T) {
	s := New()
	r1 := NewRegion("main", [3]int32{}, [3]int32{1, 1, 1})
	r2 := NewRegion("main", [3]int32{1, 0, 0}, [3]int32{1, 1, 1})
	s.Regions = []*Region{r1, r2}

	tree, err := s.ToNBTLitematica(SaveOptions{RenameDuplicatedRegions: true})
	require.NoError(t, err)
	metadata := tree["Metadata"].(map[string]any)
	enclosing := metadata["EnclosingSize"].(map[string]any)
	require.Equal(t, int32(2), enclosing["x"])
	require.Equal(t, int32(1), enclosing["y"])
	require.Equal(t, int32(1), enclosing["z"])
}

func TestDuplicateRegionNamesRejectedWithoutRename(t *testing.T) {
	s := New()
	r1 := NewRegion("main", [3]int32{}, [3]int32{1, 1, 1})
	r2 := NewRegion("main", [3]int32{1, 0, 0}, [3]int32{1, 1, 1})
	s.Regions = []*Region{r1, r2}

	_, err := s.ToNBTLitematica(SaveOptions{})
	require.Error(t, err)
	var dup *DuplicatedRegionName
	require.ErrorAs(t, err, &dup)
}

func TestNegativeRegionPositionAllowed(t *testing.T) {
	tree := minimalSchematicTree()
	region := tree["Regions"].(map[string]any)["main"].(map[string]any)
	region["Position"] = map[string]any{"x": int32(-5), "y": int32(0), "z": int32(-3)}

	buf := encodeLitematica(t, tree)
	s, err := FromLitematica(buf, StrictLoadOptions())
	require.NoError(t, err)
	require.Equal(t, [3]int32{-5, 0, -3}, s.Regions[0].Offset)
}

func TestPaletteExactly65536EntriesRejected(t *testing.T) {
	tree := minimalSchematicTree()
	region := tree["Regions"].(map[string]any)["main"].(map[string]any)

	palette := make([]any, 1<<16)
	for i := range palette {
		palette[i] = map[string]any{"Name": "minecraft:air"}
	}
	region["BlockStatePalette"] = palette

	buf := encodeLitematica(t, tree)
	_, err := FromLitematica(buf, StrictLoadOptions())
	require.Error(t, err)
	var tooLong *PaletteTooLong
	require.ErrorAs(t, err, &tooLong)
	require.Equal(t, 1<<16, tooLong.Length)
}

func TestInvalidBlockIDDefaultHandlerDeclines(t *testing.T) {
	tree := minimalSchematicTree()
	region := tree["Regions"].(map[string]any)["main"].(map[string]any)
	region["BlockStatePalette"] = []any{
		map[string]any{"Name": "minecraft:air"},
		map[string]any{"Name": ""},
	}

	buf := encodeLitematica(t, tree)
	_, err := FromLitematica(buf, DefaultLoadOptions())
	require.Error(t, err)
	var invalid *InvalidBlockID
	require.ErrorAs(t, err, &invalid)
}

func TestBlockEntityLoosePositionBoundDefault(t *testing.T) {
	tree := minimalSchematicTree()
	region := tree["Regions"].(map[string]any)["main"].(map[string]any)
	// Region shape is 1x1x1: position (1,0,0) is one past the shape on
	// the x axis, which the loose default bound tolerates.
	region["TileEntities"] = []any{
		map[string]any{"x": int32(1), "y": int32(0), "z": int32(0), "id": "minecraft:chest"},
	}

	buf := encodeLitematica(t, tree)
	s, err := FromLitematica(buf, StrictLoadOptions())
	require.NoError(t, err)
	_, ok := s.Regions[0].BlockEntities[[3]int32{1, 0, 0}]
	require.True(t, ok)
}
