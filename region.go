package schem

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// BlockEntity is a block entity's NBT compound, with its position
// carried separately as the owning Region's map key rather than
// duplicated inside Tags.
type BlockEntity struct {
	// Tags holds the full original compound, excluding the positional
	// x, y, z keys.
	Tags map[string]any
}

// Clone returns a deep copy of the block entity.
func (be BlockEntity) Clone() BlockEntity {
	return BlockEntity{Tags: deepCopyMap(be.Tags)}
}

// Entity is a movable entity's NBT compound, with Position cached as a
// typed field for convenience; Tags still carries the entire original
// compound verbatim, Pos included.
type Entity struct {
	Position mgl64.Vec3
	BlockPos [3]int32
	Tags     map[string]any
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	return Entity{Position: e.Position, BlockPos: e.BlockPos, Tags: deepCopyMap(e.Tags)}
}

// UUID decodes the entity's "UUID" tag (a 4-element Int array, the
// format Minecraft uses for entity identifiers) into a uuid.UUID.
func (e Entity) UUID() (uuid.UUID, bool) {
	raw, ok := e.Tags["UUID"]
	if !ok {
		return uuid.UUID{}, false
	}
	parts, ok := raw.([]int32)
	if !ok || len(parts) != 4 {
		return uuid.UUID{}, false
	}
	var b [16]byte
	for i, p := range parts {
		binary.BigEndian.PutUint32(b[i*4:i*4+4], uint32(p))
	}
	return uuid.UUID(b), true
}

// Region is one named, offset cuboid of densely-packed blocks.
type Region struct {
	Name   string
	Offset [3]int32
	Shape  [3]int32

	Palette *Palette
	// blocks holds one palette index per cell, Y-Z-X order (Y outer,
	// Z middle, X inner), length Volume().
	blocks []uint16

	Entities      []Entity
	BlockEntities map[[3]int32]BlockEntity
}

// NewRegion returns an empty region of the given shape, with a palette
// containing only air and every cell set to air.
func NewRegion(name string, offset, shape [3]int32) *Region {
	r := &Region{
		Name:          name,
		Offset:        offset,
		Shape:         shape,
		Palette:       NewPalette(),
		BlockEntities: make(map[[3]int32]BlockEntity),
	}
	r.Palette.FindOrAppend(Air())
	r.blocks = make([]uint16, r.Volume())
	return r
}

// Volume returns the number of cells in the region.
func (r *Region) Volume() int {
	return int(r.Shape[0]) * int(r.Shape[1]) * int(r.Shape[2])
}

// Reshape resets the region to the given shape, replacing its block
// grid with a zero-initialised dense array of the new volume (every
// cell holds palette index 0). Entities and block entities are left
// untouched; callers that shrink or move a region are responsible for
// repositioning or dropping any that no longer fit.
func (r *Region) Reshape(shape [3]int32) {
	r.Shape = shape
	r.blocks = make([]uint16, r.Volume())
}

// index converts a local (x, y, z) coordinate into the flat,
// Y-Z-X-ordered block index.
func (r *Region) index(x, y, z int32) int {
	return int(y)*int(r.Shape[2])*int(r.Shape[0]) + int(z)*int(r.Shape[0]) + int(x)
}

// inBounds reports whether (x, y, z) is within [0, Shape).
func (r *Region) inBounds(x, y, z int32) bool {
	return x >= 0 && x < r.Shape[0] && y >= 0 && y < r.Shape[1] && z >= 0 && z < r.Shape[2]
}

// Block returns the block at local coordinate (x, y, z). It panics if
// the coordinate is out of bounds.
func (r *Region) Block(x, y, z int32) Block {
	if !r.inBounds(x, y, z) {
		panic("schem: block coordinate out of region bounds")
	}
	idx := r.blocks[r.index(x, y, z)]
	b, _ := r.Palette.Get(int(idx))
	return b
}

// SetBlock writes block at local coordinate (x, y, z), appending it to
// the region's palette if not already present. It panics if the
// coordinate is out of bounds.
func (r *Region) SetBlock(x, y, z int32, block Block) {
	if !r.inBounds(x, y, z) {
		panic("schem: block coordinate out of region bounds")
	}
	idx := r.Palette.FindOrAppend(block)
	r.blocks[r.index(x, y, z)] = uint16(idx)
}

// deepCopyMap deep-copies an NBT-shaped map[string]any, following the
// same traversal go-mc/nbt-decoded tag trees always take (nested
// maps, slices, and leaf scalars).
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	case []byte:
		out := make([]byte, len(val))
		copy(out, val)
		return out
	case []int32:
		out := make([]int32, len(val))
		copy(out, val)
		return out
	case []int64:
		out := make([]int64, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// MetaDataIR is the format-independent metadata every schematic
// carries, regardless of which on-disk format it was loaded from.
type MetaDataIR struct {
	MCDataVersion int32
	TimeCreated   int64
	TimeModified  int64
	Author        string
	Name          string
	Description   string
}

// floorToBlockPos floors each axis of pos to the containing block
// coordinate, the way Minecraft positions an entity within a voxel.
func floorToBlockPos(pos mgl64.Vec3) [3]int32 {
	return [3]int32{
		int32(math.Floor(pos.X())),
		int32(math.Floor(pos.Y())),
		int32(math.Floor(pos.Z())),
	}
}

// deepCopyBlockEntities deep-copies a position-keyed block entity map.
func deepCopyBlockEntities(m map[[3]int32]BlockEntity) map[[3]int32]BlockEntity {
	out := make(map[[3]int32]BlockEntity, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// Clone returns a deep copy of the region.
func (r *Region) Clone() *Region {
	out := &Region{
		Name:          r.Name,
		Offset:        r.Offset,
		Shape:         r.Shape,
		Palette:       r.Palette.Clone(),
		blocks:        append([]uint16(nil), r.blocks...),
		BlockEntities: deepCopyBlockEntities(r.BlockEntities),
	}
	out.Entities = make([]Entity, len(r.Entities))
	for i, e := range r.Entities {
		out.Entities[i] = e.Clone()
	}
	return out
}

// TotalBlocks returns the number of cells not holding air.
func (r *Region) TotalBlocks() int {
	air := r.Palette.IndexOf(Air())
	count := 0
	for _, idx := range r.blocks {
		if air < 0 || int(idx) != air {
			count++
		}
	}
	return count
}
