package schem

import (
	"maps"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Block is a block state: a namespaced id plus a set of string
// properties, e.g. minecraft:oak_stairs[facing=north]. The properties
// are an unordered map; String renders them sorted by key.
type Block struct {
	Namespace  string
	ID         string
	Properties map[string]string
}

// NewBlock builds a Block, defaulting Namespace to "minecraft" when empty.
func NewBlock(namespace, id string, properties map[string]string) Block {
	if namespace == "" {
		namespace = "minecraft"
	}
	props := make(map[string]string, len(properties))
	maps.Copy(props, properties)
	return Block{Namespace: namespace, ID: id, Properties: props}
}

// Air returns the canonical minecraft:air block.
func Air() Block {
	return Block{Namespace: "minecraft", ID: "air"}
}

// FullName returns "namespace:id".
func (b Block) FullName() string {
	return b.Namespace + ":" + b.ID
}

// parseBlockName splits a litematica BlockStatePalette "Name" field
// into namespace and id, defaulting the namespace to "minecraft" when
// no colon is present.
func parseBlockName(name string) (namespace, id string) {
	if ns, rest, ok := strings.Cut(name, ":"); ok {
		return ns, rest
	}
	return "minecraft", name
}

// Equal reports whether two blocks have the same namespace, id, and
// full property mapping.
func (b Block) Equal(other Block) bool {
	if b.Namespace != other.Namespace || b.ID != other.ID {
		return false
	}
	return maps.Equal(b.Properties, other.Properties)
}

// String renders the block the way Litematica's Name+Properties pair
// is conventionally displayed: namespace:id[k=v,...].
func (b Block) String() string {
	if len(b.Properties) == 0 {
		return b.FullName()
	}
	keys := make([]string, 0, len(b.Properties))
	for k := range b.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(b.FullName())
	sb.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(b.Properties[k])
	}
	sb.WriteByte(']')
	return sb.String()
}

func (b Block) canonicalKey() string {
	return b.String()
}

// Palette is an append-only list of distinct Blocks, indexed by
// position. Lookup is accelerated with an xxhash-keyed bucket index;
// since hash collisions are resolved by full equality comparison among
// bucket candidates, a collision can only cost time, never correctness.
type Palette struct {
	blocks  []Block
	buckets map[uint64][]int
}

// NewPalette returns an empty palette.
func NewPalette() *Palette {
	return &Palette{buckets: make(map[uint64][]int)}
}

// Len returns the number of distinct blocks in the palette.
func (p *Palette) Len() int { return len(p.blocks) }

// Get returns the block at index, or false if index is out of range.
func (p *Palette) Get(index int) (Block, bool) {
	if index < 0 || index >= len(p.blocks) {
		return Block{}, false
	}
	return p.blocks[index], true
}

// IndexOf returns the index of block, or -1 if absent.
func (p *Palette) IndexOf(block Block) int {
	key := xxhash.Sum64String(block.canonicalKey())
	for _, idx := range p.buckets[key] {
		if p.blocks[idx].Equal(block) {
			return idx
		}
	}
	return -1
}

// FindOrAppend returns the index of block, appending it to the
// palette first if it was not already present.
func (p *Palette) FindOrAppend(block Block) int {
	key := xxhash.Sum64String(block.canonicalKey())
	for _, idx := range p.buckets[key] {
		if p.blocks[idx].Equal(block) {
			return idx
		}
	}
	idx := len(p.blocks)
	p.blocks = append(p.blocks, block)
	p.buckets[key] = append(p.buckets[key], idx)
	return idx
}

// Blocks returns the palette contents in index order. The returned
// slice must not be mutated.
func (p *Palette) Blocks() []Block {
	return p.blocks
}

// Clone returns a deep copy of the palette.
func (p *Palette) Clone() *Palette {
	out := NewPalette()
	out.blocks = make([]Block, len(p.blocks))
	for i, b := range p.blocks {
		out.blocks[i] = NewBlock(b.Namespace, b.ID, b.Properties)
	}
	for k, v := range p.buckets {
		out.buckets[k] = append([]int(nil), v...)
	}
	return out
}
