package schem

import (
	"fmt"

	"github.com/oriumgames/pile/schem/bitset"
)

// ToNBTLitematica builds the full Litematica NBT tag tree for s,
// ready to hand to an NBT encoder.
func (s *Schematic) ToNBTLitematica(opts SaveOptions) (map[string]any, error) {
	names, err := uniqueRegionNames(s.Regions, opts)
	if err != nil {
		return nil, err
	}

	regions := make(map[string]any, len(s.Regions))
	totalBlocks, totalVolume := 0, 0

	for i, r := range s.Regions {
		regionTag, err := regionToNBTLitematica(r)
		if err != nil {
			return nil, err
		}
		regions[names[i]] = regionTag
		totalBlocks += r.TotalBlocks()
		totalVolume += r.Volume()
	}

	metadata := s.metadataLitematica(totalBlocks, totalVolume, len(s.Regions), s.Shape())

	root := map[string]any{
		"Version":              s.litematicaVersion(),
		"MinecraftDataVersion": s.Metadata.MCDataVersion,
		"Metadata":             metadata,
		"Regions":              regions,
	}
	if s.RawMetadata != nil && s.RawMetadata.SubVersion != nil {
		root["SubVersion"] = *s.RawMetadata.SubVersion
	}
	return root, nil
}

func (s *Schematic) litematicaVersion() int32 {
	if s.RawMetadata != nil && s.RawMetadata.Version != 0 {
		return s.RawMetadata.Version
	}
	return defaultLitematicaVersion
}

func (s *Schematic) metadataLitematica(totalBlocks, totalVolume, regionCount int, enclosing [3]int32) map[string]any {
	m := map[string]any{
		"Author":           s.Metadata.Author,
		"Name":             s.Metadata.Name,
		"Description":      s.Metadata.Description,
		"TimeCreated":      s.Metadata.TimeCreated,
		"TimeModified":     s.Metadata.TimeModified,
		"RegionCount":      int32(regionCount),
		"TotalBlocks":      int32(totalBlocks),
		"TotalVolume":      int32(totalVolume),
		"EnclosingSize":    sizeCompound(enclosing),
	}
	if s.RawMetadata != nil && len(s.RawMetadata.PreviewImageData) > 0 {
		m["PreviewImageData"] = append([]int32(nil), s.RawMetadata.PreviewImageData...)
	}
	return m
}

// uniqueRegionNames resolves duplicate region names, fixing the
// original's non-duplicate-name search (which never advanced its
// counter and so could never find a free name) by advancing until the
// smallest unused "(k)" suffix, k >= 1, is found.
func uniqueRegionNames(regions []*Region, opts SaveOptions) ([]string, error) {
	seen := make(map[string]bool, len(regions))
	out := make([]string, len(regions))
	for i, r := range regions {
		name := r.Name
		if seen[name] {
			if !opts.RenameDuplicatedRegions {
				return nil, &DuplicatedRegionName{Name: name}
			}
			name = uniqueRegionName(seen, r.Name)
		}
		seen[name] = true
		out[i] = name
	}
	return out, nil
}

func uniqueRegionName(seen map[string]bool, base string) string {
	for k := 1; ; k++ {
		candidate := fmt.Sprintf("%s(%d)", base, k)
		if !seen[candidate] {
			return candidate
		}
	}
}

func regionToNBTLitematica(r *Region) (map[string]any, error) {
	if r.Shape[0] < 0 || r.Shape[1] < 0 || r.Shape[2] < 0 {
		return nil, &NegativeSize{Size: r.Shape, RegionName: r.Name}
	}

	palette := make([]any, r.Palette.Len())
	for i, b := range r.Palette.Blocks() {
		palette[i] = blockPaletteEntryToNBT(b)
	}

	longArray, err := blockGridToLongArray(r)
	if err != nil {
		return nil, err
	}

	entities := make([]any, 0, len(r.Entities))
	for _, e := range r.Entities {
		entities = append(entities, entityToNBT(e))
	}

	tileEntities := make([]any, 0, len(r.BlockEntities))
	for pos, be := range r.BlockEntities {
		tileEntities = append(tileEntities, blockEntityToNBT(pos, be))
	}

	return map[string]any{
		"Position":          sizeCompound(r.Offset),
		"Size":              sizeCompound(r.Shape),
		"BlockStatePalette": palette,
		"BlockStates":       longArray,
		"Entities":          entities,
		"TileEntities":      tileEntities,
		"PendingBlockTicks": []any{},
		"PendingFluidTicks": []any{},
	}, nil
}

func blockPaletteEntryToNBT(b Block) map[string]any {
	entry := map[string]any{"Name": b.FullName()}
	if len(b.Properties) > 0 {
		props := make(map[string]any, len(b.Properties))
		for k, v := range b.Properties {
			props[k] = v
		}
		entry["Properties"] = props
	}
	return entry
}

func blockGridToLongArray(r *Region) ([]int64, error) {
	volume := r.Volume()
	bits := bitset.RequiredBits(r.Palette.Len())
	packed, err := bitset.NewWithSize(bits, volume)
	if err != nil {
		return nil, &NBTWriteError{Err: err}
	}

	idx := 0
	for y := int32(0); y < r.Shape[1]; y++ {
		for z := int32(0); z < r.Shape[2]; z++ {
			for x := int32(0); x < r.Shape[0]; x++ {
				v := r.blocks[idx]
				if int(v) >= r.Palette.Len() {
					return nil, &WriteBlockIndexOutOfRange{
						RegionPos:  [3]int32{x, y, z},
						BlockIndex: int(v),
						MaxIndex:   r.Palette.Len() - 1,
					}
				}
				if err := packed.Set(idx, uint64(v)); err != nil {
					return nil, &NBTWriteError{Err: err}
				}
				idx++
			}
		}
	}

	words := packed.Words()
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = int64(w)
	}
	return out, nil
}

func entityToNBT(e Entity) map[string]any {
	tags := deepCopyMap(e.Tags)
	tags["Pos"] = []any{e.Position.X(), e.Position.Y(), e.Position.Z()}
	return tags
}

func blockEntityToNBT(pos [3]int32, be BlockEntity) map[string]any {
	tags := deepCopyMap(be.Tags)
	tags["x"] = pos[0]
	tags["y"] = pos[1]
	tags["z"] = pos[2]
	return tags
}
