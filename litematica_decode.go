package schem

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pile/schem/bitset"
)

func parseSchematic(root map[string]any, opts LoadOptions) (*Schematic, error) {
	handler := opts.handler()

	metadataTag, err := getCompound(root, "Metadata", "/Metadata")
	if err != nil {
		return nil, err
	}
	ir, raw, err := parseMetadata(metadataTag)
	if err != nil {
		return nil, err
	}

	dataVersion, err := getInt(root, "MinecraftDataVersion", "/MinecraftDataVersion")
	if err != nil {
		return nil, err
	}
	ir.MCDataVersion = dataVersion

	if version, ok, err := getOptInt(root, "Version", "/Version"); err != nil {
		return nil, err
	} else if ok {
		raw.Version = version
	}
	if subVersion, ok, err := getOptInt(root, "SubVersion", "/SubVersion"); err != nil {
		return nil, err
	} else if ok {
		raw.SubVersion = &subVersion
	}

	regionsTag, err := getCompound(root, "Regions", "/Regions")
	if err != nil {
		return nil, err
	}

	s := &Schematic{Metadata: ir}
	if opts.KeepRawMetadata {
		s.RawMetadata = raw
	}

	for name, v := range regionsTag {
		path := fmt.Sprintf("/Regions/%s", name)
		regionTag, ok := v.(map[string]any)
		if !ok {
			return nil, &TagTypeMismatch{TagPath: path, ExpectedType: TagCompound, FoundType: tagOf(v)}
		}
		region, err := parseRegion(name, regionTag, path, handler)
		if err != nil {
			return nil, err
		}
		s.Regions = append(s.Regions, region)
	}
	return s, nil
}

func parseMetadata(m map[string]any) (MetaDataIR, *LitematicaMetaData, error) {
	var ir MetaDataIR
	raw := &LitematicaMetaData{Version: defaultLitematicaVersion}

	author, err := getString(m, "Author", "/Metadata/Author")
	if err != nil {
		return ir, raw, err
	}
	name, err := getString(m, "Name", "/Metadata/Name")
	if err != nil {
		return ir, raw, err
	}
	description, err := getString(m, "Description", "/Metadata/Description")
	if err != nil {
		return ir, raw, err
	}
	ir.Author, ir.Name, ir.Description = author, name, description

	ir.TimeCreated, err = getLong(m, "TimeCreated", "/Metadata/TimeCreated")
	if err != nil {
		return ir, raw, err
	}
	ir.TimeModified, err = getLong(m, "TimeModified", "/Metadata/TimeModified")
	if err != nil {
		return ir, raw, err
	}

	enclosing, err := getCompound(m, "EnclosingSize", "/Metadata/EnclosingSize")
	if err != nil {
		return ir, raw, err
	}
	if len(enclosing) != 3 {
		return ir, raw, &InvalidValue{TagPath: "/Metadata/EnclosingSize", Detail: fmt.Sprintf("expected 3 members, found %d", len(enclosing))}
	}
	if _, err := parseSizeCompound(enclosing, "/Metadata/EnclosingSize", false); err != nil {
		return ir, raw, err
	}

	if preview, ok, err := func() ([]any, bool, error) {
		v, ok := m["PreviewImageData"]
		if !ok {
			return nil, false, nil
		}
		l, ok := v.([]int32)
		if !ok {
			return nil, false, &TagTypeMismatch{TagPath: "/Metadata/PreviewImageData", ExpectedType: TagIntArray, FoundType: tagOf(v)}
		}
		out := make([]any, len(l))
		for i, x := range l {
			out[i] = x
		}
		return out, true, nil
	}(); err != nil {
		return ir, raw, err
	} else if ok {
		raw.PreviewImageData = make([]int32, len(preview))
		for i, v := range preview {
			raw.PreviewImageData[i] = v.(int32)
		}
	}

	return ir, raw, nil
}

func parseRegion(name string, m map[string]any, path string, handler ErrorHandler) (*Region, error) {
	positionTag, err := getCompound(m, "Position", path+"/Position")
	if err != nil {
		return nil, err
	}
	offset, err := parseSizeCompound(positionTag, path+"/Position", true)
	if err != nil {
		return nil, err
	}

	sizeTag, err := getCompound(m, "Size", path+"/Size")
	if err != nil {
		return nil, err
	}
	shape, err := parseSizeCompound(sizeTag, path+"/Size", false)
	if err != nil {
		return nil, err
	}

	region := &Region{
		Name:          name,
		Offset:        offset,
		Shape:         shape,
		Palette:       NewPalette(),
		BlockEntities: make(map[[3]int32]BlockEntity),
	}

	paletteTag, err := getList(m, "BlockStatePalette", path+"/BlockStatePalette")
	if err != nil {
		return nil, err
	}
	if len(paletteTag) > 0xFFFF {
		return nil, &PaletteTooLong{Length: len(paletteTag)}
	}
	for i, v := range paletteTag {
		entryPath := fmt.Sprintf("%s/BlockStatePalette[%d]", path, i)
		entry, ok := v.(map[string]any)
		if !ok {
			return nil, &TagTypeMismatch{TagPath: entryPath, ExpectedType: TagCompound, FoundType: tagOf(v)}
		}
		block, err := parseBlockPaletteEntry(region, entry, entryPath, handler)
		if err != nil {
			return nil, err
		}
		region.Palette.FindOrAppend(block)
	}

	longArray, err := getLongArray(m, "BlockStates", path+"/BlockStates")
	if err != nil {
		return nil, err
	}
	if err := parseBlockGrid(region, longArray, path+"/BlockStates", handler); err != nil {
		return nil, err
	}

	entitiesTag, err := getList(m, "Entities", path+"/Entities")
	if err != nil {
		return nil, err
	}
	for i, v := range entitiesTag {
		entryPath := fmt.Sprintf("%s/Entities[%d]", path, i)
		entry, ok := v.(map[string]any)
		if !ok {
			return nil, &TagTypeMismatch{TagPath: entryPath, ExpectedType: TagCompound, FoundType: tagOf(v)}
		}
		entity, err := parseEntity(entry, entryPath)
		if err != nil {
			return nil, err
		}
		region.Entities = append(region.Entities, entity)
	}

	tileEntitiesTag, err := getList(m, "TileEntities", path+"/TileEntities")
	if err != nil {
		return nil, err
	}
	for i, v := range tileEntitiesTag {
		entryPath := fmt.Sprintf("%s/TileEntities[%d]", path, i)
		entry, ok := v.(map[string]any)
		if !ok {
			return nil, &TagTypeMismatch{TagPath: entryPath, ExpectedType: TagCompound, FoundType: tagOf(v)}
		}
		if err := parseBlockEntity(region, entry, entryPath, handler); err != nil {
			return nil, err
		}
	}

	return region, nil
}

func parseBlockPaletteEntry(region *Region, m map[string]any, path string, handler ErrorHandler) (Block, error) {
	name, err := getString(m, "Name", path+"/Name")
	if err != nil {
		return Block{}, err
	}
	if name == "" {
		loadErr := &InvalidBlockID{ID: name, Reason: "empty block id"}
		outcome := handler.FixInvalidBlockID(region, loadErr)
		fixed, ok := outcome.Value()
		if !ok {
			return Block{}, loadErr
		}
		return fixed, nil
	}
	namespace, id := parseBlockName(name)

	props := map[string]string{}
	if propsTag, ok, err := getOptCompound(m, "Properties", path+"/Properties"); err != nil {
		return Block{}, err
	} else if ok {
		for k, v := range propsTag {
			s, ok := v.(string)
			if !ok {
				return Block{}, &InvalidBlockProperty{TagPath: path + "/Properties/" + k, Detail: "property value is not a string"}
			}
			props[k] = s
		}
	}
	return NewBlock(namespace, id, props), nil
}

// parseBlockGrid unpacks the BlockStates long array into region's
// dense Y-Z-X ordered index grid, offering out-of-range indices to
// handler before failing.
func parseBlockGrid(region *Region, longArray []int64, path string, handler ErrorHandler) error {
	volume := region.Volume()
	words := make([]uint64, len(longArray))
	for i, v := range longArray {
		// The decoder already handed us a correctly byte-order-resolved
		// int64; reinterpreting its bit pattern as uint64 needs no swap.
		words[i] = uint64(v)
	}

	bits := bitset.RequiredBits(region.Palette.Len())
	packed, err := bitset.FromWords(words, bits, volume)
	if err != nil {
		return &BlockDataIncomplete{TagPath: path, Index: 0, Detail: err.Error()}
	}

	region.blocks = make([]uint16, volume)
	paletteLen := region.Palette.Len()

	idx := 0
	for y := int32(0); y < region.Shape[1]; y++ {
		for z := int32(0); z < region.Shape[2]; z++ {
			for x := int32(0); x < region.Shape[0]; x++ {
				v := packed.Get(idx)
				if int(v) >= paletteLen {
					loadErr := &BlockIndexOutOfRange{
						TagPath: path,
						Index:   int64(v),
						Range:   [2]int64{0, int64(paletteLen) - 1},
					}
					outcome := handler.FixBlockIndexOutOfRange(region, loadErr)
					fixed, ok := outcome.Value()
					if !ok {
						return loadErr
					}
					v = uint64(fixed)
					paletteLen = region.Palette.Len()
				}
				region.blocks[idx] = uint16(v)
				idx++
			}
		}
	}
	return nil
}

func parseEntity(m map[string]any, path string) (Entity, error) {
	posTag, err := getList(m, "Pos", path+"/Pos")
	if err != nil {
		return Entity{}, err
	}
	if len(posTag) != 3 {
		return Entity{}, &InvalidValue{TagPath: path + "/Pos", Detail: fmt.Sprintf("expected 3 elements, found %d", len(posTag))}
	}
	var pos [3]float64
	for i, v := range posTag {
		d, ok := v.(float64)
		if !ok {
			return Entity{}, &TagTypeMismatch{TagPath: fmt.Sprintf("%s/Pos[%d]", path, i), ExpectedType: TagDouble, FoundType: tagOf(v)}
		}
		pos[i] = d
	}

	tags := deepCopyMap(m)
	e := Entity{
		Position: mgl64.Vec3{pos[0], pos[1], pos[2]},
		Tags:     tags,
	}
	e.BlockPos = floorToBlockPos(e.Position)
	return e, nil
}

func parseBlockEntity(region *Region, m map[string]any, path string, handler ErrorHandler) error {
	pos, err := parseSizeCompound(m, path, false)
	if err != nil {
		return err
	}

	// Kept loose by design: a position exactly one past the region's
	// shape is tolerated, not just positions strictly inside it.
	outOfRange := pos[0] > region.Shape[0] || pos[1] > region.Shape[1] || pos[2] > region.Shape[2]
	if outOfRange {
		loadErr := &BlockPosOutOfRange{TagPath: path, Pos: pos, Range: region.Shape}
		outcome := handler.FixBlockPosOutOfRange(region, loadErr)
		fix, ok := outcome.Value()
		if !ok {
			return loadErr
		}
		if fix.Ignore {
			return nil
		}
		pos = fix.Pos
	}

	if _, exists := region.BlockEntities[pos]; exists {
		return &MultipleBlockEntityInOnePos{Pos: pos, LatterTagPath: path}
	}

	tags := deepCopyMap(m)
	delete(tags, "x")
	delete(tags, "y")
	delete(tags, "z")
	region.BlockEntities[pos] = BlockEntity{Tags: tags}
	return nil
}
