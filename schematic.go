package schem

// Schematic is an in-memory Litematica schematic: one or more regions
// plus format-independent metadata.
type Schematic struct {
	Regions  []*Region
	Metadata MetaDataIR

	// RawMetadata carries format-specific fields with no MetaDataIR
	// equivalent (Version, SubVersion, PreviewImageData). It is only
	// populated when the schematic was loaded with
	// LoadOptions.KeepRawMetadata set, or explicitly assigned.
	RawMetadata *LitematicaMetaData
}

// LitematicaMetaData carries the on-disk Metadata compound's
// format-specific fields that MetaDataIR has no slot for.
type LitematicaMetaData struct {
	Version          int32
	SubVersion       *int32
	PreviewImageData []int32
}

// New returns an empty schematic with no regions.
func New() *Schematic {
	return &Schematic{}
}

// LoadOptions controls how FromLitematica recovers from, or rejects,
// faults found while decoding.
type LoadOptions struct {
	// Handler is consulted for recoverable faults. A nil Handler
	// behaves like StrictErrorHandler: every fault is a hard error.
	Handler ErrorHandler
	// KeepRawMetadata preserves format-specific metadata fields
	// (Version, SubVersion, PreviewImageData) on Schematic.RawMetadata.
	KeepRawMetadata bool
}

func (o LoadOptions) handler() ErrorHandler {
	if o.Handler == nil {
		return StrictErrorHandler{}
	}
	return o.Handler
}

// DefaultLoadOptions returns LoadOptions using DefaultErrorHandler.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Handler: DefaultErrorHandler{}}
}

// StrictLoadOptions returns LoadOptions using StrictErrorHandler.
func StrictLoadOptions() LoadOptions {
	return LoadOptions{Handler: StrictErrorHandler{}}
}

// SaveOptions controls how ToNBTLitematica resolves conflicts found
// while encoding.
type SaveOptions struct {
	// RenameDuplicatedRegions appends "(n)" to the name of every region
	// after the first that shares a name, instead of failing with
	// DuplicatedRegionName.
	RenameDuplicatedRegions bool
}

// Volume returns the sum of every region's cell count.
func (s *Schematic) Volume() int {
	total := 0
	for _, r := range s.Regions {
		total += r.Volume()
	}
	return total
}

// TotalBlocks returns the sum of every region's non-air cell count.
func (s *Schematic) TotalBlocks() int {
	total := 0
	for _, r := range s.Regions {
		total += r.TotalBlocks()
	}
	return total
}

// Shape returns the bounding box, in blocks, enclosing every region's
// offset and shape.
func (s *Schematic) Shape() [3]int32 {
	if len(s.Regions) == 0 {
		return [3]int32{}
	}
	min := [3]int32{math32Max, math32Max, math32Max}
	max := [3]int32{math32Min, math32Min, math32Min}
	for _, r := range s.Regions {
		for axis := 0; axis < 3; axis++ {
			lo, hi := regionAxisRange(r, axis)
			if lo < min[axis] {
				min[axis] = lo
			}
			if hi > max[axis] {
				max[axis] = hi
			}
		}
	}
	var shape [3]int32
	for axis := 0; axis < 3; axis++ {
		shape[axis] = max[axis] - min[axis]
	}
	return shape
}

const (
	math32Max = int32(1) << 30
	math32Min = -(int32(1) << 30)
)

// regionAxisRange returns [offset, offset+shape) along axis, handling
// a negative offset (the region's shape component is always >= 0, the
// offset may not be).
func regionAxisRange(r *Region, axis int) (lo, hi int32) {
	lo = r.Offset[axis]
	hi = r.Offset[axis] + r.Shape[axis]
	return
}
