// Package biome defines the closed set of Minecraft biomes a
// schematic's biome layer may reference.
package biome

import "strings"

// Biome identifies one of the 64 biomes known to this library.
type Biome uint8

const (
	TheVoid Biome = iota
	Plains
	SunflowerPlains
	SnowyPlains
	IceSpikes
	Desert
	Swamp
	MangroveSwamp
	Forest
	FlowerForest
	BirchForest
	DarkForest
	OldGrowthBirchForest
	OldGrowthPineTaiga
	OldGrowthSpruceTaiga
	Taiga
	SnowyTaiga
	Savanna
	SavannaPlateau
	WindsweptHills
	WindsweptGravellyHills
	WindsweptForest
	WindsweptSavanna
	Jungle
	SparseJungle
	BambooJungle
	Badlands
	ErodedBadlands
	WoodedBadlands
	Meadow
	CherryGrove
	Grove
	SnowySlopes
	FrozenPeaks
	JaggedPeaks
	StonyPeaks
	River
	FrozenRiver
	Beach
	SnowyBeach
	StonyShore
	WarmOcean
	LukewarmOcean
	DeepLukewarmOcean
	Ocean
	DeepOcean
	ColdOcean
	DeepColdOcean
	FrozenOcean
	DeepFrozenOcean
	MushroomFields
	DripstoneCaves
	LushCaves
	DeepDark
	NetherWastes
	WarpedForest
	CrimsonForest
	SoulSandValley
	BasaltDeltas
	TheEnd
	EndHighlands
	EndMidlands
	SmallEndIslands
	EndBarrens

	numBiomes
)

var names = [numBiomes]string{
	"the_void", "plains", "sunflower_plains", "snowy_plains", "ice_spikes",
	"desert", "swamp", "mangrove_swamp", "forest", "flower_forest",
	"birch_forest", "dark_forest", "old_growth_birch_forest", "old_growth_pine_taiga",
	"old_growth_spruce_taiga", "taiga", "snowy_taiga", "savanna", "savanna_plateau",
	"windswept_hills", "windswept_gravelly_hills", "windswept_forest", "windswept_savanna",
	"jungle", "sparse_jungle", "bamboo_jungle", "badlands", "eroded_badlands",
	"wooded_badlands", "meadow", "cherry_grove", "grove", "snowy_slopes",
	"frozen_peaks", "jagged_peaks", "stony_peaks", "river", "frozen_river",
	"beach", "snowy_beach", "stony_shore", "warm_ocean", "lukewarm_ocean",
	"deep_lukewarm_ocean", "ocean", "deep_ocean", "cold_ocean", "deep_cold_ocean",
	"frozen_ocean", "deep_frozen_ocean", "mushroom_fields", "dripstone_caves",
	"lush_caves", "deep_dark", "nether_wastes", "warped_forest", "crimson_forest",
	"soul_sand_valley", "basalt_deltas", "the_end", "end_highlands", "end_midlands",
	"small_end_islands", "end_barrens",
}

var byName = func() map[string]Biome {
	m := make(map[string]Biome, numBiomes)
	for i, n := range names {
		m[n] = Biome(i)
	}
	return m
}()

// String returns the biome's plain name, without the "minecraft:" prefix.
func (b Biome) String() string {
	if int(b) < len(names) {
		return names[b]
	}
	return ""
}

// FullName returns the biome's namespaced name, e.g. "minecraft:plains".
func (b Biome) FullName() string {
	return "minecraft:" + b.String()
}

// FromString looks up a biome by name, tolerating an optional
// "minecraft:" prefix. It reports false if the name is not one of the
// 64 known biomes.
func FromString(s string) (Biome, bool) {
	s = strings.TrimPrefix(s, "minecraft:")
	b, ok := byName[s]
	return b, ok
}
