package board

// boardRadius gives the 19-hex island: one center hex plus two rings.
const boardRadius = 2

// terrainPool returns the fixed tile multiset: 4 wood, 4 sheep, 4 wheat,
// 3 brick, 3 ore, 1 desert.
func terrainPool() []Terrain {
	pool := make([]Terrain, 0, 19)
	add := func(t Terrain, n int) {
		for i := 0; i < n; i++ {
			pool = append(pool, t)
		}
	}
	add(TerrainWood, 4)
	add(TerrainSheep, 4)
	add(TerrainWheat, 4)
	add(TerrainBrick, 3)
	add(TerrainOre, 3)
	add(TerrainDesert, 1)
	return pool
}

// numberPool returns the fixed production-number multiset laid onto the 18
// non-desert hexes.
func numberPool() []int {
	return []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}
}

// harborAnchor pins one harbor to the coastal edge of a rim hex, facing the
// off-board neighbor in dir.
type harborAnchor struct {
	coord Coord
	dir   int
	kind  HarborKind
}

// The 9 harbors are fixed, never randomized. Anchors run clockwise around
// the rim; kinds follow the fixed order 4 generic + one per resource. No
// two anchors touch the same vertex.
var harborAnchors = [9]harborAnchor{
	{Coord{0, -2}, dirNW, HarborGeneric},
	{Coord{1, -2}, dirNE, HarborWheat},
	{Coord{2, -1}, dirNE, HarborOre},
	{Coord{2, 0}, dirE, HarborGeneric},
	{Coord{1, 1}, dirSE, HarborSheep},
	{Coord{-1, 2}, dirSE, HarborGeneric},
	{Coord{-2, 2}, dirSW, HarborBrick},
	{Coord{-2, 1}, dirW, HarborWood},
	{Coord{-2, 0}, dirNW, HarborGeneric},
}
