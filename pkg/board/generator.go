package board

import "math/rand"

// Generator builds randomized boards. Terrain and numbers are shuffled;
// the island shape and harbor layout are fixed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator drawing from the given source.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate creates a board. It always succeeds.
func (g *Generator) Generate() *Board {
	b := &Board{Robber: -1}

	// Lay shuffled terrain across the 19 coordinates, center outward.
	coords := coordsWithinRadius(boardRadius)
	terrains := terrainPool()
	g.rng.Shuffle(len(terrains), func(i, j int) {
		terrains[i], terrains[j] = terrains[j], terrains[i]
	})

	// Shuffled production numbers go onto non-desert hexes in generation
	// order. The desert gets no number and starts with the robber.
	numbers := numberPool()
	g.rng.Shuffle(len(numbers), func(i, j int) {
		numbers[i], numbers[j] = numbers[j], numbers[i]
	})

	next := 0
	for i, c := range coords {
		h := &HexTile{ID: i, Coord: c, Terrain: terrains[i]}
		if h.Terrain == TerrainDesert {
			h.Robber = true
			b.Robber = h.ID
		} else {
			h.Number = numbers[next]
			next++
		}
		b.Hexes = append(b.Hexes, h)
	}

	buildGraph(b)
	placeHarbors(b)
	return b
}

// placeHarbors claims the two bounding vertices of each fixed anchor edge.
func placeHarbors(b *Board) {
	for i, a := range harborAnchors {
		h := b.HexAt(a.coord)
		e := outwardEdge(b, h, a.dir)
		hb := &Harbor{ID: i, Kind: a.kind, VertexA: e.A, VertexB: e.B}
		b.Harbors = append(b.Harbors, hb)
		b.Vertices[e.A].Harbor = hb.ID
		b.Vertices[e.B].Harbor = hb.ID
	}
}
