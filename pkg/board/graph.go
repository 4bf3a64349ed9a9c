package board

import "math"

// Corner geometry uses unit-size pointy-top hexes: center spacing sqrt(3)
// horizontally per q, corner angles at 60k-30 degrees. Corners from
// different hexes that coincide are merged into one vertex by rounding
// their pixel position to two decimals.

func hexCenter(c Coord) (float64, float64) {
	x := math.Sqrt(3)*float64(c.Q) + math.Sqrt(3)/2*float64(c.R)
	y := 1.5 * float64(c.R)
	return x, y
}

func hexCorner(cx, cy float64, i int) (float64, float64) {
	angle := math.Pi / 180 * (60*float64(i) - 30)
	return cx + math.Cos(angle), cy + math.Sin(angle)
}

type pointKey struct{ x, y int }

func keyFor(x, y float64) pointKey {
	return pointKey{int(math.Round(x * 100)), int(math.Round(y * 100))}
}

// buildGraph derives the vertex/edge graph from hex geometry.
func buildGraph(b *Board) {
	// Step 1: compute all 6 corners per hex, deduplicating shared corners
	// into canonical vertices.
	vertexByKey := make(map[pointKey]int)
	for _, h := range b.Hexes {
		cx, cy := hexCenter(h.Coord)
		h.X, h.Y = cx, cy
		h.Vertices = make([]int, 6)
		for i := 0; i < 6; i++ {
			x, y := hexCorner(cx, cy, i)
			k := keyFor(x, y)
			vid, ok := vertexByKey[k]
			if !ok {
				vid = len(b.Vertices)
				vertexByKey[k] = vid
				b.Vertices = append(b.Vertices, &Vertex{
					ID:     vid,
					Harbor: -1,
					X:      x,
					Y:      y,
				})
			}
			v := b.Vertices[vid]
			v.Hexes = append(v.Hexes, h.ID)
			h.Vertices[i] = vid
		}
	}

	// Step 2: deduplicate the 6 edges per hex into canonical road slots.
	edgeByPair := make(map[[2]int]int)
	for _, h := range b.Hexes {
		for i := 0; i < 6; i++ {
			a := h.Vertices[i]
			c := h.Vertices[(i+1)%6]
			pair := orderedPair(a, c)
			if _, ok := edgeByPair[pair]; ok {
				continue
			}
			eid := len(b.Edges)
			edgeByPair[pair] = eid
			b.Edges = append(b.Edges, &Edge{ID: eid, A: pair[0], B: pair[1]})
		}
	}

	// Step 3: vertex adjacency and coastal flags.
	for _, e := range b.Edges {
		va := b.Vertices[e.A]
		vb := b.Vertices[e.B]
		va.Edges = append(va.Edges, e.ID)
		vb.Edges = append(vb.Edges, e.ID)
		va.Adjacent = append(va.Adjacent, e.B)
		vb.Adjacent = append(vb.Adjacent, e.A)
	}
	for _, v := range b.Vertices {
		v.Coastal = len(v.Hexes) < 3
	}
}

func orderedPair(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

// outwardEdge finds the coastal edge of h facing the off-board neighbor in
// dir: the two corners nearest the phantom neighbor's center bound it.
func outwardEdge(b *Board, h *HexTile, dir int) *Edge {
	ncx, ncy := hexCenter(h.Coord.Neighbor(dir))
	best, second := -1, -1
	bestD, secondD := math.MaxFloat64, math.MaxFloat64
	for _, vid := range h.Vertices {
		v := b.Vertices[vid]
		dx, dy := v.X-ncx, v.Y-ncy
		d := dx*dx + dy*dy
		switch {
		case d < bestD:
			second, secondD = best, bestD
			best, bestD = vid, d
		case d < secondD:
			second, secondD = vid, d
		}
	}
	return b.EdgeBetween(best, second)
}
