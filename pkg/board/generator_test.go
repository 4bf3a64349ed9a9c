package board

import (
	"math/rand"
	"testing"
)

func testBoard(seed int64) *Board {
	return NewGenerator(rand.New(rand.NewSource(seed))).Generate()
}

// TestGenerateStructure verifies the fixed island shape: 19 hexes, 54
// vertices, 72 edges, 9 harbors, one robbed desert.
func TestGenerateStructure(t *testing.T) {
	b := testBoard(1)

	if got := len(b.Hexes); got != 19 {
		t.Fatalf("hex count = %d, want 19", got)
	}
	if got := len(b.Vertices); got != 54 {
		t.Errorf("vertex count = %d, want 54", got)
	}
	if got := len(b.Edges); got != 72 {
		t.Errorf("edge count = %d, want 72", got)
	}
	if got := len(b.Harbors); got != 9 {
		t.Errorf("harbor count = %d, want 9", got)
	}

	deserts := 0
	for _, h := range b.Hexes {
		if h.Terrain == TerrainDesert {
			deserts++
			if h.Number != 0 {
				t.Errorf("desert hex %d has number %d", h.ID, h.Number)
			}
			if !h.Robber {
				t.Error("desert does not start with the robber")
			}
			if b.Robber != h.ID {
				t.Errorf("board robber = %d, desert is %d", b.Robber, h.ID)
			}
		} else if h.Number < 2 || h.Number > 12 || h.Number == 7 {
			t.Errorf("hex %d has invalid number %d", h.ID, h.Number)
		}
	}
	if deserts != 1 {
		t.Errorf("desert count = %d, want 1", deserts)
	}
}

// TestGenerateMultisets verifies the terrain and number pools land intact.
func TestGenerateMultisets(t *testing.T) {
	b := testBoard(2)

	terrains := make(map[Terrain]int)
	numbers := make(map[int]int)
	for _, h := range b.Hexes {
		terrains[h.Terrain]++
		if h.Number > 0 {
			numbers[h.Number]++
		}
	}

	wantTerrain := map[Terrain]int{
		TerrainWood:   4,
		TerrainSheep:  4,
		TerrainWheat:  4,
		TerrainBrick:  3,
		TerrainOre:    3,
		TerrainDesert: 1,
	}
	for terrain, want := range wantTerrain {
		if terrains[terrain] != want {
			t.Errorf("%s count = %d, want %d", terrain, terrains[terrain], want)
		}
	}

	wantNumbers := map[int]int{2: 1, 3: 2, 4: 2, 5: 2, 6: 2, 8: 2, 9: 2, 10: 2, 11: 2, 12: 1}
	for n, want := range wantNumbers {
		if numbers[n] != want {
			t.Errorf("number %d count = %d, want %d", n, numbers[n], want)
		}
	}
}

// TestGenerateDeterministic checks that the same seed produces the same
// board.
func TestGenerateDeterministic(t *testing.T) {
	a := testBoard(99)
	b := testBoard(99)

	for i := range a.Hexes {
		if a.Hexes[i].Terrain != b.Hexes[i].Terrain || a.Hexes[i].Number != b.Hexes[i].Number {
			t.Fatalf("hex %d differs between identically seeded boards", i)
		}
	}
	if a.Robber != b.Robber {
		t.Errorf("robber position differs: %d vs %d", a.Robber, b.Robber)
	}
}

// TestGraphAdjacency checks the derived intersection graph: vertices touch
// 1-3 hexes and 2-3 edges, coastal flags match hex counts, and the 30-vertex
// coastline surrounds 24 interior vertices.
func TestGraphAdjacency(t *testing.T) {
	b := testBoard(3)

	coastal := 0
	for _, v := range b.Vertices {
		if len(v.Hexes) < 1 || len(v.Hexes) > 3 {
			t.Errorf("vertex %d touches %d hexes", v.ID, len(v.Hexes))
		}
		if len(v.Edges) < 2 || len(v.Edges) > 3 {
			t.Errorf("vertex %d has %d incident edges", v.ID, len(v.Edges))
		}
		if len(v.Edges) != len(v.Adjacent) {
			t.Errorf("vertex %d: %d edges but %d neighbors", v.ID, len(v.Edges), len(v.Adjacent))
		}
		if v.Coastal != (len(v.Hexes) < 3) {
			t.Errorf("vertex %d coastal flag = %v with %d hexes", v.ID, v.Coastal, len(v.Hexes))
		}
		if v.Coastal {
			coastal++
		}
	}
	if coastal != 30 {
		t.Errorf("coastal vertex count = %d, want 30", coastal)
	}

	for _, e := range b.Edges {
		if e.A == e.B {
			t.Errorf("edge %d is a self-loop on vertex %d", e.ID, e.A)
		}
		if got := b.EdgeBetween(e.A, e.B); got == nil || got.ID != e.ID {
			t.Errorf("EdgeBetween(%d,%d) did not find edge %d", e.A, e.B, e.ID)
		}
		if got := b.EdgeBetween(e.B, e.A); got == nil || got.ID != e.ID {
			t.Errorf("EdgeBetween(%d,%d) did not find edge %d", e.B, e.A, e.ID)
		}
	}

	for _, h := range b.Hexes {
		if len(h.Vertices) != 6 {
			t.Errorf("hex %d has %d corner vertices", h.ID, len(h.Vertices))
		}
	}
}

// TestHarborPlacement verifies the fixed harbor layout: 9 harbors on 18
// distinct coastal vertices, 4 generic and one per resource.
func TestHarborPlacement(t *testing.T) {
	b := testBoard(4)

	kinds := make(map[HarborKind]int)
	claimed := make(map[int]int) // vertex -> harbor
	for _, hb := range b.Harbors {
		kinds[hb.Kind]++
		for _, vid := range []int{hb.VertexA, hb.VertexB} {
			if prev, dup := claimed[vid]; dup {
				t.Errorf("vertex %d claimed by harbors %d and %d", vid, prev, hb.ID)
			}
			claimed[vid] = hb.ID

			v := b.Vertex(vid)
			if v == nil {
				t.Fatalf("harbor %d references missing vertex %d", hb.ID, vid)
			}
			if !v.Coastal {
				t.Errorf("harbor %d sits on inland vertex %d", hb.ID, vid)
			}
			if v.Harbor != hb.ID {
				t.Errorf("vertex %d harbor backreference = %d, want %d", vid, v.Harbor, hb.ID)
			}
		}
		if b.EdgeBetween(hb.VertexA, hb.VertexB) == nil {
			t.Errorf("harbor %d vertices %d,%d are not adjacent", hb.ID, hb.VertexA, hb.VertexB)
		}
	}

	if len(claimed) != 18 {
		t.Errorf("harbors claim %d vertices, want 18", len(claimed))
	}
	if kinds[HarborGeneric] != 4 {
		t.Errorf("generic harbor count = %d, want 4", kinds[HarborGeneric])
	}
	for _, k := range []HarborKind{HarborWood, HarborBrick, HarborSheep, HarborWheat, HarborOre} {
		if kinds[k] != 1 {
			t.Errorf("%s harbor count = %d, want 1", k, kinds[k])
		}
	}
}

// TestHarborLayoutFixed checks that harbor positions ignore the seed.
func TestHarborLayoutFixed(t *testing.T) {
	a := testBoard(5)
	b := testBoard(6)

	for i := range a.Harbors {
		if a.Harbors[i].Kind != b.Harbors[i].Kind {
			t.Errorf("harbor %d kind differs across seeds", i)
		}
		if a.Harbors[i].VertexA != b.Harbors[i].VertexA || a.Harbors[i].VertexB != b.Harbors[i].VertexB {
			t.Errorf("harbor %d anchor differs across seeds", i)
		}
	}
}
