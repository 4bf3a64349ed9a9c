// Package board generates the fixed 19-hex island and the intersection/road
// graph derived from it.
package board

// Terrain is a hex tile's terrain type.
type Terrain int

const (
	TerrainWood Terrain = iota
	TerrainBrick
	TerrainSheep
	TerrainWheat
	TerrainOre
	TerrainDesert
)

func (t Terrain) String() string {
	switch t {
	case TerrainWood:
		return "wood"
	case TerrainBrick:
		return "brick"
	case TerrainSheep:
		return "sheep"
	case TerrainWheat:
		return "wheat"
	case TerrainOre:
		return "ore"
	case TerrainDesert:
		return "desert"
	default:
		return "unknown"
	}
}

// HarborKind is a harbor's trade kind: generic 3:1 or a resource-specific 2:1.
type HarborKind int

const (
	HarborGeneric HarborKind = iota
	HarborWood
	HarborBrick
	HarborSheep
	HarborWheat
	HarborOre
)

func (k HarborKind) String() string {
	switch k {
	case HarborGeneric:
		return "3:1"
	case HarborWood:
		return "wood 2:1"
	case HarborBrick:
		return "brick 2:1"
	case HarborSheep:
		return "sheep 2:1"
	case HarborWheat:
		return "wheat 2:1"
	case HarborOre:
		return "ore 2:1"
	default:
		return "unknown"
	}
}

// BuildingKind distinguishes a settlement from a city.
type BuildingKind int

const (
	BuildingSettlement BuildingKind = iota + 1
	BuildingCity
)

func (k BuildingKind) String() string {
	switch k {
	case BuildingSettlement:
		return "settlement"
	case BuildingCity:
		return "city"
	default:
		return "unknown"
	}
}

// Building occupies a vertex. Owner is a player ID.
type Building struct {
	Kind  BuildingKind `json:"kind"`
	Owner string       `json:"owner"`
}

// HexTile is one terrain tile. Number is the production number (2-12,
// never 7) or 0 for the desert.
type HexTile struct {
	ID       int     `json:"id"`
	Coord    Coord   `json:"coord"`
	Terrain  Terrain `json:"terrain"`
	Number   int     `json:"number"`
	Robber   bool    `json:"robber"`
	Vertices []int   `json:"vertices"` // 6 corner vertex IDs in corner order
	X        float64 `json:"x"`        // center, unit hex size
	Y        float64 `json:"y"`
}

// Vertex is an intersection between hexes. It hosts at most one building.
// Only Building mutates after generation.
type Vertex struct {
	ID       int       `json:"id"`
	Hexes    []int     `json:"hexes"`    // 1-3 adjacent hex IDs
	Edges    []int     `json:"edges"`    // incident edge IDs
	Adjacent []int     `json:"adjacent"` // vertex IDs one edge away
	Harbor   int       `json:"harbor"`   // harbor ID, -1 if none
	Coastal  bool      `json:"coastal"`
	Building *Building `json:"building,omitempty"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
}

// Edge is a road slot between two adjacent vertices. Only Owner mutates
// after generation; empty string means no road.
type Edge struct {
	ID    int    `json:"id"`
	A     int    `json:"a"`
	B     int    `json:"b"`
	Owner string `json:"owner,omitempty"`
}

// Harbor grants an improved bank trade ratio to buildings on its two
// vertices.
type Harbor struct {
	ID      int        `json:"id"`
	Kind    HarborKind `json:"kind"`
	VertexA int        `json:"vertexA"`
	VertexB int        `json:"vertexB"`
}

// Board is the generated island: 19 hexes, 54 vertices, 72 edges, 9 harbors.
// Topology is immutable after generation; building and road ownership are
// the only mutable fields.
type Board struct {
	Hexes    []*HexTile `json:"hexes"`
	Vertices []*Vertex  `json:"vertices"`
	Edges    []*Edge    `json:"edges"`
	Harbors  []*Harbor  `json:"harbors"`
	Robber   int        `json:"robber"` // hex ID currently holding the robber
}

// Hex returns a hex by ID, or nil.
func (b *Board) Hex(id int) *HexTile {
	if id < 0 || id >= len(b.Hexes) {
		return nil
	}
	return b.Hexes[id]
}

// Vertex returns a vertex by ID, or nil.
func (b *Board) Vertex(id int) *Vertex {
	if id < 0 || id >= len(b.Vertices) {
		return nil
	}
	return b.Vertices[id]
}

// Edge returns an edge by ID, or nil.
func (b *Board) Edge(id int) *Edge {
	if id < 0 || id >= len(b.Edges) {
		return nil
	}
	return b.Edges[id]
}

// HexAt returns the hex at an axial coordinate, or nil.
func (b *Board) HexAt(c Coord) *HexTile {
	for _, h := range b.Hexes {
		if h.Coord == c {
			return h
		}
	}
	return nil
}

// EdgeBetween returns the edge joining two vertices, or nil.
func (b *Board) EdgeBetween(a, c int) *Edge {
	va := b.Vertex(a)
	if va == nil {
		return nil
	}
	for _, eid := range va.Edges {
		e := b.Edges[eid]
		if e.A == c || e.B == c {
			return e
		}
	}
	return nil
}

// HarborAt returns the harbor claiming a vertex, or nil.
func (b *Board) HarborAt(vertexID int) *Harbor {
	v := b.Vertex(vertexID)
	if v == nil || v.Harbor < 0 {
		return nil
	}
	return b.Harbors[v.Harbor]
}
