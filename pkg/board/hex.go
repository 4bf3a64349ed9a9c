package board

// Coord is an axial hex coordinate. Pointy-top orientation: +q runs east,
// +r runs south-east.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Direction indices into neighborDirs, clockwise from east.
const (
	dirE = iota
	dirNE
	dirNW
	dirW
	dirSW
	dirSE
)

var neighborDirs = [6]Coord{
	{1, 0},  // E
	{1, -1}, // NE
	{0, -1}, // NW
	{-1, 0}, // W
	{-1, 1}, // SW
	{0, 1},  // SE
}

// S returns the derived third cube coordinate (q + r + s = 0).
func (c Coord) S() int {
	return -c.Q - c.R
}

// Neighbor returns the adjacent coordinate in the given direction.
func (c Coord) Neighbor(dir int) Coord {
	d := neighborDirs[dir]
	return Coord{c.Q + d.Q, c.R + d.R}
}

// Neighbors returns all six adjacent coordinates.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i := range neighborDirs {
		out[i] = c.Neighbor(i)
	}
	return out
}

// Distance returns the hex-grid distance between two coordinates.
func (c Coord) Distance(o Coord) int {
	dq := abs(c.Q - o.Q)
	dr := abs(c.R - o.R)
	ds := abs(c.S() - o.S())
	return (dq + dr + ds) / 2
}

// coordsWithinRadius enumerates all coordinates at hex-distance <= radius
// from the origin, center first, then ring by ring.
func coordsWithinRadius(radius int) []Coord {
	coords := []Coord{{0, 0}}
	for k := 1; k <= radius; k++ {
		c := Coord{-k, k} // SW corner of ring k
		for dir := 0; dir < 6; dir++ {
			for step := 0; step < k; step++ {
				coords = append(coords, c)
				c = c.Neighbor(dir)
			}
		}
	}
	return coords
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
