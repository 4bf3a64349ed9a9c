package board

import "testing"

func TestCoordDistance(t *testing.T) {
	cases := []struct {
		a, b Coord
		want int
	}{
		{Coord{0, 0}, Coord{0, 0}, 0},
		{Coord{0, 0}, Coord{1, 0}, 1},
		{Coord{0, 0}, Coord{1, -1}, 1},
		{Coord{0, 0}, Coord{2, -1}, 2},
		{Coord{0, 0}, Coord{-2, 2}, 2},
		{Coord{2, -2}, Coord{-2, 2}, 4},
	}
	for _, c := range cases {
		if got := c.a.Distance(c.b); got != c.want {
			t.Errorf("Distance(%v,%v) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := c.b.Distance(c.a); got != c.want {
			t.Errorf("Distance(%v,%v) = %d, want %d", c.b, c.a, got, c.want)
		}
	}
}

func TestCoordNeighbors(t *testing.T) {
	seen := make(map[Coord]bool)
	for _, n := range (Coord{0, 0}).Neighbors() {
		if seen[n] {
			t.Errorf("duplicate neighbor %v", n)
		}
		seen[n] = true
		if d := n.Distance(Coord{0, 0}); d != 1 {
			t.Errorf("neighbor %v at distance %d", n, d)
		}
	}
	if len(seen) != 6 {
		t.Errorf("neighbor count = %d, want 6", len(seen))
	}
}

func TestCoordsWithinRadius(t *testing.T) {
	coords := coordsWithinRadius(2)
	if len(coords) != 19 {
		t.Fatalf("coordinate count = %d, want 19", len(coords))
	}
	if coords[0] != (Coord{0, 0}) {
		t.Errorf("first coordinate = %v, want origin", coords[0])
	}

	seen := make(map[Coord]bool)
	for _, c := range coords {
		if seen[c] {
			t.Errorf("duplicate coordinate %v", c)
		}
		seen[c] = true
		if d := c.Distance(Coord{0, 0}); d > 2 {
			t.Errorf("coordinate %v at distance %d", c, d)
		}
	}
}
