package board

import (
	"fmt"
	"strings"
)

// Debug returns a string summary of the board.
func (b *Board) Debug() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Hexes: %d  Vertices: %d  Edges: %d  Harbors: %d\n",
		len(b.Hexes), len(b.Vertices), len(b.Edges), len(b.Harbors)))
	sb.WriteString(fmt.Sprintf("Robber on hex %d\n\n", b.Robber))

	sb.WriteString("Tiles:\n")
	for _, h := range b.Hexes {
		num := "-"
		if h.Number > 0 {
			num = fmt.Sprintf("%d", h.Number)
		}
		robber := ""
		if h.Robber {
			robber = " [robber]"
		}
		sb.WriteString(fmt.Sprintf("  %2d. (%+d,%+d) %-7s %s%s\n",
			h.ID, h.Coord.Q, h.Coord.R, h.Terrain, num, robber))
	}

	sb.WriteString("\nHarbors:\n")
	for _, hb := range b.Harbors {
		sb.WriteString(fmt.Sprintf("  %d. %-10s vertices %d,%d\n",
			hb.ID, hb.Kind, hb.VertexA, hb.VertexB))
	}

	return sb.String()
}
