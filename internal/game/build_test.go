package game

import (
	"testing"

	"hexisle/pkg/board"
)

// Helper to find a free edge with no connection to the player's network.
func detachedEdge(t *testing.T, g *GameState, playerID string) int {
	t.Helper()
	for _, e := range g.Board.Edges {
		if e.Owner == "" && !g.roadConnects(playerID, e) {
			return e.ID
		}
	}
	t.Fatal("no detached edge left")
	return -1
}

// Helper to find a free edge the player could legally build on.
func connectedEdge(t *testing.T, g *GameState, playerID string) int {
	t.Helper()
	for _, e := range g.Board.Edges {
		if e.Owner == "" && g.roadConnects(playerID, e) {
			return e.ID
		}
	}
	t.Fatal("no connected edge left")
	return -1
}

func TestBuildRoad_RequiresConnection(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)
	p.Hand = CostRoad

	if err := g.BuildRoad(p.ID, detachedEdge(t, g, p.ID)); err != ErrNotConnected {
		t.Errorf("Expected ErrNotConnected for a detached edge, got %v", err)
	}
	// The rejected build must not have touched the hand.
	if p.Hand != CostRoad {
		t.Errorf("Expected hand unchanged after rejection, got %+v", p.Hand)
	}

	if err := g.BuildRoad(p.ID, connectedEdge(t, g, p.ID)); err != nil {
		t.Fatalf("Expected connected road to build, got %v", err)
	}
	if p.Hand.Total() != 0 {
		t.Errorf("Expected road cost spent, got %+v", p.Hand)
	}
	if p.RoadsBuilt != 3 {
		t.Errorf("Expected 3 roads after setup plus one, got %d", p.RoadsBuilt)
	}
}

func TestBuildRoad_CostAndOccupancy(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)

	// No resources at all.
	p.Hand = ResourceSet{}
	eid := connectedEdge(t, g, p.ID)
	if err := g.BuildRoad(p.ID, eid); err != ErrInsufficientResources {
		t.Errorf("Expected ErrInsufficientResources, got %v", err)
	}

	// A taken edge is rejected before cost is considered.
	p.Hand = CostRoad
	taken := p.SetupVertices[0]
	var ownEdge int
	for _, id := range g.Board.Vertices[taken].Edges {
		if g.Board.Edges[id].Owner == p.ID {
			ownEdge = id
			break
		}
	}
	if err := g.BuildRoad(p.ID, ownEdge); err != ErrOccupied {
		t.Errorf("Expected ErrOccupied on an owned edge, got %v", err)
	}

	// Unknown edge ids are structural rejections.
	if err := g.BuildRoad(p.ID, 9999); err != ErrInvalidTarget {
		t.Errorf("Expected ErrInvalidTarget for a bad edge id, got %v", err)
	}
}

func TestBuildRoad_PieceLimit(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)
	p.Hand = CostRoad
	p.RoadsBuilt = MaxRoads

	if err := g.BuildRoad(p.ID, connectedEdge(t, g, p.ID)); err != ErrBuildLimit {
		t.Errorf("Expected ErrBuildLimit at %d roads, got %v", MaxRoads, err)
	}
}

func TestBuildSettlement_DistanceRule(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)
	p.Hand = CostSettlement

	s0 := p.SetupVertices[0]
	if err := g.BuildSettlement(p.ID, s0); err != ErrOccupied {
		t.Errorf("Expected ErrOccupied on own settlement, got %v", err)
	}

	// The far end of the setup road is adjacent to the settlement: the
	// player has a road there, but the distance rule still forbids it.
	var roadEnd int
	for _, id := range g.Board.Vertices[s0].Edges {
		e := g.Board.Edges[id]
		if e.Owner == p.ID {
			roadEnd = e.A
			if roadEnd == s0 {
				roadEnd = e.B
			}
			break
		}
	}
	if err := g.BuildSettlement(p.ID, roadEnd); err != ErrTooClose {
		t.Errorf("Expected ErrTooClose one edge from a settlement, got %v", err)
	}
	if p.Hand != CostSettlement {
		t.Errorf("Expected hand unchanged after rejection, got %+v", p.Hand)
	}
}

func TestBuildSettlement_RequiresOwnRoad(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)
	p.Hand = CostSettlement

	// A legal-looking vertex with no road of the player's touching it.
	for _, v := range g.Board.Vertices {
		if v.Building != nil || g.adjacentBuildingExists(v) || g.hasRoadAt(p.ID, v) {
			continue
		}
		if err := g.BuildSettlement(p.ID, v.ID); err != ErrNotConnected {
			t.Errorf("Expected ErrNotConnected without a road, got %v", err)
		}
		return
	}
	t.Fatal("no roadless vertex to test with")
}

// Helper to find a two-edge extension from one of the player's setup
// settlements: the free edge to build and the distance-legal vertex at
// its far end.
func findExtension(t *testing.T, g *GameState, p *Player) (edgeID, vertexID int) {
	t.Helper()
	for _, s := range p.SetupVertices {
		for _, eid := range g.Board.Vertices[s].Edges {
			e := g.Board.Edges[eid]
			if e.Owner != p.ID {
				continue
			}
			mid := e.A
			if mid == s {
				mid = e.B
			}
			for _, eid2 := range g.Board.Vertices[mid].Edges {
				e2 := g.Board.Edges[eid2]
				if e2.Owner != "" {
					continue
				}
				far := e2.A
				if far == mid {
					far = e2.B
				}
				v := g.Board.Vertices[far]
				if v.Building == nil && !g.adjacentBuildingExists(v) {
					return eid2, far
				}
			}
		}
	}
	t.Fatal("no clean two-edge extension found")
	return -1, -1
}

func TestBuildSettlement_ExtendRoadThenSettle(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)
	p.Hand = ResourceSet{}
	p.Hand.AddSet(CostRoad)
	p.Hand.AddSet(CostSettlement)

	// Walk two edges out from a setup settlement to clear the distance
	// rule, then settle at the far end.
	viaEdge, target := findExtension(t, g, p)

	if err := g.BuildRoad(p.ID, viaEdge); err != nil {
		t.Fatalf("extension road: %v", err)
	}
	if err := g.BuildSettlement(p.ID, target); err != nil {
		t.Fatalf("settlement: %v", err)
	}

	if p.VictoryPoints != 3 {
		t.Errorf("Expected 3 points after a third settlement, got %d", p.VictoryPoints)
	}
	if p.SettlementsBuilt != 3 {
		t.Errorf("Expected 3 settlements, got %d", p.SettlementsBuilt)
	}
	if p.Hand.Total() != 0 {
		t.Errorf("Expected both costs spent, got %+v", p.Hand)
	}
}

func TestBuildSettlement_PieceLimit(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)
	viaEdge, target := findExtension(t, g, p)
	g.Board.Edges[viaEdge].Owner = p.ID

	p.Hand = CostSettlement
	p.SettlementsBuilt = MaxSettlements

	if err := g.BuildSettlement(p.ID, target); err != ErrBuildLimit {
		t.Errorf("Expected ErrBuildLimit at %d settlements, got %v", MaxSettlements, err)
	}
	if p.Hand != CostSettlement {
		t.Errorf("Expected hand unchanged after rejection, got %+v", p.Hand)
	}
}

func TestBuildCity_UpgradeInPlace(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)
	p.Hand = CostCity
	s0 := p.SetupVertices[0]

	if err := g.BuildCity(p.ID, s0); err != nil {
		t.Fatalf("city: %v", err)
	}

	v := g.Board.Vertices[s0]
	if v.Building.Kind != board.BuildingCity {
		t.Error("Expected the building to become a city")
	}
	if p.SettlementsBuilt != 1 || p.CitiesBuilt != 1 {
		t.Errorf("Expected settlement piece returned and city piece used, got %d and %d",
			p.SettlementsBuilt, p.CitiesBuilt)
	}
	if p.VictoryPoints != 3 {
		t.Errorf("Expected 3 points after the upgrade, got %d", p.VictoryPoints)
	}
	if p.Hand.Total() != 0 {
		t.Errorf("Expected city cost spent, got %+v", p.Hand)
	}

	// A city cannot be upgraded again.
	p.Hand = CostCity
	if err := g.BuildCity(p.ID, s0); err != ErrInvalidTarget {
		t.Errorf("Expected ErrInvalidTarget upgrading a city, got %v", err)
	}
}

func TestBuildCity_OnlyOwnSettlements(t *testing.T) {
	g := newTestGame(t, 2)
	runSetup(t, g)

	p := mainTurn(g, 0)
	p.Hand = CostCity

	other := g.Players[1].SetupVertices[0]
	if err := g.BuildCity(p.ID, other); err != ErrInvalidTarget {
		t.Errorf("Expected ErrInvalidTarget on an opponent settlement, got %v", err)
	}

	p.CitiesBuilt = MaxCities
	if err := g.BuildCity(p.ID, p.SetupVertices[0]); err != ErrBuildLimit {
		t.Errorf("Expected ErrBuildLimit at %d cities, got %v", MaxCities, err)
	}
}
