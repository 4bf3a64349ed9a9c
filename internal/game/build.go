package game

import "hexisle/pkg/board"

// adjacentBuildingExists checks the distance rule: no building may sit
// one edge away from another.
func (g *GameState) adjacentBuildingExists(v *board.Vertex) bool {
	for _, nid := range v.Adjacent {
		if g.Board.Vertices[nid].Building != nil {
			return true
		}
	}
	return false
}

// roadConnects checks that an edge touches the player's network: a
// building of theirs on either endpoint, or another road of theirs
// incident to one.
func (g *GameState) roadConnects(playerID string, e *board.Edge) bool {
	for _, vid := range [2]int{e.A, e.B} {
		v := g.Board.Vertices[vid]
		if v.Building != nil && v.Building.Owner == playerID {
			return true
		}
		for _, eid := range v.Edges {
			if eid != e.ID && g.Board.Edges[eid].Owner == playerID {
				return true
			}
		}
	}
	return false
}

// hasRoadAt checks for one of the player's roads incident to the vertex.
func (g *GameState) hasRoadAt(playerID string, v *board.Vertex) bool {
	for _, eid := range v.Edges {
		if g.Board.Edges[eid].Owner == playerID {
			return true
		}
	}
	return false
}

// BuildRoad places a road for the current player. During the main phase
// the road is paid for; during road building it draws down the free
// allowance from the card.
func (g *GameState) BuildRoad(playerID string, edgeID int) error {
	if err := g.validateTurn(playerID, PhaseMain, PhaseRoadBuilding); err != nil {
		return err
	}

	e := g.Board.Edge(edgeID)
	if e == nil {
		return ErrInvalidTarget
	}
	if e.Owner != "" {
		return ErrOccupied
	}

	p := g.CurrentPlayer()
	if p.RoadsBuilt >= MaxRoads {
		return ErrBuildLimit
	}
	if !g.roadConnects(p.ID, e) {
		return ErrNotConnected
	}

	// Check resources
	if g.Phase == PhaseMain {
		if !p.Hand.Spend(CostRoad) {
			return ErrInsufficientResources
		}
	}

	e.Owner = p.ID
	p.RoadsBuilt++

	if g.Phase == PhaseRoadBuilding {
		g.RoadBuildingFree--
		if g.RoadBuildingFree == 0 {
			g.Phase = PhaseMain
		}
	}

	g.logEventf(EventBuild, p.ID, "%s builds a road", p.Name)
	g.recomputeLongestRoad()
	g.checkVictory()
	return nil
}

// BuildSettlement places a paid settlement on a vertex connected to the
// current player's road network.
func (g *GameState) BuildSettlement(playerID string, vertexID int) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	v := g.Board.Vertex(vertexID)
	if v == nil {
		return ErrInvalidTarget
	}
	if v.Building != nil {
		return ErrOccupied
	}
	if g.adjacentBuildingExists(v) {
		return ErrTooClose
	}

	p := g.CurrentPlayer()
	if p.SettlementsBuilt >= MaxSettlements {
		return ErrBuildLimit
	}
	if !g.hasRoadAt(p.ID, v) {
		return ErrNotConnected
	}

	// Check resources
	if !p.Hand.Spend(CostSettlement) {
		return ErrInsufficientResources
	}

	v.Building = &board.Building{Kind: board.BuildingSettlement, Owner: p.ID}
	p.SettlementsBuilt++
	p.VictoryPoints++

	g.logEventf(EventBuild, p.ID, "%s builds a settlement", p.Name)
	// A new building can sever a road running through the vertex.
	g.recomputeLongestRoad()
	g.checkVictory()
	return nil
}

// BuildCity upgrades one of the current player's settlements in place.
func (g *GameState) BuildCity(playerID string, vertexID int) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	v := g.Board.Vertex(vertexID)
	if v == nil {
		return ErrInvalidTarget
	}
	if v.Building == nil || v.Building.Owner != playerID || v.Building.Kind != board.BuildingSettlement {
		return ErrInvalidTarget
	}

	p := g.CurrentPlayer()
	if p.CitiesBuilt >= MaxCities {
		return ErrBuildLimit
	}

	// Check resources
	if !p.Hand.Spend(CostCity) {
		return ErrInsufficientResources
	}

	v.Building.Kind = board.BuildingCity
	p.SettlementsBuilt--
	p.CitiesBuilt++
	p.VictoryPoints++

	g.logEventf(EventBuild, p.ID, "%s upgrades to a city", p.Name)
	g.checkVictory()
	return nil
}
