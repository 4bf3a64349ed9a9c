package game

import "hexisle/pkg/board"

// The setup draft runs in snake order: players 0..N-1 each place a
// settlement and an adjoining road, then the order reverses for a
// second round. Setup placements are free but the distance rule applies
// from the very first settlement.

// PlaceSetupSettlement places a free settlement for the current player.
func (g *GameState) PlaceSetupSettlement(playerID string, vertexID int) error {
	if err := g.validateTurn(playerID, PhaseSetupSettlement); err != nil {
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
	v.Building = &board.Building{Kind: board.BuildingSettlement, Owner: p.ID}
	p.SettlementsBuilt++
	p.VictoryPoints++
	p.SetupVertices = append(p.SetupVertices, vertexID)

	g.Phase = PhaseSetupRoad
	g.logEventf(EventSetup, p.ID, "%s places a settlement", p.Name)
	return nil
}

// PlaceSetupRoad places a free road touching the settlement the current
// player just put down, then advances the draft.
func (g *GameState) PlaceSetupRoad(playerID string, edgeID int) error {
	if err := g.validateTurn(playerID, PhaseSetupRoad); err != nil {
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
	last := p.SetupVertices[len(p.SetupVertices)-1]
	if e.A != last && e.B != last {
		return ErrNotConnected
	}

	e.Owner = p.ID
	p.RoadsBuilt++
	g.logEventf(EventSetup, p.ID, "%s places a road", p.Name)
	g.advanceSetup()
	return nil
}

// advanceSetup moves the draft to the next seat. The last seat of round
// one places twice in a row; once seat zero finishes round two the
// starting resources are dealt and normal play begins.
func (g *GameState) advanceSetup() {
	n := len(g.Players)
	if g.SetupRound == 0 {
		if g.Current < n-1 {
			g.Current++
			g.Phase = PhaseSetupSettlement
			return
		}
		g.SetupRound = 1
		g.Phase = PhaseSetupSettlement
		return
	}
	if g.Current > 0 {
		g.Current--
		g.Phase = PhaseSetupSettlement
		return
	}

	g.grantStartingResources()
	g.recomputeLongestRoad()
	g.Phase = PhaseRoll
	g.logEventf(EventSetup, g.CurrentPlayer().ID, "setup complete, %s rolls first", g.CurrentPlayer().Name)
}

// grantStartingResources hands each player one resource per producing
// hex adjacent to their second settlement.
func (g *GameState) grantStartingResources() {
	for _, p := range g.Players {
		v := g.Board.Vertex(p.SetupVertices[1])
		for _, hid := range v.Hexes {
			if r, ok := resourceForTerrain(g.Board.Hexes[hid].Terrain); ok {
				p.Hand.Add(r, 1)
			}
		}
	}
}
