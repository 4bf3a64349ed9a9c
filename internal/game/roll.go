package game

import "hexisle/pkg/board"

// RollDice rolls two dice for the current player. Anything but a seven
// pays out production and opens the main phase; a seven starts the
// robber sequence, collecting discards first if any hand is over the
// limit.
func (g *GameState) RollDice(playerID string) (int, int, error) {
	if err := g.validateTurn(playerID, PhaseRoll); err != nil {
		return 0, 0, err
	}

	d1 := g.rng.Intn(6) + 1
	d2 := g.rng.Intn(6) + 1
	g.LastRoll = [2]int{d1, d2}
	total := d1 + d2

	p := g.CurrentPlayer()
	g.logEventf(EventRoll, p.ID, "%s rolls %d", p.Name, total)

	if total == 7 {
		g.ResumePhase = PhaseMain
		g.PendingDiscards = nil
		// Discard counts freeze at roll time.
		for _, q := range g.Players {
			if n := q.Hand.Total(); n > g.Settings.HandLimit {
				if g.PendingDiscards == nil {
					g.PendingDiscards = make(map[string]int)
				}
				g.PendingDiscards[q.ID] = n / 2
			}
		}
		if g.PendingDiscards != nil {
			g.Phase = PhaseRobberDiscard
		} else {
			g.Phase = PhaseRobberMove
		}
		return d1, d2, nil
	}

	g.produce(total)
	g.Phase = PhaseMain
	return d1, d2, nil
}

// produce pays every building adjacent to a hex bearing the rolled
// number: one card per settlement, two per city. The robbed hex pays
// nothing.
func (g *GameState) produce(total int) {
	for _, h := range g.Board.Hexes {
		if h.Number != total || h.Robber {
			continue
		}
		r, ok := resourceForTerrain(h.Terrain)
		if !ok {
			continue
		}
		for _, vid := range h.Vertices {
			v := g.Board.Vertices[vid]
			if v.Building == nil {
				continue
			}
			n := 1
			if v.Building.Kind == board.BuildingCity {
				n = 2
			}
			g.PlayerByID(v.Building.Owner).Hand.Add(r, n)
		}
	}
}
