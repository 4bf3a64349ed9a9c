package game

import "hexisle/pkg/board"

// Longest road and largest army bonuses, each worth two points. A bonus
// moves only to a strictly better claim; on a tie the incumbent keeps
// it, and with no incumbent a tie awards nobody.

const (
	longestRoadMin = 5
	largestArmyMin = 3
)

// recomputeLongestRoad refreshes every player's road length and settles
// who holds the bonus. Runs after anything that can change a chain: a
// new road, or a building placed on a vertex a chain runs through.
func (g *GameState) recomputeLongestRoad() {
	for _, p := range g.Players {
		p.RoadLength = g.longestRoadFor(p.ID)
	}

	var holder *Player
	for _, p := range g.Players {
		if p.HasLongestRoad {
			holder = p
		}
	}

	// Find the unique leader at the current maximum, if any.
	maxLen := 0
	var leader *Player
	unique := false
	for _, p := range g.Players {
		switch {
		case p.RoadLength > maxLen:
			maxLen = p.RoadLength
			leader = p
			unique = true
		case p.RoadLength == maxLen:
			unique = false
		}
	}

	if holder != nil {
		if holder.RoadLength >= longestRoadMin {
			if unique && leader != holder && maxLen > holder.RoadLength {
				holder.HasLongestRoad = false
				holder.VictoryPoints -= 2
				leader.HasLongestRoad = true
				leader.VictoryPoints += 2
				g.logEventf(EventBonus, leader.ID, "%s takes the longest road from %s", leader.Name, holder.Name)
			}
			return
		}
		// The chain was broken below the minimum.
		holder.HasLongestRoad = false
		holder.VictoryPoints -= 2
		g.logEventf(EventBonus, holder.ID, "%s loses the longest road", holder.Name)
	}

	if leader != nil && unique && maxLen >= longestRoadMin {
		leader.HasLongestRoad = true
		leader.VictoryPoints += 2
		g.logEventf(EventBonus, leader.ID, "%s takes the longest road", leader.Name)
	}
}

// longestRoadFor finds the player's longest simple chain of roads. Each
// owned edge is tried as a chain end in both directions; the visited
// set backtracks so branches are explored independently.
func (g *GameState) longestRoadFor(playerID string) int {
	best := 0
	visited := make(map[int]bool)
	for _, e := range g.Board.Edges {
		if e.Owner != playerID {
			continue
		}
		visited[e.ID] = true
		for _, start := range [2]int{e.A, e.B} {
			if l := g.roadWalk(playerID, e, start, visited); l > best {
				best = l
			}
		}
		delete(visited, e.ID)
	}
	return best
}

// roadWalk extends a chain through the endpoint of e opposite from. An
// opponent's building on that endpoint cuts the chain.
func (g *GameState) roadWalk(playerID string, e *board.Edge, from int, visited map[int]bool) int {
	to := e.A
	if from == e.A {
		to = e.B
	}

	v := g.Board.Vertices[to]
	if v.Building != nil && v.Building.Owner != playerID {
		return 1
	}

	best := 1
	for _, eid := range v.Edges {
		if visited[eid] {
			continue
		}
		next := g.Board.Edges[eid]
		if next.Owner != playerID {
			continue
		}
		visited[eid] = true
		if l := 1 + g.roadWalk(playerID, next, to, visited); l > best {
			best = l
		}
		delete(visited, eid)
	}
	return best
}

// recomputeLargestArmy settles the army bonus after p plays a knight.
func (g *GameState) recomputeLargestArmy(p *Player) {
	if p.HasLargestArmy || p.KnightsPlayed < largestArmyMin {
		return
	}

	var holder *Player
	for _, q := range g.Players {
		if q.HasLargestArmy {
			holder = q
		}
	}
	if holder != nil {
		if p.KnightsPlayed <= holder.KnightsPlayed {
			return
		}
		holder.HasLargestArmy = false
		holder.VictoryPoints -= 2
	}

	p.HasLargestArmy = true
	p.VictoryPoints += 2
	g.logEventf(EventBonus, p.ID, "%s takes the largest army", p.Name)
}
