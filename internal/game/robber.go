package game

// MoveRobber moves the robber to a new hex. Entered after a seven or a
// knight. If any opponent is exposed on the new hex the steal phase
// follows, otherwise play resumes where the robber interrupted it.
func (g *GameState) MoveRobber(playerID string, hexID int) error {
	if err := g.validateTurn(playerID, PhaseRobberMove); err != nil {
		return err
	}

	h := g.Board.Hex(hexID)
	if h == nil {
		return ErrInvalidTarget
	}
	if hexID == g.Board.Robber {
		return ErrInvalidTarget
	}

	g.Board.Hexes[g.Board.Robber].Robber = false
	h.Robber = true
	g.Board.Robber = hexID

	p := g.CurrentPlayer()
	g.logEventf(EventRobber, p.ID, "%s moves the robber to %s", p.Name, h.Terrain)

	if len(g.stealTargets()) > 0 {
		g.Phase = PhaseRobberSteal
	} else {
		g.Phase = g.ResumePhase
	}
	return nil
}

// stealTargets lists opponents with a building on the robbed hex and at
// least one card to lose.
func (g *GameState) stealTargets() []string {
	cur := g.CurrentPlayer().ID
	h := g.Board.Hex(g.Board.Robber)

	seen := make(map[string]bool)
	var out []string
	for _, vid := range h.Vertices {
		v := g.Board.Vertices[vid]
		if v.Building == nil || v.Building.Owner == cur || seen[v.Building.Owner] {
			continue
		}
		seen[v.Building.Owner] = true
		if g.PlayerByID(v.Building.Owner).Hand.Total() > 0 {
			out = append(out, v.Building.Owner)
		}
	}
	return out
}

// StealResource takes one random card from a player exposed to the
// robber and resumes the interrupted phase.
func (g *GameState) StealResource(playerID, targetID string) error {
	if err := g.validateTurn(playerID, PhaseRobberSteal); err != nil {
		return err
	}

	valid := false
	for _, id := range g.stealTargets() {
		if id == targetID {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidTarget
	}

	target := g.PlayerByID(targetID)
	r := g.randomCard(target.Hand)
	target.Hand.Remove(r, 1)

	p := g.CurrentPlayer()
	p.Hand.Add(r, 1)

	// The stolen card stays hidden from the log.
	g.logEventf(EventRobber, p.ID, "%s steals a card from %s", p.Name, target.Name)
	g.Phase = g.ResumePhase
	return nil
}

// randomCard picks uniformly across the individual cards in a hand.
func (g *GameState) randomCard(hand ResourceSet) Resource {
	n := g.rng.Intn(hand.Total())
	for _, r := range AllResources {
		c := hand.Get(r)
		if n < c {
			return r
		}
		n -= c
	}
	// Fallback (shouldn't happen)
	return ResourceOre
}

// DiscardResources discards the exact number of cards owed by a flagged
// player after a seven. Each flagged player discards independently; the
// robber moves once every debt is settled.
func (g *GameState) DiscardResources(playerID string, cards ResourceSet) error {
	if g.Phase == PhaseEnded {
		return ErrGameOver
	}
	if g.Phase != PhaseRobberDiscard {
		return ErrInvalidAction
	}

	required, flagged := g.PendingDiscards[playerID]
	if !flagged {
		return ErrNotYourTurn
	}
	if cards.Negative() {
		return ErrInvalidTarget
	}
	if cards.Total() != required {
		return ErrBadDiscard
	}

	p := g.PlayerByID(playerID)
	if !p.Hand.Covers(cards) {
		return ErrInsufficientResources
	}

	p.Hand.Subtract(cards)
	delete(g.PendingDiscards, playerID)
	g.logEventf(EventRobber, p.ID, "%s discards %d cards", p.Name, required)

	if len(g.PendingDiscards) == 0 {
		g.PendingDiscards = nil
		g.Phase = PhaseRobberMove
	}
	return nil
}
