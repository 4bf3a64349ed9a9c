package game

// BuyDevCard draws the top card of the deck for the current player. The
// card cannot be played until next turn.
func (g *GameState) BuyDevCard(playerID string) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	if len(g.DevDeck) == 0 {
		return ErrDeckEmpty
	}

	p := g.CurrentPlayer()
	// Check resources
	if !p.Hand.Spend(CostDevCard) {
		return ErrInsufficientResources
	}

	t := g.DevDeck[0]
	g.DevDeck = g.DevDeck[1:]
	p.DevCards = append(p.DevCards, &DevCard{Type: t, BoughtThisTurn: true})

	// The card type stays hidden from the log.
	g.logEventf(EventCard, p.ID, "%s buys a development card", p.Name)
	g.checkVictory()
	return nil
}

// PlayKnight moves the robber outside a seven. Legal before or after
// the roll; the interrupted phase resumes once the robber settles.
func (g *GameState) PlayKnight(playerID string) error {
	if err := g.validateTurn(playerID, PhaseRoll, PhaseMain); err != nil {
		return err
	}

	p := g.CurrentPlayer()
	if err := g.playCard(p, CardKnight); err != nil {
		return err
	}

	p.KnightsPlayed++
	g.logEventf(EventCard, p.ID, "%s plays a knight", p.Name)
	g.recomputeLargestArmy(p)

	g.ResumePhase = g.Phase
	g.Phase = PhaseRobberMove
	g.checkVictory()
	return nil
}

// PlayRoadBuilding grants up to two free roads, capped by the player's
// remaining road pieces. With no pieces left the card cannot be played.
func (g *GameState) PlayRoadBuilding(playerID string) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	p := g.CurrentPlayer()
	free := MaxRoads - p.RoadsBuilt
	if free <= 0 {
		return ErrBuildLimit
	}
	if free > 2 {
		free = 2
	}

	if err := g.playCard(p, CardRoadBuilding); err != nil {
		return err
	}

	g.RoadBuildingFree = free
	g.Phase = PhaseRoadBuilding
	g.logEventf(EventCard, p.ID, "%s plays road building", p.Name)
	return nil
}

// PlayYearOfPlenty takes two resources of choice from the bank.
func (g *GameState) PlayYearOfPlenty(playerID string, r1, r2 Resource) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	if !validResource(r1) || !validResource(r2) {
		return ErrInvalidTarget
	}

	p := g.CurrentPlayer()
	if err := g.playCard(p, CardYearOfPlenty); err != nil {
		return err
	}

	p.Hand.Add(r1, 1)
	p.Hand.Add(r2, 1)
	g.logEventf(EventCard, p.ID, "%s plays year of plenty for %s and %s", p.Name, r1, r2)
	return nil
}

// PlayMonopoly collects every card of one resource from every opponent.
func (g *GameState) PlayMonopoly(playerID string, r Resource) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	if !validResource(r) {
		return ErrInvalidTarget
	}

	p := g.CurrentPlayer()
	if err := g.playCard(p, CardMonopoly); err != nil {
		return err
	}

	taken := 0
	for _, q := range g.Players {
		if q.ID == p.ID {
			continue
		}
		taken += q.Hand.Remove(r, q.Hand.Get(r))
	}
	p.Hand.Add(r, taken)

	g.logEventf(EventCard, p.ID, "%s plays monopoly on %s, collecting %d cards", p.Name, r, taken)
	return nil
}
