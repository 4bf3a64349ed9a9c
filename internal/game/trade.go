package game

import "hexisle/pkg/board"

// TradeOffer represents the single pending trade proposal. Give flows
// from the proposer to the target, Want the other way.
type TradeOffer struct {
	From string      `json:"from"`
	To   string      `json:"to"`
	Give ResourceSet `json:"give"`
	Want ResourceSet `json:"want"`
}

// ProposeTrade puts a trade offer to another player and moves the game
// into the trade phase until the target answers or the proposer cancels.
func (g *GameState) ProposeTrade(playerID, targetID string, give, want ResourceSet) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	// Can't trade with yourself
	if targetID == playerID {
		return ErrInvalidTarget
	}
	if g.PlayerByID(targetID) == nil {
		return ErrInvalidTarget
	}
	if give.Negative() || want.Negative() {
		return ErrInvalidTarget
	}
	if give.Total() == 0 || want.Total() == 0 {
		return ErrBadTrade
	}

	// Check the proposer can deliver
	if !g.CurrentPlayer().Hand.Covers(give) {
		return ErrInsufficientResources
	}

	g.Offer = &TradeOffer{From: playerID, To: targetID, Give: give, Want: want}
	g.Phase = PhaseTrade

	p := g.CurrentPlayer()
	g.logEventf(EventTrade, p.ID, "%s offers a trade to %s", p.Name, g.PlayerByID(targetID).Name)
	return nil
}

// RespondTrade lets the target accept or decline the pending offer.
// Accepting re-validates both hands, so an offer outrun by events fails
// cleanly and stays pending for the target to decline.
func (g *GameState) RespondTrade(playerID string, accept bool) error {
	if g.Phase == PhaseEnded {
		return ErrGameOver
	}
	if g.Phase != PhaseTrade {
		return ErrInvalidAction
	}
	if g.Offer == nil {
		return ErrNoTrade
	}
	if playerID != g.Offer.To {
		return ErrNotYourTurn
	}

	offer := g.Offer
	from := g.PlayerByID(offer.From)
	to := g.PlayerByID(offer.To)

	if !accept {
		g.Offer = nil
		g.Phase = PhaseMain
		g.logEventf(EventTrade, to.ID, "%s declines the trade", to.Name)
		return nil
	}

	if !from.Hand.Covers(offer.Give) || !to.Hand.Covers(offer.Want) {
		return ErrInsufficientResources
	}

	from.Hand.Subtract(offer.Give)
	to.Hand.AddSet(offer.Give)
	to.Hand.Subtract(offer.Want)
	from.Hand.AddSet(offer.Want)

	g.Offer = nil
	g.Phase = PhaseMain
	g.logEventf(EventTrade, to.ID, "%s accepts the trade with %s", to.Name, from.Name)
	return nil
}

// CancelTrade withdraws the proposer's own pending offer.
func (g *GameState) CancelTrade(playerID string) error {
	if g.Phase == PhaseEnded {
		return ErrGameOver
	}
	if g.Phase != PhaseTrade {
		return ErrInvalidAction
	}
	if g.Offer == nil {
		return ErrNoTrade
	}
	if playerID != g.Offer.From {
		return ErrNotYourTurn
	}

	p := g.PlayerByID(playerID)
	g.Offer = nil
	g.Phase = PhaseMain
	g.logEventf(EventTrade, p.ID, "%s withdraws the trade", p.Name)
	return nil
}

// BankTrade exchanges resources with the bank at the best ratio the
// player's harbors allow. Every given resource must divide evenly by
// its ratio and the units must exactly cover the request.
func (g *GameState) BankTrade(playerID string, give, want ResourceSet) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	if give.Negative() || want.Negative() {
		return ErrInvalidTarget
	}
	if give.Total() == 0 || want.Total() == 0 {
		return ErrBadTrade
	}

	p := g.CurrentPlayer()
	if !p.Hand.Covers(give) {
		return ErrInsufficientResources
	}

	units := 0
	for _, r := range AllResources {
		n := give.Get(r)
		if n == 0 {
			continue
		}
		ratio := g.tradeRatio(p.ID, r)
		if n%ratio != 0 {
			return ErrBadTrade
		}
		units += n / ratio
	}
	if units != want.Total() {
		return ErrBadTrade
	}

	p.Hand.Subtract(give)
	p.Hand.AddSet(want)
	g.logEventf(EventTrade, p.ID, "%s trades %d cards with the bank", p.Name, give.Total())
	return nil
}

// tradeRatio returns the best exchange rate the player holds for one
// resource: 2 with a matching harbor, 3 with any generic harbor, 4
// otherwise.
func (g *GameState) tradeRatio(playerID string, r Resource) int {
	ratio := 4
	for _, hb := range g.Board.Harbors {
		if !g.touchesHarbor(playerID, hb) {
			continue
		}
		if hb.Kind == board.HarborGeneric {
			if ratio > 3 {
				ratio = 3
			}
			continue
		}
		if hr, ok := harborResource(hb.Kind); ok && hr == r {
			ratio = 2
		}
	}
	return ratio
}

// touchesHarbor checks for one of the player's buildings on either of a
// harbor's vertices.
func (g *GameState) touchesHarbor(playerID string, hb *board.Harbor) bool {
	for _, vid := range [2]int{hb.VertexA, hb.VertexB} {
		v := g.Board.Vertices[vid]
		if v.Building != nil && v.Building.Owner == playerID {
			return true
		}
	}
	return false
}

// harborResource maps a resource harbor kind to the resource it trades.
func harborResource(k board.HarborKind) (Resource, bool) {
	switch k {
	case board.HarborWood:
		return ResourceWood, true
	case board.HarborBrick:
		return ResourceBrick, true
	case board.HarborSheep:
		return ResourceSheep, true
	case board.HarborWheat:
		return ResourceWheat, true
	case board.HarborOre:
		return ResourceOre, true
	default:
		return 0, false
	}
}
