package game

// Phase represents the current game phase. Phases gate which operations
// are legal; every mutating operation names the phases it accepts.
type Phase int

const (
	PhaseSetupSettlement Phase = iota
	PhaseSetupRoad
	PhaseRoll
	PhaseMain
	PhaseTrade
	PhaseRobberDiscard
	PhaseRobberMove
	PhaseRobberSteal
	PhaseRoadBuilding
	PhaseEnded
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSetupSettlement:
		return "setup_settlement"
	case PhaseSetupRoad:
		return "setup_road"
	case PhaseRoll:
		return "roll"
	case PhaseMain:
		return "main"
	case PhaseTrade:
		return "trade"
	case PhaseRobberDiscard:
		return "robber_discard"
	case PhaseRobberMove:
		return "robber_move"
	case PhaseRobberSteal:
		return "robber_steal"
	case PhaseRoadBuilding:
		return "road_building"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// validateTurn rejects calls that arrive after the game ended, in the
// wrong phase, or from a player other than the one whose turn it is.
// Operations whose actor is not the current player (discarding, trade
// responses) run their own checks instead.
func (g *GameState) validateTurn(playerID string, phases ...Phase) error {
	if g.Phase == PhaseEnded {
		return ErrGameOver
	}
	ok := false
	for _, ph := range phases {
		if g.Phase == ph {
			ok = true
			break
		}
	}
	if !ok {
		return ErrInvalidAction
	}
	if g.CurrentPlayer().ID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// EndTurn passes play to the next player in seating order.
func (g *GameState) EndTurn(playerID string) error {
	if err := g.validateTurn(playerID, PhaseMain); err != nil {
		return err
	}

	g.CurrentPlayer().ResetTurn()
	g.Offer = nil
	g.Current = (g.Current + 1) % len(g.Players)
	g.Turn++
	g.Phase = PhaseRoll

	next := g.CurrentPlayer()
	g.logEventf(EventTurn, next.ID, "%s's turn", next.Name)
	return nil
}
