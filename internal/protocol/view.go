package protocol

import (
	"hexisle/internal/game"
	"hexisle/pkg/board"
)

// StateView is the snapshot a single player receives. Opponents' hands
// and development cards are reduced to counts; everything is revealed
// once the game ends.
type StateView struct {
	GameID           string           `json:"game_id"`
	Phase            string           `json:"phase"`
	Turn             int              `json:"turn"`
	SetupRound       int              `json:"setup_round"`
	CurrentPlayer    string           `json:"current_player"`
	LastRoll         [2]int           `json:"last_roll"`
	TargetVP         int              `json:"target_vp"`
	Board            *board.Board     `json:"board"`
	Players          []PlayerView     `json:"players"`
	Offer            *game.TradeOffer `json:"offer,omitempty"`
	PendingDiscards  map[string]int   `json:"pending_discards,omitempty"`
	RoadBuildingFree int              `json:"road_building_free,omitempty"`
	DeckRemaining    int              `json:"deck_remaining"`
	WinnerID         string           `json:"winner_id,omitempty"`
	Events           []game.Event     `json:"events"`
}

// PlayerView is one seat as seen by the viewer. Hand and DevCards are
// present only for the viewer's own seat, or for everyone after the
// game ends.
type PlayerView struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Color            game.PlayerColor  `json:"color"`
	HandCount        int               `json:"hand_count"`
	DevCardCount     int               `json:"dev_card_count"`
	RoadsBuilt       int               `json:"roads_built"`
	SettlementsBuilt int               `json:"settlements_built"`
	CitiesBuilt      int               `json:"cities_built"`
	VictoryPoints    int               `json:"victory_points"`
	KnightsPlayed    int               `json:"knights_played"`
	RoadLength       int               `json:"road_length"`
	HasLongestRoad   bool              `json:"has_longest_road"`
	HasLargestArmy   bool              `json:"has_largest_army"`
	IsOnline         bool              `json:"is_online"`
	Hand             *game.ResourceSet `json:"hand,omitempty"`
	DevCards         []*game.DevCard   `json:"dev_cards,omitempty"`
}

// BuildStateView projects the game for one viewer.
func BuildStateView(g *game.GameState, viewerID string) *StateView {
	reveal := g.Ended()

	players := make([]PlayerView, 0, len(g.Players))
	for _, p := range g.Players {
		pv := PlayerView{
			ID:               p.ID,
			Name:             p.Name,
			Color:            p.Color,
			HandCount:        p.Hand.Total(),
			DevCardCount:     len(p.DevCards),
			RoadsBuilt:       p.RoadsBuilt,
			SettlementsBuilt: p.SettlementsBuilt,
			CitiesBuilt:      p.CitiesBuilt,
			VictoryPoints:    p.VictoryPoints,
			KnightsPlayed:    p.KnightsPlayed,
			RoadLength:       p.RoadLength,
			HasLongestRoad:   p.HasLongestRoad,
			HasLargestArmy:   p.HasLargestArmy,
			IsOnline:         p.IsOnline,
		}
		if reveal || p.ID == viewerID {
			hand := p.Hand
			pv.Hand = &hand
			pv.DevCards = p.DevCards
		}
		players = append(players, pv)
	}

	return &StateView{
		GameID:           g.ID,
		Phase:            g.Phase.String(),
		Turn:             g.Turn,
		SetupRound:       g.SetupRound,
		CurrentPlayer:    g.CurrentPlayer().ID,
		LastRoll:         g.LastRoll,
		TargetVP:         g.Settings.TargetVP,
		Board:            g.Board,
		Players:          players,
		Offer:            g.Offer,
		PendingDiscards:  g.PendingDiscards,
		RoadBuildingFree: g.RoadBuildingFree,
		DeckRemaining:    len(g.DevDeck),
		WinnerID:         g.WinnerID,
		Events:           g.Events,
	}
}
