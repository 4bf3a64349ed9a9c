// Package game contains the authoritative rules engine for Hexisle.
// All mutation goes through GameState methods. The engine never does
// I/O and takes randomness through an injected source, so the transport
// layer above it decides how state is shared and persisted.
package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"hexisle/pkg/board"
)

// Settings contains the configurable game parameters.
type Settings struct {
	TargetVP  int `json:"targetVp"`  // victory point threshold
	HandLimit int `json:"handLimit"` // safe hand size when a 7 is rolled
}

// DefaultSettings returns the standard settings for a player count. Two
// player games get a higher hand limit to keep the robber in check.
func DefaultSettings(players int) Settings {
	s := Settings{TargetVP: 10, HandLimit: 7}
	if players == 2 {
		s.HandLimit = 9
	}
	return s
}

// GameState represents the complete state of a game.
type GameState struct {
	ID               string         `json:"id"`
	Settings         Settings       `json:"settings"`
	Phase            Phase          `json:"phase"`
	Players          []*Player      `json:"players"`
	Current          int            `json:"current"` // index into Players
	Board            *board.Board   `json:"board"`
	Turn             int            `json:"turn"`
	SetupRound       int            `json:"setupRound"` // 0 forward, 1 reverse
	LastRoll         [2]int         `json:"lastRoll"`
	Offer            *TradeOffer    `json:"offer,omitempty"`
	PendingDiscards  map[string]int `json:"pendingDiscards,omitempty"` // player ID -> cards owed
	ResumePhase      Phase          `json:"resumePhase"`               // phase to restore after the robber resolves
	RoadBuildingFree int            `json:"roadBuildingFree"`          // free roads left from a played card
	WinnerID         string         `json:"winnerId,omitempty"`
	DevDeck          []DevCardType  `json:"-"` // face down, never exposed
	Events           []Event        `json:"events"`

	rng *rand.Rand
}

// PlayerInfo is one roster entry for NewGame. Roster order is seating
// order.
type PlayerInfo struct {
	ID   string
	Name string
}

// NewGame creates a game with a freshly generated board and shuffled
// development deck. The rng drives every random outcome the game will
// ever produce.
func NewGame(roster []PlayerInfo, settings Settings, rng *rand.Rand) (*GameState, error) {
	if len(roster) < MinPlayers || len(roster) > MaxPlayers {
		return nil, fmt.Errorf("need %d to %d players, got %d", MinPlayers, MaxPlayers, len(roster))
	}
	seen := make(map[string]bool, len(roster))
	for _, info := range roster {
		if info.ID == "" || seen[info.ID] {
			return nil, fmt.Errorf("duplicate or empty player id %q", info.ID)
		}
		seen[info.ID] = true
	}

	if settings.TargetVP <= 0 {
		settings.TargetVP = DefaultSettings(len(roster)).TargetVP
	}
	if settings.HandLimit <= 0 {
		settings.HandLimit = DefaultSettings(len(roster)).HandLimit
	}

	g := &GameState{
		ID:       uuid.New().String(),
		Settings: settings,
		Phase:    PhaseSetupSettlement,
		Board:    board.NewGenerator(rng).Generate(),
		DevDeck:  newDevDeck(rng),
		rng:      rng,
	}

	colors := AllColors()
	for i, info := range roster {
		g.Players = append(g.Players, NewPlayer(info.ID, info.Name, colors[i]))
	}

	g.logEventf(EventSetup, g.Players[0].ID, "game started, %s places first", g.Players[0].Name)
	return g, nil
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *Player {
	return g.Players[g.Current]
}

// PlayerByID returns the player with the given ID, or nil.
func (g *GameState) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Ended checks if the game has finished.
func (g *GameState) Ended() bool {
	return g.Phase == PhaseEnded
}

// Winner returns the winning player, or nil if the game is not over.
func (g *GameState) Winner() *Player {
	if g.WinnerID == "" {
		return nil
	}
	return g.PlayerByID(g.WinnerID)
}

// checkVictory ends the game the moment any player's visible and hidden
// points together reach the target. Hidden victory cards are revealed
// by folding them into the visible score; until that moment they never
// appear in any public total.
func (g *GameState) checkVictory() {
	if g.Phase == PhaseEnded {
		return
	}
	for _, p := range g.Players {
		if p.VictoryPoints+p.HiddenVP() < g.Settings.TargetVP {
			continue
		}
		p.VictoryPoints += p.HiddenVP()
		g.WinnerID = p.ID
		g.Phase = PhaseEnded
		g.logEventf(EventWin, p.ID, "%s wins with %d victory points", p.Name, p.VictoryPoints)
		return
	}
}
