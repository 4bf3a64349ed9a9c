package game

import (
	"fmt"
	"time"
)

// EventType categorizes log entries for client rendering.
type EventType string

const (
	EventSetup  EventType = "setup"
	EventRoll   EventType = "roll"
	EventBuild  EventType = "build"
	EventTrade  EventType = "trade"
	EventRobber EventType = "robber"
	EventCard   EventType = "card"
	EventBonus  EventType = "bonus"
	EventTurn   EventType = "turn"
	EventWin    EventType = "win"
)

// Event is one entry in the game's activity log. Entries never carry
// hidden information; a steal is logged without naming the card.
type Event struct {
	Type      EventType `json:"type"`
	PlayerID  string    `json:"playerId"`
	Message   string    `json:"message"`
	Timestamp int64     `json:"timestamp"`
}

// eventLogCap bounds the log. Older entries are dropped silently.
const eventLogCap = 100

func (g *GameState) logEvent(t EventType, playerID, msg string) {
	g.Events = append(g.Events, Event{
		Type:      t,
		PlayerID:  playerID,
		Message:   msg,
		Timestamp: time.Now().UnixMilli(),
	})
	if len(g.Events) > eventLogCap {
		g.Events = g.Events[len(g.Events)-eventLogCap:]
	}
}

func (g *GameState) logEventf(t EventType, playerID, format string, args ...any) {
	g.logEvent(t, playerID, fmt.Sprintf(format, args...))
}
