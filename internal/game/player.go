package game

// PlayerColor represents a player's color.
type PlayerColor string

const (
	ColorRed    PlayerColor = "red"
	ColorBlue   PlayerColor = "blue"
	ColorOrange PlayerColor = "orange"
	ColorWhite  PlayerColor = "white"
)

// AllColors returns all available player colors in seating order.
func AllColors() []PlayerColor {
	return []PlayerColor{
		ColorRed,
		ColorBlue,
		ColorOrange,
		ColorWhite,
	}
}

// Player count and per-player piece limits.
const (
	MinPlayers = 2
	MaxPlayers = 4

	MaxRoads       = 15
	MaxSettlements = 5
	MaxCities      = 4
)

// Player represents a player in the game.
type Player struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Color            PlayerColor `json:"color"`
	Hand             ResourceSet `json:"hand"`
	DevCards         []*DevCard  `json:"devCards"`
	RoadsBuilt       int         `json:"roadsBuilt"`
	SettlementsBuilt int         `json:"settlementsBuilt"`
	CitiesBuilt      int         `json:"citiesBuilt"`
	VictoryPoints    int         `json:"victoryPoints"` // visible points only
	KnightsPlayed    int         `json:"knightsPlayed"`
	RoadLength       int         `json:"roadLength"`
	HasLongestRoad   bool        `json:"hasLongestRoad"`
	HasLargestArmy   bool        `json:"hasLargestArmy"`
	PlayedCard       bool        `json:"playedCard"` // development card played this turn
	SetupVertices    []int       `json:"setupVertices"`
	IsOnline         bool        `json:"isOnline"` // Connection status
}

// NewPlayer creates a new player.
func NewPlayer(id, name string, color PlayerColor) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Color:    color,
		IsOnline: true,
	}
}

// ResetTurn resets per-turn flags for the player.
func (p *Player) ResetTurn() {
	p.PlayedCard = false
	for _, c := range p.DevCards {
		c.BoughtThisTurn = false
	}
}

// HiddenVP counts the victory points held as unrevealed cards.
func (p *Player) HiddenVP() int {
	n := 0
	for _, c := range p.DevCards {
		if c.Type == CardVictoryPoint {
			n++
		}
	}
	return n
}
