package game

import "math/rand"

// DevCardType identifies a development card.
type DevCardType string

const (
	CardKnight       DevCardType = "knight"
	CardRoadBuilding DevCardType = "road_building"
	CardYearOfPlenty DevCardType = "year_of_plenty"
	CardMonopoly     DevCardType = "monopoly"
	CardVictoryPoint DevCardType = "victory_point"
)

// Deck composition. 25 cards total, shuffled once at game creation and
// never reshuffled.
var deckCounts = []struct {
	Type  DevCardType
	Count int
}{
	{CardKnight, 14},
	{CardVictoryPoint, 5},
	{CardRoadBuilding, 2},
	{CardYearOfPlenty, 2},
	{CardMonopoly, 2},
}

// DevCard represents a development card in a player's hand.
type DevCard struct {
	Type           DevCardType `json:"type"`
	BoughtThisTurn bool        `json:"boughtThisTurn"`
}

// newDevDeck builds and shuffles the full development deck.
func newDevDeck(rng *rand.Rand) []DevCardType {
	deck := make([]DevCardType, 0, 25)
	for _, dc := range deckCounts {
		for i := 0; i < dc.Count; i++ {
			deck = append(deck, dc.Type)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// playableCard finds a card of the given type that may be played this
// turn, skipping cards bought this turn.
func (p *Player) playableCard(t DevCardType) int {
	for i, c := range p.DevCards {
		if c.Type == t && !c.BoughtThisTurn {
			return i
		}
	}
	return -1
}

// playCard enforces the one-card-per-turn rule and consumes a card of
// the given type from the player's hand. Callers validate everything
// else about the play first.
func (g *GameState) playCard(p *Player, t DevCardType) error {
	if p.PlayedCard {
		return ErrCardNotPlayable
	}
	i := p.playableCard(t)
	if i < 0 {
		return ErrCardNotPlayable
	}
	p.DevCards = append(p.DevCards[:i], p.DevCards[i+1:]...)
	p.PlayedCard = true
	return nil
}
