package game

import "hexisle/pkg/board"

// Resource represents a type of resource card.
type Resource int

const (
	ResourceWood Resource = iota
	ResourceBrick
	ResourceSheep
	ResourceWheat
	ResourceOre
	numResources
)

// AllResources lists every resource kind in a stable order.
var AllResources = []Resource{ResourceWood, ResourceBrick, ResourceSheep, ResourceWheat, ResourceOre}

// String returns the resource name.
func (r Resource) String() string {
	switch r {
	case ResourceWood:
		return "wood"
	case ResourceBrick:
		return "brick"
	case ResourceSheep:
		return "sheep"
	case ResourceWheat:
		return "wheat"
	case ResourceOre:
		return "ore"
	default:
		return "unknown"
	}
}

// ParseResource maps a wire name back to a resource kind.
func ParseResource(s string) (Resource, bool) {
	for _, r := range AllResources {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

func validResource(r Resource) bool {
	return r >= 0 && r < numResources
}

// resourceForTerrain maps producing terrain to its resource. The desert
// produces nothing.
func resourceForTerrain(t board.Terrain) (Resource, bool) {
	switch t {
	case board.TerrainWood:
		return ResourceWood, true
	case board.TerrainBrick:
		return ResourceBrick, true
	case board.TerrainSheep:
		return ResourceSheep, true
	case board.TerrainWheat:
		return ResourceWheat, true
	case board.TerrainOre:
		return ResourceOre, true
	default:
		return 0, false
	}
}

// ResourceSet is a multiset of resource cards. The zero value is empty.
type ResourceSet struct {
	Wood  int `json:"wood"`
	Brick int `json:"brick"`
	Sheep int `json:"sheep"`
	Wheat int `json:"wheat"`
	Ore   int `json:"ore"`
}

// CostRoad is the cost to build a road.
var CostRoad = ResourceSet{Wood: 1, Brick: 1}

// CostSettlement is the cost to build a settlement.
var CostSettlement = ResourceSet{Wood: 1, Brick: 1, Sheep: 1, Wheat: 1}

// CostCity is the cost to upgrade a settlement to a city.
var CostCity = ResourceSet{Wheat: 2, Ore: 3}

// CostDevCard is the cost to buy a development card.
var CostDevCard = ResourceSet{Sheep: 1, Wheat: 1, Ore: 1}

// Get returns the count of a resource kind.
func (s ResourceSet) Get(r Resource) int {
	switch r {
	case ResourceWood:
		return s.Wood
	case ResourceBrick:
		return s.Brick
	case ResourceSheep:
		return s.Sheep
	case ResourceWheat:
		return s.Wheat
	case ResourceOre:
		return s.Ore
	default:
		return 0
	}
}

// Add adds n cards of a resource kind.
func (s *ResourceSet) Add(r Resource, n int) {
	switch r {
	case ResourceWood:
		s.Wood += n
	case ResourceBrick:
		s.Brick += n
	case ResourceSheep:
		s.Sheep += n
	case ResourceWheat:
		s.Wheat += n
	case ResourceOre:
		s.Ore += n
	}
}

// Remove removes up to n cards of a resource kind and returns how many
// were actually removed.
func (s *ResourceSet) Remove(r Resource, n int) int {
	if have := s.Get(r); n > have {
		n = have
	}
	s.Add(r, -n)
	return n
}

// AddSet adds every card in o.
func (s *ResourceSet) AddSet(o ResourceSet) {
	s.Wood += o.Wood
	s.Brick += o.Brick
	s.Sheep += o.Sheep
	s.Wheat += o.Wheat
	s.Ore += o.Ore
}

// Subtract removes every card in o. Callers check Covers first.
func (s *ResourceSet) Subtract(o ResourceSet) {
	s.Wood -= o.Wood
	s.Brick -= o.Brick
	s.Sheep -= o.Sheep
	s.Wheat -= o.Wheat
	s.Ore -= o.Ore
}

// Covers checks whether s holds at least every card in o.
func (s ResourceSet) Covers(o ResourceSet) bool {
	return s.Wood >= o.Wood &&
		s.Brick >= o.Brick &&
		s.Sheep >= o.Sheep &&
		s.Wheat >= o.Wheat &&
		s.Ore >= o.Ore
}

// Spend removes cost from the set. Returns false if insufficient.
func (s *ResourceSet) Spend(cost ResourceSet) bool {
	if !s.Covers(cost) {
		return false
	}
	s.Subtract(cost)
	return true
}

// Total returns the total number of cards in the set.
func (s ResourceSet) Total() int {
	return s.Wood + s.Brick + s.Sheep + s.Wheat + s.Ore
}

// Negative reports whether any count is below zero. Sets decoded from
// the wire are rejected if so.
func (s ResourceSet) Negative() bool {
	return s.Wood < 0 || s.Brick < 0 || s.Sheep < 0 || s.Wheat < 0 || s.Ore < 0
}
