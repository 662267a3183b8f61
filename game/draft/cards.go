package draft

type Color int

const (
	Brown Color = iota // raw goods, worth coins when played
	Blue               // civic, flat points
	Green              // science, scored as a set
	Red                // military, scored against neighbours
)

func (c Color) String() string {
	switch c {
	case Brown:
		return "brown"
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Red:
		return "red"
	}
	return "unknown"
}

type Card struct {
	Name   string
	Color  Color
	Cost   int // coins
	Points int
	Coins  int // paid out when played
	Shield int
}

// catalog lists the card kinds per era; decks hold copies scaled by the
// number of players.
var catalog = [][]Card{
	{
		{Name: "lumber yard", Color: Brown, Coins: 2},
		{Name: "clay pit", Color: Brown, Coins: 1, Points: 1},
		{Name: "altar", Color: Blue, Points: 2},
		{Name: "baths", Color: Blue, Cost: 1, Points: 3},
		{Name: "apothecary", Color: Green, Cost: 1},
		{Name: "scriptorium", Color: Green, Cost: 1},
		{Name: "stockade", Color: Red, Cost: 1, Shield: 1},
		{Name: "barracks", Color: Red, Shield: 1},
	},
	{
		{Name: "sawmill", Color: Brown, Coins: 3},
		{Name: "aqueduct", Color: Blue, Cost: 2, Points: 5},
		{Name: "temple", Color: Blue, Cost: 1, Points: 3},
		{Name: "library", Color: Green, Cost: 2, Points: 1},
		{Name: "laboratory", Color: Green, Cost: 2, Points: 1},
		{Name: "walls", Color: Red, Cost: 2, Shield: 2},
		{Name: "stables", Color: Red, Cost: 1, Shield: 1},
	},
	{
		{Name: "palace", Color: Blue, Cost: 4, Points: 8},
		{Name: "senate", Color: Blue, Cost: 3, Points: 6},
		{Name: "university", Color: Green, Cost: 3, Points: 2},
		{Name: "observatory", Color: Green, Cost: 3, Points: 2},
		{Name: "fortifications", Color: Red, Cost: 3, Shield: 3},
		{Name: "arsenal", Color: Red, Cost: 2, Shield: 2},
	},
}

func lookup(name string) (Card, bool) {
	for _, era := range catalog {
		for _, c := range era {
			if c.Name == name {
				return c, true
			}
		}
	}
	return Card{}, false
}
