package engine

// Rules holds the tunable numbers of a match. Catalog files may overlay them.
type Rules struct {
	StartingCoins    int      `yaml:"starting_coins" json:"starting_coins"`
	TrackLength      int      `yaml:"track_length" json:"track_length"` // last pawn position; start is the midpoint
	Markers          []Marker `yaml:"markers" json:"markers"`
	Tiers            []Tier   `yaml:"tiers" json:"tiers"`
	ScienceTarget    int      `yaml:"science_target" json:"science_target"`
	DiscardBase      int      `yaml:"discard_base" json:"discard_base"`
	WondersPerPlayer int      `yaml:"wonders_per_player" json:"wonders_per_player"`
	MaxWonders       int      `yaml:"max_wonders" json:"max_wonders"`
	BoardTokens      int      `yaml:"board_tokens" json:"board_tokens"`
	GuildsPerMatch   int      `yaml:"guilds_per_match" json:"guilds_per_match"` // purple cards dealt into age 3
}

func DefaultRules() Rules {
	return Rules{
		StartingCoins:    7,
		TrackLength:      18,
		Markers:          []Marker{{Offset: 3, Coins: 2}, {Offset: 6, Coins: 5}},
		Tiers:            []Tier{{Distance: 1, Points: 2}, {Distance: 3, Points: 5}, {Distance: 6, Points: 10}},
		ScienceTarget:    6,
		DiscardBase:      2,
		WondersPerPlayer: 4,
		MaxWonders:       7,
		BoardTokens:      5,
		GuildsPerMatch:   3,
	}
}

// DeckFactory supplies the card and wonder content of a match.
type DeckFactory interface {
	Cards() []Card
	Wonders() []Wonder
}

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Rules Rules
	Deck  DeckFactory
	Seed  uint64 // seeds the default shuffle
	// Shuffle replaces the seeded shuffle when set. Tests pass a no-op to
	// keep decks in catalog order.
	Shuffle func(n int, swap func(i, j int))
}

func DefaultConfig(deck DeckFactory) MatchConfig {
	return MatchConfig{
		Rules: DefaultRules(),
		Deck:  deck,
	}
}
