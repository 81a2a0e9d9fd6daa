// Package catalog holds card and wonder content as YAML and turns it into
// engine descriptors.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"duel/internal/engine"
)

var (
	//go:embed cards.yaml
	defaultCards []byte
	//go:embed wonders.yaml
	defaultWonders []byte
	//go:embed rules.yaml
	defaultRules []byte
)

type cardRecord struct {
	Name           string         `yaml:"name"`
	Age            int            `yaml:"age"`
	Color          string         `yaml:"color"`
	Cost           map[string]int `yaml:"cost"`
	Points         int            `yaml:"points"`
	Shields        int            `yaml:"shields"`
	Science        string         `yaml:"science"`
	Coins          int            `yaml:"coins"`
	Provides       string         `yaml:"provides"`
	Requires       string         `yaml:"requires"`
	Produces       map[string]int `yaml:"produces"`
	ProducesChoice []string       `yaml:"produces_choice"`
	TradeDiscount  []string       `yaml:"trade_discount"`
	Special        *specialRecord `yaml:"special"`
	Effects        []effectRecord `yaml:"effects"`
}

type specialRecord struct {
	Colors    []string `yaml:"colors"`
	Wonders   bool     `yaml:"wonders"`
	CoinsPer  int      `yaml:"coins_per"`
	PointsPer int      `yaml:"points_per"`
	MaxOfBoth bool     `yaml:"max_of_both"`
}

type effectRecord struct {
	Kind   string `yaml:"kind"`
	Color  string `yaml:"color"`
	Amount int    `yaml:"amount"`
}

type wonderRecord struct {
	Name           string         `yaml:"name"`
	Cost           map[string]int `yaml:"cost"`
	Points         int            `yaml:"points"`
	Shields        int            `yaml:"shields"`
	Coins          int            `yaml:"coins"`
	ProducesChoice []string       `yaml:"produces_choice"`
	Effects        []effectRecord `yaml:"effects"`
}

// Catalog is a validated set of cards and wonders. It implements
// engine.DeckFactory.
type Catalog struct {
	cards   []engine.Card
	wonders []engine.Wonder
}

// Cards returns a copy of every card, in file order.
func (c *Catalog) Cards() []engine.Card { return slices.Clone(c.cards) }

// Wonders returns a copy of every wonder, in file order.
func (c *Catalog) Wonders() []engine.Wonder { return slices.Clone(c.wonders) }

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Load(defaultCards, defaultWonders)
}

// Load decodes a catalog from cards and wonders YAML documents.
func Load(cardsYAML, wondersYAML []byte) (*Catalog, error) {
	var cr []cardRecord
	if err := yaml.Unmarshal(cardsYAML, &cr); err != nil {
		return nil, fmt.Errorf("cards.yaml: %w", err)
	}
	var wr []wonderRecord
	if err := yaml.Unmarshal(wondersYAML, &wr); err != nil {
		return nil, fmt.Errorf("wonders.yaml: %w", err)
	}

	c := &Catalog{}
	seen := make(map[string]bool)
	for _, r := range cr {
		card, err := r.card()
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", r.Name, err)
		}
		if seen[card.Name] {
			return nil, fmt.Errorf("card %q: duplicate name", card.Name)
		}
		seen[card.Name] = true
		c.cards = append(c.cards, card)
	}
	for _, r := range wr {
		w, err := r.wonder()
		if err != nil {
			return nil, fmt.Errorf("wonder %q: %w", r.Name, err)
		}
		c.wonders = append(c.wonders, w)
	}
	return c, nil
}

// LoadDir reads cards.yaml and wonders.yaml from dir.
func LoadDir(dir string) (*Catalog, error) {
	cards, err := os.ReadFile(filepath.Join(dir, "cards.yaml"))
	if err != nil {
		return nil, err
	}
	wonders, err := os.ReadFile(filepath.Join(dir, "wonders.yaml"))
	if err != nil {
		return nil, err
	}
	return Load(cards, wonders)
}

// LoadRules overlays the YAML file at path on the default rules. An empty
// path returns the defaults.
func LoadRules(path string) (engine.Rules, error) {
	rules := engine.DefaultRules()
	if path == "" {
		return rules, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return rules, err
	}
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return rules, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rules, nil
}

// BuiltinRules decodes the rules file shipped with the catalog.
func BuiltinRules() (engine.Rules, error) {
	var rules engine.Rules
	if err := yaml.Unmarshal(defaultRules, &rules); err != nil {
		return rules, fmt.Errorf("rules.yaml: %w", err)
	}
	return rules, nil
}

var errBadAge = errors.New("age must be 1, 2 or 3")

func (r cardRecord) card() (engine.Card, error) {
	if r.Name == "" {
		return engine.Card{}, errors.New("missing name")
	}
	if r.Age < 1 || r.Age > 3 {
		return engine.Card{}, errBadAge
	}
	color, err := engine.ParseColor(r.Color)
	if err != nil {
		return engine.Card{}, err
	}
	c := engine.Card{
		Name:     r.Name,
		Age:      r.Age,
		Color:    color,
		Points:   r.Points,
		Shields:  r.Shields,
		Coins:    r.Coins,
		Provides: engine.LinkSymbol(r.Provides),
		Requires: engine.LinkSymbol(r.Requires),
	}
	if c.Cost, err = parseCost(r.Cost); err != nil {
		return c, err
	}
	if r.Science != "" {
		if c.Science, err = engine.ParseScience(r.Science); err != nil {
			return c, err
		}
	}
	if len(r.Produces) > 0 {
		prod, err := parseCost(r.Produces)
		if err != nil {
			return c, err
		}
		if prod.Coins() > 0 {
			return c, errors.New("coins are not production")
		}
		c.Produces = prod
	}
	if c.ProducesChoice, err = parseResources(r.ProducesChoice); err != nil {
		return c, err
	}
	if c.TradeDiscount, err = parseResources(r.TradeDiscount); err != nil {
		return c, err
	}
	if r.Special != nil {
		sr := &engine.SpecialReward{
			Wonders:   r.Special.Wonders,
			CoinsPer:  r.Special.CoinsPer,
			PointsPer: r.Special.PointsPer,
			MaxOfBoth: r.Special.MaxOfBoth,
		}
		for _, s := range r.Special.Colors {
			col, err := engine.ParseColor(s)
			if err != nil {
				return c, err
			}
			sr.Colors = append(sr.Colors, col)
		}
		c.Special = sr
	}
	if c.Effects, err = parseEffects(r.Effects); err != nil {
		return c, err
	}
	return c, nil
}

func (r wonderRecord) wonder() (engine.Wonder, error) {
	if r.Name == "" {
		return engine.Wonder{}, errors.New("missing name")
	}
	w := engine.Wonder{
		Name:    r.Name,
		Points:  r.Points,
		Shields: r.Shields,
		Coins:   r.Coins,
	}
	var err error
	if w.Cost, err = parseCost(r.Cost); err != nil {
		return w, err
	}
	if w.ProducesChoice, err = parseResources(r.ProducesChoice); err != nil {
		return w, err
	}
	if w.Effects, err = parseEffects(r.Effects); err != nil {
		return w, err
	}
	return w, nil
}

func parseCost(m map[string]int) (engine.Cost, error) {
	if len(m) == 0 {
		return nil, nil
	}
	cost := make(engine.Cost, len(m))
	for name, n := range m {
		r, err := engine.ParseResource(name)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative amount of %s", r)
		}
		cost[r] = n
	}
	return cost, nil
}

func parseResources(names []string) ([]engine.Resource, error) {
	var out []engine.Resource
	for _, name := range names {
		r, err := engine.ParseResource(name)
		if err != nil {
			return nil, err
		}
		if !r.Tradable() {
			return nil, fmt.Errorf("%s cannot be produced", r)
		}
		out = append(out, r)
	}
	return out, nil
}

func parseEffects(recs []effectRecord) ([]engine.Effect, error) {
	var out []engine.Effect
	for _, rec := range recs {
		kind, err := engine.ParseEffectKind(rec.Kind)
		if err != nil {
			return nil, err
		}
		e := engine.Effect{Kind: kind, Amount: rec.Amount}
		if rec.Color != "" {
			if e.Color, err = engine.ParseColor(rec.Color); err != nil {
				return nil, err
			}
		}
		if kind == engine.EffectDestroyCard && e.Color == engine.ColorNone {
			return nil, errors.New("destroy_card needs a color")
		}
		out = append(out, e)
	}
	return out, nil
}
