package catalog_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"duel/internal/catalog"
	"duel/internal/engine"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	perAge := make(map[int]int)
	guilds := 0
	for _, card := range c.Cards() {
		if card.Color == engine.Purple {
			guilds++
			continue
		}
		perAge[card.Age]++
	}
	for age := 1; age <= 3; age++ {
		if perAge[age] < engine.LayoutSize-3 {
			t.Errorf("age %d has only %d cards", age, perAge[age])
		}
	}
	if guilds < 3 {
		t.Errorf("expected at least 3 guilds, got %d", guilds)
	}
	if got := len(c.Wonders()); got != 12 {
		t.Errorf("expected 12 wonders, got %d", got)
	}
}

func TestDefaultCatalogContent(t *testing.T) {
	c, _ := catalog.Default()
	byName := make(map[string]engine.Card)
	for _, card := range c.Cards() {
		byName[card.Name] = card
	}

	tests := []struct {
		name  string
		check func(engine.Card) bool
	}{
		{"Lumber Yard", func(c engine.Card) bool { return c.Produces[engine.Wood] == 1 && len(c.Cost) == 0 }},
		{"Logging Camp", func(c engine.Card) bool { return c.Cost.Coins() == 1 }},
		{"Aqueduct", func(c engine.Card) bool { return c.Requires == "drop" && c.Cost[engine.Stone] == 3 }},
		{"Forum", func(c engine.Card) bool { return len(c.ProducesChoice) == 2 }},
		{"Customs House", func(c engine.Card) bool { return len(c.TradeDiscount) == 2 }},
		{"Arena", func(c engine.Card) bool { return c.Special != nil && c.Special.Wonders }},
		{"Academy", func(c engine.Card) bool { return c.Science == engine.Sundial }},
		{"Merchants Guild", func(c engine.Card) bool { return c.Special != nil && c.Special.MaxOfBoth }},
	}
	for _, tt := range tests {
		card, ok := byName[tt.name]
		if !ok {
			t.Errorf("%s missing", tt.name)
			continue
		}
		if !tt.check(card) {
			t.Errorf("%s decoded wrong: %+v", tt.name, card)
		}
	}

	var zeus engine.Wonder
	for _, w := range c.Wonders() {
		if w.Name == "Statue of Zeus" {
			zeus = w
		}
	}
	if len(zeus.Effects) != 1 || zeus.Effects[0].Kind != engine.EffectDestroyCard || zeus.Effects[0].Color != engine.Brown {
		t.Errorf("Statue of Zeus effects decoded wrong: %+v", zeus.Effects)
	}
}

func TestCatalogCopies(t *testing.T) {
	c, _ := catalog.Default()
	cards := c.Cards()
	cards[0].Name = "changed"
	if c.Cards()[0].Name == "changed" {
		t.Fatal("Cards must return a copy")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		want  string
	}{
		{"bad age", "- {name: X, age: 4, color: red}", "age"},
		{"bad color", "- {name: X, age: 1, color: teal}", "teal"},
		{"bad resource", "- {name: X, age: 1, color: red, cost: {gold: 1}}", "gold"},
		{"bad effect", "- {name: X, age: 1, color: red, effects: [{kind: fly}]}", "fly"},
		{"duplicate", "- {name: X, age: 1, color: red}\n- {name: X, age: 1, color: red}", "duplicate"},
		{"destroy without color", "- {name: X, age: 1, color: red, effects: [{kind: destroy_card}]}", "color"},
		{"not yaml", "{{", "cards.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Load([]byte(tt.cards), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	cards := "- {name: Well, age: 1, color: blue, points: 1}\n"
	wonders := "- {name: Tower, points: 2}\n"
	if err := os.WriteFile(filepath.Join(dir, "cards.yaml"), []byte(cards), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "wonders.yaml"), []byte(wonders), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := catalog.LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Cards()) != 1 || len(c.Wonders()) != 1 || c.Wonders()[0].Points != 2 {
		t.Fatalf("unexpected catalog: %+v %+v", c.Cards(), c.Wonders())
	}
	if _, err := catalog.LoadDir(t.TempDir()); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestBuiltinRulesMatchDefaults(t *testing.T) {
	rules, err := catalog.BuiltinRules()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rules, engine.DefaultRules()) {
		t.Fatalf("rules.yaml drifted from DefaultRules:\n%+v\n%+v", rules, engine.DefaultRules())
	}
}

func TestLoadRulesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("starting_coins: 3\nscience_target: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rules, err := catalog.LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if rules.StartingCoins != 3 || rules.ScienceTarget != 5 {
		t.Fatalf("overlay not applied: %+v", rules)
	}
	if rules.TrackLength != 18 || len(rules.Markers) != 2 {
		t.Fatalf("untouched fields should keep defaults: %+v", rules)
	}

	def, err := catalog.LoadRules("")
	if err != nil || !reflect.DeepEqual(def, engine.DefaultRules()) {
		t.Fatalf("empty path should give defaults, got %+v %v", def, err)
	}
	if _, err := catalog.LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultCatalogPlaysAMatch(t *testing.T) {
	c, _ := catalog.Default()
	players := [2]*engine.Player{engine.NewPlayer("A", "a"), engine.NewPlayer("B", "b")}
	cfg := engine.DefaultConfig(c)
	cfg.Seed = 7
	m, err := engine.NewMatch(players, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}
	for !m.Over() {
		p := m.Current()
		if _, err := m.DiscardForCoins(p.ID, m.Layout().Takeable()[0]); err != nil {
			t.Fatalf("age %d: %v", m.Age(), err)
		}
	}
	if m.Result().Victory != engine.VictoryCivilian {
		t.Fatalf("discard-only match should end on civilian scoring, got %s", m.Result().Victory)
	}
}
