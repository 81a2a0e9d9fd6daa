package engine

import (
	"fmt"
	"strings"
)

// ProgressToken is a green reward token gained from science pairs.
type ProgressToken int

const (
	Agriculture ProgressToken = iota + 1
	Architecture
	Economy
	LawToken
	Masonry
	Mathematics
	Philosophy
	Strategy
	Theology
	Urbanism
)

var tokenNames = map[ProgressToken]string{
	Agriculture:  "Agriculture",
	Architecture: "Architecture",
	Economy:      "Economy",
	LawToken:     "Law",
	Masonry:      "Masonry",
	Mathematics:  "Mathematics",
	Philosophy:   "Philosophy",
	Strategy:     "Strategy",
	Theology:     "Theology",
	Urbanism:     "Urbanism",
}

func (t ProgressToken) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "Unknown"
}

// ParseProgressToken resolves a case-insensitive token name.
func ParseProgressToken(s string) (ProgressToken, error) {
	for t, name := range tokenNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown progress token %q", s)
}

// AllProgressTokens returns the ten tokens in box order.
func AllProgressTokens() []ProgressToken {
	return []ProgressToken{
		Agriculture, Architecture, Economy, LawToken, Masonry,
		Mathematics, Philosophy, Strategy, Theology, Urbanism,
	}
}

// Token rewards paid on pick-up.
const (
	agricultureCoins   = 6
	agriculturePoints  = 4
	philosophyPoints   = 7
	urbanismCoins      = 6
	urbanismChainBonus = 4
	mathematicsPer     = 3
	discountWildcards  = 2
)

// tokenPool draws tokens without replacement.
type tokenPool struct {
	tokens []ProgressToken
}

func (p *tokenPool) draw(n int) []ProgressToken {
	n = min(n, len(p.tokens))
	out := make([]ProgressToken, n)
	copy(out, p.tokens[:n])
	p.tokens = p.tokens[n:]
	return out
}

func (p *tokenPool) remove(t ProgressToken) bool {
	for i, have := range p.tokens {
		if have == t {
			p.tokens = append(p.tokens[:i], p.tokens[i+1:]...)
			return true
		}
	}
	return false
}

func (p *tokenPool) list() []ProgressToken {
	out := make([]ProgressToken, len(p.tokens))
	copy(out, p.tokens)
	return out
}

func (t ProgressToken) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ProgressToken) UnmarshalText(b []byte) error {
	v, err := ParseProgressToken(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
