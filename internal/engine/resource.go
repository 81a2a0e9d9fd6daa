package engine

import (
	"fmt"
	"strings"
)

// Resource identifies a cost component. Coin is the only non-material kind.
type Resource int

const (
	Wood Resource = iota + 1
	Clay
	Stone
	Glass
	Papyrus
	Coin
)

var resourceNames = map[Resource]string{
	Wood:    "Wood",
	Clay:    "Clay",
	Stone:   "Stone",
	Glass:   "Glass",
	Papyrus: "Papyrus",
	Coin:    "Coin",
}

func (r Resource) String() string {
	if s, ok := resourceNames[r]; ok {
		return s
	}
	return "Unknown"
}

// Tradable reports whether the resource can be bought from the bank.
func (r Resource) Tradable() bool {
	switch r {
	case Wood, Clay, Stone, Glass, Papyrus:
		return true
	}
	return false
}

// TradableResources returns the five material kinds in display order.
func TradableResources() []Resource {
	return []Resource{Wood, Clay, Stone, Glass, Papyrus}
}

// Cost maps each resource (Coin included) to the required amount.
type Cost map[Resource]int

// Coins returns the direct coin part of the cost.
func (c Cost) Coins() int { return c[Coin] }

// Color is the card category.
type Color int

const (
	ColorNone Color = iota
	Brown
	Grey
	Blue
	Yellow
	Red
	Green
	Purple
)

var colorNames = map[Color]string{
	ColorNone: "None",
	Brown:     "Brown",
	Grey:      "Grey",
	Blue:      "Blue",
	Yellow:    "Yellow",
	Red:       "Red",
	Green:     "Green",
	Purple:    "Purple",
}

func (c Color) String() string {
	if s, ok := colorNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Science is a science symbol. Law only comes from the Law progress token.
type Science int

const (
	ScienceNone Science = iota
	Globe
	Wheel
	Sundial
	Mortar
	Quill
	Tablet
	Law
)

var scienceNames = map[Science]string{
	ScienceNone: "None",
	Globe:       "Globe",
	Wheel:       "Wheel",
	Sundial:     "Sundial",
	Mortar:      "Mortar",
	Quill:       "Quill",
	Tablet:      "Tablet",
	Law:         "Law",
}

func (s Science) String() string {
	if n, ok := scienceNames[s]; ok {
		return n
	}
	return "Unknown"
}

// LinkSymbol is a chain badge. The empty symbol means none.
type LinkSymbol string

// ParseResource resolves a case-insensitive resource name.
func ParseResource(s string) (Resource, error) {
	for r, name := range resourceNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", s)
}

// ParseColor resolves a case-insensitive color name ("gray" is accepted).
func ParseColor(s string) (Color, error) {
	if strings.EqualFold(s, "gray") {
		return Grey, nil
	}
	for c, name := range colorNames {
		if c != ColorNone && strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return ColorNone, fmt.Errorf("unknown color %q", s)
}

// ParseScience resolves a case-insensitive science symbol name.
func ParseScience(s string) (Science, error) {
	for sym, name := range scienceNames {
		if sym != ScienceNone && strings.EqualFold(name, s) {
			return sym, nil
		}
	}
	return ScienceNone, fmt.Errorf("unknown science symbol %q", s)
}

func (r Resource) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Resource) UnmarshalText(b []byte) error {
	v, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (s Science) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Science) UnmarshalText(b []byte) error {
	if strings.EqualFold(string(b), "none") {
		*s = ScienceNone
		return nil
	}
	v, err := ParseScience(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
