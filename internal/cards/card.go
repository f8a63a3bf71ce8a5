// Package cards implements the card catalog, the shuffled deck and the
// per-color hands that feed the card effect layer.
package cards

import (
	"encoding/json"
	"fmt"
)

// Effect tags what a card does when played.
type Effect uint8

const (
	MoveTwice Effect = iota
	Teleport
	SwapPieces
	ProtectPiece
	ExtraTurn
)

var effectNames = [...]string{"move_twice", "teleport", "swap_pieces", "protect_piece", "extra_turn"}

// String returns the effect tag.
func (e Effect) String() string {
	if int(e) < len(effectNames) {
		return effectNames[e]
	}
	return fmt.Sprintf("effect(%d)", uint8(e))
}

// ParseEffect parses an effect tag.
func ParseEffect(s string) (Effect, error) {
	for i, n := range effectNames {
		if n == s {
			return Effect(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card effect: %q", s)
}

// MarshalJSON encodes the effect by tag.
func (e Effect) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON decodes an effect tag.
func (e *Effect) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEffect(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Card is one card instance. IDs are unique across the deck and hands.
type Card struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Effect      Effect `json:"effect"`
	Duration    int    `json:"duration,omitempty"`
}

// String returns the card name and effect.
func (c Card) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Effect)
}

// Template describes a card and how many copies a fresh deck holds.
type Template struct {
	Name        string
	Description string
	Effect      Effect
	Duration    int // turns, for timed effects
	Count       int
}

var templates = []Template{
	{
		Name:        "Double Move",
		Description: "Move a piece twice in one turn",
		Effect:      MoveTwice,
		Count:       8,
	},
	{
		Name:        "Teleport",
		Description: "Move any piece to any empty square",
		Effect:      Teleport,
		Count:       6,
	},
	{
		Name:        "Swap",
		Description: "Swap positions of two friendly pieces",
		Effect:      SwapPieces,
		Count:       5,
	},
	{
		Name:        "Shield",
		Description: "Make a piece immune to capture for 2 turns",
		Effect:      ProtectPiece,
		Duration:    2,
		Count:       4,
	},
	{
		Name:        "Time Warp",
		Description: "Get an additional turn after this one",
		Effect:      ExtraTurn,
		Count:       3,
	},
}

// Templates returns the card catalog.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TotalDeckSize returns the number of cards in a fresh deck.
func TotalDeckSize() int {
	n := 0
	for _, t := range templates {
		n += t.Count
	}
	return n
}
