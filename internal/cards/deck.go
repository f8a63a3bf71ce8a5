package cards

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/hailam/chessmod/internal/board"
)

// Hand limits.
const (
	DefaultMaxHand     = 10
	DefaultOpeningHand = 3
)

// Deck is a shuffled draw pile built from the catalog. When it runs out a
// fresh deck is built and shuffled.
type Deck struct {
	rng       *rand.Rand
	templates []Template
	cards     []Card
}

// NewDeck builds and shuffles a deck from the catalog.
func NewDeck(rng *rand.Rand) *Deck {
	return NewDeckFrom(rng, Templates())
}

// NewDeckFrom builds and shuffles a deck from the given templates.
func NewDeckFrom(rng *rand.Rand, tmpl []Template) *Deck {
	d := &Deck{rng: rng, templates: tmpl}
	d.refill()
	return d
}

// refill replaces the pile with a fresh shuffled deck.
func (d *Deck) refill() {
	d.cards = d.cards[:0]
	for _, t := range d.templates {
		for i := 0; i < t.Count; i++ {
			d.cards = append(d.cards, Card{
				ID:          d.newID(),
				Name:        t.Name,
				Description: t.Description,
				Effect:      t.Effect,
				Duration:    t.Duration,
			})
		}
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// newID derives a card ID from the deck's random source so seeded games
// deal identical cards.
func (d *Deck) newID() string {
	id, err := uuid.NewRandomFromReader(d.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Draw takes the top card, reshuffling a fresh deck when empty.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		d.refill()
	}
	if len(d.cards) == 0 {
		return Card{}
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c
}

// Len returns the number of cards left in the pile.
func (d *Deck) Len() int {
	return len(d.cards)
}

// find returns the card with the given ID still in the pile.
func (d *Deck) find(id string) (Card, bool) {
	for _, c := range d.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Hands holds both colors' hands and deals from a shared deck.
type Hands struct {
	deck  *Deck
	hands [2][]Card
	max   int
}

// NewHands creates hands capped at max cards and deals the opening hand to
// both colors, white first.
func NewHands(deck *Deck, max, opening int) *Hands {
	if max <= 0 {
		max = DefaultMaxHand
	}
	h := &Hands{deck: deck, max: max}
	for i := 0; i < opening; i++ {
		h.Draw(board.White)
		h.Draw(board.Black)
	}
	return h
}

// Max returns the hand capacity.
func (h *Hands) Max() int {
	return h.max
}

// Draw deals one card to the color. It returns false when the hand is full.
func (h *Hands) Draw(c board.Color) (Card, bool) {
	if c > board.Black || len(h.hands[c]) >= h.max {
		return Card{}, false
	}
	card := h.deck.Draw()
	h.hands[c] = append(h.hands[c], card)
	return card, true
}

// Play removes the card from the color's hand.
func (h *Hands) Play(c board.Color, id string) (Card, bool) {
	if c > board.Black {
		return Card{}, false
	}
	hand := h.hands[c]
	for i, card := range hand {
		if card.ID == id {
			h.hands[c] = append(hand[:i:i], hand[i+1:]...)
			return card, true
		}
	}
	return Card{}, false
}

// Return puts a card back into the color's hand if there is room.
func (h *Hands) Return(c board.Color, card Card) bool {
	if c > board.Black || len(h.hands[c]) >= h.max {
		return false
	}
	h.hands[c] = append(h.hands[c], card)
	return true
}

// Find looks a card up by ID in either hand, then in the draw pile. Cards
// still in the pile have NoColor as owner.
func (h *Hands) Find(id string) (Card, board.Color, bool) {
	for _, c := range []board.Color{board.White, board.Black} {
		for _, card := range h.hands[c] {
			if card.ID == id {
				return card, c, true
			}
		}
	}
	if card, ok := h.deck.find(id); ok {
		return card, board.NoColor, true
	}
	return Card{}, board.NoColor, false
}

// Hand returns a copy of the color's hand.
func (h *Hands) Hand(c board.Color) []Card {
	if c > board.Black {
		return nil
	}
	out := make([]Card, len(h.hands[c]))
	copy(out, h.hands[c])
	return out
}

// State is the serializable form of the hands and draw pile.
type State struct {
	Max   int    `json:"max"`
	White []Card `json:"white"`
	Black []Card `json:"black"`
	Pile  []Card `json:"pile"`
}

// State returns a snapshot of the hands and draw pile.
func (h *Hands) State() State {
	pile := make([]Card, len(h.deck.cards))
	copy(pile, h.deck.cards)
	return State{
		Max:   h.max,
		White: h.Hand(board.White),
		Black: h.Hand(board.Black),
		Pile:  pile,
	}
}

// RestoreHands rebuilds hands from a snapshot. Future reshuffles use rng.
func RestoreHands(s State, rng *rand.Rand) *Hands {
	deck := &Deck{rng: rng, templates: Templates()}
	deck.cards = append(deck.cards, s.Pile...)
	h := &Hands{deck: deck, max: s.Max}
	if h.max <= 0 {
		h.max = DefaultMaxHand
	}
	h.hands[board.White] = append([]Card(nil), s.White...)
	h.hands[board.Black] = append([]Card(nil), s.Black...)
	return h
}
