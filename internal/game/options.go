package game

import (
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/cards"
)

// CardProvider deals and tracks the cards held by each color.
// *cards.Hands is the default implementation.
type CardProvider interface {
	Draw(c board.Color) (cards.Card, bool)
	Play(c board.Color, id string) (cards.Card, bool)
	Find(id string) (cards.Card, board.Color, bool)
	Return(c board.Color, card cards.Card) bool
	Hand(c board.Color) []cards.Card
}

type config struct {
	seed        int64
	handSize    int
	openingHand int
	logger      *log.Logger
	startFEN    string
	provider    CardProvider
}

func defaultConfig() config {
	return config{
		seed:        time.Now().UnixNano(),
		handSize:    cards.DefaultMaxHand,
		openingHand: cards.DefaultOpeningHand,
		logger:      log.New(io.Discard, "", 0),
	}
}

// Option configures a Game.
type Option func(*config)

// WithSeed makes deck shuffles and card IDs reproducible.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithHandSize sets the hand capacity and the opening hand size.
func WithHandSize(max, opening int) Option {
	return func(c *config) {
		if max > 0 {
			c.handSize = max
		}
		if opening >= 0 {
			c.openingHand = opening
		}
	}
}

// WithLogger sets the logger game events are written to.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStartFEN starts from the given position instead of the standard one.
func WithStartFEN(fen string) Option {
	return func(c *config) { c.startFEN = fen }
}

// WithCards replaces the default deck and hands. The provider is kept
// across Reset.
func WithCards(p CardProvider) Option {
	return func(c *config) { c.provider = p }
}

func (c *config) newRand() *rand.Rand {
	return rand.New(rand.NewSource(c.seed))
}
