// Package opponent implements the automated player. It reads the game
// through View and submits moves through the same selection and move calls
// a human uses.
package opponent

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/hailam/chessmod/internal/board"
)

// ErrStale is returned when a choice was computed for a superseded game
// state.
var ErrStale = errors.New("stale opponent move")

// View is the read access the opponent needs.
type View interface {
	PieceAt(sq board.Square) *board.Piece
	InBounds(sq board.Square) bool
	LegalMoves(p *board.Piece) []board.Square
}

// Mover submits a move the way a human player does.
type Mover interface {
	Select(sq board.Square) error
	MakeMove(to board.Square) error
	Generation() uint64
}

// Difficulty selects how the opponent picks among legal moves.
type Difficulty int

const (
	Easy   Difficulty = iota // uniformly random
	Medium                   // any capture first, else random
	Hard                     // most valuable capture first, else random
)

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

// ParseDifficulty parses a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		if d.String() == s {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty: %q", s)
}

// Choice is a move picked for a given game generation.
type Choice struct {
	From       board.Square
	To         board.Square
	Capture    bool
	Generation uint64
}

// String returns the choice in long algebraic form.
func (c Choice) String() string {
	return c.From.String() + c.To.String()
}

// Opponent picks moves for one color.
type Opponent struct {
	rng        *rand.Rand
	difficulty Difficulty
	log        *log.Logger
}

// New creates an opponent. A nil logger discards output.
func New(rng *rand.Rand, d Difficulty, logger *log.Logger) *Opponent {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Opponent{rng: rng, difficulty: d, log: logger}
}

// SetDifficulty changes the difficulty.
func (o *Opponent) SetDifficulty(d Difficulty) {
	o.difficulty = d
}

// Difficulty returns the current difficulty.
func (o *Opponent) Difficulty() Difficulty {
	return o.difficulty
}

type candidate struct {
	from, to board.Square
	victim   *board.Piece
}

// ChooseMove picks a legal move for color c. It returns false when c has
// no legal move.
func (o *Opponent) ChooseMove(v View, c board.Color) (Choice, bool) {
	var all, captures []candidate
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := board.Square{Row: row, Col: col}
			if !v.InBounds(sq) {
				continue
			}
			p := v.PieceAt(sq)
			if p == nil || p.Color != c {
				continue
			}
			for _, to := range v.LegalMoves(p) {
				cand := candidate{from: sq, to: to, victim: v.PieceAt(to)}
				all = append(all, cand)
				if cand.victim != nil {
					captures = append(captures, cand)
				}
			}
		}
	}
	if len(all) == 0 {
		o.log.Printf("[AI] %s has no legal move", c)
		return Choice{}, false
	}

	pool := all
	switch o.difficulty {
	case Medium:
		if len(captures) > 0 {
			pool = captures
		}
	case Hard:
		if len(captures) > 0 {
			pool = bestCaptures(captures)
		}
	}
	pick := pool[o.rng.Intn(len(pool))]
	o.log.Printf("[AI] %s picks %s%s from %d moves (%d captures)", c, pick.from, pick.to, len(all), len(captures))
	return Choice{From: pick.from, To: pick.to, Capture: pick.victim != nil}, true
}

// bestCaptures keeps the captures of the most valuable victims.
func bestCaptures(captures []candidate) []candidate {
	best := -1
	var out []candidate
	for _, c := range captures {
		v := c.victim.Value()
		switch {
		case v > best:
			best = v
			out = append(out[:0], c)
		case v == best:
			out = append(out, c)
		}
	}
	return out
}

// Play submits a choice. Choices computed for another generation are
// rejected with ErrStale.
func Play(m Mover, c Choice) error {
	if m.Generation() != c.Generation {
		return fmt.Errorf("%w: computed for generation %d, game at %d", ErrStale, c.Generation, m.Generation())
	}
	if err := m.Select(c.From); err != nil {
		return err
	}
	return m.MakeMove(c.To)
}
