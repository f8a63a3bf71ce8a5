package rules

import "github.com/hailam/chessmod/internal/board"

// Outcome tags a position's state for one side. Outcomes describe the
// game; they are not executable moves.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Check
	Checkmate
	Stalemate
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// contextFor adapts ctx to evaluating color c. Castling needs c to be the
// side to move and an en-passant target only ever belongs to the side to
// move.
func contextFor(ctx *Context, c board.Color) *Context {
	if ctx == nil {
		return &Context{Turn: c}
	}
	cc := *ctx
	if cc.Turn != c {
		cc.Turn = c
		cc.EnPassant = nil
	}
	return &cc
}

// MoveFilter reports whether a legal move may actually be played. Games
// layer their own restrictions, such as protected pieces, on top of the
// rules through filters.
type MoveFilter func(m board.Move) bool

// HasLegalMoves returns true if any piece of color c has a legal move that
// passes every filter.
func HasLegalMoves(b *board.Board, c board.Color, ctx *Context, filters ...MoveFilter) bool {
	cc := contextFor(ctx, c)
	for _, p := range b.Pieces(c) {
		for _, to := range LegalMoves(b, p, cc) {
			if accepted(b, p, to, cc, filters) {
				return true
			}
		}
	}
	return false
}

func accepted(b *board.Board, p *board.Piece, to board.Square, ctx *Context, filters []MoveFilter) bool {
	if len(filters) == 0 {
		return true
	}
	m := Classify(b, p, to, ctx)
	for _, f := range filters {
		if !f(m) {
			return false
		}
	}
	return true
}

// IsCheckmate returns true if c is in check and has no legal move.
func IsCheckmate(b *board.Board, c board.Color, ctx *Context, filters ...MoveFilter) bool {
	return b.IsKingInCheck(c) && !HasLegalMoves(b, c, ctx, filters...)
}

// IsStalemate returns true if c is not in check but has no legal move.
func IsStalemate(b *board.Board, c board.Color, ctx *Context, filters ...MoveFilter) bool {
	return !b.IsKingInCheck(c) && !HasLegalMoves(b, c, ctx, filters...)
}

// Status classifies the position for color c.
func Status(b *board.Board, c board.Color, ctx *Context, filters ...MoveFilter) Outcome {
	inCheck := b.IsKingInCheck(c)
	hasMoves := HasLegalMoves(b, c, ctx, filters...)
	switch {
	case inCheck && !hasMoves:
		return Checkmate
	case !hasMoves:
		return Stalemate
	case inCheck:
		return Check
	}
	return Ongoing
}
