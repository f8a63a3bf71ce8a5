// Package special implements the special move handlers: castling on either
// side and en passant. Each handler is selected by its board.Special tag
// from a fixed registry.
package special

import "github.com/hailam/chessmod/internal/board"

// Context is the game-level state special moves depend on.
type Context struct {
	Turn      board.Color
	History   []board.Move
	EnPassant *board.Square
	Castling  board.CastlingRights
}

// Handler is a special move strategy.
type Handler interface {
	// Kind returns the tag this handler executes.
	Kind() board.Special

	// IsAvailable reports whether the piece may attempt this special move now.
	IsAvailable(p *board.Piece, b *board.Board, ctx *Context) bool

	// ValidPositions returns the destinations this special move offers.
	ValidPositions(p *board.Piece, b *board.Board, ctx *Context) []board.Square

	// Validate reports whether a tagged move is legal, including king safety.
	Validate(m board.Move, b *board.Board, ctx *Context) bool

	// Execute applies a validated move to the board.
	Execute(m board.Move, b *board.Board, ctx *Context) bool

	// Build returns the tagged move of p to to.
	Build(p *board.Piece, to board.Square, b *board.Board) board.Move
}

var registry = [...]Handler{
	castling{kingSide: true},
	castling{kingSide: false},
	enPassant{},
}

// Handlers returns every registered handler.
func Handlers() []Handler {
	out := make([]Handler, len(registry))
	copy(out, registry[:])
	return out
}

// Lookup returns the handler for a tag.
func Lookup(kind board.Special) (Handler, bool) {
	for _, h := range registry {
		if h.Kind() == kind {
			return h, true
		}
	}
	return nil, false
}
