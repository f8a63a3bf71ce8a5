// Package rules composes the move generators, the special move handlers
// and the check filter into legal move sets, and executes moves.
package rules

import (
	"errors"
	"fmt"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/special"
)

// Context is the special move context: turn, history, en-passant target
// and castling rights.
type Context = special.Context

var (
	// ErrIllegalMove indicates a destination outside the piece's legal set.
	ErrIllegalMove = errors.New("illegal move")
	// ErrUnknownSpecial indicates a special tag with no registered handler.
	ErrUnknownSpecial = errors.New("unknown special move")
)

// LegalMoves returns the piece's legal destinations. Base candidates go
// through the check filter; with a context, every available special move
// whose handler validates it is added as well.
func LegalMoves(b *board.Board, p *board.Piece, ctx *Context) []board.Square {
	if p == nil {
		return nil
	}
	legal := baseMoves(b, p)
	if ctx == nil {
		return legal
	}

	for _, h := range special.Handlers() {
		if !h.IsAvailable(p, b, ctx) {
			continue
		}
		for _, to := range h.ValidPositions(p, b, ctx) {
			if board.ContainsSquare(legal, to) {
				continue
			}
			if h.Validate(h.Build(p, to, b), b, ctx) {
				legal = append(legal, to)
			}
		}
	}
	return legal
}

// baseMoves returns the piece's geometric candidates that keep its king safe.
// A king is attacked but never captured: when a card leaves the enemy king
// in check with the same side to move, its square stays off limits.
func baseMoves(b *board.Board, p *board.Piece) []board.Square {
	return b.FilterMovesThatLeaveKingInCheck(withoutKings(b, board.Candidates(p, b)), p)
}

func withoutKings(b *board.Board, squares []board.Square) []board.Square {
	out := squares[:0]
	for _, sq := range squares {
		if t := b.PieceAt(sq); t != nil && t.Type == board.King {
			continue
		}
		out = append(out, sq)
	}
	return out
}

// InferSpecial returns the special tag a move of p to to implies: a king
// moving two columns castles, a pawn moving diagonally onto the en-passant
// target captures in passing.
func InferSpecial(p *board.Piece, to board.Square, ctx *Context) board.Special {
	switch p.Type {
	case board.King:
		if to.Row != p.Square.Row {
			return board.NoSpecial
		}
		switch to.Col - p.Square.Col {
		case 2:
			return board.CastlingKingside
		case -2:
			return board.CastlingQueenside
		}
	case board.Pawn:
		if ctx != nil && ctx.EnPassant != nil && to == *ctx.EnPassant && to.Col != p.Square.Col {
			return board.EnPassant
		}
	}
	return board.NoSpecial
}

// Classify builds the full move of p to to: special tag and data, captured
// piece snapshot and promotion. Pawns reaching the last row become queens.
func Classify(b *board.Board, p *board.Piece, to board.Square, ctx *Context) board.Move {
	var m board.Move
	if kind := InferSpecial(p, to, ctx); kind != board.NoSpecial {
		h, _ := special.Lookup(kind)
		m = h.Build(p, to, b)
	} else {
		m = board.NewMove(p, to)
		m.Captured = b.PieceAt(to).Copy()
	}
	if p.Type == board.Pawn && to.Row == p.Color.LastRow() {
		m.Promotion = board.Queen
	}
	return m
}

// Execute plays a move on the board. Tagged moves are validated and
// executed by their handler; plain moves must be in the piece's checked
// base set. The board is untouched when an error is returned.
func Execute(b *board.Board, m board.Move, ctx *Context) (board.Move, error) {
	if m.Special != board.NoSpecial {
		h, ok := special.Lookup(m.Special)
		if !ok {
			return m, fmt.Errorf("%w: %s", ErrUnknownSpecial, m.Special)
		}
		if !h.Validate(m, b, ctx) {
			return m, fmt.Errorf("%w: %s %s", ErrIllegalMove, m.Special, m)
		}
		if !h.Execute(m, b, ctx) {
			return m, fmt.Errorf("%w: %s %s", ErrIllegalMove, m.Special, m)
		}
		return m, nil
	}

	p := b.PieceAt(m.From)
	if p == nil || p.Color != m.Piece.Color || p.Type != m.Piece.Type {
		return m, fmt.Errorf("%w: no %s %s on %s", ErrIllegalMove, m.Piece.Color, m.Piece.Type, m.From)
	}
	if !board.ContainsSquare(baseMoves(b, p), m.To) {
		return m, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	m.Captured = b.Relocate(m.From, m.To).Copy()
	if m.IsPromotion() {
		p.Type = m.Promotion
	}
	return m, nil
}

// NextEnPassant returns the en-passant target a completed move creates:
// the skipped square of a two-square pawn advance, nil otherwise.
func NextEnPassant(m board.Move) *board.Square {
	if m.Piece.Type != board.Pawn || m.From.Row != m.Piece.Color.PawnRow() {
		return nil
	}
	if m.To.Row-m.From.Row != 2*m.Piece.Color.Forward() || m.To.Col != m.From.Col {
		return nil
	}
	sq := board.Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
	return &sq
}
