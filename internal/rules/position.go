package rules

import (
	"fmt"

	"github.com/hailam/chessmod/internal/board"
)

// Position is a board together with the rule state that travels with it:
// side to move, castling rights and en-passant target.
type Position struct {
	Board     *board.Board
	Turn      board.Color
	Castling  board.CastlingRights
	EnPassant *board.Square
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	return &Position{
		Board:    board.NewBoard(),
		Turn:     board.White,
		Castling: board.AllCastling,
	}
}

// ParseFEN creates a position from a FEN string.
func ParseFEN(fen string) (*Position, error) {
	s, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Position{
		Board:     s.Board,
		Turn:      s.Turn,
		Castling:  s.Castling,
		EnPassant: s.EnPassant,
	}, nil
}

// FEN returns the position as a FEN string with zeroed clocks.
func (p *Position) FEN() string {
	s := board.Setup{Board: p.Board, Turn: p.Turn, Castling: p.Castling, EnPassant: p.EnPassant}
	return s.FEN()
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	np := *p
	np.Board = p.Board.Clone()
	if p.EnPassant != nil {
		ep := *p.EnPassant
		np.EnPassant = &ep
	}
	return &np
}

// Context returns the special move context for the side to move.
func (p *Position) Context(history []board.Move) *Context {
	return &Context{
		Turn:      p.Turn,
		History:   history,
		EnPassant: p.EnPassant,
		Castling:  p.Castling,
	}
}

// LegalMoves returns every legal move of the side to move.
func (p *Position) LegalMoves() []board.Move {
	ctx := p.Context(nil)
	var moves []board.Move
	for _, pc := range p.Board.Pieces(p.Turn) {
		for _, to := range LegalMoves(p.Board, pc, ctx) {
			moves = append(moves, Classify(p.Board, pc, to, ctx))
		}
	}
	return moves
}

// Apply executes a move and updates castling rights and the en-passant
// target. It does not change the side to move.
func (p *Position) Apply(m board.Move, history []board.Move) (board.Move, error) {
	if m.Piece.Color != p.Turn {
		return m, fmt.Errorf("%w: %s to move", ErrIllegalMove, p.Turn)
	}
	done, err := Execute(p.Board, m, p.Context(history))
	if err != nil {
		return m, err
	}
	p.Castling.Update(done)
	p.EnPassant = NextEnPassant(done)
	return done, nil
}

// Play applies a move and passes the turn.
func (p *Position) Play(m board.Move) (board.Move, error) {
	done, err := p.Apply(m, nil)
	if err != nil {
		return done, err
	}
	p.Turn = p.Turn.Other()
	return done, nil
}

// Status classifies the position for the side to move.
func (p *Position) Status() Outcome {
	return Status(p.Board, p.Turn, p.Context(nil))
}
