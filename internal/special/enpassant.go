package special

import "github.com/hailam/chessmod/internal/board"

type enPassant struct{}

func (enPassant) Kind() board.Special {
	return board.EnPassant
}

// IsAvailable requires a pawn with the en-passant target one row forward
// and one column to either side.
func (enPassant) IsAvailable(p *board.Piece, b *board.Board, ctx *Context) bool {
	if p == nil || ctx == nil || ctx.EnPassant == nil || p.Type != board.Pawn {
		return false
	}
	target := *ctx.EnPassant
	if target.Row != p.Square.Row+p.Color.Forward() {
		return false
	}
	dc := target.Col - p.Square.Col
	return dc == 1 || dc == -1
}

func (h enPassant) ValidPositions(p *board.Piece, b *board.Board, ctx *Context) []board.Square {
	if !h.IsAvailable(p, b, ctx) {
		return nil
	}
	return []board.Square{*ctx.EnPassant}
}

// Validate requires an enemy pawn directly behind the target and a king
// left safe once both pawns are gone from their squares.
func (enPassant) Validate(m board.Move, b *board.Board, ctx *Context) bool {
	if m.Special != board.EnPassant || m.EnPassant == nil {
		return false
	}
	if ctx != nil && (ctx.EnPassant == nil || *ctx.EnPassant != m.To) {
		return false
	}
	pawn := b.PieceAt(m.From)
	if pawn == nil || pawn.Type != board.Pawn || pawn.Color != m.Piece.Color {
		return false
	}

	capSq := m.EnPassant.CapturedSquare
	if capSq != (board.Square{Row: m.From.Row, Col: m.To.Col}) {
		return false
	}
	victim := b.PieceAt(capSq)
	if victim == nil || victim.Type != board.Pawn || victim.Color == pawn.Color {
		return false
	}
	if !b.IsEmpty(m.To) {
		return false
	}

	return b.Trial(pawn, m.To, []board.Square{capSq}, func() bool {
		return !b.IsKingInCheck(pawn.Color)
	})
}

// Execute moves the pawn and removes the passed pawn. Setting a new target
// is the caller's job.
func (enPassant) Execute(m board.Move, b *board.Board, ctx *Context) bool {
	if m.EnPassant == nil || b.PieceAt(m.From) == nil {
		return false
	}
	b.Relocate(m.From, m.To)
	b.Remove(m.EnPassant.CapturedSquare)
	return true
}

func (enPassant) Build(p *board.Piece, to board.Square, b *board.Board) board.Move {
	m := board.NewMove(p, to)
	m.Special = board.EnPassant
	capSq := board.Square{Row: p.Square.Row, Col: to.Col}
	m.EnPassant = &board.EnPassantData{CapturedSquare: capSq}
	m.Captured = b.PieceAt(capSq).Copy()
	return m
}
