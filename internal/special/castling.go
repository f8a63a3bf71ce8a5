package special

import "github.com/hailam/chessmod/internal/board"

// castling handles O-O (kingSide) and O-O-O.
type castling struct {
	kingSide bool
}

func (c castling) Kind() board.Special {
	if c.kingSide {
		return board.CastlingKingside
	}
	return board.CastlingQueenside
}

// step is the column direction from the king toward the castling rook.
func (c castling) step() int {
	if c.kingSide {
		return 1
	}
	return -1
}

func (c castling) rookCol() int {
	if c.kingSide {
		return 7
	}
	return 0
}

// IsAvailable requires an unmoved king of the side to move, the matching
// castling right, a king not in check, empty squares up to the rook and an
// unmoved friendly rook on the corner.
func (c castling) IsAvailable(p *board.Piece, b *board.Board, ctx *Context) bool {
	if p == nil || ctx == nil || p.Type != board.King || p.HasMoved {
		return false
	}
	if p.Color != ctx.Turn || !ctx.Castling.CanCastle(p.Color, c.kingSide) {
		return false
	}
	if b.IsKingInCheck(p.Color) {
		return false
	}

	row := p.Square.Row
	rookSq := board.Square{Row: row, Col: c.rookCol()}
	for col := p.Square.Col + c.step(); col != rookSq.Col; col += c.step() {
		if !b.IsEmpty(board.Square{Row: row, Col: col}) {
			return false
		}
	}

	rook := b.PieceAt(rookSq)
	return rook != nil && rook.Type == board.Rook && rook.Color == p.Color && !rook.HasMoved
}

func (c castling) ValidPositions(p *board.Piece, b *board.Board, ctx *Context) []board.Square {
	if !c.IsAvailable(p, b, ctx) {
		return nil
	}
	return []board.Square{p.Square.Offset(0, 2*c.step())}
}

// Validate also rejects castling through or into an attacked square. The
// origin is covered by IsAvailable.
func (c castling) Validate(m board.Move, b *board.Board, ctx *Context) bool {
	if m.Special != c.Kind() || m.Castling == nil {
		return false
	}
	king := b.PieceAt(m.From)
	if king == nil || king.Type != board.King || king.Color != m.Piece.Color {
		return false
	}
	if !c.IsAvailable(king, b, ctx) {
		return false
	}
	if m.To != m.From.Offset(0, 2*c.step()) {
		return false
	}

	enemy := king.Color.Other()
	transit := m.From.Offset(0, c.step())
	if b.IsSquareAttacked(transit, enemy) {
		return false
	}
	if b.IsSquareAttacked(m.To, enemy) {
		return false
	}
	return true
}

// Execute moves the king two squares and the rook next to it on the inside.
func (c castling) Execute(m board.Move, b *board.Board, ctx *Context) bool {
	if m.Castling == nil {
		return false
	}
	king := b.PieceAt(m.From)
	rook := b.PieceAt(m.Castling.RookFrom)
	if king == nil || rook == nil {
		return false
	}
	if !b.IsEmpty(m.To) || !b.IsEmpty(m.Castling.RookTo) {
		return false
	}

	b.Relocate(m.From, m.To)
	b.Relocate(m.Castling.RookFrom, m.Castling.RookTo)
	return true
}

func (c castling) Build(p *board.Piece, to board.Square, b *board.Board) board.Move {
	m := board.NewMove(p, to)
	m.Special = c.Kind()
	m.Castling = &board.CastlingData{
		RookFrom: board.Square{Row: p.Square.Row, Col: c.rookCol()},
		RookTo:   to.Offset(0, -c.step()),
	}
	return m
}
