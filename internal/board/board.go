package board

import (
	"fmt"
	"strings"
)

// backRank is the piece order on each side's home row, a-file first.
var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is an 8x8 occupancy grid. Each square holds at most one piece and
// a piece's Square always matches its grid location.
type Board struct {
	grid [8][8]*Piece
}

// NewBoard creates a board with the standard starting position.
func NewBoard() *Board {
	b := EmptyBoard()
	for _, c := range []Color{White, Black} {
		for col, pt := range backRank {
			b.Place(NewPiece(pt, c, Square{Row: c.HomeRow(), Col: col}))
			b.Place(NewPiece(Pawn, c, Square{Row: c.PawnRow(), Col: col}))
		}
	}
	return b
}

// EmptyBoard creates a board with no pieces.
func EmptyBoard() *Board {
	return &Board{}
}

// InBounds returns true if the square lies on the board.
func (b *Board) InBounds(sq Square) bool {
	return sq.IsValid()
}

// PieceAt returns the piece on the square, or nil if it is empty or off
// the board.
func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.IsValid() {
		return nil
	}
	return b.grid[sq.Row][sq.Col]
}

// IsEmpty returns true if the square holds no piece.
func (b *Board) IsEmpty(sq Square) bool {
	return b.PieceAt(sq) == nil
}

// Place puts a piece on its own square, replacing whatever was there.
func (b *Board) Place(p *Piece) {
	if p == nil || !p.Square.IsValid() {
		return
	}
	b.grid[p.Square.Row][p.Square.Col] = p
}

// Remove clears a square and returns the piece that was on it.
func (b *Board) Remove(sq Square) *Piece {
	p := b.PieceAt(sq)
	if p != nil {
		b.grid[sq.Row][sq.Col] = nil
	}
	return p
}

// Relocate moves the piece on from to to, marking it as moved. Whatever
// stood on to is removed and returned.
func (b *Board) Relocate(from, to Square) *Piece {
	p := b.PieceAt(from)
	if p == nil || !to.IsValid() {
		return nil
	}
	captured := b.grid[to.Row][to.Col]
	b.grid[from.Row][from.Col] = nil
	b.grid[to.Row][to.Col] = p
	p.Square = to
	p.HasMoved = true
	return captured
}

// Trial applies a hypothetical move of p to to, also emptying any extra
// squares, runs fn, and restores the exact prior occupancy of every touched
// square before returning fn's result. Trials must not be nested on the
// same squares.
func (b *Board) Trial(p *Piece, to Square, extra []Square, fn func() bool) bool {
	from := p.Square
	if !from.IsValid() || !to.IsValid() {
		return false
	}

	type cell struct {
		sq    Square
		piece *Piece
	}
	prevFrom := b.grid[from.Row][from.Col]
	prevTo := b.grid[to.Row][to.Col]
	saved := make([]cell, 0, len(extra))
	for _, sq := range extra {
		if sq.IsValid() {
			saved = append(saved, cell{sq, b.grid[sq.Row][sq.Col]})
		}
	}

	defer func() {
		for i := len(saved) - 1; i >= 0; i-- {
			b.grid[saved[i].sq.Row][saved[i].sq.Col] = saved[i].piece
		}
		b.grid[to.Row][to.Col] = prevTo
		b.grid[from.Row][from.Col] = prevFrom
		p.Square = from
	}()

	b.grid[from.Row][from.Col] = nil
	b.grid[to.Row][to.Col] = p
	p.Square = to
	for _, c := range saved {
		b.grid[c.sq.Row][c.sq.Col] = nil
	}

	return fn()
}

// Pieces returns all pieces of the given color in row-major order.
func (b *Board) Pieces(c Color) []*Piece {
	var out []*Piece
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.grid[row][col]; p != nil && p.Color == c {
				out = append(out, p)
			}
		}
	}
	return out
}

// King returns the king of the given color, or nil if it is missing.
func (b *Board) King(c Color) *Piece {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.grid[row][col]; p != nil && p.Type == King && p.Color == c {
				return p
			}
		}
	}
	return nil
}

// Linear walks from the piece's square along each direction until the edge
// or a blocker. An enemy blocker's square is included, a friendly one is not.
func (b *Board) Linear(p *Piece, dirs []Direction) []Square {
	var out []Square
	for _, d := range dirs {
		for sq := p.Square.Offset(d.DRow, d.DCol); sq.IsValid(); sq = sq.Offset(d.DRow, d.DCol) {
			target := b.grid[sq.Row][sq.Col]
			if target == nil {
				out = append(out, sq)
				continue
			}
			if target.Color != p.Color {
				out = append(out, sq)
			}
			break
		}
	}
	return out
}

// Clone creates a deep copy of the board. Pieces are copied, so the clone
// shares no state with the original.
func (b *Board) Clone() *Board {
	nb := &Board{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			nb.grid[row][col] = b.grid[row][col].Copy()
		}
	}
	return nb
}

// Equal reports whether both boards hold the same pieces, with the same
// moved flags, on the same squares.
func (b *Board) Equal(other *Board) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p, q := b.grid[row][col], other.grid[row][col]
			if (p == nil) != (q == nil) {
				return false
			}
			if p != nil && *p != *q {
				return false
			}
		}
	}
	return true
}

// Validate checks that every piece's stored square matches its location
// and that each side has exactly one king.
func (b *Board) Validate() error {
	kings := [2]int{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p == nil {
				continue
			}
			if p.Square != (Square{row, col}) {
				return fmt.Errorf("%s stored at %s", p, Square{row, col})
			}
			if p.Color > Black {
				return fmt.Errorf("piece at %s has no color", p.Square)
			}
			if p.Type == King {
				kings[p.Color]++
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	return nil
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for col := 0; col < 8; col++ {
			sb.WriteByte(b.grid[row][col].Char())
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
