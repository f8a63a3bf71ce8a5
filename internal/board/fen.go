package board

import (
	"fmt"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Setup is a position loaded from FEN: the board plus the side to move,
// castling options and en-passant target. Clocks are accepted and ignored.
type Setup struct {
	Board     *Board
	Turn      Color
	Castling  CastlingRights
	EnPassant *Square
}

// ParseFEN parses a FEN string into a Setup.
//
// Pieces are unmoved except pawns off their start row and kings or rooks
// whose castling option is absent, so that castling availability matches
// the castling field.
func ParseFEN(fen string) (*Setup, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	b, err := ParsePlacement(parts[0])
	if err != nil {
		return nil, err
	}
	s := &Setup{Board: b}

	// Side to move
	switch parts[1] {
	case "w":
		s.Turn = White
	case "b":
		s.Turn = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Castling rights
	if parts[2] != "-" {
		for _, c := range parts[2] {
			switch c {
			case 'K':
				s.Castling.WhiteKingside = true
			case 'Q':
				s.Castling.WhiteQueenside = true
			case 'k':
				s.Castling.BlackKingside = true
			case 'q':
				s.Castling.BlackQueenside = true
			default:
				return nil, fmt.Errorf("invalid castling rights: %s", parts[2])
			}
		}
	}

	// En passant square
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		s.EnPassant = &sq
	}

	markMoved(b, s.Castling)
	return s, nil
}

// ParsePlacement parses the piece placement field of a FEN string.
func ParsePlacement(placement string) (*Board, error) {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	b := EmptyBoard()
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			c := rank[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			pt, color, ok := pieceFromChar(c)
			if !ok {
				return nil, fmt.Errorf("invalid piece character: %c", c)
			}
			if col > 7 {
				return nil, fmt.Errorf("too many squares in rank %d", 8-row)
			}
			b.Place(NewPiece(pt, color, Square{Row: row, Col: col}))
			col++
		}
		if col != 8 {
			return nil, fmt.Errorf("rank %d has %d squares, want 8", 8-row, col)
		}
	}
	return b, nil
}

// markMoved derives moved flags the FEN does not carry.
func markMoved(b *Board, cr CastlingRights) {
	for _, c := range []Color{White, Black} {
		for _, p := range b.Pieces(c) {
			switch p.Type {
			case Pawn:
				p.HasMoved = p.Square.Row != c.PawnRow()
			case King:
				home := Square{Row: c.HomeRow(), Col: 4}
				p.HasMoved = p.Square != home || (!cr.CanCastle(c, true) && !cr.CanCastle(c, false))
			case Rook:
				if side, ok := rookHomeSide(c, p.Square); ok {
					p.HasMoved = !cr.CanCastle(c, side)
				} else {
					p.HasMoved = true
				}
			}
		}
	}
}

// Placement returns the FEN piece placement field of the board.
func (b *Board) Placement() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// FEN returns the FEN string of the setup with zeroed clocks.
func (s *Setup) FEN() string {
	ep := "-"
	if s.EnPassant != nil {
		ep = s.EnPassant.String()
	}
	side := "w"
	if s.Turn == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s %s %s 0 1", s.Board.Placement(), side, s.Castling, ep)
}
