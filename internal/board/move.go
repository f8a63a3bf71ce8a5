package board

import (
	"encoding/json"
	"fmt"
)

// Special tags a move whose preconditions and board effects go beyond the
// moving piece's base geometry.
type Special uint8

const (
	NoSpecial Special = iota
	CastlingKingside
	CastlingQueenside
	EnPassant
)

var specialNames = [...]string{"", "castling_kingside", "castling_queenside", "en_passant"}

// String returns the tag name.
func (s Special) String() string {
	if int(s) < len(specialNames) {
		return specialNames[s]
	}
	return fmt.Sprintf("special(%d)", uint8(s))
}

// IsCastling returns true for either castling tag.
func (s Special) IsCastling() bool {
	return s == CastlingKingside || s == CastlingQueenside
}

// MarshalJSON encodes the tag by name.
func (s Special) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a tag name.
func (s *Special) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range specialNames {
		if n == name {
			*s = Special(i)
			return nil
		}
	}
	return fmt.Errorf("invalid special move tag: %q", name)
}

// CastlingData holds the rook relocation of a castling move.
type CastlingData struct {
	RookFrom Square `json:"rookFrom"`
	RookTo   Square `json:"rookTo"`
}

// EnPassantData holds the square of the pawn captured in passing.
type EnPassantData struct {
	CapturedSquare Square `json:"capturedSquare"`
}

// Move is a completed or proposed move. Piece and Captured are snapshots
// taken before the move was played.
type Move struct {
	From      Square         `json:"from"`
	To        Square         `json:"to"`
	Piece     Piece          `json:"piece"`
	Captured  *Piece         `json:"captured,omitempty"`
	Promotion PieceType      `json:"promotion"`
	Special   Special        `json:"special,omitempty"`
	Castling  *CastlingData  `json:"castling,omitempty"`
	EnPassant *EnPassantData `json:"enPassant,omitempty"`
}

// NewMove creates an untagged move of p to to.
func NewMove(p *Piece, to Square) Move {
	return Move{
		From:      p.Square,
		To:        to,
		Piece:     *p,
		Promotion: NoPieceType,
	}
}

// IsCapture returns true if the move captures a piece.
func (m Move) IsCapture() bool {
	return m.Captured != nil
}

// IsPromotion returns true if the moving pawn is promoted.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType && m.Promotion != Pawn
}

// CapturedSquare returns where the captured piece stood: the destination
// for ordinary captures, the passed pawn's square for en passant.
func (m Move) CapturedSquare() Square {
	if m.EnPassant != nil {
		return m.EnPassant.CapturedSquare
	}
	return m.To
}

// String returns a long algebraic form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// CastlingRights records which castling options each side still has.
type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

// AllCastling grants every castling option.
var AllCastling = CastlingRights{true, true, true, true}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr.WhiteKingside
		}
		return cr.WhiteQueenside
	}
	if kingSide {
		return cr.BlackKingside
	}
	return cr.BlackQueenside
}

// revoke clears one castling option.
func (cr *CastlingRights) revoke(c Color, kingSide bool) {
	switch {
	case c == White && kingSide:
		cr.WhiteKingside = false
	case c == White:
		cr.WhiteQueenside = false
	case kingSide:
		cr.BlackKingside = false
	default:
		cr.BlackQueenside = false
	}
}

// Update revokes the options a completed move costs: a king move loses
// both, a rook leaving its home corner loses that side, and a rook captured
// on its home corner costs the opponent that side. Options are never
// re-granted.
func (cr *CastlingRights) Update(m Move) {
	mover := m.Piece.Color
	switch m.Piece.Type {
	case King:
		cr.revoke(mover, true)
		cr.revoke(mover, false)
	case Rook:
		if side, ok := rookHomeSide(mover, m.From); ok {
			cr.revoke(mover, side)
		}
	}
	if m.Captured != nil && m.Captured.Type == Rook {
		if side, ok := rookHomeSide(m.Captured.Color, m.CapturedSquare()); ok {
			cr.revoke(m.Captured.Color, side)
		}
	}
}

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	s := ""
	if cr.WhiteKingside {
		s += "K"
	}
	if cr.WhiteQueenside {
		s += "Q"
	}
	if cr.BlackKingside {
		s += "k"
	}
	if cr.BlackQueenside {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// rookHomeSide reports whether sq is one of the color's rook corners and,
// if so, whether it is the kingside one.
func rookHomeSide(c Color, sq Square) (kingSide bool, ok bool) {
	if sq.Row != c.HomeRow() {
		return false, false
	}
	switch sq.Col {
	case 7:
		return true, true
	case 0:
		return false, true
	}
	return false, false
}
