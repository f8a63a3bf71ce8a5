package board

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Forward returns the row delta a pawn of this color advances by.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// PawnRow returns the row on which this color's pawns start.
func (c Color) PawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

// HomeRow returns the back-rank row of this color.
func (c Color) HomeRow() int {
	if c == White {
		return 7
	}
	return 0
}

// LastRow returns the row on which this color's pawns promote.
func (c Color) LastRow() int {
	return c.Other().HomeRow()
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// ParseColor parses "white"/"black" (or "w"/"b").
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return NoColor, fmt.Errorf("invalid color: %q", s)
}

// MarshalJSON encodes the color by name.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a color name.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// ParsePieceType parses a piece type name. "none" yields NoPieceType.
func ParsePieceType(s string) (PieceType, error) {
	for pt := Pawn; pt <= NoPieceType; pt++ {
		if pt.String() == s {
			return pt, nil
		}
	}
	return NoPieceType, fmt.Errorf("invalid piece type: %q", s)
}

// MarshalJSON encodes the piece type by name.
func (pt PieceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(pt.String())
}

// UnmarshalJSON decodes a piece type name.
func (pt *PieceType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePieceType(s)
	if err != nil {
		return err
	}
	*pt = parsed
	return nil
}

// PieceValue returns the material value of the piece type in centipawns.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Piece is a single piece on the board. Its Square always matches the grid
// location it occupies.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Square   Square    `json:"square"`
	HasMoved bool      `json:"hasMoved"`
}

// NewPiece creates an unmoved piece on the given square.
func NewPiece(pt PieceType, c Color, sq Square) *Piece {
	return &Piece{Type: pt, Color: c, Square: sq}
}

// Copy returns a detached snapshot of the piece.
func (p *Piece) Copy() *Piece {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Char returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p *Piece) Char() byte {
	if p == nil {
		return '.'
	}
	c := p.Type.Char()
	if p.Color == White {
		c -= 'a' - 'A'
	}
	return c
}

// String returns a readable description such as "white knight on g1".
func (p *Piece) String() string {
	if p == nil {
		return "empty"
	}
	return fmt.Sprintf("%s %s on %s", p.Color, p.Type, p.Square)
}

// Value returns the material value of the piece in centipawns.
func (p *Piece) Value() int {
	return PieceValue[p.Type]
}

// pieceFromChar converts a FEN character to a piece type and color.
func pieceFromChar(c byte) (PieceType, Color, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	switch c {
	case 'P':
		return Pawn, color, true
	case 'N':
		return Knight, color, true
	case 'B':
		return Bishop, color, true
	case 'R':
		return Rook, color, true
	case 'Q':
		return Queen, color, true
	case 'K':
		return King, color, true
	}
	return NoPieceType, NoColor, false
}
