// Package board implements the chess board model: pieces on an 8x8 grid,
// per-piece move generation and check detection.
package board

import "fmt"

// Square identifies a board square by row and column (0-7 each).
// Row 0 is the 8th rank (Black's back rank), row 7 is the 1st rank.
// Column 0 is the a-file, column 7 the h-file.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoSquare is returned where a square is required but none applies.
var NoSquare = Square{Row: -1, Col: -1}

// NewSquare creates a square from row and column.
func NewSquare(row, col int) Square {
	return Square{Row: row, Col: col}
}

// IsValid returns true if the square lies on the board.
func (sq Square) IsValid() bool {
	return sq.Row >= 0 && sq.Row < 8 && sq.Col >= 0 && sq.Col < 8
}

// Offset returns the square shifted by the given deltas. The result may be
// off the board; check IsValid.
func (sq Square) Offset(dRow, dCol int) Square {
	return Square{Row: sq.Row + dRow, Col: sq.Col + dCol}
}

// Key returns the "row,col" key used by protected-piece bookkeeping.
func (sq Square) Key() string {
	return fmt.Sprintf("%d,%d", sq.Row, sq.Col)
}

// Rank returns the chess rank (1-8) of the square.
func (sq Square) Rank() int {
	return 8 - sq.Row
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.Col, sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	col := int(s[0] - 'a')
	rank := int(s[1] - '0')

	if col < 0 || col > 7 || rank < 1 || rank > 8 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	return Square{Row: 8 - rank, Col: col}, nil
}

// MustParseSquare is ParseSquare for literals known to be valid.
func MustParseSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// ParseSquareKey parses a key produced by Square.Key.
func ParseSquareKey(key string) (Square, error) {
	var sq Square
	if _, err := fmt.Sscanf(key, "%d,%d", &sq.Row, &sq.Col); err != nil {
		return NoSquare, fmt.Errorf("invalid square key %q: %w", key, err)
	}
	if !sq.IsValid() {
		return NoSquare, fmt.Errorf("invalid square key %q", key)
	}
	return sq, nil
}

// Direction is a unit step on the board.
type Direction struct {
	DRow int
	DCol int
}

// Direction sets used by the sliding pieces.
var (
	RookDirections = []Direction{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	}
	BishopDirections = []Direction{
		{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
	}
	QueenDirections = append(append([]Direction{}, RookDirections...), BishopDirections...)
)
