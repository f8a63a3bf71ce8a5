package board

// Query is the read-only board capability the move generators work from.
type Query interface {
	PieceAt(sq Square) *Piece
	InBounds(sq Square) bool
	Linear(p *Piece, dirs []Direction) []Square
}

// Generator produces a piece's geometric candidate destinations, ignoring
// king safety and turn ownership.
type Generator func(p *Piece, q Query) []Square

var knightOffsets = []Direction{
	{-2, -1}, {-2, 1},
	{-1, -2}, {-1, 2},
	{1, -2}, {1, 2},
	{2, -1}, {2, 1},
}

var kingOffsets = []Direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// generators is indexed by PieceType.
var generators = [6]Generator{
	Pawn:   pawnMoves,
	Knight: knightMoves,
	Bishop: bishopMoves,
	Rook:   rookMoves,
	Queen:  queenMoves,
	King:   kingMoves,
}

// GeneratorFor returns the move generator of a piece type.
func GeneratorFor(pt PieceType) Generator {
	if pt >= NoPieceType {
		return nil
	}
	return generators[pt]
}

// Candidates returns the piece's candidate destinations.
func Candidates(p *Piece, q Query) []Square {
	if p == nil {
		return nil
	}
	gen := GeneratorFor(p.Type)
	if gen == nil {
		return nil
	}
	return gen(p, q)
}

// Attacks returns the squares the piece attacks. This is Candidates for
// every piece except the pawn, which attacks both forward diagonals
// whatever stands on them and never attacks by pushing.
func Attacks(p *Piece, q Query) []Square {
	if p == nil {
		return nil
	}
	if p.Type != Pawn {
		return Candidates(p, q)
	}
	var out []Square
	fwd := p.Color.Forward()
	for _, dc := range []int{-1, 1} {
		if sq := p.Square.Offset(fwd, dc); q.InBounds(sq) {
			out = append(out, sq)
		}
	}
	return out
}

// pawnMoves generates pushes and diagonal captures. En passant is left to
// the special move handlers.
func pawnMoves(p *Piece, q Query) []Square {
	var moves []Square
	fwd := p.Color.Forward()

	one := p.Square.Offset(fwd, 0)
	if q.InBounds(one) && q.PieceAt(one) == nil {
		moves = append(moves, one)

		if p.Square.Row == p.Color.PawnRow() {
			two := p.Square.Offset(2*fwd, 0)
			if q.InBounds(two) && q.PieceAt(two) == nil {
				moves = append(moves, two)
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		sq := p.Square.Offset(fwd, dc)
		if !q.InBounds(sq) {
			continue
		}
		if target := q.PieceAt(sq); target != nil && target.Color != p.Color {
			moves = append(moves, sq)
		}
	}
	return moves
}

func knightMoves(p *Piece, q Query) []Square {
	return offsetMoves(p, q, knightOffsets)
}

func kingMoves(p *Piece, q Query) []Square {
	return offsetMoves(p, q, kingOffsets)
}

func rookMoves(p *Piece, q Query) []Square {
	return q.Linear(p, RookDirections)
}

func bishopMoves(p *Piece, q Query) []Square {
	return q.Linear(p, BishopDirections)
}

func queenMoves(p *Piece, q Query) []Square {
	return q.Linear(p, QueenDirections)
}

// offsetMoves returns every in-bounds offset square that is empty or holds
// an enemy piece.
func offsetMoves(p *Piece, q Query, offsets []Direction) []Square {
	var moves []Square
	for _, d := range offsets {
		sq := p.Square.Offset(d.DRow, d.DCol)
		if !q.InBounds(sq) {
			continue
		}
		if target := q.PieceAt(sq); target == nil || target.Color != p.Color {
			moves = append(moves, sq)
		}
	}
	return moves
}

// ContainsSquare reports whether sq is in the list.
func ContainsSquare(list []Square, sq Square) bool {
	for _, s := range list {
		if s == sq {
			return true
		}
	}
	return false
}
