package board

// IsSquareAttacked returns true if any piece of byColor attacks the square.
func (b *Board) IsSquareAttacked(sq Square, byColor Color) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p == nil || p.Color != byColor {
				continue
			}
			if ContainsSquare(Attacks(p, b), sq) {
				return true
			}
		}
	}
	return false
}

// IsKingInCheck returns true if the king of the given color is attacked.
// A board without that king is never in check.
func (b *Board) IsKingInCheck(c Color) bool {
	king := b.King(c)
	if king == nil {
		return false
	}
	return b.IsSquareAttacked(king.Square, c.Other())
}

// FilterMovesThatLeaveKingInCheck keeps the candidates after which the
// piece's own king is not in check. Each candidate is tried in place on the
// board and reverted before the next one.
func (b *Board) FilterMovesThatLeaveKingInCheck(candidates []Square, p *Piece) []Square {
	if p == nil {
		return nil
	}
	legal := make([]Square, 0, len(candidates))
	for _, to := range candidates {
		safe := b.Trial(p, to, nil, func() bool {
			return !b.IsKingInCheck(p.Color)
		})
		if safe {
			legal = append(legal, to)
		}
	}
	return legal
}
