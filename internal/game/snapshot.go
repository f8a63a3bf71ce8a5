package game

import (
	"fmt"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/cards"
	"github.com/hailam/chessmod/internal/rules"
)

// Snapshot is a read-only view of the game taken after a mutation. It
// shares no state with the game.
type Snapshot struct {
	Board           *board.Board
	Turn            board.Color
	Selected        *board.Piece
	LegalMoves      []board.Square
	History         []board.Move
	CanUndo         bool
	CardActive      bool
	ActiveCard      *cards.Card
	RemainingMoves  int
	ExtraTurn       bool
	PendingTeleport bool
	PendingSwap     bool
	PendingProtect  bool
	Castling        board.CastlingRights
	EnPassant       *board.Square
	Protected       map[string]int
	InCheck         [2]bool
	Checkmate       [2]bool
	Stalemate       bool
}

// Snapshot returns the current game state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Board:           g.pos.Board.Clone(),
		Turn:            g.pos.Turn,
		Selected:        g.Selected(),
		LegalMoves:      append([]board.Square(nil), g.legal...),
		History:         g.History(),
		CanUndo:         g.canUndo,
		CardActive:      g.effect.active,
		RemainingMoves:  g.effect.remaining,
		ExtraTurn:       g.extraTurn,
		PendingTeleport: g.effect.pendingTeleport,
		PendingSwap:     g.effect.pendingSwap,
		PendingProtect:  g.effect.pendingProtect,
		Castling:        g.pos.Castling,
		EnPassant:       copySquare(g.pos.EnPassant),
		Protected:       make(map[string]int, len(g.protected)),
	}
	if g.effect.card != nil {
		c := *g.effect.card
		s.ActiveCard = &c
	}
	for k, v := range g.protected {
		s.Protected[k] = v
	}

	ctx := g.context()
	for _, c := range []board.Color{board.White, board.Black} {
		s.InCheck[c] = g.pos.Board.IsKingInCheck(c)
		s.Checkmate[c] = rules.IsCheckmate(g.pos.Board, c, ctx, g.playable)
	}
	s.Stalemate = rules.IsStalemate(g.pos.Board, g.pos.Turn, ctx, g.playable)
	return s
}

// Record is the serializable form of a game.
type Record struct {
	Pieces          []board.Piece        `json:"pieces"`
	Turn            board.Color          `json:"turn"`
	Castling        board.CastlingRights `json:"castling"`
	EnPassant       *board.Square        `json:"enPassant,omitempty"`
	History         []Entry              `json:"history"`
	CanUndo         bool                 `json:"canUndo"`
	ActiveCard      *cards.Card          `json:"activeCard,omitempty"`
	RemainingMoves  int                  `json:"remainingMoves,omitempty"`
	ExtraTurn       bool                 `json:"extraTurn,omitempty"`
	PendingTeleport bool                 `json:"pendingTeleport,omitempty"`
	PendingSwap     bool                 `json:"pendingSwap,omitempty"`
	PendingProtect  bool                 `json:"pendingProtect,omitempty"`
	Selected        *board.Square        `json:"selected,omitempty"`
	Protected       map[string]int       `json:"protected,omitempty"`
	Hands           *cards.State         `json:"hands,omitempty"`
}

// stateful is implemented by card providers that can be saved.
type stateful interface {
	State() cards.State
}

// Export returns the game as a Record.
func (g *Game) Export() Record {
	r := Record{
		Turn:            g.pos.Turn,
		Castling:        g.pos.Castling,
		EnPassant:       copySquare(g.pos.EnPassant),
		History:         append([]Entry(nil), g.history...),
		CanUndo:         g.canUndo,
		RemainingMoves:  g.effect.remaining,
		ExtraTurn:       g.extraTurn,
		PendingTeleport: g.effect.pendingTeleport,
		PendingSwap:     g.effect.pendingSwap,
		PendingProtect:  g.effect.pendingProtect,
	}
	for _, c := range []board.Color{board.White, board.Black} {
		for _, p := range g.pos.Board.Pieces(c) {
			r.Pieces = append(r.Pieces, *p)
		}
	}
	if g.effect.active && g.effect.card != nil {
		c := *g.effect.card
		r.ActiveCard = &c
	}
	if g.selected.IsValid() {
		sq := g.selected
		r.Selected = &sq
	}
	if len(g.protected) > 0 {
		r.Protected = make(map[string]int, len(g.protected))
		for k, v := range g.protected {
			r.Protected[k] = v
		}
	}
	if h, ok := g.hands.(stateful); ok {
		st := h.State()
		r.Hands = &st
	}
	return r
}

// Restore replaces the game state with a Record. The game is unchanged if
// the record is invalid.
func (g *Game) Restore(r Record) error {
	b := board.EmptyBoard()
	for i := range r.Pieces {
		p := r.Pieces[i]
		if !p.Square.IsValid() {
			return fmt.Errorf("%w: %s off the board", ErrInvalidRecord, &p)
		}
		if !b.IsEmpty(p.Square) {
			return fmt.Errorf("%w: two pieces on %s", ErrInvalidRecord, p.Square)
		}
		b.Place(&p)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r.Turn > board.Black {
		return fmt.Errorf("%w: no side to move", ErrInvalidRecord)
	}
	for key := range r.Protected {
		if _, err := board.ParseSquareKey(key); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}

	selected := board.NoSquare
	if r.Selected != nil {
		p := b.PieceAt(*r.Selected)
		if p == nil || p.Color != r.Turn {
			return fmt.Errorf("%w: bad selection %s", ErrInvalidRecord, *r.Selected)
		}
		selected = *r.Selected
	}

	g.pos = &rules.Position{
		Board:     b,
		Turn:      r.Turn,
		Castling:  r.Castling,
		EnPassant: copySquare(r.EnPassant),
	}
	g.history = append([]Entry(nil), r.History...)
	g.canUndo = r.CanUndo && len(g.history) > 0
	g.effect = effect{
		remaining:       r.RemainingMoves,
		pendingTeleport: r.PendingTeleport,
		pendingSwap:     r.PendingSwap,
		pendingProtect:  r.PendingProtect,
	}
	if r.ActiveCard != nil {
		c := *r.ActiveCard
		g.effect.active = true
		g.effect.card = &c
	}
	g.extraTurn = r.ExtraTurn
	g.protected = make(map[string]int, len(r.Protected))
	for k, v := range r.Protected {
		if v > 0 {
			g.protected[k] = v
		}
	}
	if r.Hands != nil && g.cfg.provider == nil {
		g.hands = cards.RestoreHands(*r.Hands, g.rng)
	}

	g.clearSelection()
	if selected.IsValid() {
		g.selected = selected
		g.legal = g.movesFor(b.PieceAt(selected))
	}
	g.gen++
	g.log.Printf("[GAME] Restored, %s to move after %d moves", g.pos.Turn, len(g.history))
	return nil
}
