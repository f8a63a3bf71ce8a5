// Package game implements the turn and card state manager: piece selection,
// move execution, card effects, end-of-turn bookkeeping and undo.
package game

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/cards"
	"github.com/hailam/chessmod/internal/rules"
)

// Entry is one history record: the completed move and the rule state it
// replaced, so undo can put it back.
type Entry struct {
	Move      board.Move           `json:"move"`
	Castling  board.CastlingRights `json:"castling"`
	EnPassant *board.Square        `json:"enPassant,omitempty"`
}

// effect is the active card effect. Extra turns are tracked separately
// since they do not block other cards.
type effect struct {
	active          bool
	card            *cards.Card
	remaining       int
	pendingTeleport bool
	pendingSwap     bool
	pendingProtect  bool
}

// Game is one game session. It owns its board; all mutation goes through
// its methods. A Game is not safe for concurrent use.
type Game struct {
	cfg config
	rng *rand.Rand
	log *log.Logger

	pos       *rules.Position
	history   []Entry
	canUndo   bool
	selected  board.Square
	legal     []board.Square
	effect    effect
	extraTurn bool
	protected map[string]int
	hands     CardProvider
	gen       uint64
}

// New creates a game at the starting position and deals the opening hands.
func New(opts ...Option) (*Game, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	g := &Game{
		cfg: cfg,
		rng: cfg.newRand(),
		log: cfg.logger,
	}
	if err := g.init(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) init() error {
	pos := rules.NewPosition()
	if g.cfg.startFEN != "" {
		p, err := rules.ParseFEN(g.cfg.startFEN)
		if err != nil {
			return err
		}
		if err := p.Board.Validate(); err != nil {
			return fmt.Errorf("invalid start position: %w", err)
		}
		pos = p
	}

	g.pos = pos
	g.history = nil
	g.canUndo = false
	g.selected = board.NoSquare
	g.legal = nil
	g.effect = effect{}
	g.extraTurn = false
	g.protected = make(map[string]int)
	g.hands = g.cfg.provider
	if g.hands == nil {
		g.hands = cards.NewHands(cards.NewDeck(g.rng), g.cfg.handSize, g.cfg.openingHand)
	}
	g.gen++
	return nil
}

// Reset starts a new game with the same options.
func (g *Game) Reset() {
	if err := g.init(); err != nil {
		// The start position was validated by New.
		g.log.Printf("[GAME] Reset failed: %v", err)
		return
	}
	g.log.Printf("[GAME] Reset")
}

// Turn returns the side to move.
func (g *Game) Turn() board.Color {
	return g.pos.Turn
}

// Generation returns a counter bumped by every mutation. Work computed for
// one generation is stale once it changes.
func (g *Game) Generation() uint64 {
	return g.gen
}

// PieceAt returns a copy of the piece on sq, or nil.
func (g *Game) PieceAt(sq board.Square) *board.Piece {
	return g.pos.Board.PieceAt(sq).Copy()
}

// InBounds returns true if sq lies on the board.
func (g *Game) InBounds(sq board.Square) bool {
	return g.pos.Board.InBounds(sq)
}

// Pieces returns copies of the pieces of color c.
func (g *Game) Pieces(c board.Color) []*board.Piece {
	pieces := g.pos.Board.Pieces(c)
	out := make([]*board.Piece, len(pieces))
	for i, p := range pieces {
		out[i] = p.Copy()
	}
	return out
}

// LegalMoves returns the legal destinations of the piece on p's square.
// Pieces of the side not to move have none.
func (g *Game) LegalMoves(p *board.Piece) []board.Square {
	if p == nil {
		return nil
	}
	cur := g.pos.Board.PieceAt(p.Square)
	if cur == nil || cur.Color != g.pos.Turn {
		return nil
	}
	return g.movesFor(cur)
}

// movesFor returns the legal destinations of p, minus captures of
// protected pieces.
func (g *Game) movesFor(p *board.Piece) []board.Square {
	ctx := g.context()
	legal := rules.LegalMoves(g.pos.Board, p, ctx)
	if len(g.protected) == 0 {
		return legal
	}
	out := legal[:0]
	for _, to := range legal {
		if g.playable(rules.Classify(g.pos.Board, p, to, ctx)) {
			out = append(out, to)
		}
	}
	return out
}

// playable rejects captures of protected pieces, en passant included.
func (g *Game) playable(m board.Move) bool {
	return !m.IsCapture() || !g.isProtected(m.CapturedSquare())
}

// Outcome classifies the position for the side to move. Captures of
// protected pieces do not count as ways out of check.
func (g *Game) Outcome() rules.Outcome {
	return rules.Status(g.pos.Board, g.pos.Turn, g.context(), g.playable)
}

// Hand returns the cards held by color c.
func (g *Game) Hand(c board.Color) []cards.Card {
	return g.hands.Hand(c)
}

// History returns the completed moves, oldest first.
func (g *Game) History() []board.Move {
	moves := make([]board.Move, len(g.history))
	for i, e := range g.history {
		moves[i] = e.Move
	}
	return moves
}

// FEN returns the current position as a FEN string.
func (g *Game) FEN() string {
	return g.pos.FEN()
}

func (g *Game) context() *rules.Context {
	return g.pos.Context(g.History())
}

// Selected returns the selected piece as it currently stands, or nil.
func (g *Game) Selected() *board.Piece {
	if !g.selected.IsValid() {
		return nil
	}
	return g.pos.Board.PieceAt(g.selected).Copy()
}

// Select selects the piece on sq.
func (g *Game) Select(sq board.Square) error {
	p := g.pos.Board.PieceAt(sq)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrNoPiece, sq)
	}
	return g.SelectPiece(p)
}

// SelectPiece selects a piece of the side to move and caches its legal
// moves. The piece is re-read from the board at its square. A nil piece
// clears the selection. While a move-twice effect is continuing, only the
// piece that made the first move may be selected.
func (g *Game) SelectPiece(p *board.Piece) error {
	if p == nil {
		if g.continuing() {
			return fmt.Errorf("%w: %s", ErrPieceLocked, g.selected)
		}
		g.clearSelection()
		g.gen++
		return nil
	}

	cur := g.pos.Board.PieceAt(p.Square)
	if cur == nil {
		return fmt.Errorf("%w: %s", ErrNoPiece, p.Square)
	}
	if cur.Color != g.pos.Turn {
		return fmt.Errorf("%w: %s, %s to move", ErrWrongColor, cur, g.pos.Turn)
	}
	if g.continuing() && cur.Square != g.selected {
		return fmt.Errorf("%w: %s", ErrPieceLocked, g.selected)
	}

	g.selected = cur.Square
	g.legal = g.movesFor(cur)
	g.gen++
	return nil
}

// continuing reports whether a move-twice effect is between its two moves.
func (g *Game) continuing() bool {
	return g.effect.active && g.effect.card != nil &&
		g.effect.card.Effect == cards.MoveTwice &&
		g.effect.remaining == 1 && g.selected.IsValid()
}

func (g *Game) clearSelection() {
	g.selected = board.NoSquare
	g.legal = nil
}

// isProtected reports whether sq holds a protection counter above zero.
func (g *Game) isProtected(sq board.Square) bool {
	return g.protected[sq.Key()] > 0
}

// MakeMove moves the selected piece to to. Castling and en passant are
// inferred from the destination. A capture draws one card for the mover.
func (g *Game) MakeMove(to board.Square) error {
	if !g.selected.IsValid() {
		return ErrNoSelection
	}
	p := g.pos.Board.PieceAt(g.selected)
	if p == nil || p.Color != g.pos.Turn {
		return ErrNoSelection
	}

	ctx := g.context()
	if target := g.pos.Board.PieceAt(to); target != nil && target.Color != p.Color && g.isProtected(to) {
		return fmt.Errorf("%w: %s", ErrProtected, target)
	}
	legal := rules.LegalMoves(g.pos.Board, p, ctx)
	if !board.ContainsSquare(legal, to) {
		return fmt.Errorf("%w: %s to %s", ErrIllegalMove, p, to)
	}

	m := rules.Classify(g.pos.Board, p, to, ctx)
	if m.EnPassant != nil && g.isProtected(m.EnPassant.CapturedSquare) {
		return fmt.Errorf("%w: %s", ErrProtected, m.EnPassant.CapturedSquare)
	}

	entry := Entry{Castling: g.pos.Castling, EnPassant: copySquare(g.pos.EnPassant)}
	done, err := g.pos.Apply(m, ctx.History)
	if err != nil {
		return err
	}
	entry.Move = done
	g.history = append(g.history, entry)
	g.canUndo = true
	g.gen++

	g.log.Printf("[MOVE] %s %s %s (special=%q, captured=%v)", done.Piece.Color, done.Piece.Type, done, done.Special, done.Captured)

	if done.IsCapture() {
		if card, ok := g.hands.Draw(done.Piece.Color); ok {
			g.log.Printf("[CARD] %s draws %s for capturing", done.Piece.Color, card)
		}
	}

	if g.effect.active && g.effect.card != nil && g.effect.card.Effect == cards.MoveTwice {
		g.effect.remaining--
		if g.effect.remaining > 0 {
			moved := g.pos.Board.PieceAt(done.To)
			g.selected = done.To
			g.legal = g.movesFor(moved)
			if len(g.legal) > 0 {
				return nil
			}
			g.log.Printf("[CARD] %s on %s has no second move", moved.Type, done.To)
		}
		g.effect = effect{}
	}

	g.endTurn()
	return nil
}

// endTurn clears the selection, ages protections, expires unresolved card
// effects and passes the turn unless an extra turn is pending.
func (g *Game) endTurn() {
	g.clearSelection()

	for key, n := range g.protected {
		if n <= 1 {
			delete(g.protected, key)
			continue
		}
		g.protected[key] = n - 1
	}

	if g.effect.active {
		g.log.Printf("[CARD] %s expires unresolved", g.effect.card)
		g.effect = effect{}
	}

	if g.extraTurn {
		g.extraTurn = false
		g.log.Printf("[TURN] %s takes an extra turn", g.pos.Turn)
		return
	}
	g.pos.Turn = g.pos.Turn.Other()
}

// PlayCard plays a card from the hand of the side to move.
func (g *Game) PlayCard(id string) error {
	card, owner, ok := g.hands.Find(id)
	if !ok {
		return fmt.Errorf("%w: unknown card %q", ErrInvalidCard, id)
	}
	if owner != g.pos.Turn {
		return fmt.Errorf("%w: %s is not in %s's hand", ErrInvalidCard, card, g.pos.Turn)
	}
	if g.effect.active {
		return fmt.Errorf("%w: %s", ErrCardActive, g.effect.card)
	}
	if _, ok := g.hands.Play(owner, id); !ok {
		return fmt.Errorf("%w: %s", ErrInvalidCard, card)
	}

	switch card.Effect {
	case cards.MoveTwice:
		g.effect = effect{active: true, card: &card, remaining: 2}
	case cards.Teleport:
		g.effect = effect{active: true, card: &card, pendingTeleport: true}
	case cards.SwapPieces:
		g.effect = effect{active: true, card: &card, pendingSwap: true}
	case cards.ProtectPiece:
		g.effect = effect{active: true, card: &card, pendingProtect: true}
	case cards.ExtraTurn:
		g.extraTurn = true
	}
	g.gen++

	g.log.Printf("[CARD] %s plays %s", owner, card)
	return nil
}

// Protect sets the protection counter of sq. A non-positive count removes
// the protection.
func (g *Game) Protect(sq board.Square, turns int) {
	if turns <= 0 {
		delete(g.protected, sq.Key())
	} else {
		g.protected[sq.Key()] = turns
	}
	g.gen++
}

// UndoMove reverts the last move, including the castling rook and the
// pawn taken en passant, and gives the turn back to its mover. Card effects
// are cleared, not replayed.
func (g *Game) UndoMove() error {
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	e := g.history[len(g.history)-1]
	m := e.Move
	b := g.pos.Board

	b.Remove(m.To)
	moved := m.Piece
	moved.Square = m.From
	b.Place(&moved)

	if m.Castling != nil {
		if rook := b.Remove(m.Castling.RookTo); rook != nil {
			rook.Square = m.Castling.RookFrom
			rook.HasMoved = false
			b.Place(rook)
		}
	}
	if m.Captured != nil {
		captured := *m.Captured
		captured.Square = m.CapturedSquare()
		b.Place(&captured)
	}

	g.history = g.history[:len(g.history)-1]
	g.pos.Castling = e.Castling
	g.pos.EnPassant = copySquare(e.EnPassant)
	g.pos.Turn = m.Piece.Color
	g.canUndo = len(g.history) > 0
	g.clearSelection()
	g.effect = effect{}
	g.extraTurn = false
	g.gen++

	g.log.Printf("[UNDO] %s, %s to move", m, g.pos.Turn)
	return nil
}

func copySquare(sq *board.Square) *board.Square {
	if sq == nil {
		return nil
	}
	c := *sq
	return &c
}
