package console

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/game"
	"github.com/hailam/chessmod/internal/opponent"
	"github.com/hailam/chessmod/internal/storage"
)

func run(t *testing.T, g *game.Game, cfg Config, script string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(g, &out, cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Run(ctx, strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func newGame(t *testing.T, opts ...game.Option) *game.Game {
	t.Helper()
	g, err := game.New(append([]game.Option{game.WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return g
}

func TestScript(t *testing.T) {
	g := newGame(t)
	out := run(t, g, Config{}, `
move e2 e4
select e7
move e5
fen
move e4 e6
bogus
quit
move d2 d4
`)

	for _, want := range []string{
		"white e2e4",
		"black e7e5",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 1",
		"error: illegal move",
		`error: unknown command "bogus"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(g.History()) != 2 {
		t.Errorf("history = %d, want 2 (commands after quit must be ignored)", len(g.History()))
	}
}

func TestCheckmateMessage(t *testing.T) {
	g := newGame(t)
	out := run(t, g, Config{}, "move f2 f3\nmove e7 e5\nmove g2 g4\nmove d8 h4\n")
	if !strings.Contains(out, "checkmate, black wins") {
		t.Errorf("output missing checkmate:\n%s", out)
	}
}

func TestUndoAndCards(t *testing.T) {
	g := newGame(t)
	out := run(t, g, Config{}, "undo\nmove e2 e4\nundo\nhand\nplay 1\nplay 9\n")
	if !strings.Contains(out, "error: nothing to undo") {
		t.Errorf("output missing undo error:\n%s", out)
	}
	if !strings.Contains(out, "white hand (3)") {
		t.Errorf("output missing hand listing:\n%s", out)
	}
	if strings.Count(out, "ok\n") != 2 {
		t.Errorf("expected undo and play to succeed:\n%s", out)
	}
	if !strings.Contains(out, "error: invalid card") {
		t.Errorf("output missing card error:\n%s", out)
	}
	if len(g.History()) != 0 {
		t.Errorf("history = %d, want 0", len(g.History()))
	}
}

func TestOpponentReplies(t *testing.T) {
	g := newGame(t)
	cfg := Config{
		Opponent:      opponent.New(rand.New(rand.NewSource(1)), opponent.Medium, nil),
		OpponentColor: board.Black,
	}
	run(t, g, cfg, "move e2 e4\n")
	if g.Turn() != board.White {
		t.Errorf("turn = %s, want white after the reply", g.Turn())
	}
	if n := len(g.History()); n != 2 {
		t.Errorf("history = %d, want 2", n)
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestOpponentWithDelay(t *testing.T) {
	g := newGame(t)
	cfg := Config{
		Opponent:      opponent.New(rand.New(rand.NewSource(1)), opponent.Medium, nil),
		OpponentColor: board.White,
		Delay:         5 * time.Millisecond,
	}
	var out syncBuffer
	c := New(g, &out, cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Input stays open until the opponent has moved.
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, pr) }()

	deadline := time.After(5 * time.Second)
	for !strings.Contains(out.String(), "white ") {
		select {
		case <-deadline:
			t.Fatal("opponent never moved")
		case <-time.After(5 * time.Millisecond):
		}
	}
	io.WriteString(pw, "quit\n")
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	pw.Close()
}

func TestSaveLoad(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	g := newGame(t)
	out := run(t, g, Config{Store: store}, "move d2 d4\nmove g8 f6\nfen\nsave indian\nnew\nload indian\nfen\ngames\nload missing\n")

	if !strings.Contains(out, "saved indian") || !strings.Contains(out, "loaded indian") {
		t.Errorf("output missing save/load:\n%s", out)
	}
	const fen = "rnbqkb1r/pppppppp/5n2/8/3P4/8/PPP1PPPP/RNBQKBNR w KQkq - 0 1"
	if strings.Count(out, fen) != 2 {
		t.Errorf("restored FEN mismatch:\n%s", out)
	}
	if !strings.Contains(out, "error: saved game not found") {
		t.Errorf("output missing not-found error:\n%s", out)
	}
	if g.FEN() != fen {
		t.Errorf("FEN = %q, want %q", g.FEN(), fen)
	}
}

func TestWinIsRecorded(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	g := newGame(t, game.WithStartFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"))
	cfg := Config{
		Opponent:      opponent.New(rand.New(rand.NewSource(1)), opponent.Medium, nil),
		OpponentColor: board.Black,
		Store:         store,
	}
	out := run(t, g, cfg, "move a1 a8\n")
	if !strings.Contains(out, "checkmate, white wins") {
		t.Fatalf("output missing checkmate:\n%s", out)
	}

	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.Wins != 1 || stats.WinsByDiff["medium"] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
