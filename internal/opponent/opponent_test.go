package opponent

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/game"
	"github.com/hailam/chessmod/internal/testutil"
)

func newGame(t *testing.T, fen string) *game.Game {
	t.Helper()
	g, err := game.New(game.WithSeed(1), game.WithStartFEN(fen))
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return g
}

func TestChooseMovePrefersCaptures(t *testing.T) {
	g := newGame(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	for seed := int64(0); seed < 20; seed++ {
		o := New(rand.New(rand.NewSource(seed)), Medium, nil)
		c, ok := o.ChooseMove(g, board.White)
		if !ok {
			t.Fatal("no move chosen")
		}
		if c.String() != "e4d5" || !c.Capture {
			t.Fatalf("seed %d: chose %s, want capture e4d5", seed, c)
		}
	}
}

func TestChooseMoveHardTakesMostValuable(t *testing.T) {
	g := newGame(t, "4k3/8/8/2q1p3/3P4/8/8/4K3 w - - 0 1")
	for seed := int64(0); seed < 20; seed++ {
		o := New(rand.New(rand.NewSource(seed)), Hard, nil)
		c, _ := o.ChooseMove(g, board.White)
		if c.String() != "d4c5" {
			t.Fatalf("seed %d: chose %s, want d4c5", seed, c)
		}
	}
}

func TestChooseMoveEasyIsLegal(t *testing.T) {
	g := newGame(t, board.StartFEN)
	o := New(rand.New(rand.NewSource(3)), Easy, nil)
	for i := 0; i < 20; i++ {
		c, ok := o.ChooseMove(g, board.White)
		if !ok {
			t.Fatal("no move chosen")
		}
		p := g.PieceAt(c.From)
		if !board.ContainsSquare(g.LegalMoves(p), c.To) {
			t.Fatalf("chose illegal move %s", c)
		}
	}
}

func TestChooseMoveNoLegalMoves(t *testing.T) {
	g := newGame(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	o := New(rand.New(rand.NewSource(1)), Medium, nil)
	if _, ok := o.ChooseMove(g, board.Black); ok {
		t.Error("checkmated side chose a move")
	}
}

func TestPlay(t *testing.T) {
	g := newGame(t, board.StartFEN)
	o := New(rand.New(rand.NewSource(1)), Medium, nil)

	c, _ := o.ChooseMove(g, board.White)
	c.Generation = g.Generation()
	if err := Play(g, c); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if g.Turn() != board.Black {
		t.Errorf("turn = %s, want black", g.Turn())
	}

	c, _ = o.ChooseMove(g, board.Black)
	c.Generation = g.Generation()
	if err := g.UndoMove(); err != nil {
		t.Fatal(err)
	}
	if err := Play(g, c); !errors.Is(err, ErrStale) {
		t.Errorf("err = %v, want ErrStale", err)
	}
}

func TestRunnerDelivers(t *testing.T) {
	g := newGame(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	r := NewRunner(New(rand.New(rand.NewSource(1)), Medium, nil))
	defer r.Stop()

	if !r.Start(context.Background(), g, board.White, g.Generation(), 10*time.Millisecond) {
		t.Fatal("Start found no move")
	}
	select {
	case c := <-r.Moves():
		if c.Generation != g.Generation() {
			t.Errorf("generation = %d, want %d", c.Generation, g.Generation())
		}
		if err := Play(g, c); err != nil {
			t.Fatalf("Play: %v", err)
		}
		if p := g.PieceAt(testutil.Sq(t, "d5")); p == nil || p.Color != board.White {
			t.Errorf("d5 = %v, want white pawn", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no move delivered")
	}
}

func TestRunnerCancel(t *testing.T) {
	g := newGame(t, board.StartFEN)

	t.Run("stop", func(t *testing.T) {
		r := NewRunner(New(rand.New(rand.NewSource(1)), Medium, nil))
		r.Start(context.Background(), g, board.White, g.Generation(), time.Hour)
		r.Stop()
		select {
		case c := <-r.Moves():
			t.Fatalf("cancelled runner delivered %s", c)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("context", func(t *testing.T) {
		r := NewRunner(New(rand.New(rand.NewSource(1)), Medium, nil))
		ctx, cancel := context.WithCancel(context.Background())
		r.Start(ctx, g, board.White, g.Generation(), time.Hour)
		cancel()
		r.Stop()
		select {
		case c := <-r.Moves():
			t.Fatalf("cancelled runner delivered %s", c)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("restart drops pending move", func(t *testing.T) {
		r := NewRunner(New(rand.New(rand.NewSource(1)), Medium, nil))
		defer r.Stop()
		r.Start(context.Background(), g, board.White, 1, 0)
		time.Sleep(20 * time.Millisecond)
		r.Start(context.Background(), g, board.White, 2, 10*time.Millisecond)
		select {
		case c := <-r.Moves():
			if c.Generation != 2 {
				t.Errorf("generation = %d, want 2", c.Generation)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("no move delivered")
		}
	})
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", d, got, err)
		}
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Error("expected error")
	}
}
