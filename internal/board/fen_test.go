package board_test

import (
	"testing"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/testutil"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 1",
		"4k3/8/8/8/8/8/8/4K3 b - - 0 1",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			s := testutil.MustFEN(t, fen)
			if got := s.FEN(); got != fen {
				t.Errorf("FEN() = %q, want %q", got, fen)
			}
		})
	}
}

func TestParseFENClocksOptional(t *testing.T) {
	s := testutil.MustFEN(t, "4k3/8/8/8/8/8/8/4K3 w - -")
	if s.Turn != board.White || s.EnPassant != nil {
		t.Errorf("setup = %+v", s)
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq -",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9",
	}
	for _, fen := range bad {
		if _, err := board.ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) succeeded", fen)
		}
	}
}

func TestParseFENMovedFlags(t *testing.T) {
	s := testutil.MustFEN(t, "r3k2r/8/8/8/4P3/8/P7/R3K2R w Kq - 0 1")
	tests := []struct {
		sq    string
		moved bool
	}{
		{"a2", false},
		{"e4", true},
		{"e1", false},
		{"h1", false},
		{"a1", true},
		{"e8", false},
		{"a8", false},
		{"h8", true},
	}
	for _, tt := range tests {
		p := s.Board.PieceAt(testutil.Sq(t, tt.sq))
		if p == nil {
			t.Fatalf("no piece on %s", tt.sq)
		}
		if p.HasMoved != tt.moved {
			t.Errorf("%s HasMoved = %v, want %v", tt.sq, p.HasMoved, tt.moved)
		}
	}

	// A king without any castling option counts as moved.
	s = testutil.MustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
	if !s.Board.PieceAt(testutil.Sq(t, "e1")).HasMoved {
		t.Error("king without castling rights should be marked moved")
	}
}
