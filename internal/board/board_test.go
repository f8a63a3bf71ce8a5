package board_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/testutil"
)

func TestNewBoard(t *testing.T) {
	b := board.NewBoard()
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := b.Placement(); got != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" {
		t.Errorf("Placement = %q", got)
	}
	if n := len(b.Pieces(board.White)); n != 16 {
		t.Errorf("white pieces = %d, want 16", n)
	}
	k := b.King(board.Black)
	if k == nil || k.Square != testutil.Sq(t, "e8") {
		t.Errorf("black king = %v", k)
	}
}

func TestPieceAtOutOfBounds(t *testing.T) {
	b := board.NewBoard()
	for _, sq := range []board.Square{{Row: -1, Col: 0}, {Row: 8, Col: 0}, {Row: 0, Col: 8}, board.NoSquare} {
		if b.InBounds(sq) {
			t.Errorf("InBounds(%v) = true", sq)
		}
		if b.PieceAt(sq) != nil {
			t.Errorf("PieceAt(%v) != nil", sq)
		}
	}
}

func TestRelocate(t *testing.T) {
	b := board.NewBoard()
	from, to := testutil.Sq(t, "e2"), testutil.Sq(t, "e7")

	captured := b.Relocate(from, to)
	if captured == nil || captured.Type != board.Pawn || captured.Color != board.Black {
		t.Fatalf("captured = %v", captured)
	}
	p := b.PieceAt(to)
	if p == nil || p.Color != board.White || p.Square != to || !p.HasMoved {
		t.Errorf("moved piece = %+v", p)
	}
	if !b.IsEmpty(from) {
		t.Error("origin not empty")
	}
	if b.Relocate(from, to) != nil {
		t.Error("relocating from an empty square should do nothing")
	}
}

func TestTrialRestores(t *testing.T) {
	s := testutil.MustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - - 0 1")
	b := s.Board
	before := b.Clone()
	pawn := b.PieceAt(testutil.Sq(t, "e5"))
	to := testutil.Sq(t, "d6")
	victim := testutil.Sq(t, "d5")

	seen := b.Trial(pawn, to, []board.Square{victim}, func() bool {
		return b.PieceAt(to) == pawn && b.IsEmpty(victim) && b.IsEmpty(testutil.Sq(t, "e5"))
	})
	if !seen {
		t.Error("trial state not visible inside fn")
	}
	if !b.Equal(before) {
		t.Errorf("board changed by trial:\n%s", b)
	}
	if pawn.Square != testutil.Sq(t, "e5") {
		t.Errorf("pawn square = %s", pawn.Square)
	}
}

func TestCloneIsDetached(t *testing.T) {
	b := board.NewBoard()
	c := b.Clone()
	c.Relocate(testutil.Sq(t, "g1"), testutil.Sq(t, "f3"))
	if b.IsEmpty(testutil.Sq(t, "g1")) {
		t.Error("clone shares state with the original")
	}
	if b.Equal(c) {
		t.Error("boards should differ")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		wantErr string
	}{
		{"ok", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", ""},
		{"no white king", "4k3/8/8/8/8/8/8/8 w - - 0 1", "white"},
		{"two black kings", "k3k3/8/8/8/8/8/8/4K3 w - - 0 1", "black"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testutil.MustFEN(t, tt.fen).Board.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestCheckDetection(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		color board.Color
		check bool
	}{
		{"start", board.StartFEN, board.White, false},
		{"rook off file", "4k3/8/8/8/8/8/8/3R1K2 b - - 0 1", board.Black, false},
		{"rook gives check", "4k3/8/8/8/8/8/8/4R1K1 b - - 0 1", board.Black, true},
		{"blocked rook", "4k3/4p3/8/8/8/8/8/4R1K1 b - - 0 1", board.Black, false},
		{"pawn check", "4k3/3P4/8/8/8/8/8/4K3 b - - 0 1", board.Black, true},
		{"pawn push is no check", "8/8/8/8/8/4k3/4P3/4K3 b - - 0 1", board.Black, false},
		{"knight check", "4k3/8/3N4/8/8/8/8/4K3 b - - 0 1", board.Black, true},
		{"bishop check", "4k3/8/8/8/B7/8/8/4K3 b - - 0 1", board.Black, true},
		{"no king", "8/8/8/8/8/8/8/R7 b - - 0 1", board.Black, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.MustFEN(t, tt.fen).Board
			if got := b.IsKingInCheck(tt.color); got != tt.check {
				t.Errorf("IsKingInCheck(%s) = %v, want %v", tt.color, got, tt.check)
			}
		})
	}
}

func TestFilterMovesThatLeaveKingInCheck(t *testing.T) {
	// The e-file rook is pinned against its king.
	s := testutil.MustFEN(t, "4r1k1/8/8/8/8/8/4R3/4K3 w - - 0 1")
	rook := s.Board.PieceAt(testutil.Sq(t, "e2"))
	got := s.Board.FilterMovesThatLeaveKingInCheck(board.Candidates(rook, s.Board), rook)
	testutil.SameSquares(t, testutil.Squares(t, "e3", "e4", "e5", "e6", "e7", "e8"), got)

	king := s.Board.PieceAt(testutil.Sq(t, "e1"))
	got = s.Board.FilterMovesThatLeaveKingInCheck(board.Candidates(king, s.Board), king)
	testutil.SameSquares(t, testutil.Squares(t, "d1", "f1", "d2", "f2"), got)

	if s.Board.FilterMovesThatLeaveKingInCheck(nil, nil) != nil {
		t.Error("nil piece should yield nil")
	}
}

func TestSquareParsing(t *testing.T) {
	sq, err := board.ParseSquare("e4")
	if err != nil {
		t.Fatal(err)
	}
	if sq != (board.Square{Row: 4, Col: 4}) || sq.String() != "e4" || sq.Rank() != 4 {
		t.Errorf("e4 parsed as %+v", sq)
	}
	for _, bad := range []string{"", "e", "i1", "a9", "a0", "e44"} {
		if _, err := board.ParseSquare(bad); err == nil {
			t.Errorf("ParseSquare(%q) succeeded", bad)
		}
	}

	key := sq.Key()
	if key != "4,4" {
		t.Errorf("Key = %q", key)
	}
	back, err := board.ParseSquareKey(key)
	if err != nil || back != sq {
		t.Errorf("ParseSquareKey(%q) = %v, %v", key, back, err)
	}
	for _, bad := range []string{"", "x,y", "8,0", "-1,3"} {
		if _, err := board.ParseSquareKey(bad); err == nil {
			t.Errorf("ParseSquareKey(%q) succeeded", bad)
		}
	}
}

func TestPieceJSON(t *testing.T) {
	p := board.NewPiece(board.Knight, board.Black, testutil.Sq(t, "g8"))
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type":"knight"`) || !strings.Contains(string(data), `"color":"black"`) {
		t.Errorf("json = %s", data)
	}
	var back board.Piece
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	testutil.Diff(t, *p, back)

	if err := json.Unmarshal([]byte(`{"type":"dragon"}`), &back); err == nil {
		t.Error("unknown piece type decoded")
	}
	if p.String() != "black knight on g8" {
		t.Errorf("String = %q", p.String())
	}
	var none *board.Piece
	if none.String() != "empty" || none.Char() != '.' {
		t.Error("nil piece formatting")
	}
}
