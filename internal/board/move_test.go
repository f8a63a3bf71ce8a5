package board_test

import (
	"encoding/json"
	"testing"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/testutil"
)

func TestCastlingRightsUpdate(t *testing.T) {
	piece := func(pt board.PieceType, c board.Color, sq string) board.Piece {
		return *board.NewPiece(pt, c, testutil.Sq(t, sq))
	}
	tests := []struct {
		name string
		move board.Move
		want string
	}{
		{
			name: "king move loses both",
			move: board.Move{From: testutil.Sq(t, "e1"), To: testutil.Sq(t, "e2"), Piece: piece(board.King, board.White, "e1")},
			want: "kq",
		},
		{
			name: "kingside rook",
			move: board.Move{From: testutil.Sq(t, "h8"), To: testutil.Sq(t, "h5"), Piece: piece(board.Rook, board.Black, "h8")},
			want: "KQq",
		},
		{
			name: "rook off its corner keeps rights",
			move: board.Move{From: testutil.Sq(t, "d1"), To: testutil.Sq(t, "d5"), Piece: piece(board.Rook, board.White, "d1")},
			want: "KQkq",
		},
		{
			name: "captured corner rook",
			move: board.Move{
				From:     testutil.Sq(t, "b7"),
				To:       testutil.Sq(t, "a8"),
				Piece:    piece(board.Bishop, board.White, "b7"),
				Captured: board.NewPiece(board.Rook, board.Black, testutil.Sq(t, "a8")),
			},
			want: "KQk",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := board.AllCastling
			cr.Update(tt.move)
			if got := cr.String(); got != tt.want {
				t.Errorf("rights = %s, want %s", got, tt.want)
			}
		})
	}

	var none board.CastlingRights
	none.Update(tests[0].move)
	if none.String() != "-" {
		t.Errorf("rights re-granted: %s", none)
	}
}

func TestMoveString(t *testing.T) {
	pawn := board.NewPiece(board.Pawn, board.White, testutil.Sq(t, "e7"))
	m := board.NewMove(pawn, testutil.Sq(t, "e8"))
	if m.String() != "e7e8" || m.IsPromotion() {
		t.Errorf("plain move = %s", m)
	}
	m.Promotion = board.Queen
	if m.String() != "e7e8q" || !m.IsPromotion() {
		t.Errorf("promotion = %s", m)
	}
}

func TestCapturedSquare(t *testing.T) {
	pawn := board.NewPiece(board.Pawn, board.White, testutil.Sq(t, "e5"))
	m := board.NewMove(pawn, testutil.Sq(t, "d6"))
	if m.CapturedSquare() != testutil.Sq(t, "d6") {
		t.Errorf("plain capture square = %s", m.CapturedSquare())
	}
	m.Special = board.EnPassant
	m.EnPassant = &board.EnPassantData{CapturedSquare: testutil.Sq(t, "d5")}
	if m.CapturedSquare() != testutil.Sq(t, "d5") {
		t.Errorf("en passant capture square = %s", m.CapturedSquare())
	}
}

func TestSpecialJSON(t *testing.T) {
	for _, s := range []board.Special{board.NoSpecial, board.CastlingKingside, board.CastlingQueenside, board.EnPassant} {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}
		var back board.Special
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if back != s {
			t.Errorf("round trip %s = %s", s, back)
		}
	}
	var s board.Special
	if err := json.Unmarshal([]byte(`"fianchetto"`), &s); err == nil {
		t.Error("unknown tag decoded")
	}
	if !board.CastlingQueenside.IsCastling() || board.EnPassant.IsCastling() {
		t.Error("IsCastling")
	}
}
