// Package testutil holds helpers shared by package tests.
package testutil

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hailam/chessmod/internal/board"
)

// Diff reports a test error with a readable diff when want and got differ.
func Diff(t testing.TB, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

// Squares parses algebraic square names, failing the test on a bad name.
func Squares(t testing.TB, names ...string) []board.Square {
	t.Helper()
	out := make([]board.Square, 0, len(names))
	for _, n := range names {
		sq, err := board.ParseSquare(n)
		if err != nil {
			t.Fatalf("ParseSquare(%q): %v", n, err)
		}
		out = append(out, sq)
	}
	return out
}

// Sq parses one algebraic square name.
func Sq(t testing.TB, name string) board.Square {
	t.Helper()
	return Squares(t, name)[0]
}

// Names returns the sorted algebraic names of the squares.
func Names(sqs []board.Square) []string {
	out := make([]string, len(sqs))
	for i, sq := range sqs {
		out[i] = sq.String()
	}
	sort.Strings(out)
	return out
}

// SameSquares compares two square sets ignoring order.
func SameSquares(t testing.TB, want, got []board.Square) {
	t.Helper()
	Diff(t, want, got, cmpopts.SortSlices(func(a, b board.Square) bool {
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	}), cmpopts.EquateEmpty())
}

// MustFEN parses a FEN position, failing the test on error.
func MustFEN(t testing.TB, fen string) *board.Setup {
	t.Helper()
	s, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return s
}
