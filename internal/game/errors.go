package game

import (
	"errors"

	"github.com/hailam/chessmod/internal/rules"
)

// Errors returned by Game operations. A failed operation never mutates the
// game.
var (
	ErrNoPiece       = errors.New("no piece on square")
	ErrWrongColor    = errors.New("piece does not belong to the side to move")
	ErrPieceLocked   = errors.New("another piece must complete the move")
	ErrNoSelection   = errors.New("no piece selected")
	ErrProtected     = errors.New("target is protected")
	ErrIllegalMove   = rules.ErrIllegalMove
	ErrInvalidCard   = errors.New("invalid card")
	ErrCardActive    = errors.New("a card effect is already active")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrInvalidRecord = errors.New("invalid game record")
)
