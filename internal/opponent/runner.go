package opponent

import (
	"context"
	"sync"
	"time"

	"github.com/hailam/chessmod/internal/board"
)

// Runner delivers opponent moves after a delay. A pending move can be
// cancelled, and every move carries the generation it was computed for so
// callers can drop it once the game has moved on.
type Runner struct {
	opp   *Opponent
	moves chan Choice

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner for the opponent.
func NewRunner(o *Opponent) *Runner {
	return &Runner{
		opp:   o,
		moves: make(chan Choice, 1),
	}
}

// Moves returns the channel choices are delivered on.
func (r *Runner) Moves() <-chan Choice {
	return r.moves
}

// Start picks a move for c from the current view and delivers it after
// delay, unless ctx is cancelled or Stop is called first. Any pending move
// is cancelled. It returns false when c has no legal move.
//
// The view is read before Start returns; the delay runs on its own
// goroutine and never touches the game.
func (r *Runner) Start(ctx context.Context, v View, c board.Color, gen uint64, delay time.Duration) bool {
	r.Stop()

	choice, ok := r.opp.ChooseMove(v, c)
	if !ok {
		return false
	}
	choice.Generation = gen

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		select {
		case r.moves <- choice:
		case <-ctx.Done():
		}
	}()
	return true
}

// Stop cancels a pending move and waits for its goroutine to exit. A move
// already delivered stays on the channel; it is drained here so it cannot
// be applied later.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()

	select {
	case <-r.moves:
	default:
	}
}
