// Package console implements a line-oriented text protocol for playing a
// game from a terminal or a script.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/game"
	"github.com/hailam/chessmod/internal/opponent"
	"github.com/hailam/chessmod/internal/rules"
	"github.com/hailam/chessmod/internal/storage"
)

// Store persists saved games and results.
type Store interface {
	SaveGame(name string, r game.Record) error
	LoadGame(name string) (*storage.SavedGame, error)
	ListGames() ([]string, error)
	RecordGame(result storage.GameResult) error
}

// Config configures a Console. Opponent and Store are optional.
type Config struct {
	Opponent      *opponent.Opponent
	OpponentColor board.Color
	Delay         time.Duration
	Store         Store
	Logger        *log.Logger
}

// Console drives one game from text commands.
type Console struct {
	game   *game.Game
	out    io.Writer
	cfg    Config
	runner *opponent.Runner
	log    *log.Logger

	pending    bool
	pendingGen uint64

	started     time.Time
	cardsPlayed int
	recorded    bool
	quit        bool
}

// New creates a console for g writing responses to out.
func New(g *game.Game, out io.Writer, cfg Config) *Console {
	c := &Console{
		game:    g,
		out:     out,
		cfg:     cfg,
		log:     cfg.Logger,
		started: time.Now(),
	}
	if c.log == nil {
		c.log = log.New(io.Discard, "", 0)
	}
	if cfg.Opponent != nil {
		c.runner = opponent.NewRunner(cfg.Opponent)
	}
	return c
}

// Run reads commands from in until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	if c.runner != nil {
		defer c.runner.Stop()
	}
	c.maybeStartOpponent(ctx)

	var moves <-chan opponent.Choice
	if c.runner != nil {
		moves = c.runner.Moves()
	}
	for !c.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			c.Execute(line)
			c.maybeStartOpponent(ctx)
		case choice := <-moves:
			c.pending = false
			c.applyOpponent(choice)
			c.maybeStartOpponent(ctx)
		}
	}
	return nil
}

// Execute runs one command line. Blank lines are ignored.
func (c *Console) Execute(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	var err error
	switch cmd {
	case "new":
		c.stopOpponent()
		c.game.Reset()
		c.started = time.Now()
		c.cardsPlayed = 0
		c.recorded = false
		c.printBoard()
	case "show", "d":
		c.printBoard()
	case "fen":
		c.println(c.game.FEN())
	case "select":
		err = c.handleSelect(args)
	case "moves":
		c.handleMoves()
	case "move":
		err = c.handleMove(args)
	case "hand":
		c.handleHand()
	case "play":
		err = c.handlePlay(args)
	case "undo":
		c.stopOpponent()
		if err = c.game.UndoMove(); err == nil {
			c.recorded = false
			c.println("ok")
		}
	case "save":
		err = c.handleSave(args)
	case "load":
		err = c.handleLoad(args)
	case "games":
		err = c.handleGames()
	case "help":
		c.printHelp()
	case "quit", "exit":
		c.quit = true
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		c.printf("error: %v\n", err)
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func parseSquare(args []string, i int) (board.Square, error) {
	if len(args) <= i {
		return board.NoSquare, fmt.Errorf("missing square")
	}
	return board.ParseSquare(strings.ToLower(args[i]))
}

func (c *Console) handleSelect(args []string) error {
	if len(args) > 0 && args[0] == "none" {
		return c.game.SelectPiece(nil)
	}
	sq, err := parseSquare(args, 0)
	if err != nil {
		return err
	}
	if err := c.game.Select(sq); err != nil {
		return err
	}
	c.handleMoves()
	return nil
}

func (c *Console) handleMoves() {
	s := c.game.Snapshot()
	if s.Selected == nil {
		c.println("no selection")
		return
	}
	names := make([]string, len(s.LegalMoves))
	for i, sq := range s.LegalMoves {
		names[i] = sq.String()
	}
	c.printf("%s: %s\n", s.Selected, strings.Join(names, " "))
}

// handleMove accepts "move <to>" for the selected piece or
// "move <from> <to>".
func (c *Console) handleMove(args []string) error {
	if len(args) >= 2 {
		from, err := parseSquare(args, 0)
		if err != nil {
			return err
		}
		if err := c.game.Select(from); err != nil {
			return err
		}
		args = args[1:]
	}
	to, err := parseSquare(args, 0)
	if err != nil {
		return err
	}
	if err := c.game.MakeMove(to); err != nil {
		return err
	}
	c.afterMove()
	return nil
}

func (c *Console) handleHand() {
	turn := c.game.Turn()
	hand := c.game.Hand(turn)
	c.printf("%s hand (%d):\n", turn, len(hand))
	for i, card := range hand {
		c.printf("  %d. %s [%s] %s\n", i+1, card.Name, card.ID, card.Description)
	}
}

func (c *Console) handlePlay(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing card")
	}
	id := args[0]
	if n, err := strconv.Atoi(id); err == nil {
		hand := c.game.Hand(c.game.Turn())
		if n < 1 || n > len(hand) {
			return fmt.Errorf("%w: no card %d in hand", game.ErrInvalidCard, n)
		}
		id = hand[n-1].ID
	}
	if err := c.game.PlayCard(id); err != nil {
		return err
	}
	c.cardsPlayed++
	c.println("ok")
	return nil
}

func (c *Console) handleSave(args []string) error {
	if c.cfg.Store == nil {
		return fmt.Errorf("no storage configured")
	}
	if len(args) == 0 {
		return fmt.Errorf("missing name")
	}
	if err := c.cfg.Store.SaveGame(args[0], c.game.Export()); err != nil {
		return err
	}
	c.printf("saved %s\n", args[0])
	return nil
}

func (c *Console) handleLoad(args []string) error {
	if c.cfg.Store == nil {
		return fmt.Errorf("no storage configured")
	}
	if len(args) == 0 {
		return fmt.Errorf("missing name")
	}
	sg, err := c.cfg.Store.LoadGame(args[0])
	if err != nil {
		return err
	}
	c.stopOpponent()
	if err := c.game.Restore(sg.Record); err != nil {
		return err
	}
	c.recorded = false
	c.printf("loaded %s\n", sg.Name)
	c.printBoard()
	return nil
}

func (c *Console) handleGames() error {
	if c.cfg.Store == nil {
		return fmt.Errorf("no storage configured")
	}
	names, err := c.cfg.Store.ListGames()
	if err != nil {
		return err
	}
	for _, n := range names {
		c.println(n)
	}
	return nil
}

func (c *Console) printBoard() {
	s := c.game.Snapshot()
	c.printf("%s", s.Board)
	c.printf("%s to move", s.Turn)
	if s.CardActive && s.ActiveCard != nil {
		c.printf(", %s active", s.ActiveCard.Name)
		if s.RemainingMoves > 0 {
			c.printf(" (%d moves left)", s.RemainingMoves)
		}
	}
	if s.ExtraTurn {
		c.printf(", extra turn pending")
	}
	c.println("")
}

// afterMove reports the move and any game-ending state.
func (c *Console) afterMove() {
	hist := c.game.History()
	last := hist[len(hist)-1]
	c.printf("%s %s\n", last.Piece.Color, last)

	switch outcome := c.game.Outcome(); outcome {
	case rules.Check:
		c.printf("%s is in check\n", c.game.Turn())
	case rules.Checkmate:
		c.printf("checkmate, %s wins\n", c.game.Turn().Other())
		c.record(outcome)
	case rules.Stalemate:
		c.println("stalemate")
		c.record(outcome)
	}
}

// record stores the result once per finished game. Results are from the
// human's point of view and only kept when playing the opponent.
func (c *Console) record(outcome rules.Outcome) {
	if c.recorded || c.cfg.Store == nil || c.cfg.Opponent == nil {
		return
	}
	c.recorded = true
	result := storage.GameResult{
		Draw:        outcome == rules.Stalemate,
		Won:         outcome == rules.Checkmate && c.game.Turn() == c.cfg.OpponentColor,
		Difficulty:  c.cfg.Opponent.Difficulty(),
		CardsPlayed: c.cardsPlayed,
		Duration:    time.Since(c.started),
	}
	if err := c.cfg.Store.RecordGame(result); err != nil {
		c.log.Printf("Warning: Failed to record game: %v", err)
	}
}

func (c *Console) stopOpponent() {
	if c.runner != nil {
		c.runner.Stop()
	}
	c.pending = false
}

// maybeStartOpponent queues an opponent move when it is the opponent's
// turn. Without a delay the move is played immediately.
func (c *Console) maybeStartOpponent(ctx context.Context) {
	if c.cfg.Opponent == nil || c.quit {
		return
	}
	for c.game.Turn() == c.cfg.OpponentColor {
		if o := c.game.Outcome(); o == rules.Checkmate || o == rules.Stalemate {
			return
		}
		if c.cfg.Delay > 0 {
			gen := c.game.Generation()
			if c.pending && c.pendingGen == gen {
				return
			}
			c.pending = c.runner.Start(ctx, c.game, c.cfg.OpponentColor, gen, c.cfg.Delay)
			c.pendingGen = gen
			return
		}
		choice, ok := c.cfg.Opponent.ChooseMove(c.game, c.cfg.OpponentColor)
		if !ok {
			c.log.Printf("[AI] %s has no move", c.cfg.OpponentColor)
			return
		}
		choice.Generation = c.game.Generation()
		if !c.applyOpponent(choice) {
			return
		}
	}
}

func (c *Console) applyOpponent(choice opponent.Choice) bool {
	if err := opponent.Play(c.game, choice); err != nil {
		c.log.Printf("[AI] Dropped move %s: %v", choice, err)
		return false
	}
	c.afterMove()
	return true
}

func (c *Console) printHelp() {
	c.println(`commands:
  new                 start a new game
  show                print the board
  fen                 print the position as FEN
  select <sq>|none    select a piece
  moves               list the selected piece's moves
  move [<from>] <to>  move the selected piece
  hand                list the cards of the side to move
  play <n>|<id>       play a card
  undo                take back the last move
  save <name>         save the game
  load <name>         load a saved game
  games               list saved games
  quit                leave`)
}
