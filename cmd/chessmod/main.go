// Command chessmod plays card-augmented chess on the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessmod/internal/board"
	"github.com/hailam/chessmod/internal/console"
	"github.com/hailam/chessmod/internal/game"
	"github.com/hailam/chessmod/internal/opponent"
	"github.com/hailam/chessmod/internal/storage"
)

func main() {
	// Flags (env fallbacks). Unset flags fall back to stored preferences.
	dbDir := flag.String("db", getenv("CHESSMOD_DB", ""), `database directory ("" = platform data dir, "memory" = no persistence)`)
	vsAI := flag.Bool("opponent", getenb("CHESSMOD_OPPONENT", true), "play against the computer")
	aiColor := flag.String("opponent-color", getenv("CHESSMOD_OPPONENT_COLOR", "black"), "color the computer plays")
	difficulty := flag.String("difficulty", getenv("CHESSMOD_DIFFICULTY", "medium"), "computer difficulty: easy, medium, hard")
	delay := flag.Duration("delay", getenvd("CHESSMOD_DELAY", time.Second), "delay before the computer moves")
	seed := flag.Int64("seed", getenvi("CHESSMOD_SEED", 0), "random seed (0 = time based)")
	handSize := flag.Int("hand-size", int(getenvi("CHESSMOD_HAND_SIZE", 10)), "maximum cards per hand")
	fen := flag.String("fen", getenv("CHESSMOD_FEN", ""), "start position (FEN)")
	verbose := flag.Bool("v", getenb("CHESSMOD_VERBOSE", false), "log game events to stderr")
	flag.Parse()

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	store, err := openStore(*dbDir)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
	}
	if store != nil {
		defer store.Close()
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if prefs, err = store.LoadPreferences(); err != nil {
			log.Printf("Warning: Failed to load preferences: %v", err)
		}
	}
	applyPreferences(prefs, vsAI, aiColor, difficulty, delay, seed, handSize)

	color, err := board.ParseColor(*aiColor)
	fatalIf(err, "opponent color")
	diff, err := opponent.ParseDifficulty(*difficulty)
	fatalIf(err, "difficulty")

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	opts := []game.Option{
		game.WithSeed(*seed),
		game.WithHandSize(*handSize, -1),
		game.WithLogger(logger),
	}
	if *fen != "" {
		opts = append(opts, game.WithStartFEN(*fen))
	}
	g, err := game.New(opts...)
	fatalIf(err, "new game")

	cfg := console.Config{
		OpponentColor: color,
		Delay:         *delay,
		Logger:        logger,
	}
	if store != nil {
		cfg.Store = store
	}
	if *vsAI {
		cfg.Opponent = opponent.New(rand.New(rand.NewSource(*seed+1)), diff, logger)
	}

	if store != nil {
		prefs.Opponent = *vsAI
		prefs.OpponentColor = color
		prefs.Difficulty = diff
		prefs.MoveDelay = *delay
		prefs.HandSize = *handSize
		if err := store.SavePreferences(prefs); err != nil {
			log.Printf("Warning: Failed to save preferences: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(`chessmod, type "help" for commands`)
	c := console.New(g, os.Stdout, cfg)
	c.Execute("show")
	if err := c.Run(ctx, os.Stdin); err != nil && err != context.Canceled {
		log.Printf("console: %v", err)
	}
}

func openStore(dir string) (*storage.Storage, error) {
	switch dir {
	case "":
		return storage.NewStorage()
	case "memory":
		return storage.OpenInMemory()
	default:
		return storage.Open(dir)
	}
}

// applyPreferences fills flags that were not given on the command line or
// through the environment from stored preferences.
func applyPreferences(prefs *storage.UserPreferences, vsAI *bool, aiColor, difficulty *string, delay *time.Duration, seed *int64, handSize *int) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	fromEnv := func(name, key string) bool { return set[name] || os.Getenv(key) != "" }

	if !fromEnv("opponent", "CHESSMOD_OPPONENT") {
		*vsAI = prefs.Opponent
	}
	if !fromEnv("opponent-color", "CHESSMOD_OPPONENT_COLOR") && prefs.OpponentColor <= board.Black {
		*aiColor = prefs.OpponentColor.String()
	}
	if !fromEnv("difficulty", "CHESSMOD_DIFFICULTY") {
		*difficulty = prefs.Difficulty.String()
	}
	if !fromEnv("delay", "CHESSMOD_DELAY") && prefs.MoveDelay > 0 {
		*delay = prefs.MoveDelay
	}
	if !fromEnv("seed", "CHESSMOD_SEED") && prefs.Seed != 0 {
		*seed = prefs.Seed
	}
	if !fromEnv("hand-size", "CHESSMOD_HAND_SIZE") && prefs.HandSize > 0 {
		*handSize = prefs.HandSize
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getenvi(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getenvd(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatalf("%s: %v", label, err)
	}
}
