package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/engine"
	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
	"github.com/vovakirdan/tui-tanks/internal/replay"
	"github.com/vovakirdan/tui-tanks/internal/scenario"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var (
	flagTicks   int
	flagRecord  bool
	flagNoBoard bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Simulate a scenario headlessly",
	Long: `Run a scenario without a terminal UI for a fixed number of ticks,
then print the world digest and the board as ASCII (one character per
4x4 px sub-tile: # brick, @ concrete, P/Q tanks, * projectiles).

Keyboard-driven tanks idle. With --record the run is stored as a replay.

Examples:
  tanks run patrol
  tanks run duel --ticks 1800 --record
  tanks run ./my-arena.yaml --no-board --log-level debug`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagTicks, "ticks", 300, "Number of ticks to simulate")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Store the run as a replay")
	runCmd.Flags().BoolVar(&flagNoBoard, "no-board", false, "Do not print the final board")
}

func runRun(_ *cobra.Command, args []string) {
	if err := simulate(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func simulate(arg string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	s, err := lookupScenario(arg)
	if err != nil {
		return err
	}

	bc := scenario.BuildConfig{
		Engine:       cfg.ToEngine(),
		KeyHoldTicks: cfg.Runtime.KeyHoldTicks,
		WorldOptions: []engine.Option{engine.WithLogger(logger.With("scenario", s.ID))},
	}
	sess, rec, err := replay.Start(s, bc, cfg.Runtime.TickRate, 0)
	if err != nil {
		return err
	}

	counts := make(map[engine.EventKind]int)
	world := sess.World
	before := filledCount(world.Terrain())
	for range flagTicks {
		res, err := world.Tick()
		if err != nil {
			return fmt.Errorf("tick %d: %w", world.TickCount(), err)
		}
		for _, ev := range res.Events {
			counts[ev.Kind]++
			logger.Debug("event", "tick", res.Tick, "kind", ev.Kind, "actor", ev.Actor, "x", ev.X, "y", ev.Y)
		}
	}
	rec.Finish(world)

	fmt.Printf("Scenario:  %s (%s)\n", s.Name, s.ID)
	fmt.Printf("Config:    %s\n", engineSummary(cfg))
	fmt.Printf("Ticks:     %d\n", world.TickCount())
	fmt.Printf("Digest:    %016x\n", world.Digest())
	fmt.Printf("Fragments: %d -> %d\n", before, filledCount(world.Terrain()))
	fmt.Printf("Shots:     %d fired, %d terrain hits, %d tank hits, %d expired\n",
		counts[engine.EventFired], counts[engine.EventTerrainHit], counts[engine.EventActorHit], counts[engine.EventProjectileExpired])

	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveReplay(rec); err != nil {
			return err
		}
		fmt.Printf("Replay:    %s\n", rec.ID)
	}

	if !flagNoBoard {
		fmt.Println()
		fmt.Println(tui.BoardText(world.View()))
	}
	return nil
}

func filledCount(t engine.Terrain) int {
	if tm, ok := t.(*engine.TileMap); ok {
		return tm.FilledCount()
	}
	return 0
}
