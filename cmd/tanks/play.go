package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
	"github.com/vovakirdan/tui-tanks/internal/registry"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [scenario]",
	Short: "Play a scenario",
	Long: `Start playing the given scenario, or pick one from a menu.
The scenario may be a built-in ID or a path to a scenario YAML file.

Controls:
  Arrows/WASD  - Move (a tap keeps the tank rolling briefly)
  Space/F      - Fire
  X            - Stop
  P            - Pause, then . to step one tick
  Esc          - Back to the menu (the session is saved as a replay)
  Q/Ctrl+C     - Quit

Examples:
  tanks play
  tanks play range
  tanks play duel --difficulty hard
  tanks play ./my-arena.yaml --fps 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := fileLogger()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open replays database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}

	opts := tui.Options{Config: cfg, Store: store, Logger: logger}
	logger.Info("session config", "engine", engineSummary(cfg))

	var runErr error
	if len(args) == 1 {
		runErr = playOne(args[0], opts)
	} else {
		runMenu(opts, logger)
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

func playOne(arg string, opts tui.Options) error {
	s, err := lookupScenario(arg)
	if err != nil {
		return err
	}
	opts.Seed = time.Now().UnixNano()

	m, err := tui.NewPlayModel(s, opts)
	if err != nil {
		return err
	}
	final, err := tui.Run(m)
	if err != nil {
		return err
	}
	return final.Err()
}

// runMenu loops between the scenario menu, boards and the replays browser.
func runMenu(opts tui.Options, logger *log.Logger) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	for {
		menuResult, err := tui.RunMenu(width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		width, height = menuResult.Width, menuResult.Height

		if menuResult.Quit {
			return
		}

		if menuResult.WantsReplays {
			res, err := tui.RunReplays(opts.Store, width, height)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if res.Watch != "" {
				if err := watchReplay(res.Watch, opts); err != nil {
					logger.Error("cannot watch replay", "id", res.Watch, "error", err)
				}
				continue
			}
			if res.GoBack {
				continue // Back to menu
			}
			return // User quit from replays
		}

		s, err := registry.Create(menuResult.ScenarioID)
		if err != nil {
			logger.Error("cannot create scenario", "id", menuResult.ScenarioID, "error", err)
			continue
		}
		opts.Seed = time.Now().UnixNano()

		m, err := tui.NewPlayModel(s, opts)
		if err != nil {
			logger.Error("cannot start scenario", "id", s.ID, "error", err)
			continue
		}
		final, err := tui.Run(m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running scenario: %v\n", err)
			return
		}
		if final.IsQuitting() {
			return
		}
	}
}

// watchReplay loads a replay and shows it in the TUI.
func watchReplay(id string, opts tui.Options) error {
	if opts.Store == nil {
		return errors.New("no replays database")
	}
	rec, err := opts.Store.LoadReplay(id)
	if err != nil {
		return err
	}
	m, err := tui.NewWatchModel(rec, opts)
	if err != nil {
		return err
	}
	_, err = tui.Run(m)
	return err
}

// engineSummary is a one-line description of the active config.
func engineSummary(cfg config.TanksConfig) string {
	e := cfg.ToEngine()
	return fmt.Sprintf("%dx%d px, tank %d/%d px/tick, shell x%d, %d ticks/s (%s)",
		e.BoardSize(), e.BoardSize(), e.TankSpeed, e.QuickTankSpeed, e.ProjectileMultiplier,
		cfg.Runtime.TickRate, cfg.Runtime.Difficulty)
}
