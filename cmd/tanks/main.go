// tanks is a terminal tank arena: destructible terrain, tanks and
// projectiles on a fixed-step simulation.
//
// Usage:
//
//	tanks scenarios          - List built-in scenarios
//	tanks play [scenario]    - Play a scenario (menu when omitted)
//	tanks run <scenario>     - Simulate headlessly and print the board
//	tanks replays            - List stored replays
//	tanks replay <id>        - Verify or watch a stored replay
//	tanks serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Override the tick rate
//	--db <path>           - Set replays database path (default: ~/.tanks/replays.db)
//	--config <path>       - Use a custom tanks.yaml
//	--difficulty <name>   - easy, normal or hard
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/registry"
	"github.com/vovakirdan/tui-tanks/internal/scenario"

	// Import built-in scenarios to register them
	_ "github.com/vovakirdan/tui-tanks/internal/scenario/builtin"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tanks",
	Short: "Tanks - a destructible-terrain tank arena in your terminal",
	Long: `Tanks runs a deterministic tank arena in the terminal. Brick walls
crumble one fragment at a time, concrete holds, and every session is
recorded so it can be replayed tick for tick.

Available commands:
  scenarios - Show all built-in scenarios
  play      - Play a scenario (interactive menu when none is given)
  run       - Simulate a scenario headlessly
  replays   - List stored replays
  replay    - Verify or watch a replay
  serve     - Start SSH server for remote play

Examples:
  tanks scenarios
  tanks play range
  tanks run duel --ticks 600
  tanks replay 1f0c7a2e --watch
  tanks serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tanks/replays.db", "Path to replays database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tanks.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig() (config.TanksConfig, error) {
	cfg, err := config.LoadTanks(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagFPS > 0 {
		cfg.Runtime.TickRate = flagFPS
	}
	return cfg, cfg.Validate()
}

// newLogger creates a logger at the level given by --log-level.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tanks",
		Level:           level,
	}), nil
}

// fileLogger logs to ~/.tanks/tanks.log so the alt screen stays clean.
// The returned close function is never nil.
func fileLogger() (*log.Logger, func()) {
	dir := config.UserDir()
	if dir != "" && os.MkdirAll(dir, 0o755) == nil {
		f, err := os.OpenFile(filepath.Join(dir, "tanks.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			if logger, err := newLogger(f); err == nil {
				return logger, func() { f.Close() }
			}
			f.Close()
		}
	}
	return log.New(io.Discard), func() {}
}

// lookupScenario resolves a built-in ID or a path to a scenario file.
func lookupScenario(arg string) (scenario.Scenario, error) {
	if registry.Exists(arg) {
		return registry.Create(arg)
	}
	if _, err := os.Stat(arg); err == nil {
		return scenario.LoadFile(arg)
	}
	return scenario.Scenario{}, fmt.Errorf("unknown scenario %q (run 'tanks scenarios' to list them)", arg)
}
