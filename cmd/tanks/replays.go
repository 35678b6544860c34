package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
	"github.com/vovakirdan/tui-tanks/internal/replay"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var (
	flagReplayScenario string
	flagReplayLimit    int
	flagWatch          bool
	flagDelete         bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List stored replays",
	Long: `Display the most recent replays, optionally for one scenario.

Examples:
  tanks replays
  tanks replays --scenario range --limit 5`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Verify or watch a stored replay",
	Long: `Re-simulate a stored replay and check that it lands on the recorded
digest. With --watch the replay is shown in the terminal UI instead.
A unique ID prefix is enough.

Examples:
  tanks replay 1f0c7a2e
  tanks replay 1f0c7a2e --watch
  tanks replay 1f0c7a2e --delete`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replaysCmd.Flags().StringVar(&flagReplayScenario, "scenario", "", "Only list replays of this scenario")
	replaysCmd.Flags().IntVar(&flagReplayLimit, "limit", 20, "Maximum number of replays to list")
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Watch the replay in the terminal UI")
	replayCmd.Flags().BoolVar(&flagDelete, "delete", false, "Delete the replay")
}

func runReplays(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening replays database: %v\n", err)
		os.Exit(1)
	}

	entries, err := store.RecentReplays(flagReplayScenario, flagReplayLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving replays: %v\n", err)
		os.Exit(1)
	}
	stats, err := store.ReplayStats()
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving replay stats: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No replays recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tanks play' or 'tanks run <scenario> --record' to record one.")
		return
	}

	fmt.Printf("  %-36s  %-10s  %7s  %-16s  %s\n", "ID", "Scenario", "Ticks", "Digest", "Date")
	fmt.Printf("  %-36s  %-10s  %7s  %-16s  %s\n", "--", "--------", "-----", "------", "----")
	for _, e := range entries {
		fmt.Printf("  %-36s  %-10s  %7d  %016x  %s\n",
			e.ID, e.Scenario, e.Ticks, e.Digest, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	for id, st := range stats {
		if flagReplayScenario != "" && id != flagReplayScenario {
			continue
		}
		fmt.Printf("%s: %d replays, %d ticks total, longest %d\n", id, st.Replays, st.TotalTicks, st.LongestRun)
	}
}

func runReplay(_ *cobra.Command, args []string) {
	if err := replayOne(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func replayOne(prefix string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveReplayID(store, prefix)
	if err != nil {
		return err
	}

	if flagDelete {
		if err := store.DeleteReplay(id); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", id)
		return nil
	}

	if flagWatch {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog := fileLogger()
		defer closeLog()
		return watchReplay(id, tui.Options{Config: cfg, Store: store, Logger: logger})
	}

	rec, err := store.LoadReplay(id)
	if err != nil {
		return err
	}
	res, err := replay.Run(rec)
	if err != nil {
		return err
	}

	fmt.Printf("Replay:   %s (%s)\n", rec.ID, rec.Scenario)
	fmt.Printf("Ticks:    %d\n", res.Ticks)
	fmt.Printf("Recorded: %016x\n", rec.FinalDigest)
	fmt.Printf("Replayed: %016x\n", res.Digest)
	if !res.Match {
		return fmt.Errorf("replay %s diverged", rec.ID)
	}
	fmt.Println("OK: digests match")
	return nil
}

// resolveReplayID expands a unique ID prefix among the stored replays.
func resolveReplayID(store *storage.Store, prefix string) (string, error) {
	ids, err := store.ReplayIDsWithPrefix(prefix)
	if err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("replay prefix %q is ambiguous (%d matches)", prefix, len(ids))
	}
}
