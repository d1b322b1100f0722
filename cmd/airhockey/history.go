package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/storage"
)

var (
	flagHistoryMode  string
	flagHistoryLimit int
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded matches",
	Long: `Display the most recent matches and the win counts per mode.

Examples:
  airhockey history
  airhockey history --mode bestof
  airhockey history --limit 50
  airhockey history --clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryMode, "mode", "", "Only show one mode: highscore, bestof, time, endless")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of matches to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded matches")
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearMatches(); err != nil {
			return err
		}
		logger.Info("match history cleared", "path", flagDBPath)
		return nil
	}

	var (
		records []storage.MatchRecord
		title   = "All modes"
	)
	if flagHistoryMode != "" {
		mode, err := match.ParseMode(flagHistoryMode)
		if err != nil {
			return err
		}
		title = mode.String()
		records, err = store.MatchesByMode(mode, flagHistoryLimit)
		if err != nil {
			return err
		}
	} else {
		records, err = store.RecentMatches(flagHistoryLimit)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Match History - %s\n", title)
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'airhockey play' to record the first one!")
		return nil
	}

	fmt.Printf("  %-16s  %-14s  %-24s  %-7s  %-10s  %s\n", "Date", "Mode", "Players", "Score", "Winner", "End")
	fmt.Printf("  %-16s  %-14s  %-24s  %-7s  %-10s  %s\n", "----", "----", "-------", "-----", "------", "---")
	for _, r := range records {
		fmt.Printf("  %-16s  %-14s  %-24s  %-7s  %-10s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			recordMode(r),
			r.LeftName+" v "+r.RightName,
			fmt.Sprintf("%d-%d", r.LeftGoals, r.RightGoals),
			recordWinner(r),
			r.EndReason,
		)
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Println()
	for _, s := range stats {
		if flagHistoryMode != "" && s.Mode.String() != title {
			continue
		}
		fmt.Printf("%-10s %d matches, left %d, right %d, ties %d, %d goals\n",
			s.Mode.String()+":", s.Matches, s.LeftWins, s.RightWins, s.Ties, s.Goals)
	}
	return nil
}

func recordMode(r storage.MatchRecord) string {
	if r.Mode == match.Endless {
		return r.Mode.String()
	}
	return fmt.Sprintf("%s %d", r.Mode, r.Value)
}

func recordWinner(r storage.MatchRecord) string {
	p, ok := r.Result.Winner()
	switch {
	case !ok:
		return "tie"
	case p == match.LeftPlayer:
		return r.LeftName
	default:
		return r.RightName
	}
}
