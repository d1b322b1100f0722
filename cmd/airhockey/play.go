package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-airhockey/internal/games/airhockey"
	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/platform/tui"
	"github.com/vovakirdan/tui-airhockey/internal/registry"
)

var (
	flagMode  string
	flagValue int
	flagDuel  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match",
	Long: `Start a match against the CPU, or a local duel with --duel.

Without --mode the match setup screen asks for the mode and its value.

Controls:
  W/A/S/D    - Move the left mallet (arrows too, against the CPU)
  Arrows     - Move the right mallet (duel)
  P/Space    - Pause
  R          - Restart (when paused or over)
  Esc        - Back (when paused or over)
  Q/Ctrl+C   - Quit

Modes:
  highscore  - First to reach the target score wins
  bestof     - Best of N goals: first past half of N wins
  time       - Most goals after N minutes wins
  endless    - Play until you quit

Examples:
  airhockey play
  airhockey play --mode highscore --value 7
  airhockey play --mode time --value 3 --duel
  airhockey play --difficulty hard
  airhockey play --config ./my-table.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Match mode: highscore, bestof, time, endless")
	playCmd.Flags().IntVar(&flagValue, "value", 0, "Target score, best-of count or minutes")
	playCmd.Flags().BoolVar(&flagDuel, "duel", false, "Two players at one keyboard")
}

func runPlay(_ *cobra.Command, _ []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}
	cfg := runtimeConfig()

	gameID, title := airhockey.VersusCPUID, "PLAY VS CPU"
	if flagDuel {
		gameID, title = airhockey.DuelID, "LOCAL DUEL"
	}

	if flagMode != "" {
		opts.Settings, err = match.ParseSettings(flagMode, flagValue)
		if err != nil {
			return err
		}
	} else {
		selected, err := tui.RunSetup(title, opts.Settings, cfg)
		if err != nil {
			return err
		}
		if selected == nil {
			return nil // Back or quit
		}
		opts.Settings = *selected
	}

	game, err := registry.Create(gameID, opts)
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	res, err := tui.Run(game, store, cfg)
	if err != nil {
		return err
	}
	if res.SaveErr != nil {
		logger.Warn("could not save match", "error", res.SaveErr)
	}
	logger.Debug("match over",
		"mode", opts.Settings.Mode(),
		"left", res.State.LeftGoals,
		"right", res.State.RightGoals,
		"result", res.State.Result,
	)
	return nil
}
