package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-airhockey/internal/platform/tui"
	"github.com/vovakirdan/tui-airhockey/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start air hockey with an interactive menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
After a match, Esc returns to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Match history
  Q            - Quit

Examples:
  airhockey menu
  airhockey menu --fps 30
  airhockey menu --db ./matches.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}
		cfg = menuResult.Config
		if menuResult.Quit {
			return nil
		}

		switch menuResult.Choice {
		case tui.MenuChoiceHistory:
			goBack, err := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue

		case tui.MenuChoiceVersusCPU, tui.MenuChoiceDuel:
		default:
			return nil
		}

		title := "PLAY VS CPU"
		if menuResult.Choice == tui.MenuChoiceDuel {
			title = "LOCAL DUEL"
		}
		selected, err := tui.RunSetup(title, opts.Settings, cfg)
		if err != nil {
			return err
		}
		if selected == nil {
			continue
		}

		matchOpts := opts
		matchOpts.Settings = *selected
		game, err := registry.Create(menuResult.GameID, matchOpts)
		if err != nil {
			logger.Error("cannot create game", "game", menuResult.GameID, "error", err)
			continue
		}

		// New seed for each match
		cfg.Seed = time.Now().UnixNano()

		res, err := tui.Run(game, store, cfg)
		if err != nil {
			return err
		}
		if res.SaveErr != nil {
			logger.Warn("could not save match", "error", res.SaveErr)
		}
		if !res.BackToMenu {
			return nil
		}
	}
}
