// airhockey is a terminal air hockey game with local and online play.
//
// Usage:
//
//	airhockey play            - Play a match against the CPU or a friend
//	airhockey menu            - Start the interactive menu
//	airhockey serve           - Start the SSH server for remote and online play
//	airhockey history         - Show recorded matches
//	airhockey modes           - List match modes
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.airhockey/matches.db)
//	--config <path>      - Table configuration YAML
//	--difficulty <name>  - CPU difficulty preset
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-airhockey/internal/config"
	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/registry"
	"github.com/vovakirdan/tui-airhockey/internal/storage"
)

const defaultDBPath = "~/.airhockey/matches.db"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "airhockey",
	})
)

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "airhockey",
	Short: "Terminal air hockey",
	Long: `Air hockey in your terminal: play the CPU, a friend at the same
keyboard, or anyone over SSH.

Available commands:
  play     - Play a match directly
  menu     - Interactive menu
  serve    - Start SSH server for remote and online play
  history  - View recorded matches
  modes    - List match modes

Environment (also read from .env):
  AIRHOCKEY_DB         - Default for --db
  AIRHOCKEY_SSH_ADDR   - Default for serve --ssh
  AIRHOCKEY_LOG_LEVEL  - Default for --log-level

Examples:
  airhockey play
  airhockey play --mode bestof --value 5
  airhockey play --duel
  airhockey menu
  airhockey serve --ssh :2222
  airhockey history --mode time`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	flags.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	flags.StringVar(&flagDBPath, "db", defaultDBPath, "Path to match history database")
	flags.StringVar(&flagConfig, "config", "", "Path to custom table config YAML")
	flags.StringVar(&flagDifficulty, "difficulty", "", "CPU difficulty preset: easy, normal, hard, fixed")
	flags.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(modesCmd)
}

// setup applies environment defaults and the log level.
func setup(cmd *cobra.Command, _ []string) error {
	envDefault(cmd, "db", "AIRHOCKEY_DB", &flagDBPath)
	envDefault(cmd, "log-level", "AIRHOCKEY_LOG_LEVEL", &flagLogLevel)

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger.SetLevel(level)
	return nil
}

// envDefault replaces an unset flag's value with the environment variable.
func envDefault(cmd *cobra.Command, flag, env string, dst *string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// loadOptions reads the table configuration and applies the difficulty preset.
func loadOptions() (registry.Options, error) {
	table, err := config.Load(flagConfig)
	if err != nil {
		return registry.Options{}, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return registry.Options{}, err
		}
		config.ApplyPreset(&table, preset)
	}
	settings, err := table.Match.Settings()
	if err != nil {
		return registry.Options{}, fmt.Errorf("config: bad default match: %w", err)
	}
	return registry.Options{Settings: settings, Table: table}, nil
}

// openStore opens the history database. Play continues without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open match history", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
