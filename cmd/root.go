package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luigi970/Signal-Hunter/internal/config"
	"github.com/luigi970/Signal-Hunter/internal/logger"
)

var (
	logLevel string
	cfgPath  string
)

var rootCmd = &cobra.Command{
	Use:   "signalhunter",
	Short: "hunt business opportunities in a market niche",
	Long: `Signal Hunter turns a market niche into a ranked set of business
opportunities by expanding the niche into pain-oriented search queries,
hunting real-world complaints through grounded inference, and mapping them
into categorized signals.

Commands:
  signalhunter serve     Run the HTTP API server
  signalhunter hunt      Run one hunt from the terminal
  signalhunter history   List persisted hunts`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Config file path (default: .signalhunter.yaml next to the executable)")
}

// loadConfig loads the config file, falling back to defaults with a warning.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	return cfg
}

func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
