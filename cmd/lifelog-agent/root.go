package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bububa/lifelog-agent/config"
	"github.com/bububa/lifelog-agent/logger"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lifelog-agent",
	Short: "Personal data assistant over your logs, records and the web",
	Long: `lifelog-agent answers questions about your life data.

Each question is split into subquestions, every subquestion is routed to a
tool (structured records, SQL aggregates, semantic search over personal logs
or web search) and the results are synthesized into one answer.

Examples:
  lifelog-agent bot                        # serve the Telegram bot
  lifelog-agent serve                      # serve the ingestion API
  lifelog-agent ask "how did I sleep?"     # answer a single question
  lifelog-agent clear --date 2024-05-01    # remove the logs of one day`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		log = logger.New(cfg.Log.Level, cfg.Log.Pretty, os.Stderr)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (yaml, toml, json or .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(clearCmd)
}
