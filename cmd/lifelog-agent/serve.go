package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bububa/lifelog-agent/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ingestion API",
	Long: `Serve the HTTP API new personal logs are ingested through.

  POST /add_embedding   store a log, embedding it when no vector is given
  GET  /health          liveness probe

A bot running in another process loads the semantic store when it starts and
does not see logs added here until it restarts, run "bot --api" to serve both
from one process.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sem, err := openSemantic(ctx)
	if err != nil {
		return err
	}
	srv := api.NewServer(sem, log.With().Str("component", "api").Logger())
	return srv.ListenAndServe(ctx, cfg.API.Addr)
}
