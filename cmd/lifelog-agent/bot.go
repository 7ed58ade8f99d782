package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bububa/lifelog-agent/api"
	"github.com/bububa/lifelog-agent/transport/telegram"
)

var botWithAPI bool

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Serve the Telegram bot",
	Long: `Serve the assistant as a Telegram bot using long polling.

Requires TELEGRAM_BOT_TOKEN. Every chat keeps its own conversation history,
idle conversations are dropped after chat.session_ttl.

The semantic store is loaded into memory when the process starts, logs
written by another process show up after a restart. Use --api to serve
the ingestion API from the bot process so new logs are searchable at once.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func init() {
	botCmd.Flags().BoolVar(&botWithAPI, "api", false, "Also serve the ingestion API on api.addr")
}

func runBot(cmd *cobra.Command, args []string) error {
	if cfg.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.release()
	handler, sessions := p.newChatHandler()

	bot, err := telegram.NewBotAPI(cfg.Telegram.Token, cfg.Telegram.Debug)
	if err != nil {
		return err
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("authorized on telegram")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions.Janitor(ctx, cfg.Chat.JanitorInterval, cfg.Chat.SessionTTL)
		return nil
	})
	g.Go(func() error {
		return telegram.New(bot, handler, log.With().Str("component", "telegram").Logger()).Run(ctx)
	})
	if botWithAPI {
		g.Go(func() error {
			return api.NewServer(p.semantic, log.With().Str("component", "api").Logger()).ListenAndServe(ctx, cfg.API.Addr)
		})
	}
	return g.Wait()
}
