package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bububa/lifelog-agent/chat"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.release()
	answer, err := p.newAgent("ask").ProcessQuery(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), chat.TruncateWords(answer, cfg.Chat.MaxWords))
	return nil
}
