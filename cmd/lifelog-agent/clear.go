package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

var (
	clearAll  bool
	clearDate string
)

var errClearFlags = errors.New("exactly one of --all or --date is required")

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove stored personal logs",
	Long: `Remove personal logs from the semantic store.

Examples:
  lifelog-agent clear --all                # drop every stored log
  lifelog-agent clear --date 2024-05-01    # drop the logs of one day`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Remove every stored log")
	clearCmd.Flags().StringVar(&clearDate, "date", "", "Remove the logs of one day (YYYY-MM-DD)")
}

// clearer is the part of semantic.Service the command uses
type clearer interface {
	Clear(ctx context.Context) error
	ClearByDate(ctx context.Context, date string) (int, error)
}

func validateClearFlags(all bool, date string) error {
	if all == (date != "") {
		return errClearFlags
	}
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
		}
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if err := validateClearFlags(clearAll, clearDate); err != nil {
		cmd.Usage()
		return err
	}
	sem, err := openSemantic(cmd.Context())
	if err != nil {
		return err
	}
	return clearLogs(cmd.Context(), sem, clearAll, clearDate, cmd.OutOrStdout())
}

func clearLogs(ctx context.Context, c clearer, all bool, date string, w io.Writer) error {
	if all {
		if err := c.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "All documents cleared.")
		return nil
	}
	n, err := c.ClearByDate(ctx, date)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintf(w, "No documents found for date %s.\n", date)
		return nil
	}
	fmt.Fprintf(w, "Deleted %d documents for date %s.\n", n, date)
	return nil
}
