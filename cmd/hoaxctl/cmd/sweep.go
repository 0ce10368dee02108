package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/hoaxify/internal/app"
	"github.com/templui/hoaxify/internal/config"
	"github.com/templui/hoaxify/internal/logger"
)

func SweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired session tokens and orphaned attachments once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd)
		},
	}
}

func runSweep(cmd *cobra.Command) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	tokens, attachments, err := a.CleanupService.SweepOnce(cmd.Context())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("Removed %d expired tokens and %d orphaned attachments\n", tokens, attachments)
	return nil
}
