package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/medstock/sitesync/internal/pipeline"
	"github.com/medstock/sitesync/internal/store"
	"github.com/medstock/sitesync/internal/translate"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Integrate buffered inbound records into the site database",
	Args:  cobra.NoArgs,
	RunE:  runPull,
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogger(cfg.Log)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := pipeline.NewPullRunner(db, translate.NewDefaultRegistry(), slog.Default())
	run, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pull %s: %d integrated, %d ignored\n",
		run.Status, run.Integrated, run.Ignored)
	return nil
}
