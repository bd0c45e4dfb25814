package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/pipeline"
	"github.com/medstock/sitesync/internal/store"
	"github.com/medstock/sitesync/internal/translate"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Translate pending changelog entries into wire records",
	Long: "Translates changelog entries past the stored cursor and writes the " +
		"resulting wire records to stdout as JSON lines. Delivery to the central " +
		"server is the transport layer's job; piping this output into it acts as " +
		"full acknowledgement.",
	Args: cobra.NoArgs,
	RunE: runPush,
}

func runPush(cmd *cobra.Command, args []string) error {
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

	transport := &writerTransport{w: cmd.OutOrStdout()}
	runner := pipeline.NewPushRunner(db, translate.NewDefaultRegistry(), transport,
		cfg.Sync.PushBatchSize, slog.Default())

	run, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "push %s: %d records\n", run.Status, run.Pushed)
	return nil
}

// writerTransport writes wire records as JSON lines. A record counts as
// acknowledged once it has been written without error.
type writerTransport struct {
	w io.Writer
}

func (t *writerTransport) Send(ctx context.Context, records []legacy.Record) (int, error) {
	enc := json.NewEncoder(t.w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
