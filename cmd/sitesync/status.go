package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/medstock/sitesync/internal/store"
	sitesync "github.com/medstock/sitesync/internal/sync"
)

var statusJSONOutput bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync state: buffer backlog, cursors and last runs",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "Output in JSON format")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

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

	stats, err := db.GetBufferStats(ctx)
	if err != nil {
		return err
	}
	pushCursor, err := db.PushCursor(ctx)
	if err != nil {
		return err
	}
	latestCursor, err := db.LatestCursor(ctx)
	if err != nil {
		return err
	}

	lastPull, err := lastRunOrNil(ctx, db, sitesync.RunPull)
	if err != nil {
		return err
	}
	lastPush, err := lastRunOrNil(ctx, db, sitesync.RunPush)
	if err != nil {
		return err
	}

	if statusJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"site_id":        cfg.Sync.SiteID,
			"buffer_pending": stats.Pending,
			"push_cursor":    pushCursor,
			"latest_cursor":  latestCursor,
			"push_backlog":   latestCursor - pushCursor,
			"last_pull":      lastPull,
			"last_push":      lastPush,
		})
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "site\t%d\n", cfg.Sync.SiteID)
	fmt.Fprintf(w, "buffer pending\t%d\n", stats.Pending)
	fmt.Fprintf(w, "push cursor\t%d of %d\n", pushCursor, latestCursor)
	fmt.Fprintf(w, "last pull\t%s\n", describeRun(lastPull))
	fmt.Fprintf(w, "last push\t%s\n", describeRun(lastPush))
	return w.Flush()
}

func lastRunOrNil(ctx context.Context, db *store.SQLiteStore, kind sitesync.RunKind) (*sitesync.Run, error) {
	run, err := db.LastRun(ctx, kind)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return run, err
}

func describeRun(run *sitesync.Run) string {
	if run == nil {
		return "never"
	}
	s := fmt.Sprintf("%s at %s", run.Status, run.FinishedAt.Format("2006-01-02 15:04:05"))
	if run.Status == sitesync.RunStatusFailed {
		s += " (" + run.Error + ")"
	}
	return s
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
