package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orci-tz/mafunzo/internal/services"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a JSON export of survey responses into the configured store",
		Long: "FILE holds a bare array of responses or a {\"results\": [...]} page as\n" +
			"served by the old survey backend. Responses whose id is already stored are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, store, closeStore, logger, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
				_ = logger.Sync()
			}()

			added, skipped, err := importResponses(ctx, args[0], store, time.Now().UTC())
			if err != nil {
				return err
			}
			logger.Info("import completed", zap.String("file", args[0]), zap.Int("added", added), zap.Int("skipped", skipped))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d responses (%d already present)\n", added, skipped)
			return nil
		},
	}
}

// importResponses copies records from a legacy export into store. Records
// keep their id and created_at when present.
func importResponses(ctx context.Context, path string, store services.ResponseStore, now time.Time) (int, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read export: %w", err)
	}
	records, err := services.DecodeRecordList(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("decode export: %w", err)
	}

	existing, err := store.ListResponses(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list stored responses: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		seen[r.ID] = struct{}{}
	}

	added, skipped := 0, 0
	for i := range records {
		rec := records[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if _, dup := seen[rec.ID]; dup {
			skipped++
			continue
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if rec.NoTrainingReasons == nil {
			rec.NoTrainingReasons = []string{}
		}
		if err := store.AddResponse(ctx, &rec); err != nil {
			return added, skipped, fmt.Errorf("add response %s: %w", rec.ID, err)
		}
		seen[rec.ID] = struct{}{}
		added++
	}
	return added, skipped, nil
}
