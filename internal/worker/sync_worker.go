// Package worker pushes saved allocation plans to the configured
// sheet, either on demand from AMQP messages or in periodic catch-up
// batches.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ore/internal/amqp"
	"ore/internal/sheets"
	"ore/internal/storage"
)

type SyncWorker struct {
	repo      *storage.SQLiteRepository
	writer    sheets.PlanWriter
	batchSize int
}

func NewSyncWorker(repo *storage.SQLiteRepository, writer sheets.PlanWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		repo:      repo,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one AMQP sync request. A plan that is
// already synced is acknowledged without a second append.
func (w *SyncWorker) HandleSyncMessage(msg *amqp.PlanSyncMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return w.syncPlan(ctx, msg.PlanID)
}

// ProcessPending syncs up to batchSize plans that never reached the
// sheet, oldest first. Used at startup and on the periodic ticker to
// catch plans whose messages were lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.repo.ListUnsynced(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unsynced plans: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending plans", "count", len(ids))

	// One at a time: the sheet append must stay in plan order, and
	// SQLite takes a single writer anyway.
	for _, id := range ids {
		if err := w.syncPlan(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync plan", "plan_id", id, "error", err)
			return err
		}
	}
	return nil
}

// Run consumes sync messages and periodically retries pending plans
// until the context is cancelled.
func (w *SyncWorker) Run(ctx context.Context, client *amqp.Client, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := client.ConsumePlanSync(ctx, w.HandleSyncMessage)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := w.ProcessPending(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

func (w *SyncWorker) syncPlan(ctx context.Context, id int64) error {
	stored, err := w.repo.GetPlan(ctx, id)
	if err != nil {
		return fmt.Errorf("load plan %d: %w", id, err)
	}
	if stored.SyncedAt != nil {
		slog.InfoContext(ctx, "Plan already synced, skipping", "plan_id", id)
		return nil
	}

	ref, err := w.writer.AppendPlan(ctx, sheets.PlanRecord{
		ID:        stored.ID,
		CreatedAt: stored.CreatedAt,
		Plan:      stored.Plan,
	})
	if err != nil {
		return fmt.Errorf("append plan %d: %w", id, err)
	}

	if err := w.repo.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark plan %d synced: %w", id, err)
	}

	slog.InfoContext(ctx, "Plan synced to sheet",
		"plan_id", id,
		"sheets_ref", ref)
	return nil
}
