package worker

import (
	"context"
	"fmt"
	"time"

	"gofinances/internal/amqp"
	"gofinances/internal/cache"
	applog "gofinances/internal/log"
	"gofinances/internal/sheets"
)

// Consumer delivers transaction events until ctx is cancelled.
type Consumer interface {
	ConsumeTransactionEvents(ctx context.Context, handler amqp.Handler) error
}

// Deleted ids are remembered so a requeued created event that arrives after
// its delete is not appended.
const (
	deletedIDsSize = 10000
	deletedIDsTTL  = 24 * time.Hour
)

// MirrorWorker applies transaction events to a spreadsheet mirror.
type MirrorWorker struct {
	mirror  sheets.TransactionMirror
	logger  *applog.Logger
	deleted cache.Cache[struct{}]
}

func NewMirrorWorker(mirror sheets.TransactionMirror, logger *applog.Logger) *MirrorWorker {
	if logger == nil {
		logger = applog.Default()
	}
	return &MirrorWorker{
		mirror:  mirror,
		logger:  logger.WithComponent(applog.ComponentWorker),
		deleted: cache.NewLRUCache[struct{}](deletedIDsSize, deletedIDsTTL),
	}
}

// Run consumes events from c and blocks until ctx is done.
func (w *MirrorWorker) Run(ctx context.Context, c Consumer) error {
	w.logger.InfoContext(ctx, "Mirror worker started")
	defer w.logger.InfoContext(ctx, "Mirror worker stopped")
	return c.ConsumeTransactionEvents(ctx, w.HandleEvent)
}

// HandleEvent processes a single transaction event. A returned error makes
// the consumer requeue the message.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	w.logger.InfoContext(ctx, "Processing transaction event",
		applog.FieldEvent, msg.Event,
		applog.FieldTransactionID, msg.ID)

	if msg.ID == "" {
		w.logger.WarnContext(ctx, "Event without transaction id, dropping", applog.FieldEvent, msg.Event)
		return nil
	}

	switch msg.Event {
	case amqp.EventCreated:
		if _, gone := w.deleted.Get(msg.ID); gone {
			w.logger.InfoContext(ctx, "Transaction already deleted, skipping append",
				applog.FieldTransactionID, msg.ID)
			return nil
		}
		row := sheets.Row{
			ID:       msg.ID,
			Date:     msg.Timestamp,
			Title:    msg.Title,
			Category: msg.Category,
			Type:     msg.Type,
			Value:    msg.Value,
		}
		if err := w.mirror.AppendTransaction(ctx, row); err != nil {
			w.logger.ErrorContext(ctx, "Mirror append failed",
				applog.FieldOperation, "append",
				applog.FieldTransactionID, msg.ID,
				applog.FieldError, err)
			return fmt.Errorf("append transaction %s: %w", msg.ID, err)
		}
	case amqp.EventDeleted:
		w.deleted.Set(msg.ID, struct{}{})
		if err := w.mirror.DeleteTransaction(ctx, msg.ID); err != nil {
			w.logger.ErrorContext(ctx, "Mirror delete failed",
				applog.FieldOperation, "delete",
				applog.FieldTransactionID, msg.ID,
				applog.FieldError, err)
			return fmt.Errorf("delete transaction %s: %w", msg.ID, err)
		}
	default:
		w.logger.WarnContext(ctx, "Unknown event, dropping",
			applog.FieldEvent, msg.Event,
			applog.FieldTransactionID, msg.ID)
	}
	return nil
}
