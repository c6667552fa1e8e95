package mirror

import (
	"context"

	"tally/internal/core"
	"tally/internal/events"
	"tally/internal/log"
)

// Appender is the sheet surface the worker needs.
type Appender interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) (string, error)
}

// Consumer is the event stream the worker drains.
type Consumer interface {
	Consume(ctx context.Context, handler func(*events.TransactionEvent) error) error
}

// Worker mirrors created transactions into the sheet. Delete events are
// acknowledged without touching the sheet.
type Worker struct {
	sheet  Appender
	stream Consumer
	logger *log.Logger
}

func NewWorker(sheet Appender, stream Consumer, logger *log.Logger) *Worker {
	return &Worker{
		sheet:  sheet,
		stream: stream,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// Run blocks until the context ends or the stream fails terminally.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Mirror worker started")
	return w.stream.Consume(ctx, func(ev *events.TransactionEvent) error {
		return w.handle(ctx, ev)
	})
}

func (w *Worker) handle(ctx context.Context, ev *events.TransactionEvent) error {
	switch ev.Action {
	case events.ActionCreated:
		ref, err := w.sheet.AppendTransaction(ctx, ev.Transaction)
		if err != nil {
			return err
		}
		w.logger.DebugContext(ctx, "Mirrored transaction",
			log.FieldTxID, ev.Transaction.ID,
			"range", ref)
		return nil
	case events.ActionDeleted:
		// The sheet is an append-only history; removals stay visible there.
		w.logger.InfoContext(ctx, "Skipping delete event, sheet keeps history",
			log.FieldTxID, ev.Transaction.ID)
		return nil
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event action", "action", ev.Action)
		return nil
	}
}
