package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopline/storefront/internal/adapter/events"
	"github.com/shopline/storefront/internal/domain/model"
)

// OutboxSource exposes the subset of application functionality required by the dispatcher.
type OutboxSource interface {
	PendingOrderEvents(ctx context.Context, limit int) ([]model.OrderEvent, error)
	MarkOrderEventPublished(ctx context.Context, eventID int64) error
}

// EventDispatcher polls the order event outbox and publishes batches concurrently.
// An event is marked published only after the broker accepted it, so a crash
// between publish and mark results in a redelivery, never a loss.
type EventDispatcher struct {
	source       OutboxSource
	publisher    events.Publisher
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.OrderEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventDispatcher constructs the outbox dispatcher worker pool.
func NewEventDispatcher(source OutboxSource, publisher events.Publisher, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *EventDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &EventDispatcher{
		source:       source,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.OrderEvent, batchSize*workers),
	}
}

// Start launches background dispatching.
func (d *EventDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (d *EventDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *EventDispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx)
		}
	}
}

func (d *EventDispatcher) fetchAndDispatch(ctx context.Context) {
	batch, err := d.source.PendingOrderEvents(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("fetch pending order events failed", slog.String("error", err.Error()))
		return
	}
	for _, event := range batch {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- event:
		}
	}
}

func (d *EventDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handleEvent(ctx, event)
		}
	}
}

func (d *EventDispatcher) handleEvent(ctx context.Context, event model.OrderEvent) {
	if err := d.publisher.Publish(ctx, event.Subject, event.Payload); err != nil {
		d.logger.Error("publish order event failed",
			slog.Int64("event_id", event.ID),
			slog.String("subject", event.Subject),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := d.source.MarkOrderEventPublished(ctx, event.ID); err != nil {
		d.logger.Error("mark order event published failed",
			slog.Int64("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
}
