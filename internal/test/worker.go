package test

import (
	"context"
	"sync"

	"github.com/shopline/storefront/internal/domain/model"
)

// OutboxSourceStub feeds preconfigured event batches to the dispatcher.
type OutboxSourceStub struct {
	sync.Mutex

	Batches   [][]model.OrderEvent
	FetchFn   func(context.Context, int) ([]model.OrderEvent, error)
	MarkFn    func(context.Context, int64) error
	Published []int64

	next int
}

// PendingOrderEvents returns the next configured batch.
func (s *OutboxSourceStub) PendingOrderEvents(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, limit)
	}
	s.Lock()
	defer s.Unlock()
	if s.next >= len(s.Batches) {
		return nil, nil
	}
	batch := s.Batches[s.next]
	s.next++
	if len(batch) > limit {
		batch = batch[:limit]
	}
	return batch, nil
}

// MarkOrderEventPublished records acknowledged event identifiers.
func (s *OutboxSourceStub) MarkOrderEventPublished(ctx context.Context, eventID int64) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, eventID)
	}
	s.Lock()
	defer s.Unlock()
	s.Published = append(s.Published, eventID)
	return nil
}

// PublishedEvent captures one delivered message.
type PublishedEvent struct {
	Subject string
	Payload []byte
}

// PublisherStub records published messages.
type PublisherStub struct {
	sync.Mutex

	PublishFn func(context.Context, string, []byte) error
	Messages  []PublishedEvent
}

// Publish records the message or delegates to the override.
func (s *PublisherStub) Publish(ctx context.Context, subject string, payload []byte) error {
	if s.PublishFn != nil {
		return s.PublishFn(ctx, subject, payload)
	}
	s.Lock()
	defer s.Unlock()
	s.Messages = append(s.Messages, PublishedEvent{Subject: subject, Payload: payload})
	return nil
}
