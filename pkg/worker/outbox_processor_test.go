package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediplace/lab-api/internal/model"
	"github.com/mediplace/lab-api/pkg/logger"
	"github.com/mediplace/lab-api/pkg/metrics"
)

// fakeOutboxRepo mirrors the store contract: an event stays eligible
// for polling while pending, and after a failure while attempts remain.
const fakeMaxAttempts = 5

type fakeOutboxRepo struct {
	events    []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]string
	listErr   error
}

func (f *fakeOutboxRepo) Create(_ context.Context, _ *model.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var eligible []*model.OutboxEvent
	for _, event := range f.events {
		if len(eligible) == limit {
			break
		}
		if event.Status == model.OutboxStatusPending ||
			(event.Status == model.OutboxStatusFailed && event.RetryCount < fakeMaxAttempts) {
			eligible = append(eligible, event)
		}
	}
	return eligible, nil
}

func (f *fakeOutboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	f.processed = append(f.processed, id)
	for _, event := range f.events {
		if event.ID == id {
			event.Status = model.OutboxStatusProcessed
		}
	}
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, id uuid.UUID, errorMessage string) error {
	if f.failed == nil {
		f.failed = map[uuid.UUID]string{}
	}
	f.failed[id] = errorMessage
	for _, event := range f.events {
		if event.ID == id {
			event.Status = model.OutboxStatusFailed
			event.RetryCount++
		}
	}
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeBroker struct {
	published map[string][]interface{}
	failures  int
}

func (f *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if f.failures > 0 {
		f.failures--
		return fmt.Errorf("broker unavailable")
	}
	if f.published == nil {
		f.published = map[string][]interface{}{}
	}
	f.published[channel] = append(f.published[channel], message)
	return nil
}

func (f *fakeBroker) Close() error { return nil }

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Minute,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), metrics.NewMetrics("test", prometheus.NewRegistry()))
}

func pendingEvent(eventType string) *model.OutboxEvent {
	payload, _ := json.Marshal(map[string]string{"order_id": uuid.NewString()})
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}
}

func TestProcessPendingPublishesAndMarks(t *testing.T) {
	events := []*model.OutboxEvent{
		pendingEvent("lab_order.confirm"),
		pendingEvent("lab_order.complete"),
	}
	repo := &fakeOutboxRepo{events: events}
	broker := &fakeBroker{}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.ProcessPending(context.Background()))

	assert.Len(t, broker.published["lab_order.confirm"], 1)
	assert.Len(t, broker.published["lab_order.complete"], 1)
	assert.ElementsMatch(t, []uuid.UUID{events[0].ID, events[1].ID}, repo.processed)
	assert.Empty(t, repo.failed)
}

func TestProcessPendingRetriesTransientFailure(t *testing.T) {
	event := pendingEvent("lab_order.mark_paid")
	repo := &fakeOutboxRepo{events: []*model.OutboxEvent{event}}
	broker := &fakeBroker{failures: 1}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.ProcessPending(context.Background()))

	assert.Len(t, broker.published["lab_order.mark_paid"], 1)
	assert.Equal(t, []uuid.UUID{event.ID}, repo.processed)
}

func TestProcessPendingMarksFailedAfterRetries(t *testing.T) {
	event := pendingEvent("lab_order.confirm")
	repo := &fakeOutboxRepo{events: []*model.OutboxEvent{event}}
	broker := &fakeBroker{failures: 10}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.ProcessPending(context.Background()))

	assert.Empty(t, repo.processed)
	assert.Contains(t, repo.failed[event.ID], "broker unavailable")
}

func TestFailedEventRedeliveredOnNextDrain(t *testing.T) {
	event := pendingEvent("lab_order.complete")
	repo := &fakeOutboxRepo{events: []*model.OutboxEvent{event}}
	broker := &fakeBroker{failures: 10}
	p := newTestProcessor(repo, broker)

	// First drain exhausts its attempts and marks the event failed.
	require.NoError(t, p.ProcessPending(context.Background()))
	require.Empty(t, repo.processed)
	assert.Equal(t, model.OutboxStatusFailed, event.Status)

	// The broker recovers; the failed event is still below the attempt
	// ceiling, so the next drain picks it up and delivers it.
	broker.failures = 0
	require.NoError(t, p.ProcessPending(context.Background()))
	assert.Len(t, broker.published["lab_order.complete"], 1)
	assert.Equal(t, []uuid.UUID{event.ID}, repo.processed)
	assert.Equal(t, model.OutboxStatusProcessed, event.Status)
}

func TestExhaustedEventNotRedelivered(t *testing.T) {
	event := pendingEvent("lab_order.confirm")
	event.Status = model.OutboxStatusFailed
	event.RetryCount = fakeMaxAttempts
	repo := &fakeOutboxRepo{events: []*model.OutboxEvent{event}}
	broker := &fakeBroker{}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.ProcessPending(context.Background()))

	assert.Empty(t, broker.published)
	assert.Empty(t, repo.processed)
}

func TestProcessPendingRepoError(t *testing.T) {
	repo := &fakeOutboxRepo{listErr: fmt.Errorf("db down")}
	p := newTestProcessor(repo, &fakeBroker{})

	err := p.ProcessPending(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
