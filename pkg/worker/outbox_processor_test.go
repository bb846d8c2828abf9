package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
	"github.com/Bigidan/beauty-salon-ms/pkg/messaging"
	"github.com/Bigidan/beauty-salon-ms/pkg/metrics"
)

// Registered once; promauto panics on duplicate registration.
var testMetrics = metrics.NewMetrics("salon_test", "outbox")

type fakeOutbox struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
	errs     map[uuid.UUID]string
}

func newFakeOutbox(events ...*model.OutboxEvent) *fakeOutbox {
	return &fakeOutbox{
		pending:  events,
		statuses: make(map[uuid.UUID]model.OutboxStatus),
		errs:     make(map[uuid.UUID]string),
	}
}

func (r *fakeOutbox) Create(_ context.Context, event *model.OutboxEvent) error { return nil }

func (r *fakeOutbox) GetPendingEventsWithLock(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if limit < len(r.pending) {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutbox) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	r.statuses[id] = status
	if errMsg != nil {
		r.errs[id] = *errMsg
	}
	return nil
}

func (r *fakeOutbox) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeBroker struct {
	published []messaging.Message
	err       error
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, message.(messaging.Message))
	return nil
}

func (b *fakeBroker) Subscribe(_ context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func pendingEvent(eventType string, retries int) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:         uuid.New(),
		EventType:  eventType,
		Payload:    []byte(`{}`),
		Status:     model.OutboxStatusPending,
		RetryCount: retries,
	}
}

func TestProcessBatch_PublishesAndMarksProcessed(t *testing.T) {
	created := pendingEvent("appointment.created", 0)
	cancelled := pendingEvent("appointment.cancelled", 0)
	outbox := newFakeOutbox(created, cancelled)
	broker := &fakeBroker{}

	fetchBefore := testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("outbox_fetch", "success"))
	updateBefore := testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("outbox_update", "success"))

	p := NewOutboxProcessor(outbox, broker, logger.NewLogger(nil), testMetrics, 10, 0)
	require.NoError(t, p.processBatch(context.Background()))

	require.Len(t, broker.published, 2)
	assert.Equal(t, "appointment.created", broker.published[0].Type)
	assert.Equal(t, model.OutboxStatusProcessed, outbox.statuses[created.ID])
	assert.Equal(t, model.OutboxStatusProcessed, outbox.statuses[cancelled.ID])

	fetchAfter := testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("outbox_fetch", "success"))
	updateAfter := testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("outbox_update", "success"))
	assert.Equal(t, fetchBefore+1, fetchAfter)
	assert.Equal(t, updateBefore+2, updateAfter)
}

func TestProcess_PublishFailureRequeues(t *testing.T) {
	event := pendingEvent("appointment.created", 0)
	outbox := newFakeOutbox(event)
	broker := &fakeBroker{err: errors.New("broker down")}

	p := NewOutboxProcessor(outbox, broker, logger.NewLogger(nil), testMetrics, 10, 0)
	require.NoError(t, p.processBatch(context.Background()))

	assert.Equal(t, model.OutboxStatusPending, outbox.statuses[event.ID])
	assert.Equal(t, "broker down", outbox.errs[event.ID])
}

func TestProcess_PublishFailureExhaustsRetries(t *testing.T) {
	event := pendingEvent("appointment.created", maxRetries-1)
	outbox := newFakeOutbox(event)
	broker := &fakeBroker{err: errors.New("broker down")}

	p := NewOutboxProcessor(outbox, broker, logger.NewLogger(nil), testMetrics, 10, 0)
	require.NoError(t, p.processBatch(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, outbox.statuses[event.ID])
}
