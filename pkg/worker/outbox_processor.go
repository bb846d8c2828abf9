package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
	"github.com/Bigidan/beauty-salon-ms/pkg/messaging"
	"github.com/Bigidan/beauty-salon-ms/pkg/metrics"
)

const maxRetries = 5

// OutboxProcessor drains pending booking events from the outbox table and
// publishes them to the broker. Events are fetched with row locks so
// several workers can run side by side.
type OutboxProcessor struct {
	outbox       repository.OutboxRepository
	broker       messaging.Broker
	logger       *logger.Logger
	metrics      *metrics.Metrics
	batchSize    int
	pollInterval time.Duration
}

func NewOutboxProcessor(
	outbox repository.OutboxRepository,
	broker messaging.Broker,
	log *logger.Logger,
	m *metrics.Metrics,
	batchSize int,
	pollInterval time.Duration,
) *OutboxProcessor {
	if batchSize <= 0 {
		batchSize = 100
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &OutboxProcessor{
		outbox:       outbox,
		broker:       broker,
		logger:       log,
		metrics:      m,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "outbox batch failed")
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	events, err := p.fetchPending(ctx)
	if err != nil {
		return err
	}

	for _, event := range events {
		p.process(ctx, event)
	}
	return nil
}

func (p *OutboxProcessor) process(ctx context.Context, event *model.OutboxEvent) {
	var timer *prometheus.Timer
	if p.metrics != nil {
		timer = prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	}

	err := p.broker.Publish(ctx, event.EventType, messaging.Message{
		Type:    event.EventType,
		Payload: event.Payload,
	})

	if timer != nil {
		timer.ObserveDuration()
	}

	if err != nil {
		p.logger.Error(err, "failed to publish event", "event_id", event.ID, "type", event.EventType)

		status := model.OutboxStatusPending
		if event.RetryCount+1 >= maxRetries {
			status = model.OutboxStatusFailed
		}
		msg := err.Error()
		if uerr := p.markEvent(ctx, event.ID, status, &msg); uerr != nil {
			p.logger.Error(uerr, "failed to update outbox status", "event_id", event.ID)
		}
		if p.metrics != nil {
			p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
			if status == model.OutboxStatusFailed {
				p.metrics.OutboxEventsFailed.Inc()
			}
		}
		return
	}

	if uerr := p.markEvent(ctx, event.ID, model.OutboxStatusProcessed, nil); uerr != nil {
		p.logger.Error(uerr, "failed to mark event processed", "event_id", event.ID)
		return
	}
	if p.metrics != nil {
		p.metrics.OutboxEventsProcessed.Inc()
	}
}

// fetchPending wraps the locked batch read with database metrics.
func (p *OutboxProcessor) fetchPending(ctx context.Context) ([]*model.OutboxEvent, error) {
	var timer *prometheus.Timer
	if p.metrics != nil {
		timer = prometheus.NewTimer(p.metrics.DatabaseLatency.WithLabelValues("outbox_fetch"))
	}
	events, err := p.outbox.GetPendingEventsWithLock(ctx, p.batchSize)
	if timer != nil {
		timer.ObserveDuration()
	}
	p.countOperation("outbox_fetch", err)
	return events, err
}

func (p *OutboxProcessor) markEvent(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	var timer *prometheus.Timer
	if p.metrics != nil {
		timer = prometheus.NewTimer(p.metrics.DatabaseLatency.WithLabelValues("outbox_update"))
	}
	err := p.outbox.UpdateStatus(ctx, id, status, errMsg)
	if timer != nil {
		timer.ObserveDuration()
	}
	p.countOperation("outbox_update", err)
	return err
}

func (p *OutboxProcessor) countOperation(operation string, err error) {
	if p.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.DatabaseOperations.WithLabelValues(operation, status).Inc()
}
