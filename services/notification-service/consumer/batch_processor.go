package consumer

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	awspkg "github.com/yashrajoria/car-rental/backend/pkg/aws"
	"github.com/yashrajoria/car-rental/backend/services/notification-service/services"
)

// RecordProcessor is implemented by *services.NotificationService.
type RecordProcessor interface {
	ProcessRecord(ctx context.Context, body string) error
}

// Record is one queue delivery.
type Record struct {
	ID   string
	Body string
}

// BatchResult summarises a batch. Failed lists the IDs to redeliver.
type BatchResult struct {
	Published int
	Skipped   int
	Failed    []string
}

// BatchProcessor runs every record of a batch, at most concurrency at a time.
// A record's failure never affects the others.
type BatchProcessor struct {
	processor   RecordProcessor
	concurrency int
	logger      *zap.Logger
}

func NewBatchProcessor(processor RecordProcessor, concurrency int, logger *zap.Logger) *BatchProcessor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchProcessor{processor: processor, concurrency: concurrency, logger: logger}
}

func (p *BatchProcessor) HandleBatch(ctx context.Context, records []Record) BatchResult {
	var (
		mu     sync.Mutex
		result BatchResult
		g      errgroup.Group
	)
	g.SetLimit(p.concurrency)

	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			err := p.processor.ProcessRecord(ctx, rec.Body)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Published++
			case errors.Is(err, services.ErrMalformedEvent):
				result.Skipped++
			default:
				result.Failed = append(result.Failed, rec.ID)
			}
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Info("notification batch processed",
		zap.Int("records", len(records)),
		zap.Int("published", result.Published),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Failed)),
	)
	return result
}

// HandleSQSEvent is the Lambda entry point. Failed records are reported as
// batch item failures so only they are redelivered.
func (p *BatchProcessor) HandleSQSEvent(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	records := make([]Record, 0, len(ev.Records))
	for _, r := range ev.Records {
		records = append(records, Record{ID: r.MessageId, Body: r.Body})
	}

	result := p.HandleBatch(ctx, records)
	resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
	for _, id := range result.Failed {
		resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: id})
	}
	return resp, nil
}

// HandleMessages adapts HandleBatch to the long-poll loop of aws.SQSClient.
func (p *BatchProcessor) HandleMessages(ctx context.Context, msgs []awspkg.Message) []string {
	records := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, Record{ID: m.ID, Body: m.Body})
	}
	return p.HandleBatch(ctx, records).Failed
}
