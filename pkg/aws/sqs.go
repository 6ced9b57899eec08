package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// SQSAPI is the subset of the SQS client used here.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, params *sqs.DeleteMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageBatchOutput, error)
}

// Message is one delivery received from a queue.
type Message struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// BatchHandler processes one received batch and returns the IDs of the
// messages that must be redelivered. Every other message is deleted.
type BatchHandler func(ctx context.Context, msgs []Message) (failedIDs []string)

// SQSClient sends to and long-polls a single queue.
type SQSClient struct {
	api      SQSAPI
	queueURL string
	logger   *zap.Logger

	// errorBackoff is the pause after a failed receive.
	errorBackoff time.Duration
}

// NewSQSClient creates a client bound to queueURL.
func NewSQSClient(cfg sdkaws.Config, queueURL string, logger *zap.Logger) *SQSClient {
	return NewSQSClientWithAPI(sqs.NewFromConfig(cfg), queueURL, logger)
}

// NewSQSClientWithAPI wraps an existing SQS API implementation.
func NewSQSClientWithAPI(api SQSAPI, queueURL string, logger *zap.Logger) *SQSClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQSClient{api: api, queueURL: queueURL, logger: logger, errorBackoff: 5 * time.Second}
}

// SendMessage sends a single message body and returns the SQS message ID.
func (c *SQSClient) SendMessage(ctx context.Context, body string) (string, error) {
	if c.queueURL == "" {
		return "", errors.New("sqs queue url not configured")
	}
	out, err := c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    sdkaws.String(c.queueURL),
		MessageBody: sdkaws.String(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return sdkaws.ToString(out.MessageId), nil
}

// StartPolling long-polls the queue until ctx is cancelled, handing each
// received batch to handler.
func (c *SQSClient) StartPolling(ctx context.Context, handler BatchHandler) error {
	c.logger.Info("SQS polling started", zap.String("queue", c.queueURL))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("SQS polling stopped", zap.String("queue", c.queueURL))
			return ctx.Err()
		default:
		}

		if err := c.PollOnce(ctx, handler); err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.logger.Error("SQS receive failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(c.errorBackoff):
			}
		}
	}
}

// PollOnce receives at most one batch, runs handler on it and deletes every
// message handler did not report as failed.
func (c *SQSClient) PollOnce(ctx context.Context, handler BatchHandler) error {
	out, err := c.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            sdkaws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		VisibilityTimeout:   30,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}
	if len(out.Messages) == 0 {
		return nil
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, Message{
			ID:            sdkaws.ToString(m.MessageId),
			Body:          sdkaws.ToString(m.Body),
			ReceiptHandle: sdkaws.ToString(m.ReceiptHandle),
		})
	}

	failed := make(map[string]struct{})
	for _, id := range handler(ctx, msgs) {
		failed[id] = struct{}{}
	}

	var entries []types.DeleteMessageBatchRequestEntry
	for _, m := range msgs {
		if _, retry := failed[m.ID]; retry {
			continue
		}
		entries = append(entries, types.DeleteMessageBatchRequestEntry{
			Id:            sdkaws.String(m.ID),
			ReceiptHandle: sdkaws.String(m.ReceiptHandle),
		})
	}
	if len(entries) == 0 {
		return nil
	}

	del, err := c.api.DeleteMessageBatch(ctx, &sqs.DeleteMessageBatchInput{
		QueueUrl: sdkaws.String(c.queueURL),
		Entries:  entries,
	})
	if err != nil {
		// Undeleted messages reappear after the visibility timeout.
		c.logger.Warn("SQS batch delete failed", zap.Error(err), zap.Int("count", len(entries)))
		return nil
	}
	for _, f := range del.Failed {
		c.logger.Warn("SQS message delete failed",
			zap.String("message_id", sdkaws.ToString(f.Id)),
			zap.String("code", sdkaws.ToString(f.Code)),
		)
	}
	return nil
}

// GetQueueURL resolves a queue name to its URL.
func GetQueueURL(ctx context.Context, cfg sdkaws.Config, queueName string) (string, error) {
	out, err := sqs.NewFromConfig(cfg).GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: sdkaws.String(queueName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get queue URL: %w", err)
	}
	return sdkaws.ToString(out.QueueUrl), nil
}
