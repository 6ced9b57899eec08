package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yashrajoria/car-rental/backend/services/common/models"
)

// EventQueue carries notification events to the consumer.
type EventQueue interface {
	Enqueue(ctx context.Context, ev models.NotificationEvent) error
}

// MessageSender is satisfied by *aws.SQSClient.
type MessageSender interface {
	SendMessage(ctx context.Context, body string) (string, error)
}

// SQSEventQueue sends each event as one JSON message.
type SQSEventQueue struct {
	sender MessageSender
}

func NewSQSEventQueue(sender MessageSender) *SQSEventQueue {
	return &SQSEventQueue{sender: sender}
}

func (q *SQSEventQueue) Enqueue(ctx context.Context, ev models.NotificationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode notification event: %w", err)
	}
	if _, err := q.sender.SendMessage(ctx, string(body)); err != nil {
		return err
	}
	return nil
}
