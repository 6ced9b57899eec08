package aws

import (
	"context"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// SNSPublisher publishes a formatted message to a topic.
type SNSPublisher interface {
	Publish(ctx context.Context, topicArn, subject, message string) error
}

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	api    SNSAPI
	logger *zap.Logger
}

func NewSNSClient(cfg sdkaws.Config, logger *zap.Logger) *SNSClient {
	return NewSNSClientWithAPI(sns.NewFromConfig(cfg), logger)
}

func NewSNSClientWithAPI(api SNSAPI, logger *zap.Logger) *SNSClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SNSClient{api: api, logger: logger}
}

// Publish sends message to topicArn. An empty subject is omitted.
func (s *SNSClient) Publish(ctx context.Context, topicArn, subject, message string) error {
	if topicArn == "" {
		return errors.New("empty topicArn")
	}
	input := &sns.PublishInput{
		TopicArn: sdkaws.String(topicArn),
		Message:  sdkaws.String(message),
	}
	if subject != "" {
		input.Subject = sdkaws.String(subject)
	}

	out, err := s.api.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", topicArn, err)
	}
	s.logger.Debug("SNS message published",
		zap.String("topic_arn", topicArn),
		zap.String("message_id", sdkaws.ToString(out.MessageId)),
		zap.Int("message_len", len(message)),
	)
	return nil
}
