package aws

import (
	"context"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: sdkaws.String("sns-1")}, nil
}

func TestPublish(t *testing.T) {
	api := &fakeSNS{}
	p := NewSNSClientWithAPI(api, nil)

	require.NoError(t, p.Publish(context.Background(), "arn:topic", "Subject", "hello"))
	assert.Equal(t, "arn:topic", sdkaws.ToString(api.input.TopicArn))
	assert.Equal(t, "Subject", sdkaws.ToString(api.input.Subject))
	assert.Equal(t, "hello", sdkaws.ToString(api.input.Message))
}

func TestPublishOmitsEmptySubject(t *testing.T) {
	api := &fakeSNS{}
	require.NoError(t, NewSNSClientWithAPI(api, nil).Publish(context.Background(), "arn:topic", "", "hello"))
	assert.Nil(t, api.input.Subject)
}

func TestPublishErrors(t *testing.T) {
	p := NewSNSClientWithAPI(&fakeSNS{err: errors.New("throttled")}, nil)
	assert.Error(t, p.Publish(context.Background(), "", "s", "m"))
	assert.ErrorContains(t, p.Publish(context.Background(), "arn:topic", "s", "m"), "throttled")
}
