package notify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSQueue sends notification envelopes to AWS SQS for out-of-process delivery.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSQueue constructs an SQS-backed queue client from the environment.
func NewSQSQueue(ctx context.Context) (*SQSQueue, error) {
	queueURL := strings.TrimSpace(os.Getenv("NOTIFY_SQS_QUEUE_URL"))
	if queueURL == "" {
		return nil, fmt.Errorf("NOTIFY_SQS_QUEUE_URL is required")
	}

	var optFns []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(os.Getenv("AWS_REGION")); region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSQueue{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Send delivers an envelope to the configured SQS queue.
func (s *SQSQueue) Send(ctx context.Context, env Envelope) error {
	payload, err := EncodeEnvelope(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

var _ QueueClient = (*SQSQueue)(nil)
