package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESMailer delivers email through AWS SES.
type SESMailer struct {
	client   *sesv2.Client
	from     string
	fromName string
}

// NewSESMailer constructs an SES-backed mailer.
func NewSESMailer(ctx context.Context, region, fromAddress, fromName string) (*SESMailer, error) {
	if strings.TrimSpace(fromAddress) == "" {
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}
	var optFns []func(*awsconfig.LoadOptions) error
	if strings.TrimSpace(region) != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESMailer{
		client:   sesv2.NewFromConfig(cfg),
		from:     fromAddress,
		fromName: fromName,
	}, nil
}

// Send delivers the email, returning the SES message id.
func (m *SESMailer) Send(ctx context.Context, email Email) (string, error) {
	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}
	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(email.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(email.TextBody)},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send email: %w", err)
	}
	messageID := ""
	if out.MessageId != nil {
		messageID = *out.MessageId
	}
	return messageID, nil
}

var _ Mailer = (*SESMailer)(nil)
