package ses

import (
	"context"

	"github.com/andreanaya/go-account/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Mailer sends transactional emails. Delivery is best-effort: callers fire
// and forget, logging failures instead of propagating them.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type mailer struct {
	client *sesv2.Client
	from   string
}

func NewMailer(cfg *config.Config) (Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SESRegion),
	)
	if err != nil {
		return nil, err
	}
	clientOpts := []func(*sesv2.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sesv2.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &mailer{
		client: sesv2.NewFromConfig(awsCfg, clientOpts...),
		from:   cfg.EmailFrom,
	}, nil
}

func (m *mailer) Send(ctx context.Context, to, subject, text, html string) error {
	body := &types.Body{}
	if text != "" {
		body.Text = &types.Content{Data: aws.String(text)}
	}
	if html != "" {
		body.Html = &types.Content{Data: aws.String(html)}
	}
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body:    body,
			},
		},
	})
	return err
}
