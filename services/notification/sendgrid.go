package notification

import (
	"context"
	"fmt"
	"net/http"

	"coursehub/models"
	"coursehub/utils"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendgridMailer delivers email through the SendGrid v3 API.
type SendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendgridMailer(apiKey, fromName, fromAddress string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
	}
}

func (m *SendgridMailer) prepare(msg models.Email) *sgmail.SGMailV3 {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	out := sgmail.NewSingleEmail(m.from, msg.Subject, to, msg.Text, msg.HTML)
	if msg.Category != "" {
		out.AddCategories(msg.Category)
	}
	return out
}

func (m *SendgridMailer) Send(ctx context.Context, msg models.Email) error {
	res, err := m.client.SendWithContext(ctx, m.prepare(msg))
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}

// NoopMailer logs instead of sending. Used when SENDGRID_API_KEY is empty.
type NoopMailer struct{}

func (NoopMailer) Send(_ context.Context, msg models.Email) error {
	utils.GetLogger().Info("mail disabled, dropping message",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
	)
	return nil
}
