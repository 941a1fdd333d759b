package services

import (
	"context"
	"fmt"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/platform/sendgrid"
)

const overdueNoticeSubject = "Book with late loan"

type EmailService interface {
	// SendMails sends one message with the given body to the whole
	// recipient list in a single transport call. All-or-nothing: a
	// transport failure fails the entire batch.
	SendMails(ctx context.Context, message string, recipients []string) error
}

type emailService struct {
	log       *logger.Logger
	mail      sendgrid.Client
	fromEmail string
}

func NewEmailService(baseLog *logger.Logger, mail sendgrid.Client, fromEmail string) EmailService {
	return &emailService{
		log:       baseLog.With("service", "EmailService"),
		mail:      mail,
		fromEmail: fromEmail,
	}
}

func (es *emailService) SendMails(ctx context.Context, message string, recipients []string) error {
	if len(recipients) == 0 {
		es.log.Debug("No recipients, skipping mail send")
		return nil
	}

	to := make([]sendgrid.EmailAddress, 0, len(recipients))
	for _, r := range recipients {
		to = append(to, sendgrid.EmailAddress{Email: r})
	}

	result, err := es.mail.Send(ctx, sendgrid.SendEmailRequest{
		From:    sendgrid.EmailAddress{Email: es.fromEmail},
		To:      to,
		Subject: overdueNoticeSubject,
		Text:    message,
	})
	if err != nil {
		return fmt.Errorf("send overdue notices: %w", err)
	}

	es.log.Info("Overdue notices sent", "recipient_count", len(recipients), "status_code", result.StatusCode)
	return nil
}
