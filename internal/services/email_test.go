package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/platform/sendgrid"
)

func TestEmailServiceSendMails(t *testing.T) {
	mail := &fakeMailClient{}
	svc := NewEmailService(logger.NewNop(), mail, "library@example.com")

	err := svc.SendMails(context.Background(), "late loan notice", []string{"a@example.com", "b@example.com"})
	require.NoError(t, err)
	require.NotNil(t, mail.lastReq)

	assert.Equal(t, "library@example.com", mail.lastReq.From.Email)
	assert.Equal(t, "Book with late loan", mail.lastReq.Subject)
	assert.Equal(t, "late loan notice", mail.lastReq.Text)
	assert.Equal(t, []sendgrid.EmailAddress{
		{Email: "a@example.com"},
		{Email: "b@example.com"},
	}, mail.lastReq.To)
}

// One batch call for the full list; no per-recipient isolation.
func TestEmailServiceSingleBatchCall(t *testing.T) {
	mail := &fakeMailClient{}
	svc := NewEmailService(logger.NewNop(), mail, "library@example.com")

	err := svc.SendMails(context.Background(), "msg", []string{"a@example.com", "b@example.com", "c@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, mail.calls)
}

func TestEmailServiceSkipsEmptyRecipients(t *testing.T) {
	mail := &fakeMailClient{}
	svc := NewEmailService(logger.NewNop(), mail, "library@example.com")

	err := svc.SendMails(context.Background(), "msg", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, mail.calls)
}

func TestEmailServiceTransportError(t *testing.T) {
	mail := &fakeMailClient{sendErr: errors.New("boom")}
	svc := NewEmailService(logger.NewNop(), mail, "library@example.com")

	err := svc.SendMails(context.Background(), "msg", []string{"a@example.com"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
}
