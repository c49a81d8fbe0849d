package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSMTPSender_Send(t *testing.T) {
	msg := Message{To: "jane@example.com", Subject: "Order Confirmation #ORD-1", Body: "hi"}

	t.Run("Success", func(t *testing.T) {
		d := &fakeDialer{}
		s := &SMTPSender{dialer: d, from: "noreply@ecommerce-flow"}

		err := s.Send(context.Background(), msg)

		assert.NoError(t, err)
		if assert.Len(t, d.sent, 1) {
			m := d.sent[0]
			assert.Equal(t, []string{"noreply@ecommerce-flow"}, m.GetHeader("From"))
			assert.Equal(t, []string{"jane@example.com"}, m.GetHeader("To"))
			assert.Equal(t, []string{"Order Confirmation #ORD-1"}, m.GetHeader("Subject"))
		}
	})

	t.Run("RelayError", func(t *testing.T) {
		relayErr := errors.New("535 auth failed")
		s := &SMTPSender{dialer: &fakeDialer{err: relayErr}, from: "noreply@ecommerce-flow"}

		err := s.Send(context.Background(), msg)

		assert.ErrorIs(t, err, relayErr)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		d := &fakeDialer{}
		s := &SMTPSender{dialer: d, from: "noreply@ecommerce-flow"}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Send(ctx, msg)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, d.sent)
	})

	t.Run("Constructor", func(t *testing.T) {
		s := NewSMTPSender("smtp.example.com", 2525, "u", "p", "noreply@ecommerce-flow")
		assert.NotNil(t, s.dialer)
	})
}
