package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	time.Sleep(d.delay)
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPSenderComposesInvite(t *testing.T) {
	dialer := &recordingDialer{}
	sender := NewSMTPSenderWithDialer(dialer, "invites@skyparty.name.ng")

	err := sender.Send(context.Background(), Message{To: "ada.obi@example.com", Code: "A1B2C3D4E5F60718", Club: "Lagos Elite"})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	m := dialer.sent[0]
	assert.Equal(t, []string{"invites@skyparty.name.ng"}, m.GetHeader("From"))
	assert.Equal(t, []string{"ada.obi@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{inviteSubject}, m.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "A1B2C3D4E5F60718")
	assert.Contains(t, raw.String(), "Hi Ada")
	assert.Contains(t, raw.String(), "Lagos Elite")
}

func TestSMTPSenderErrors(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		sender := NewSMTPSenderWithDialer(&recordingDialer{err: errors.New("535 auth failed")}, "from@example.com")
		err := sender.Send(context.Background(), Message{To: "ada@example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "535 auth failed")
	})

	t.Run("context deadline", func(t *testing.T) {
		sender := NewSMTPSenderWithDialer(&recordingDialer{delay: 200 * time.Millisecond}, "from@example.com")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := sender.Send(ctx, Message{To: "ada@example.com"})
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
