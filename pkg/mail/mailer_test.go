package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendDisabled(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{To: []string{"admin@example.com"}})
	require.ErrorIs(t, err, ErrSMTPDisabled)
}

func TestNewSMTPMailerValidatesConfig(t *testing.T) {
	_, err := NewSMTPMailer(SMTPSettings{Enabled: true, Port: 587})
	require.Error(t, err)

	_, err = NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com"})
	require.Error(t, err)
}

func TestFormatMessageEscapesHeaders(t *testing.T) {
	out := FormatMessage("noreply@example.com", []string{"a@example.com"}, "Alert\r\nX-Evil: yes", "body")

	require.True(t, strings.Contains(out, "Subject: Alert X-Evil: yes"))
	require.False(t, strings.Contains(out, "Subject: Alert\r\n"))
	require.True(t, strings.HasSuffix(out, "charset=UTF-8\r\n\r\nbody"))
}

func TestUniqueAddresses(t *testing.T) {
	out := uniqueAddresses([]string{"a@example.com", " a@example.com ", "", "b@example.com"})
	require.Equal(t, []string{"a@example.com", "b@example.com"}, out)
}
