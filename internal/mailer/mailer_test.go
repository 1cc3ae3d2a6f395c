package mailer

import (
	"context"
	"errors"
	"html/template"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"zeniverse_api/config"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m...)
	return nil
}

func body(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var sb strings.Builder
	_, err := m.WriteTo(&sb)
	require.NoError(t, err)
	return sb.String()
}

func TestSend(t *testing.T) {
	rec := &recordingSender{}
	m := NewWithSender(rec, "Zeniverse", "noreply@example.com")

	err := m.Send(context.Background(), Message{To: "admin@example.com", ReplyTo: "jane@example.com", Subject: "Hi", HTML: "<p>hello</p>"})
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)

	assert.Equal(t, []string{"admin@example.com"}, rec.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"jane@example.com"}, rec.sent[0].GetHeader("Reply-To"))
	assert.Contains(t, body(t, rec.sent[0]), "<p>hello</p>")
}

func TestSendErrors(t *testing.T) {
	rec := &recordingSender{err: errors.New("550 mailbox unavailable")}
	m := NewWithSender(rec, "Zeniverse", "noreply@example.com")
	assert.ErrorContains(t, m.Send(context.Background(), Message{To: "x@example.com"}), "550")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: "x@example.com"}), context.Canceled)
}

func TestDisabledMailerDrops(t *testing.T) {
	m := New(&config.Configuration{MailEnabled: true})
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Send(context.Background(), Message{To: "x@example.com"}))

	var nilMailer *Mailer
	assert.False(t, nilMailer.Enabled())
}

func TestRenderEscapes(t *testing.T) {
	tmpl := template.Must(template.New("t").Parse(`<p>{{.}}</p>`))
	out, err := Render(tmpl, "<script>x</script>")
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;script&gt;x&lt;/script&gt;</p>", out)
}

var _ io.WriterTo = (*gomail.Message)(nil)
