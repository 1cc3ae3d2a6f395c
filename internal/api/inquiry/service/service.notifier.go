package inquirysvc

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"zeniverse_api/internal/api/events"
	models "zeniverse_api/internal/api/inquiry/models"
	"zeniverse_api/internal/logger"
	"zeniverse_api/internal/mailer"
)

// MailSender is satisfied by *mailer.Mailer.
type MailSender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

var adminTemplate = template.Must(template.New("inquiry_admin").Parse(`<h2>New {{.InquiryType}} inquiry</h2>
<table cellpadding="4">
<tr><td><b>Name</b></td><td>{{.Name}}</td></tr>
<tr><td><b>Email</b></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
{{if .Phone}}<tr><td><b>Phone</b></td><td>{{.Phone}}</td></tr>{{end}}
{{if .Company}}<tr><td><b>Company</b></td><td>{{.Company}}</td></tr>{{end}}
<tr><td><b>Subject</b></td><td>{{.Subject}}</td></tr>
<tr><td><b>Received</b></td><td>{{.Received}}</td></tr>
</table>
<p style="white-space:pre-wrap">{{.Message}}</p>
{{if .AdminURL}}<p><a href="{{.AdminURL}}">Open in back office</a></p>{{end}}`))

var replyTemplate = template.Must(template.New("inquiry_reply").Parse(`<p>Hi {{.Name}},</p>
<p>Thank you for reaching out to {{.SiteName}}. We received your message "{{.Subject}}" and will get back to you shortly.</p>
<p>Best regards,<br>The {{.SiteName}} team</p>`))

type mailView struct {
	*models.Inquiry
	Received string
	AdminURL string
	SiteName string
}

// Notifier mails the admin inbox and the sender when an inquiry arrives.
type Notifier struct {
	mail       MailSender
	adminEmail string
	siteName   string
	adminURL   string
	timeout    time.Duration
}

// NewNotifier returns a notifier. An empty adminEmail skips the admin mail.
func NewNotifier(mail MailSender, adminEmail, siteName, frontendURL string) *Notifier {
	if siteName == "" {
		siteName = "Zeniverse"
	}
	adminURL := ""
	if frontendURL != "" {
		adminURL = frontendURL + "/admin/inquiries"
	}
	return &Notifier{
		mail:       mail,
		adminEmail: adminEmail,
		siteName:   siteName,
		adminURL:   adminURL,
		timeout:    30 * time.Second,
	}
}

// Notify sends the admin notification, then the auto-reply to the sender.
//
// Both share one timeout. A failure of one does not stop the other; each is
// logged with the inquiry id and never returned. The admin mail is skipped
// when no admin inbox is configured.
func (n *Notifier) Notify(ctx context.Context, inq *models.Inquiry) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	log := logger.WithModule("inquiry").WithField("inquiry_id", inq.ID.Hex())
	view := mailView{
		Inquiry:  inq,
		Received: time.UnixMilli(inq.CreatedAt).UTC().Format(time.RFC1123),
		AdminURL: n.adminURL,
		SiteName: n.siteName,
	}

	if n.adminEmail != "" {
		if err := n.send(ctx, adminTemplate, view, mailer.Message{
			To:      n.adminEmail,
			ReplyTo: inq.Email,
			Subject: fmt.Sprintf("[%s] New inquiry: %s", n.siteName, inq.Subject),
		}); err != nil {
			log.WithError(err).Error("Admin notification failed")
		}
	}

	if err := n.send(ctx, replyTemplate, view, mailer.Message{
		To:      inq.Email,
		Subject: fmt.Sprintf("We received your message - %s", n.siteName),
	}); err != nil {
		log.WithError(err).Error("Auto-reply failed")
	}
}

func (n *Notifier) send(ctx context.Context, tmpl *template.Template, view mailView, msg mailer.Message) error {
	html, err := mailer.Render(tmpl, view)
	if err != nil {
		return err
	}
	msg.HTML = html
	return n.mail.Send(ctx, msg)
}

// Subscriber returns the bus handler mailing on every inquiry insert.
func (n *Notifier) Subscriber(collection string) events.DataChangeHandler {
	return func(ctx context.Context, e events.DataChangeEvent) {
		if e.CollectionName != collection || e.Operation != events.OpInsert {
			return
		}
		switch doc := e.Document.(type) {
		case models.Inquiry:
			n.Notify(ctx, &doc)
		case *models.Inquiry:
			n.Notify(ctx, doc)
		default:
			logger.WithModule("inquiry").WithField("type", fmt.Sprintf("%T", e.Document)).Warn("Unexpected inquiry event document")
		}
	}
}
