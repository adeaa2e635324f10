package notify

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"lapak/internal/config"
)

// subjects per event kind; the template of the same name renders the body.
var subjects = map[Kind]string{
	KindWelcome:           "Welcome to Lapak!",
	KindOrderConfirmation: "Order received #%s",
	KindNewOrderAlert:     "New order in your store (#%s)",
	KindLowStockAlert:     "Low stock: %s",
	KindStatusUpdate:      "Order #%s update: %s",
	KindWeeklyReport:      "Your weekly store report",
}

// Mailer renders HTML bodies with the fiber template engine and delivers
// them over plain SMTP.
type Mailer struct {
	engine *html.Engine
	addr   string
	auth   smtp.Auth
	from   string
}

func NewMailer(cfg config.Config) (*Mailer, error) {
	engine := html.New(cfg.EmailTemplateDir, ".html")
	engine.AddFunc("amount", Amount)
	if err := engine.Load(); err != nil {
		return nil, err
	}
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &Mailer{
		engine: engine,
		addr:   cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth:   auth,
		from:   cfg.MailFrom,
	}, nil
}

func (m *Mailer) subject(ev Event) string {
	tmpl, ok := subjects[ev.Kind]
	if !ok {
		return "Lapak notification"
	}
	switch ev.Kind {
	case KindOrderConfirmation, KindNewOrderAlert:
		return fmt.Sprintf(tmpl, ev.Payload["orderNumber"])
	case KindLowStockAlert:
		return fmt.Sprintf(tmpl, ev.Payload["productName"])
	case KindStatusUpdate:
		return fmt.Sprintf(tmpl, ev.Payload["orderNumber"], ev.Payload["status"])
	default:
		return tmpl
	}
}

func (m *Mailer) Notify(ev Event) error {
	data := fiber.Map{}
	for k, v := range ev.Payload {
		data[k] = v
	}

	var body bytes.Buffer
	// template name == event kind, e.g. web/templates/email/low-stock-alert.html
	if err := m.engine.Render(&body, string(ev.Kind), data); err != nil {
		return err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", ev.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", m.subject(ev))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.Write(body.Bytes())

	return smtp.SendMail(m.addr, m.auth, m.from, []string{ev.Recipient}, msg.Bytes())
}

// Amount formats minor units for email bodies ("12345" -> "123.45").
func Amount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
