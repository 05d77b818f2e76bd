package publisher

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailPublisher sends the brief as a multipart/alternative email (plain
// text plus HTML) via SMTP.
type EmailPublisher struct {
	host          string
	port          int
	username      string
	password      string
	from          string
	to            []string
	subjectPrefix string
}

func NewEmailPublisher(host string, port int, username, password, from string, to []string, subjectPrefix string) *EmailPublisher {
	return &EmailPublisher{
		host:          host,
		port:          port,
		username:      username,
		password:      password,
		from:          from,
		to:            to,
		subjectPrefix: subjectPrefix,
	}
}

const mimeBoundary = "ai-daily-brief-alt"

func (p *EmailPublisher) Publish(_ context.Context, brief *Brief) error {
	msg := p.buildMessage(brief)

	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	auth := smtp.PlainAuth("", p.username, p.password, p.host)

	if err := smtp.SendMail(addr, auth, p.from, p.to, []byte(msg)); err != nil {
		return fmt.Errorf("email: failed to send: %w", err)
	}

	return nil
}

func (p *EmailPublisher) buildMessage(brief *Brief) string {
	subject := fmt.Sprintf("%s — %s", p.subjectPrefix, brief.Date.Format("Monday, January 2, 2006"))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", p.from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(p.to, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary))
	sb.WriteString("\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(buildPlainBody(brief))
	sb.WriteString("\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(buildHTMLBody(brief))
	sb.WriteString("\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", mimeBoundary))
	return sb.String()
}
