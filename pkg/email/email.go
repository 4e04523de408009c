package email

import (
	"fmt"
	"net/smtp"
)

// Config holds SMTP configuration
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Message is a single outgoing email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// SendResult reports per-recipient delivery, mirroring what the
// transport accepted or rejected for the send.
type SendResult struct {
	Accepted []string
	Rejected []string
}

// Sent reports whether at least one recipient was accepted
func (r *SendResult) Sent() bool {
	return r != nil && len(r.Accepted) > 0
}

// Transport delivers a message to its recipient
type Transport interface {
	Send(msg *Message) (*SendResult, error)
}

// SMTPTransport sends mail over plain-auth SMTP
type SMTPTransport struct {
	config Config
}

// NewSMTPTransport creates a new SMTP transport
func NewSMTPTransport(config Config) *SMTPTransport {
	return &SMTPTransport{config: config}
}

// Send delivers the message via SMTP. smtp.SendMail is all-or-nothing
// for a single recipient, so the recipient lands in Accepted on
// success and Rejected on failure.
func (t *SMTPTransport) Send(msg *Message) (*SendResult, error) {
	addr := fmt.Sprintf("%s:%d", t.config.SMTPHost, t.config.SMTPPort)

	// Gmail requires TLS authentication
	auth := smtp.PlainAuth("", t.config.SMTPUsername, t.config.SMTPPassword, t.config.SMTPHost)

	message := t.buildMessage(msg)
	if err := smtp.SendMail(addr, auth, t.config.FromEmail, []string{msg.To}, message); err != nil {
		return &SendResult{Rejected: []string{msg.To}}, fmt.Errorf("failed to send email: %w", err)
	}

	return &SendResult{Accepted: []string{msg.To}}, nil
}

// buildMessage builds a multipart email with text and HTML alternatives
func (t *SMTPTransport) buildMessage(msg *Message) []byte {
	const boundary = "cafe-api-alt-boundary"

	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/alternative; boundary=\"%s\"\r\n"+
			"\r\n",
		t.config.FromName,
		t.config.FromEmail,
		msg.To,
		msg.Subject,
		boundary,
	)

	body := fmt.Sprintf(
		"--%s\r\n"+
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n"+
			"\r\n"+
			"%s\r\n"+
			"--%s\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n"+
			"%s\r\n"+
			"--%s--\r\n",
		boundary, msg.Text, boundary, msg.HTML, boundary,
	)

	return []byte(headers + body)
}
