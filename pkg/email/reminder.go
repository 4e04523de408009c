package email

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ReminderLine is one aggregated receipt line in a payment reminder
type ReminderLine struct {
	Name     string
	Quantity int
}

// ReminderData carries everything needed to render one customer's
// payment-reminder email.
type ReminderData struct {
	Header       string
	Footer       string
	Footnote     string
	CustomerName string
	Lines        []ReminderLine
	Payment      int64 // Base compiled payment
	Modifier     int64 // Signed merge/correction adjustment, 0 if none
}

// Total returns the payable amount shown in the reminder
func (d *ReminderData) Total() int64 {
	return d.Payment + d.Modifier
}

var amountPrinter = message.NewPrinter(language.English)

// formatWon renders an amount with thousands separators, e.g. "8,000"
func formatWon(amount int64) string {
	return amountPrinter.Sprintf("%d", amount)
}

// escapeHTML escapes the five characters that are unsafe inside markup
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}

// paragraphHTML escapes free text and converts newlines to <br> inside
// a single paragraph, so operator-entered template text cannot inject
// markup.
func paragraphHTML(s string) string {
	lines := strings.Split(s, "\n")
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = escapeHTML(strings.TrimSpace(line))
	}
	return "<p>" + strings.Join(escaped, "<br>") + "</p>"
}

// RenderReminderText renders the plaintext reminder body
func RenderReminderText(d *ReminderData) string {
	var sb strings.Builder

	sb.WriteString("Hello,\n\n")
	sb.WriteString(d.Header)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Your pending payment is: %s won\n\n", formatWon(d.Total()))

	fmt.Fprintf(&sb, "Receipt - %s\n", d.CustomerName)
	sb.WriteString("-------------------------------\n")
	for _, line := range d.Lines {
		fmt.Fprintf(&sb, "- %s x%d\n", line.Name, line.Quantity)
	}
	sb.WriteString("-------------------------------\n")
	fmt.Fprintf(&sb, "Subtotal: %s won\n", formatWon(d.Payment))
	fmt.Fprintf(&sb, "Modifier: %s won\n", formatWon(d.Modifier))
	fmt.Fprintf(&sb, "Total: %s won\n\n", formatWon(d.Total()))

	sb.WriteString(d.Footer)
	sb.WriteString("\n\n")
	sb.WriteString(d.Footnote)

	return sb.String()
}

// RenderReminderHTML renders the HTML reminder body. Free-text fields
// (header, footer, footnote) are escaped; numeric fields are safe by
// formatting.
func RenderReminderHTML(d *ReminderData) string {
	var sb strings.Builder

	sb.WriteString("<p>Hello,</p>\n")
	sb.WriteString(paragraphHTML(d.Header))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "<p><b>Your pending payment is: %s won</b></p>\n", formatWon(d.Total()))

	fmt.Fprintf(&sb, "<span>Receipt - %s</span><br />\n", escapeHTML(d.CustomerName))
	sb.WriteString("<span>-------------------------------</span>\n<ul>")
	for _, line := range d.Lines {
		fmt.Fprintf(&sb, "<li>%s x%d</li>", escapeHTML(line.Name), line.Quantity)
	}
	sb.WriteString("</ul>\n<span>-------------------------------</span><br />\n")
	fmt.Fprintf(&sb, "<span>Subtotal: %s won</span><br />\n", formatWon(d.Payment))
	fmt.Fprintf(&sb, "<span>Modifier: %s won</span><br />\n", formatWon(d.Modifier))
	fmt.Fprintf(&sb, "<b>Total: %s won</b>\n", formatWon(d.Total()))

	sb.WriteString(paragraphHTML(d.Footer))
	sb.WriteString("\n<i>")
	sb.WriteString(paragraphHTML(d.Footnote))
	sb.WriteString("</i>")

	return sb.String()
}

// Service renders and sends payment-reminder emails
type Service struct {
	transport Transport
}

// NewService creates a new email service on top of a transport
func NewService(transport Transport) *Service {
	return &Service{transport: transport}
}

// SendPaymentReminder renders and sends one reminder to a recipient
func (s *Service) SendPaymentReminder(to, subject string, data *ReminderData) (*SendResult, error) {
	return s.transport.Send(&Message{
		To:      to,
		Subject: subject,
		Text:    RenderReminderText(data),
		HTML:    RenderReminderHTML(data),
	})
}
