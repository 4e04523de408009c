package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() *ReminderData {
	return &ReminderData{
		Header:       "Week 10 billing",
		Footer:       "Pay by Friday",
		Footnote:     "Automated message",
		CustomerName: "Jordan",
		Lines: []ReminderLine{
			{Name: "Coffee", Quantity: 3},
			{Name: "Bagel", Quantity: 1},
		},
		Payment:  8000,
		Modifier: -2000,
	}
}

func TestReminderTotal(t *testing.T) {
	d := sampleData()
	assert.Equal(t, int64(6000), d.Total())

	d.Modifier = 0
	assert.Equal(t, int64(8000), d.Total())
}

func TestRenderReminderText(t *testing.T) {
	body := RenderReminderText(sampleData())

	assert.Contains(t, body, "Your pending payment is: 6,000 won")
	assert.Contains(t, body, "Receipt - Jordan")
	assert.Contains(t, body, "- Coffee x3")
	assert.Contains(t, body, "- Bagel x1")
	assert.Contains(t, body, "Subtotal: 8,000 won")
	assert.Contains(t, body, "Modifier: -2,000 won")
	assert.Contains(t, body, "Total: 6,000 won")
	assert.Contains(t, body, "Pay by Friday")
	assert.True(t, strings.HasPrefix(body, "Hello,\n"))
}

func TestRenderReminderHTML(t *testing.T) {
	body := RenderReminderHTML(sampleData())

	assert.Contains(t, body, "<p><b>Your pending payment is: 6,000 won</b></p>")
	assert.Contains(t, body, "<li>Coffee x3</li>")
	assert.Contains(t, body, "<li>Bagel x1</li>")
	assert.Contains(t, body, "<b>Total: 6,000 won</b>")
	assert.Contains(t, body, "<i><p>Automated message</p></i>")
}

func TestRenderReminderHTMLEscapesFreeText(t *testing.T) {
	d := sampleData()
	d.Header = `<script>alert("x")</script> & 'more'`
	d.CustomerName = "Jordan <j>"
	d.Lines = []ReminderLine{{Name: "Fish & Chips", Quantity: 1}}

	body := RenderReminderHTML(d)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt; &amp; &#39;more&#39;")
	assert.Contains(t, body, "Receipt - Jordan &lt;j&gt;")
	assert.Contains(t, body, "<li>Fish &amp; Chips x1</li>")
}

func TestRenderReminderHTMLConvertsNewlines(t *testing.T) {
	d := sampleData()
	d.Footer = "First line\nSecond line"

	body := RenderReminderHTML(d)

	assert.Contains(t, body, "<p>First line<br>Second line</p>")
}

func TestEscapeHTMLCoversAllFiveEntities(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&quot;&#39;", escapeHTML(`&<>"'`))
}

func TestServiceSendsRenderedBodies(t *testing.T) {
	var captured *Message
	svc := NewService(transportFunc(func(msg *Message) (*SendResult, error) {
		captured = msg
		return &SendResult{Accepted: []string{msg.To}}, nil
	}))

	res, err := svc.SendPaymentReminder("jordan@example.com", "Reminder", sampleData())
	require.NoError(t, err)
	assert.True(t, res.Sent())

	require.NotNil(t, captured)
	assert.Equal(t, "jordan@example.com", captured.To)
	assert.Equal(t, "Reminder", captured.Subject)
	assert.Contains(t, captured.Text, "Total: 6,000 won")
	assert.Contains(t, captured.HTML, "<b>Total: 6,000 won</b>")
}

type transportFunc func(msg *Message) (*SendResult, error)

func (f transportFunc) Send(msg *Message) (*SendResult, error) { return f(msg) }
