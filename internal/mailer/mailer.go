package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"drop_checkout/internal/model"

	"github.com/resend/resend-go/v2"
)

// Mailer renders and sends order notifications through Resend. Callers treat
// sends as best-effort; a failed send never rolls back a confirmed payment.
type Mailer struct {
	client *resend.Client
	from   string
	to     string
}

// NewMailer builds a mailer that sends from `from` to the notification inbox
// `to`.
func NewMailer(apiKey, from, to string) *Mailer {
	return &Mailer{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<h2>New order confirmed</h2>
<p><b>Order:</b> {{.RazorpayOrderID}}<br>
<b>Payment:</b> {{.RazorpayPaymentID}}<br>
<b>Edition:</b> {{.Edition}}<br>
<b>Payment type:</b> {{.PaymentType}}<br>
<b>Amount:</b> ₹{{.AmountRupees}}</p>
<h3>Shipping</h3>
<p>{{.Name}}<br>
{{.Phone}}<br>
{{.Email}}<br>
{{.Address}}</p>
`))

var storyTmpl = template.Must(template.New("story").Parse(`
<h2>Story submitted</h2>
<p><b>Order:</b> {{.RazorpayOrderID}}<br>
<b>From:</b> {{.Name}} ({{.Email}})</p>
<blockquote>{{.Story}}</blockquote>
`))

type orderView struct {
	*model.Order
	AmountRupees string
}

func viewOf(order *model.Order) orderView {
	return orderView{
		Order:        order,
		AmountRupees: fmt.Sprintf("%d.%02d", order.Amount/100, order.Amount%100),
	}
}

// SendOrderConfirmation emails a summary of a freshly confirmed order.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, order *model.Order) error {
	subject := fmt.Sprintf("Order confirmed: %s (%s)", order.RazorpayOrderID, order.Edition)
	return m.send(ctx, subject, confirmationTmpl, viewOf(order))
}

// SendStoryNotification emails the submitted story with its order context.
func (m *Mailer) SendStoryNotification(ctx context.Context, order *model.Order) error {
	subject := fmt.Sprintf("Story submitted for %s", order.RazorpayOrderID)
	return m.send(ctx, subject, storyTmpl, viewOf(order))
}

func (m *Mailer) send(ctx context.Context, subject string, tmpl *template.Template, data orderView) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render %q: %w", subject, err)
	}

	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{m.to},
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("send %q: %w", subject, err)
	}
	return nil
}
