package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/fmpberger88/potion-shop/internal/domain"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`
<p>Hi {{.FirstName}},</p>
<p>Welcome to the shop. Please confirm your email address by clicking
<a href="{{.VerifyURL}}">here</a>.</p>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<p>Hi {{.FirstName}},</p>
<p>Please reset your password by clicking <a href="{{.ResetURL}}">here</a>.</p>
<p>The link is valid for a limited time. If you did not request a reset you
can ignore this email.</p>
`))

var orderTmpl = template.Must(template.New("order").Parse(`
<p>Hi {{.FirstName}},</p>
<p>Thanks for your order <strong>{{.OrderID}}</strong>.</p>
<table>
  <tr><th>Product</th><th>Quantity</th><th>Unit price</th></tr>
  {{range .Items}}
  <tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .UnitPrice}}</td></tr>
  {{end}}
</table>
<p>Total: <strong>{{printf "%.2f" .Total}}</strong></p>
`))

type verificationData struct {
	FirstName string
	VerifyURL string
}

type resetData struct {
	FirstName string
	ResetURL  string
}

type orderData struct {
	FirstName string
	OrderID   string
	Items     []domain.OrderItem
	Total     float64
}

// RenderVerification builds the email-verification message.
func RenderVerification(firstName, baseURL, token string) (subject, body string, err error) {
	url := fmt.Sprintf("%s/auth/verify-email?token=%s", baseURL, token)
	body, err = render(verificationTmpl, verificationData{FirstName: firstName, VerifyURL: url})
	return "Verify your email address", body, err
}

// RenderPasswordReset builds the password-reset message.
func RenderPasswordReset(firstName, baseURL, token string) (subject, body string, err error) {
	url := fmt.Sprintf("%s/password/reset/%s", baseURL, token)
	body, err = render(resetTmpl, resetData{FirstName: firstName, ResetURL: url})
	return "Password Reset", body, err
}

// RenderOrderConfirmation builds the order-confirmation message.
func RenderOrderConfirmation(firstName string, order *domain.Order) (subject, body string, err error) {
	body, err = render(orderTmpl, orderData{
		FirstName: firstName,
		OrderID:   order.ID,
		Items:     order.Items,
		Total:     order.Total,
	})
	return "Order confirmation", body, err
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return buf.String(), nil
}
