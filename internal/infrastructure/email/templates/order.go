// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
)

// OrderLine is one purchased item as rendered in the confirmation email.
type OrderLine struct {
	Name     string
	Quantity int
	Price    float64
}

type OrderConfirmationProps struct {
	FirstName     string
	OrderID       string
	Lines         []OrderLine
	Total         float64
	StorefrontURL string
}

var orderConfirmationTemplate = template.Must(template.New("orderConfirmation").Parse(`
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; margin-bottom: 16px;">Hi {{.FirstName}},</p>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0; margin-bottom: 16px;">Thanks for your order! We received order <strong>{{.OrderID}}</strong> and are getting it ready.</p>
<table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: collapse; width: 100%; margin-bottom: 16px;" width="100%">
  <tr>
    <th align="left" style="font-family: Helvetica, sans-serif; font-size: 14px; color: #9a9ea6; padding: 8px 0; border-bottom: 1px solid #eaebed;">Item</th>
    <th align="center" style="font-family: Helvetica, sans-serif; font-size: 14px; color: #9a9ea6; padding: 8px 0; border-bottom: 1px solid #eaebed;">Qty</th>
    <th align="right" style="font-family: Helvetica, sans-serif; font-size: 14px; color: #9a9ea6; padding: 8px 0; border-bottom: 1px solid #eaebed;">Price</th>
  </tr>
  {{range .Lines}}
  <tr>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0;">{{.Name}}</td>
    <td align="center" style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0;">{{.Quantity}}</td>
    <td align="right" style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0;">{{printf "%.2f" .Price}} SAR</td>
  </tr>
  {{end}}
  <tr>
    <td colspan="2" style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: bold; padding: 8px 0; border-top: 1px solid #eaebed;">Total</td>
    <td align="right" style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: bold; padding: 8px 0; border-top: 1px solid #eaebed;">{{printf "%.2f" .Total}} SAR</td>
  </tr>
</table>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0;">Track your order any time from your <a href="{{.StorefrontURL}}/account/orders" style="color: #0070f3;">account page</a>.</p>`))

// GetOrderConfirmationContent renders the order confirmation body.
func GetOrderConfirmationContent(props OrderConfirmationProps) string {
	if props.FirstName == "" {
		props.FirstName = "there"
	}

	var buf bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: Failed to execute order confirmation template: %v", err)
		return ""
	}
	return buf.String()
}
