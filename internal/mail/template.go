package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/dmstore/backend/internal/order"
)

var orderTableTmpl = template.Must(template.New("orderTable").Parse(`
<table style="border-collapse:collapse;width:100%;font-family:Arial,sans-serif;">
  <thead>
    <tr style="background:#f5f5f5;">
      <th style="padding:8px;border:1px solid #ddd;text-align:left;">Product</th>
      <th style="padding:8px;border:1px solid #ddd;text-align:center;">Quantity</th>
      <th style="padding:8px;border:1px solid #ddd;text-align:right;">Unit Price</th>
      <th style="padding:8px;border:1px solid #ddd;text-align:right;">Total</th>
    </tr>
  </thead>
  <tbody>
  {{- range .Lines }}
    <tr>
      <td style="padding:8px;border:1px solid #ddd;">{{ .Name }}</td>
      <td style="padding:8px;border:1px solid #ddd;text-align:center;">{{ .Quantity }}</td>
      <td style="padding:8px;border:1px solid #ddd;text-align:right;">${{ .UnitPrice }}</td>
      <td style="padding:8px;border:1px solid #ddd;text-align:right;">${{ .LineTotal }}</td>
    </tr>
  {{- end }}
  </tbody>
  <tfoot>
    <tr>
      <td colspan="3" style="padding:8px;border:1px solid #ddd;font-weight:bold;text-align:right;">Grand Total</td>
      <td style="padding:8px;border:1px solid #ddd;font-weight:bold;text-align:right;">${{ .Total }}</td>
    </tr>
  </tfoot>
</table>
<p style="font-family:Arial,sans-serif;margin-top:10px;">
  <strong>Total package weight: {{ .WeightKg }} kg</strong>
</p>
`))

func renderOrderTable(o *order.Order) (string, error) {
	var b strings.Builder
	if err := orderTableTmpl.Execute(&b, o); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderAdminBody(o *order.Order, table string) string {
	return fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;">
  <h2 style="color:#c08f9b;margin:0 0 8px 0;">New order received</h2>
  <p style="margin:4px 0;"><strong>Order number:</strong> %s</p>
  <p style="margin:4px 0;"><strong>Name:</strong> %s</p>
  <p style="margin:4px 0;"><strong>Phone:</strong> %s</p>
  <p style="margin:4px 0;"><strong>Email:</strong> %s</p>
  <p style="margin:4px 0;"><strong>Address:</strong> %s</p>
  <hr style="border:none;border-top:1px solid #eee;margin:12px 0;">
  %s
</div>`,
		template.HTMLEscapeString(o.OrderNumber),
		template.HTMLEscapeString(o.Customer.Name),
		template.HTMLEscapeString(o.Customer.Phone),
		template.HTMLEscapeString(o.Customer.Email),
		template.HTMLEscapeString(o.Customer.Address),
		table)
}

func renderCustomerBody(o *order.Order, table string, updated bool) string {
	heading := "Thanks for your order"
	intro := fmt.Sprintf("Hi %s! We received your order with the following details:",
		template.HTMLEscapeString(o.Customer.Name))
	if updated {
		heading = "Your order was updated"
		intro = fmt.Sprintf("Hi %s! Your order now looks like this:",
			template.HTMLEscapeString(o.Customer.Name))
	}
	return fmt.Sprintf(`
<div style="font-family:Arial,sans-serif;">
  <h2 style="color:#c08f9b;margin:0 0 8px 0;">%s</h2>
  <p style="margin:4px 0;">%s</p>
  <p style="margin:4px 0;"><strong>Order number:</strong> %s</p>
  <hr style="border:none;border-top:1px solid #eee;margin:12px 0;">
  %s
  <p style="margin-top:12px;">We will contact you shortly via WhatsApp to arrange payment and shipping.</p>
</div>`,
		heading, intro,
		template.HTMLEscapeString(o.OrderNumber),
		table)
}
