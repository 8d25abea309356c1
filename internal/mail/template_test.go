package mail

import (
	"strings"
	"testing"

	"github.com/dmstore/backend/internal/order"
	"github.com/dmstore/backend/internal/pricing"
)

func sampleOrder() *order.Order {
	return &order.Order{
		ID:          "b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b",
		OrderNumber: "DM-F2F2EB",
		Customer: order.Customer{
			Name:    "Jane Roe",
			Phone:   "+52 55 1234 5678",
			Email:   "jane@example.com",
			Address: "123 Main St",
		},
		Lines: []order.Line{
			{ProductID: "p1", Name: "Lipstick <red>", Quantity: 2, UnitPrice: "150.00", LineTotal: "300.00"},
			{ProductID: "p2", Name: "Serum", Quantity: 1, UnitPrice: "510.00", LineTotal: "510.00"},
		},
		Total:     "810.00",
		WeightKg:  "0.27",
		PriceMode: pricing.ModePromo,
		PriceKind: order.PriceKindPromo,
		Status:    order.StatusNew,
	}
}

func TestRenderOrderTable(t *testing.T) {
	t.Parallel()

	html, err := renderOrderTable(sampleOrder())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"$150.00", "$510.00", "$810.00",
		"Grand Total",
		"0.27 kg",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("table missing %q:\n%s", want, html)
		}
	}
	// Product names are user data and must be escaped.
	if strings.Contains(html, "<red>") {
		t.Fatal("unescaped product name in table")
	}
	if !strings.Contains(html, "Lipstick &lt;red&gt;") {
		t.Fatal("escaped product name not rendered")
	}
}

func TestRenderBodies(t *testing.T) {
	t.Parallel()

	o := sampleOrder()
	table, err := renderOrderTable(o)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	admin := renderAdminBody(o, table)
	for _, want := range []string{"New order received", "DM-F2F2EB", "Jane Roe", "123 Main St", "Grand Total"} {
		if !strings.Contains(admin, want) {
			t.Fatalf("admin body missing %q", want)
		}
	}

	customer := renderCustomerBody(o, table, false)
	for _, want := range []string{"Thanks for your order", "Hi Jane Roe!", "DM-F2F2EB", "Grand Total"} {
		if !strings.Contains(customer, want) {
			t.Fatalf("customer body missing %q", want)
		}
	}

	updated := renderCustomerBody(o, table, true)
	if !strings.Contains(updated, "Your order was updated") {
		t.Fatal("update body missing heading")
	}
}
