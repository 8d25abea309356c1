package order

// ItemInput is one requested product-quantity pair. Quantity is a pointer so
// a missing field can be told apart from an explicit zero.
// swagger:model ItemInput
type ItemInput struct {
	ID       string `json:"id"       example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity *int   `json:"quantity" example:"2"`
}

// CreateOrderRequest payload for checkout.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Name    string `json:"name"    example:"Jane Roe"`
	Phone   string `json:"phone"   example:"+52 55 1234 5678"`
	Email   string `json:"email"   example:"jane@example.com"`
	Address string `json:"address"`
	// Declared package weight in kg; carried through, never used for pricing.
	WeightKg float64     `json:"weightKg" example:"1.25"`
	Items    []ItemInput `json:"items"`
}

// UpdateOrderRequest payload for editing an order. Items fully replace the
// stored lines; quantity 0 removes a line. Empty customer fields keep the
// stored values.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	Name    string      `json:"name"`
	Phone   string      `json:"phone"`
	Email   string      `json:"email"`
	Address string      `json:"address"`
	Items   []ItemInput `json:"items"`
}
