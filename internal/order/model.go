package order

import (
	"time"

	"github.com/dmstore/backend/internal/pricing"
)

const (
	PriceKindNormal = "Normal"
	PriceKindPromo  = "Promo"

	StatusNew        = "new"
	StatusDispatched = "dispatched"
)

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Line is one product-quantity entry. Name and prices are snapshots frozen at
// order (or edit) time; they never track later catalog changes.
type Line struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	// NUMERIC -> string
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

type Order struct {
	ID          string       `json:"id"`
	OrderNumber string       `json:"orderNumber"`
	Customer    Customer     `json:"customer"`
	Lines       []Line       `json:"lines"`
	Total       string       `json:"total"`
	WeightKg    string       `json:"totalWeightKg"`
	PriceMode   pricing.Mode `json:"priceMode"`
	PriceKind   string       `json:"priceKind"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func validStatus(s string) bool {
	return s == StatusNew || s == StatusDispatched
}
