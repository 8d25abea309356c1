package product

import "time"

type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand,omitempty"`
	// We store prices as strings to avoid rounding errors (NUMERIC in Postgres)
	Price         string    `json:"price"`
	DiscountPrice string    `json:"discountPrice,omitempty"`
	Stock         int       `json:"stock"`
	WeightGrams   int       `json:"weight_grams"`
	Image         string    `json:"image,omitempty"`
	Category      string    `json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name          string `json:"name"          example:"Matte Lipstick"`
	Brand         string `json:"brand"         example:"DM"`
	Price         string `json:"price"         example:"199.90"`
	DiscountPrice string `json:"discountPrice" example:"149.90"`
	Stock         int    `json:"stock"         example:"10"`
	WeightGrams   int    `json:"weight_grams"  example:"120"`
	Image         string `json:"image"`
	Category      string `json:"category"      example:"makeup"`
}

// UpdateProductRequest payload of partial update. Empty strings and nil
// numbers leave the stored value unchanged.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Price         *string `json:"price"`
	DiscountPrice *string `json:"discountPrice"`
	Stock         *int    `json:"stock"`
	WeightGrams   *int    `json:"weight_grams"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
}
