// Package pricing maps a product's list and discount prices to the unit price
// to charge under the store-wide pricing mode.
package pricing

import "github.com/shopspring/decimal"

// Mode is the global switch controlling whether discounted prices are honored.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModePromo  Mode = "promo"
	ModeBoth   Mode = "both"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeNormal, ModePromo, ModeBoth:
		return true
	}
	return false
}

// ParseMode returns the mode named by s, or def when s is empty or unknown.
func ParseMode(s string, def Mode) Mode {
	if m := Mode(s); m.Valid() {
		return m
	}
	return def
}

// Amount parses a price scanned from NUMERIC as text. Empty or malformed
// input counts as zero.
func Amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// UnitPrice returns the unit price to charge and whether the discount was
// actually applied. Discounts are honored only under promo/both, and only
// when 0 < discount < price; otherwise the list price wins.
func UnitPrice(price, discount decimal.Decimal, m Mode) (decimal.Decimal, bool) {
	if m != ModePromo && m != ModeBoth {
		return price, false
	}
	if discount.IsPositive() && discount.LessThan(price) {
		return discount, true
	}
	return price, false
}
