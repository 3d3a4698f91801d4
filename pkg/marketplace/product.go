// Package marketplace joins Paddle products with their prices into the list
// of items a storefront can sell.
package marketplace

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Product is a purchasable marketplace item: a Paddle product joined with
// its chosen one-time price.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`

	// Price in major currency units (cents / 100)
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currency_code"`
	PriceID      string          `json:"price_id"`

	// SKU from the product's custom data, nil when absent
	SKU *string `json:"sku"`
}

// MSRPDescription labels the price that wins over any other one-time price
// of the same product.
const MSRPDescription = "Collection MSRP"

// Rules are the business rules applied while assembling a listing.
type Rules struct {
	// ExcludedNames are product names never listed (subscription tiers).
	ExcludedNames []string

	// PreferredDescription marks the price to attach when a product has several.
	PreferredDescription string

	// Locale drives the name collation of the output.
	Locale language.Tag
}

// DefaultRules returns the storefront rules.
func DefaultRules() Rules {
	return Rules{
		// TODO: switch to tax_category once the subscription products carry "saas" in every environment
		ExcludedNames:        []string{"Musio Pro", "Musio"},
		PreferredDescription: MSRPDescription,
		Locale:               language.English,
	}
}

func (r Rules) excludes(name string) bool {
	for _, excluded := range r.ExcludedNames {
		if name == excluded {
			return true
		}
	}
	return false
}
