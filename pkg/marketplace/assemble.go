package marketplace

import (
	"fmt"
	"slices"

	"github.com/Sternrassler/paddle-marketplace/pkg/paddle"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
)

// Exclusion reasons, used as log field and metric label.
const (
	reasonExcludedName = "excluded_name"
	reasonMissingImage = "missing_image"
	reasonMissingPrice = "missing_price"
	reasonInvalidPrice = "invalid_price"
)

// SelectPrices picks one one-time price per product id.
//
// Recurring prices are skipped. The first price seen for a product is kept
// unless a later one carries the preferred description, which always wins.
func SelectPrices(prices []paddle.Price, preferredDescription string) map[string]paddle.Price {
	selected := make(map[string]paddle.Price, len(prices))

	for _, price := range prices {
		if price.IsRecurring() {
			continue
		}

		if _, seen := selected[price.ProductID]; !seen || price.DescriptionOrEmpty() == preferredDescription {
			selected[price.ProductID] = price
		}
	}

	return selected
}

// Assemble joins products with their selected prices, drops everything that
// cannot be sold, and sorts the result by name.
func Assemble(products []paddle.Product, prices []paddle.Price, rules Rules) []Product {
	out, _ := assemble(products, prices, rules, zerolog.Nop())
	return out
}

// assemble is Assemble with exclusion bookkeeping.
func assemble(products []paddle.Product, prices []paddle.Price, rules Rules, logger zerolog.Logger) ([]Product, map[string]int) {
	selected := SelectPrices(prices, rules.PreferredDescription)
	excluded := make(map[string]int)
	out := make([]Product, 0, len(products))

	exclude := func(p paddle.Product, reason string) {
		excluded[reason]++
		logger.Debug().
			Str("product_id", p.ID).
			Str("name", p.Name).
			Str("reason", reason).
			Msg("Product excluded")
	}

	for _, p := range products {
		if rules.excludes(p.Name) {
			exclude(p, reasonExcludedName)
			continue
		}

		if p.ImageURL == nil || *p.ImageURL == "" {
			exclude(p, reasonMissingImage)
			continue
		}

		price, ok := selected[p.ID]
		if !ok {
			exclude(p, reasonMissingPrice)
			continue
		}

		amount, err := majorUnits(price.UnitPrice.Amount)
		if err != nil {
			excluded[reasonInvalidPrice]++
			logger.Warn().
				Err(err).
				Str("product_id", p.ID).
				Str("price_id", price.ID).
				Msg("Unparsable unit price - product excluded")
			continue
		}

		item := Product{
			ID:           p.ID,
			Name:         p.Name,
			Image:        *p.ImageURL,
			Price:        amount,
			CurrencyCode: price.UnitPrice.CurrencyCode,
			PriceID:      price.ID,
		}
		if p.Description != nil {
			item.Description = *p.Description
		}
		if sku := p.SKU(); sku != "" {
			item.SKU = &sku
		}

		out = append(out, item)
	}

	sortByName(out, rules)

	return out, excluded
}

// majorUnits converts an integer minor-unit amount string to major units.
// Fractional input is truncated to its integer part first.
func majorUnits(amount string) (decimal.Decimal, error) {
	minor, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return minor.Truncate(0).Shift(-2), nil
}

// sortByName orders products by locale-aware name collation, keeping fetch
// order between equal names. A Collator is not safe for concurrent use, so
// each call builds its own.
func sortByName(products []Product, rules Rules) {
	col := collate.New(rules.Locale)
	slices.SortStableFunc(products, func(a, b Product) int {
		return col.CompareString(a.Name, b.Name)
	})
}
