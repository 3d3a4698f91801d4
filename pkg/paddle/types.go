package paddle

// Product is a Paddle catalog product as returned by GET /products.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"image_url"`
	Status      string         `json:"status"`
	TaxCategory string         `json:"tax_category,omitempty"`
	CustomData  map[string]any `json:"custom_data"`
}

// SKU returns the custom_data.sku value, or "" when it is absent or not a string.
func (p Product) SKU() string {
	if p.CustomData == nil {
		return ""
	}
	sku, _ := p.CustomData["sku"].(string)
	return sku
}

// Price is a Paddle price as returned by GET /prices.
type Price struct {
	ID           string        `json:"id"`
	ProductID    string        `json:"product_id"`
	Description  *string       `json:"description"`
	Name         *string       `json:"name"`
	UnitPrice    Money         `json:"unit_price"`
	BillingCycle *BillingCycle `json:"billing_cycle"`
	Status       string        `json:"status,omitempty"`
}

// IsRecurring reports whether the price bills on a cycle (subscription price).
func (p Price) IsRecurring() bool {
	return p.BillingCycle != nil
}

// DescriptionOrEmpty returns the description, or "" when absent.
func (p Price) DescriptionOrEmpty() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// Money is an amount in the lowest denomination of a currency.
type Money struct {
	// Amount is an integer in minor units, encoded as a string (e.g. "1999")
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// BillingCycle describes how often a recurring price bills.
type BillingCycle struct {
	Interval  string `json:"interval"`
	Frequency int    `json:"frequency"`
}

// Pagination is the meta.pagination block of list responses.
type Pagination struct {
	PerPage        int     `json:"per_page"`
	Next           *string `json:"next"`
	HasMore        bool    `json:"has_more"`
	EstimatedTotal int     `json:"estimated_total"`
}

// Meta is the meta block of list responses.
type Meta struct {
	RequestID  string      `json:"request_id"`
	Pagination *Pagination `json:"pagination"`
}

// listResponse is the envelope of every Paddle list endpoint.
type listResponse[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// nextURL returns the cursor to follow, or "" when the listing is exhausted.
// A response without a pagination block is the last page.
func (r listResponse[T]) nextURL() string {
	p := r.Meta.Pagination
	if p == nil || !p.HasMore || p.Next == nil {
		return ""
	}
	return *p.Next
}
