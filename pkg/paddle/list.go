package paddle

import (
	"context"

	"github.com/Sternrassler/paddle-marketplace/pkg/pagination"
)

// ListProducts returns every active product, following pagination until the
// API reports no more pages.
//
// When a page fails, the products of all earlier pages are returned together
// with the error. Callers that prefer a degraded listing over none can use
// the partial slice.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, c, "products")
}

// ListPrices returns every active price. Failure semantics match ListProducts.
func (c *Client) ListPrices(ctx context.Context) ([]Price, error) {
	return list[Price](ctx, c, "prices")
}

func list[T any](ctx context.Context, c *Client, resource string) ([]T, error) {
	return pagination.Collect(ctx, resource, c.listURL(resource),
		func(ctx context.Context, pageURL string) (pagination.Page[T], error) {
			var body listResponse[T]
			if err := c.getJSON(ctx, pageURL, &body); err != nil {
				return pagination.Page[T]{}, err
			}

			page := pagination.Page[T]{Items: body.Data}

			next := body.nextURL()
			if next == "" {
				if p := body.Meta.Pagination; p != nil && p.HasMore {
					c.logger.Warn().
						Str("collection", resource).
						Msg("has_more set without next url - treating as last page")
				}
				return page, nil
			}

			resolved, err := c.resolveCursor(next)
			if err != nil {
				// items of this page are good, only the cursor is not
				c.logger.Error().Err(err).Str("collection", resource).Msg("Refusing pagination cursor")
				return page, err
			}
			page.Next = resolved

			return page, nil
		})
}
