// Package pagination follows cursor-paginated Paddle list endpoints.
//
// Paddle list responses carry a meta.pagination block with has_more and an
// absolute next URL. This package walks that chain one page at a time and
// accumulates the items of every page in fetch order.
//
// Example usage:
//
//	items, err := pagination.Collect(ctx, "products", firstURL,
//		func(ctx context.Context, pageURL string) (pagination.Page[paddle.Product], error) {
//			// fetch and decode pageURL
//		})
//	if err != nil {
//		// items holds everything fetched before the failing page
//	}
//
// The collector:
//   - Fetches pages strictly sequentially (the next cursor is only known
//     once the current page is decoded)
//   - Stops on the first failed page and returns the partial result together
//     with the error
//   - Stops when the upstream hands out a cursor it already served
//   - Checks context cancellation between pages
package pagination
