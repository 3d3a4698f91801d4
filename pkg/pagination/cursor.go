package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// ErrCursorLoop is returned when the upstream hands out a next URL that was
// already fetched during the same walk.
var ErrCursorLoop = errors.New("pagination cursor loop")

var pagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "paddle_pages_total",
	Help: "Total list pages requested by collection and result",
}, []string{"collection", "result"})

// Page is a single decoded page of a list endpoint.
type Page[T any] struct {
	// Items are the records of this page in upstream order
	Items []T

	// Next is the URL of the following page, empty when exhausted
	Next string
}

// PageFetcher fetches and decodes the page behind pageURL. It may return the
// items of a decoded page together with an error when the walk cannot
// continue past it.
type PageFetcher[T any] func(ctx context.Context, pageURL string) (Page[T], error)

// Collect walks the cursor chain starting at firstURL and returns all items.
// On failure the items of every page fetched before the failure are returned
// alongside the error.
func Collect[T any](ctx context.Context, collection, firstURL string, fetch PageFetcher[T]) ([]T, error) {
	start := time.Now()
	items := make([]T, 0)
	seen := make(map[string]struct{})

	pageNum := 0
	for pageURL := firstURL; pageURL != ""; {
		pageNum++

		if err := ctx.Err(); err != nil {
			pagesTotal.WithLabelValues(collection, "cancelled").Inc()
			return items, partial(pageNum, len(items), err)
		}

		if _, dup := seen[pageURL]; dup {
			pagesTotal.WithLabelValues(collection, "loop").Inc()
			log.Warn().
				Str("collection", collection).
				Str("url", pageURL).
				Int("page", pageNum).
				Msg("Cursor already visited - stopping pagination")
			return items, partial(pageNum, len(items), ErrCursorLoop)
		}
		seen[pageURL] = struct{}{}

		page, err := fetch(ctx, pageURL)
		items = append(items, page.Items...)
		if err != nil {
			pagesTotal.WithLabelValues(collection, "error").Inc()
			log.Warn().
				Err(err).
				Str("collection", collection).
				Int("page", pageNum).
				Int("items", len(items)).
				Msg("Page fetch failed - returning partial results")
			return items, partial(pageNum, len(items), err)
		}

		pagesTotal.WithLabelValues(collection, "ok").Inc()

		log.Debug().
			Str("collection", collection).
			Int("page", pageNum).
			Int("page_items", len(page.Items)).
			Bool("has_next", page.Next != "").
			Msg("Page fetched")

		pageURL = page.Next
	}

	log.Info().
		Str("collection", collection).
		Int("pages", pageNum).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}

func partial(pageNum, items int, err error) error {
	return fmt.Errorf("page %d (partial data: %d items): %w", pageNum, items, err)
}
