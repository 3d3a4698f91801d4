package marketplace

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/Sternrassler/paddle-marketplace/internal/testutil"
	"github.com/Sternrassler/paddle-marketplace/pkg/paddle"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fakeSource is an in-memory Source.
type fakeSource struct {
	products    []paddle.Product
	prices      []paddle.Price
	productsErr error
	pricesErr   error

	// rendezvous, when set, makes each list call wait for the other one
	rendezvous chan struct{}
}

func (f *fakeSource) meet(ctx context.Context) error {
	if f.rendezvous == nil {
		return nil
	}
	select {
	case f.rendezvous <- struct{}{}:
	case <-f.rendezvous:
	case <-time.After(2 * time.Second):
		return errors.New("other fetch never started")
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (f *fakeSource) ListProducts(ctx context.Context) ([]paddle.Product, error) {
	if err := f.meet(ctx); err != nil {
		return nil, err
	}
	return f.products, f.productsErr
}

func (f *fakeSource) ListPrices(ctx context.Context) ([]paddle.Price, error) {
	if err := f.meet(ctx); err != nil {
		return nil, err
	}
	return f.prices, f.pricesErr
}

func TestService_Products(t *testing.T) {
	src := &fakeSource{
		products: []paddle.Product{
			withImage("P1", "Widget"),
			withImage("P2", "Musio Pro"),
			withImage("P3", "Amp"),
		},
		prices: []paddle.Price{
			oneTime("A", "P1", "Promo", "500"),
			oneTime("B", "P1", "Collection MSRP", "1000"),
			oneTime("C", "P2", "Collection MSRP", "1999"),
			oneTime("D", "P3", "", "1999"),
		},
	}

	svc := NewService(src, DefaultRules())

	got, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}

	if !slices.Equal(ids(got), []string{"P3", "P1"}) {
		t.Fatalf("Products() ids = %v, want [P3 P1]", ids(got))
	}
	if !got[0].Price.Equal(decimal.RequireFromString("19.99")) {
		t.Errorf("Amp price = %s, want 19.99", got[0].Price)
	}
	if got[1].PriceID != "B" {
		t.Errorf("Widget price id = %q, want B", got[1].PriceID)
	}
}

func TestService_FetchesConcurrently(t *testing.T) {
	src := &fakeSource{
		products:   []paddle.Product{withImage("P1", "Widget")},
		prices:     []paddle.Price{oneTime("A", "P1", "", "100")},
		rendezvous: make(chan struct{}),
	}

	svc := NewService(src, DefaultRules())

	got, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	// a sequential implementation would time out in meet and list nothing
	if len(got) != 1 {
		t.Errorf("Products() returned %d products, want 1", len(got))
	}
}

func TestService_FetchErrorsDegrade(t *testing.T) {
	src := &fakeSource{
		products:    []paddle.Product{withImage("P1", "Widget"), withImage("P2", "Gadget")},
		productsErr: &paddle.APIError{StatusCode: 500, Class: paddle.ErrorClassServer, Endpoint: "/products", Body: "boom"},
		prices:      []paddle.Price{oneTime("A", "P1", "", "100")},
		pricesErr:   errors.New("connection reset"),
	}

	svc := NewService(src, DefaultRules())

	got, degraded, err := svc.products(context.Background())
	if err != nil {
		t.Fatalf("products() error = %v, want nil (errors are absorbed)", err)
	}
	if !degraded {
		t.Error("products() degraded = false, want true")
	}
	if !slices.Equal(ids(got), []string{"P1"}) {
		t.Errorf("products() ids = %v, want [P1]", ids(got))
	}
}

func TestService_EmptyUpstream(t *testing.T) {
	svc := NewService(&fakeSource{}, DefaultRules())

	got, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Products() = %v, want empty slice", got)
	}
}

func TestService_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(&fakeSource{products: []paddle.Product{withImage("P1", "Widget")}}, DefaultRules())

	got, err := svc.Products(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Products() error = %v, want context.Canceled", err)
	}
	if got != nil {
		t.Errorf("Products() = %v, want nil on cancellation", got)
	}
}

func newPaddleClient(t *testing.T, baseURL string) *paddle.Client {
	t.Helper()

	cfg := paddle.DefaultConfig("pdl_test_key")
	cfg.BaseURL = baseURL
	c, err := paddle.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create paddle client: %v", err)
	}
	return c
}

func TestService_WithPaddleClient(t *testing.T) {
	mock := testutil.NewMockPaddle()
	defer mock.Close()

	mock.SetPages("/products",
		[]any{withImage("P1", "Widget"), withImage("P2", "Musio")},
		[]any{withImage("P3", "Amp")},
	)
	mock.SetPages("/prices",
		[]any{oneTime("A", "P1", "Promo", "500"), recurring("S", "P3", "999")},
		[]any{oneTime("B", "P1", "Collection MSRP", "1000"), oneTime("C", "P2", "", "100"), oneTime("D", "P3", "", "2500")},
	)

	svc := NewService(newPaddleClient(t, mock.URL()), DefaultRules())

	got, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}

	if !slices.Equal(ids(got), []string{"P3", "P1"}) {
		t.Fatalf("Products() ids = %v, want [P3 P1]", ids(got))
	}
	if got[0].PriceID != "D" || !got[0].Price.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Amp = %+v, want price D at 25", got[0])
	}
	if got[1].PriceID != "B" {
		t.Errorf("Widget price id = %q, want B (MSRP on page 2)", got[1].PriceID)
	}
}

func TestService_ProductPageTwoFails(t *testing.T) {
	mock := testutil.NewMockPaddle()
	defer mock.Close()

	mock.SetPages("/products",
		[]any{withImage("P1", "Widget")},
		[]any{withImage("P2", "Gadget")},
	)
	mock.SetPageResponse("/products", 1, testutil.MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error":{"code":"internal_error"}}`,
	})
	mock.SetPages("/prices", []any{oneTime("A", "P1", "", "100"), oneTime("B", "P2", "", "200")})

	svc := NewService(newPaddleClient(t, mock.URL()), DefaultRules())

	got, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("Products() error = %v, want nil", err)
	}
	if !slices.Equal(ids(got), []string{"P1"}) {
		t.Errorf("Products() ids = %v, want [P1] (page 1 only)", ids(got))
	}
}
