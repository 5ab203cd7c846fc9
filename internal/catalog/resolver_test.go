package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
)

type stubGateway struct {
	products     map[string]*commerce.ProductDetails
	variantSlugs map[string]*commerce.ProductDetails
	quotes       map[string]*commerce.PriceQuote
	priceErr     error
	detailCalls  int
	variantCalls int
}

func (s *stubGateway) GetProductDetails(ctx context.Context, slug string) (*commerce.ProductDetails, error) {
	s.detailCalls++
	if p, ok := s.products[slug]; ok {
		return p, nil
	}
	return nil, commerce.ErrProductNotFound
}

func (s *stubGateway) GetProductByVariantSlug(ctx context.Context, slug string) (*commerce.ProductDetails, error) {
	s.variantCalls++
	if p, ok := s.variantSlugs[slug]; ok {
		return p, nil
	}
	return nil, commerce.ErrProductNotFound
}

func (s *stubGateway) GetProductSizePrice(ctx context.Context, slug, size, pincode string) (*commerce.PriceQuote, error) {
	if s.priceErr != nil {
		return nil, s.priceErr
	}
	if q, ok := s.quotes[slug]; ok {
		return q, nil
	}
	return nil, commerce.ErrPriceUnavailable
}

func newTestResolver(t *testing.T, gw *stubGateway) *Resolver {
	t.Helper()
	r, err := NewResolver(gw)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

func TestResolveFetchesDetailsAndQuote(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		products: map[string]*commerce.ProductDetails{
			"classic-tee": {UID: 1, Name: "Classic Tee", Slug: "classic-tee"},
		},
		quotes: map[string]*commerce.PriceQuote{
			"classic-tee": {ArticleID: "art_1", Quantity: 5},
		},
	}
	res, err := newTestResolver(t, gw).Resolve(context.Background(), "classic-tee", "M", "560001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Details == nil || res.Details.UID != 1 {
		t.Fatalf("unexpected details %+v", res.Details)
	}
	if res.Quote == nil || res.Quote.ArticleID != "art_1" {
		t.Fatalf("unexpected quote %+v", res.Quote)
	}
}

func TestResolveMissingQuoteIsNotFatal(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		products: map[string]*commerce.ProductDetails{
			"classic-tee": {UID: 1, Slug: "classic-tee"},
		},
	}
	res, err := newTestResolver(t, gw).Resolve(context.Background(), "classic-tee", "", "560001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Quote != nil {
		t.Fatalf("expected nil quote, got %+v", res.Quote)
	}
}

func TestResolveVariantSlugFallback(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		variantSlugs: map[string]*commerce.ProductDetails{
			"classic-tee-red": {UID: 2, Name: "Classic Tee", Slug: "classic-tee-red"},
		},
		quotes: map[string]*commerce.PriceQuote{
			"classic-tee-red": {ArticleID: "art_red", Quantity: 3},
		},
	}
	res, err := newTestResolver(t, gw).Resolve(context.Background(), "classic-tee-red", "M", "560001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Details.UID != 2 || res.Quote.ArticleID != "art_red" {
		t.Fatalf("expected variant resolution, got %+v", res)
	}
	if gw.variantCalls != 1 {
		t.Fatalf("expected exactly one variant retry, got %d", gw.variantCalls)
	}
}

func TestResolveNotFoundAfterFallback(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	_, err := newTestResolver(t, gw).Resolve(context.Background(), "ghost", "", "560001")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeProductNotFound {
		t.Fatalf("expected product not found, got %v", err)
	}
	if gw.variantCalls != 1 {
		t.Fatalf("fallback must be a single retry, got %d variant calls", gw.variantCalls)
	}
}

func TestResolveTransportErrorIsDependency(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{
		products: map[string]*commerce.ProductDetails{
			"classic-tee": {UID: 1, Slug: "classic-tee"},
		},
		priceErr: errors.New("connection reset"),
	}
	_, err := newTestResolver(t, gw).Resolve(context.Background(), "classic-tee", "", "560001")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestResolveIdentifier(t *testing.T) {
	t.Parallel()

	snap := &statestore.Snapshot{
		ProductSlug: "current-product",
		Listing:     []string{"first", "second", "third"},
	}

	if slug, err := ResolveIdentifier("explicit-slug", 0, snap); err != nil || slug != "explicit-slug" {
		t.Fatalf("explicit identifier should win, got %q %v", slug, err)
	}
	if slug, err := ResolveIdentifier("", 2, snap); err != nil || slug != "second" {
		t.Fatalf("position should read the listing, got %q %v", slug, err)
	}
	if slug, err := ResolveIdentifier("", 0, snap); err != nil || slug != "current-product" {
		t.Fatalf("empty reference should use the current product, got %q %v", slug, err)
	}

	if _, err := ResolveIdentifier("", 9, snap); pkgerrors.As(err) == nil {
		t.Fatalf("expected out-of-range position error, got %v", err)
	}
	if _, err := ResolveIdentifier("", 0, &statestore.Snapshot{}); pkgerrors.As(err) == nil {
		t.Fatalf("expected error when nothing identifies a product, got %v", err)
	}
}
