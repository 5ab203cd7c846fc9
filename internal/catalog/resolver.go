package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
)

// Resolution pairs the product record with its pincode/size-scoped price
// quote. Quote is nil when no article could be quoted for the inputs (for
// example before a size is chosen).
type Resolution struct {
	Details *commerce.ProductDetails
	Quote   *commerce.PriceQuote
}

type productGateway interface {
	GetProductDetails(ctx context.Context, slug string) (*commerce.ProductDetails, error)
	GetProductByVariantSlug(ctx context.Context, slug string) (*commerce.ProductDetails, error)
	GetProductSizePrice(ctx context.Context, slug, size, pincode string) (*commerce.PriceQuote, error)
}

// Resolver turns a user-supplied product identifier into a canonical
// product record plus price quote. Nothing is cached; every call re-fetches.
type Resolver struct {
	gateway productGateway
}

func NewResolver(gateway productGateway) (*Resolver, error) {
	if gateway == nil {
		return nil, fmt.Errorf("product gateway required")
	}
	return &Resolver{gateway: gateway}, nil
}

// Resolve fetches product details and a price quote for the identifier in
// parallel. When the slug is unknown it is retried once as a variant-level
// slug; a second miss is terminal.
func (r *Resolver) Resolve(ctx context.Context, identifier, size, pin string) (*Resolution, error) {
	slug := strings.TrimSpace(identifier)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "no product was specified")
	}

	var (
		details *commerce.ProductDetails
		quote   *commerce.PriceQuote
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fetched, err := r.gateway.GetProductDetails(groupCtx, slug)
		if err != nil {
			return err
		}
		details = fetched
		return nil
	})
	group.Go(func() error {
		fetched, err := r.gateway.GetProductSizePrice(groupCtx, slug, size, pin)
		if err != nil {
			if errors.Is(err, commerce.ErrPriceUnavailable) {
				return nil
			}
			return err
		}
		quote = fetched
		return nil
	})

	err := group.Wait()
	if err == nil {
		return &Resolution{Details: details, Quote: quote}, nil
	}
	if !errors.Is(err, commerce.ErrProductNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	return r.resolveAsVariant(ctx, slug, size, pin)
}

// resolveAsVariant is the single fallback for listings that expose
// variant-specific slugs.
func (r *Resolver) resolveAsVariant(ctx context.Context, slug, size, pin string) (*Resolution, error) {
	details, err := r.gateway.GetProductByVariantSlug(ctx, slug)
	if err != nil {
		if errors.Is(err, commerce.ErrProductNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound,
				fmt.Sprintf("could not find a product matching %q", slug)).
				WithDetails(map[string]any{"identifier": slug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product variant")
	}

	quote, err := r.gateway.GetProductSizePrice(ctx, details.Slug, size, pin)
	if err != nil {
		if errors.Is(err, commerce.ErrPriceUnavailable) {
			return &Resolution{Details: details}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "quote product variant")
	}
	return &Resolution{Details: details, Quote: quote}, nil
}

// ResolveIdentifier maps an action's product reference to a slug: an
// explicit slug wins, a 1-based listing position reads the session's
// on-screen listing, and an empty reference falls back to the product page
// currently in view.
func ResolveIdentifier(explicit string, position int, snap *statestore.Snapshot) (string, error) {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed, nil
	}
	if position > 0 {
		if snap == nil || len(snap.Listing) == 0 {
			return "", pkgerrors.New(pkgerrors.CodeProductNotFound,
				"there is no product listing on the current page").
				WithDetails(map[string]any{"position": position})
		}
		if position > len(snap.Listing) {
			return "", pkgerrors.New(pkgerrors.CodeProductNotFound,
				fmt.Sprintf("the page only shows %d product(s), position %d is out of range",
					len(snap.Listing), position)).
				WithDetails(map[string]any{"position": position, "listing_size": len(snap.Listing)})
		}
		return snap.Listing[position-1], nil
	}
	if snap != nil && strings.TrimSpace(snap.ProductSlug) != "" {
		return strings.TrimSpace(snap.ProductSlug), nil
	}
	return "", pkgerrors.New(pkgerrors.CodeProductNotFound,
		"please tell me which product you mean").
		WithDetails(map[string]any{"hint": "a product name, link or its position on the page"})
}
