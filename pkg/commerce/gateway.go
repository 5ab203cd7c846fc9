package commerce

import (
	"context"
	"errors"
)

// ErrProductNotFound reports that the platform knows no product (or variant)
// under the requested slug. Transport failures are returned as distinct
// errors and must not be conflated with this.
var ErrProductNotFound = errors.New("commerce: product not found")

// ErrPriceUnavailable reports that no article could be quoted for the
// requested slug/size/pincode tuple.
var ErrPriceUnavailable = errors.New("commerce: price unavailable")

// Gateway is the platform boundary: every remote read and the two cart
// mutations the copilot performs. Implementations hold no copilot state;
// pipelines receive a Gateway so tests can substitute a double.
type Gateway interface {
	GetProductDetails(ctx context.Context, slug string) (*ProductDetails, error)
	GetProductByVariantSlug(ctx context.Context, slug string) (*ProductDetails, error)
	GetProductSizePrice(ctx context.Context, slug, size, pincode string) (*PriceQuote, error)
	ValidateLocality(ctx context.Context, pincode, country string) (*Locality, error)
	AddItemsToCart(ctx context.Context, areaCode string, items []CartLineRequest) (*CartMutationResult, error)
	GetCartDetails(ctx context.Context) (*CartDetails, error)
	UpdateCart(ctx context.Context, items []CartUpdateItem, operation string) (*CartMutationResult, error)
}
