package cart

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	"github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/logger"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
)

// summaryRefreshTimeout bounds the best-effort cart digest refresh so a
// slow backend cannot hold an otherwise finished mutation.
const summaryRefreshTimeout = 5 * time.Second

type cartGateway interface {
	AddItemsToCart(ctx context.Context, areaCode string, items []commerce.CartLineRequest) (*commerce.CartMutationResult, error)
	GetCartDetails(ctx context.Context) (*commerce.CartDetails, error)
	UpdateCart(ctx context.Context, items []commerce.CartUpdateItem, operation string) (*commerce.CartMutationResult, error)
}

type summaryStore interface {
	SaveCartSummary(ctx context.Context, sessionID string, summary statestore.CartSummary) error
}

// Mutator performs the two cart writes the copilot is allowed: adding a
// fully resolved line and clearing the whole cart. All other cart edits
// belong to the storefront UI.
type Mutator struct {
	gateway cartGateway
	store   summaryStore
	logg    *logger.Logger
}

func NewMutator(gateway cartGateway, store summaryStore, logg *logger.Logger) (*Mutator, error) {
	if gateway == nil {
		return nil, stdErrors.New("cart gateway is required")
	}
	if logg == nil {
		return nil, stdErrors.New("logger is required")
	}
	return &Mutator{gateway: gateway, store: store, logg: logg}, nil
}

// BuildLine assembles the add-to-cart payload from a resolved product and
// its price quote. The quote supplies the article, seller and store
// identifiers; quantity must already be normalized.
func BuildLine(details *commerce.ProductDetails, quote *commerce.PriceQuote, size string, quantity int) commerce.CartLineRequest {
	return commerce.CartLineRequest{
		ItemID:            details.UID,
		ArticleID:         quote.ArticleID,
		ItemSize:          size,
		Quantity:          quantity,
		SellerID:          quote.Seller.UID,
		StoreID:           quote.Store.UID,
		ArticleAssignment: quote.ArticleAssignment,
	}
}

// AddLine submits one line to the platform cart. On success the session's
// cart digest is refreshed best-effort; a refresh failure never fails the
// add.
func (m *Mutator) AddLine(ctx context.Context, sessionID, areaCode string, line commerce.CartLineRequest) (*commerce.CartMutationResult, error) {
	result, err := m.gateway.AddItemsToCart(ctx, areaCode, []commerce.CartLineRequest{line})
	if err != nil {
		return nil, errors.Wrap(errors.CodeAddToCartFailed, err, "adding item to cart")
	}
	if result == nil || !result.Success {
		message := "the platform rejected the cart update"
		if result != nil && result.Message != "" {
			message = result.Message
		}
		return nil, errors.New(errors.CodeAddToCartFailed, message)
	}
	m.refreshSummary(ctx, sessionID)
	return result, nil
}

// ClearAll removes every line from the cart with a single bulk update and
// returns the number of lines removed. An already-empty cart is a success.
func (m *Mutator) ClearAll(ctx context.Context, sessionID string) (int, error) {
	details, err := m.gateway.GetCartDetails(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "reading cart before clearing")
	}
	if details == nil || len(details.Items) == 0 {
		return 0, nil
	}

	removals := make([]commerce.CartUpdateItem, 0, len(details.Items))
	for _, item := range details.Items {
		removals = append(removals, commerce.CartUpdateItem{
			ItemID:     item.ItemID,
			ArticleID:  item.ArticleID,
			ItemSize:   item.ItemSize,
			Identifier: item.Identifier,
			ItemIndex:  item.ItemIndex,
			Quantity:   0,
		})
	}

	result, err := m.gateway.UpdateCart(ctx, removals, commerce.OperationRemoveItem)
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "clearing cart")
	}
	if result == nil || !result.Success {
		message := "the platform rejected the cart update"
		if result != nil && result.Message != "" {
			message = result.Message
		}
		return 0, errors.New(errors.CodeDependency, message)
	}
	m.refreshSummary(ctx, sessionID)
	return len(removals), nil
}

// refreshSummary re-reads the cart and caches its digest for the session.
// It runs fire-and-forget: the caller's response never waits on it, the
// caller's deadline does not cancel it, and failures are logged and
// swallowed since the digest is advisory.
func (m *Mutator) refreshSummary(ctx context.Context, sessionID string) {
	if m.store == nil || sessionID == "" {
		return
	}
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), summaryRefreshTimeout)
	go func() {
		defer cancel()

		details, err := m.gateway.GetCartDetails(refreshCtx)
		if err != nil {
			m.logg.Warn(refreshCtx, fmt.Sprintf("cart summary refresh failed: %v", err))
			return
		}
		itemCount := 0
		if details != nil {
			itemCount = len(details.Items)
		}
		summary := statestore.CartSummary{ItemCount: itemCount, UpdatedAt: time.Now().UTC()}
		if err := m.store.SaveCartSummary(refreshCtx, sessionID, summary); err != nil {
			m.logg.Warn(refreshCtx, fmt.Sprintf("cart summary save failed: %v", err))
		}
	}()
}
