package copilot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/luminacommerce/copilot-actions/internal/cart"
	"github.com/luminacommerce/copilot-actions/internal/catalog"
	"github.com/luminacommerce/copilot-actions/internal/quantity"
	"github.com/luminacommerce/copilot-actions/internal/variants"
	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/types"
)

// addedItem is one successful line of an add pipeline run.
type addedItem struct {
	Description string `json:"description"`
	Slug        string `json:"slug"`
	Quantity    int    `json:"quantity"`
	Note        string `json:"note,omitempty"`
}

// failedItem is one failed line of a listing batch.
type failedItem struct {
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
	Code      string `json:"code,omitempty"`
}

func (d *Dispatcher) handleAddToCart(ctx context.Context, inv *invocation) types.ActionResult {
	var params AddToCartParams
	if err := d.decodeParams(ctx, inv.params, &params); err != nil {
		return types.Fail(err)
	}

	item, err := d.addOne(ctx, inv, params)
	if err != nil {
		return types.Fail(err)
	}

	message := fmt.Sprintf("Added %d x %s to your cart", item.Quantity, item.Description)
	if item.Note != "" {
		message += fmt.Sprintf(" (%s)", item.Note)
	}
	return types.OK(message, map[string]any{
		"added": []addedItem{*item},
	})
}

// addOne runs the full resolution pipeline for a single product: pincode,
// product, color, size, quantity, mutation. Every stage's failure is
// returned typed; the caller decides how to aggregate.
func (d *Dispatcher) addOne(ctx context.Context, inv *invocation, params AddToCartParams) (*addedItem, error) {
	pin, err := d.pincodes.Resolve(params.Pincode, inv.snap)
	if err != nil {
		return nil, err
	}
	if _, err := d.pincodes.CheckServiceability(ctx, pin); err != nil {
		return nil, err
	}

	slug, err := catalog.ResolveIdentifier(params.Product, params.Position, inv.snap)
	if err != nil {
		return nil, err
	}

	res, err := d.catalog.Resolve(ctx, slug, params.Size, pin)
	if err != nil {
		return nil, err
	}
	quotedSize := params.Size

	selection, err := variants.SelectColor(res.Details, params.Color)
	if err != nil {
		return nil, err
	}
	var color string
	if selection != nil {
		color = selection.Variant.ColorName
		if color == "" {
			color = selection.Variant.Value
		}
		if selection.Switched {
			// Size, price and stock are scoped per variant; start over
			// under the variant's own slug.
			res, err = d.catalog.Resolve(ctx, selection.EffectiveSlug, params.Size, pin)
			if err != nil {
				return nil, err
			}
		}
	}

	size, err := variants.SelectSize(res.Details, params.Size)
	if err != nil {
		return nil, err
	}

	quote := res.Quote
	if quote == nil || size != quotedSize {
		quote, err = d.quoteFor(ctx, res.Details.Slug, size, pin)
		if err != nil {
			return nil, err
		}
	}

	norm, err := quantity.Normalize(params.Quantity, res.Details.MOQ, quote.Quantity, res.Details.CustomOrder)
	if err != nil {
		return nil, err
	}

	line := cart.BuildLine(res.Details, quote, size, norm.FinalQty)
	if _, err := d.mutator.AddLine(ctx, inv.sessionID, pin, line); err != nil {
		return nil, err
	}

	return &addedItem{
		Description: variants.BuildProductDescription(res.Details.Name, size, color),
		Slug:        res.Details.Slug,
		Quantity:    norm.FinalQty,
		Note:        norm.Reason,
	}, nil
}

// quoteFor fetches the price quote for a settled (slug, size, pincode)
// tuple. A missing quote at this point means the article cannot be served.
func (d *Dispatcher) quoteFor(ctx context.Context, slug, size, pin string) (*commerce.PriceQuote, error) {
	quote, err := d.gateway.GetProductSizePrice(ctx, slug, size, pin)
	if err != nil {
		if errors.Is(err, commerce.ErrPriceUnavailable) {
			return nil, pkgerrors.New(pkgerrors.CodeOutOfStock,
				fmt.Sprintf("this item cannot be delivered to %s right now", pin)).
				WithDetails(map[string]any{"pincode": pin})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "quote product")
	}
	return quote, nil
}

func (d *Dispatcher) handleAddFromListing(ctx context.Context, inv *invocation) types.ActionResult {
	var params ListingAddParams
	if err := d.decodeParams(ctx, inv.params, &params); err != nil {
		return types.Fail(err)
	}

	positions, err := d.listingPositions(params, inv.snap.Listing)
	if err != nil {
		return types.Fail(err)
	}

	var (
		added   []addedItem
		failed  []failedItem
		failLog error
	)
	// Strictly sequential in input order: per-item failures must be
	// attributable and earlier items in the batch may consume stock the
	// later ones depend on.
	for _, position := range positions {
		item, err := d.addOne(ctx, inv, AddToCartParams{
			Position: position,
			Size:     params.Size,
			Color:    params.Color,
			Quantity: params.Quantity,
			Pincode:  params.Pincode,
		})
		if err != nil {
			reference := fmt.Sprintf("item %d", position)
			if inv.snap != nil && position <= len(inv.snap.Listing) {
				reference = inv.snap.Listing[position-1]
			}
			entry := failedItem{Reference: reference, Reason: failureReason(err)}
			if typed := pkgerrors.As(err); typed != nil {
				entry.Code = string(typed.Code())
			}
			failed = append(failed, entry)
			failLog = multierr.Append(failLog, fmt.Errorf("%s: %w", reference, err))
			continue
		}
		added = append(added, *item)
	}
	if failLog != nil {
		d.logg.Warn(ctx, fmt.Sprintf("listing batch had failures: %v", failLog))
	}

	return batchResult(added, failed)
}

// listingPositions translates the batch parameters into 1-based listing
// positions: explicit positions win, otherwise the first Count entries.
func (d *Dispatcher) listingPositions(params ListingAddParams, listing []string) ([]int, error) {
	positions := params.Positions
	if len(positions) == 0 {
		count := params.Count
		if count <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				"specify which listing items to add, by position or count")
		}
		if count > len(listing) {
			count = len(listing)
		}
		if count == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound,
				"there is no product listing on the current page")
		}
		for i := 1; i <= count; i++ {
			positions = append(positions, i)
		}
	}
	if len(positions) > d.maxBatchSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d items can be added in one request", d.maxBatchSize)).
			WithDetails(map[string]any{"max_batch_size": d.maxBatchSize})
	}
	return positions, nil
}

// batchResult classifies a listing batch as all-success, partial or
// all-failure and builds the corresponding envelope.
func batchResult(added []addedItem, failed []failedItem) types.ActionResult {
	switch {
	case len(failed) == 0 && len(added) > 0:
		return types.OK(
			fmt.Sprintf("Added to cart: %s", strings.Join(descriptions(added), ", ")),
			map[string]any{"added": added},
		)
	case len(added) > 0:
		return types.ActionResult{
			Success: true,
			Message: fmt.Sprintf("Added to cart: %s. Could not add: %s",
				strings.Join(descriptions(added), ", "),
				strings.Join(failureSummaries(failed), "; ")),
			Data: map[string]any{"added": added, "failed": failed},
		}
	default:
		return types.ActionResult{
			Success: false,
			Message: fmt.Sprintf("Could not add any items: %s", strings.Join(failureSummaries(failed), "; ")),
			Data:    map[string]any{"failed": failed},
		}
	}
}

func descriptions(items []addedItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Description
		if item.Note != "" {
			out[i] = fmt.Sprintf("%s (%s)", item.Description, item.Note)
		}
	}
	return out
}

func failureSummaries(items []failedItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%s (%s)", item.Reference, item.Reason)
	}
	return out
}

// failureReason extracts the human-facing reason from a pipeline error.
func failureReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		if msg := typed.Message(); msg != "" {
			return msg
		}
		return pkgerrors.MetadataFor(typed.Code()).PublicMessage
	}
	return "unexpected error"
}
