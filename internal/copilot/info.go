package copilot

import (
	"context"
	"fmt"

	"github.com/luminacommerce/copilot-actions/internal/catalog"
	"github.com/luminacommerce/copilot-actions/internal/variants"
	"github.com/luminacommerce/copilot-actions/pkg/types"
)

func (d *Dispatcher) handleCheckPincode(ctx context.Context, inv *invocation) types.ActionResult {
	var params CheckPincodeParams
	if err := d.decodeParams(ctx, inv.params, &params); err != nil {
		return types.Fail(err)
	}

	pin, err := d.pincodes.Resolve(params.Pincode, inv.snap)
	if err != nil {
		return types.Fail(err)
	}
	locality, err := d.pincodes.CheckServiceability(ctx, pin)
	if err != nil {
		return types.Fail(err)
	}

	message := fmt.Sprintf("Yes, we deliver to %s", pin)
	if locality.DisplayName != "" {
		message = fmt.Sprintf("Yes, we deliver to %s (%s)", pin, locality.DisplayName)
	}
	return types.OK(message, map[string]any{
		"pincode":  pin,
		"locality": locality.DisplayName,
	})
}

func (d *Dispatcher) handleClearCart(ctx context.Context, inv *invocation) types.ActionResult {
	removed, err := d.mutator.ClearAll(ctx, inv.sessionID)
	if err != nil {
		return types.Fail(err)
	}
	if removed == 0 {
		return types.OK("Your cart is already empty", map[string]any{"items_removed": 0})
	}
	return types.OK(
		fmt.Sprintf("Removed %d item(s) from your cart", removed),
		map[string]any{"items_removed": removed},
	)
}

func (d *Dispatcher) handleProductInfo(ctx context.Context, inv *invocation) types.ActionResult {
	var params ProductInfoParams
	if err := d.decodeParams(ctx, inv.params, &params); err != nil {
		return types.Fail(err)
	}

	slug, err := catalog.ResolveIdentifier(params.Product, params.Position, inv.snap)
	if err != nil {
		return types.Fail(err)
	}

	// Price is pincode-scoped; without one the summary simply omits it.
	pin := params.Pincode
	if pin == "" && inv.snap != nil {
		pin = inv.snap.Pincode
	}

	res, err := d.catalog.Resolve(ctx, slug, "", pin)
	if err != nil {
		return types.Fail(err)
	}
	details := res.Details

	var sizes []string
	inStock := len(details.Sizes) == 0
	for _, size := range details.Sizes {
		if size.IsAvailable && size.Quantity > 0 {
			sizes = append(sizes, size.Value)
			inStock = true
		}
	}
	var colors []string
	if group := variants.FindColorGroup(details); group != nil {
		for _, item := range group.Items {
			if !item.IsAvailable {
				continue
			}
			if item.ColorName != "" {
				colors = append(colors, item.ColorName)
			} else {
				colors = append(colors, item.Value)
			}
		}
	}

	data := map[string]any{
		"name":         details.Name,
		"slug":         details.Slug,
		"sizes":        sizes,
		"colors":       colors,
		"in_stock":     inStock,
		"custom_order": details.CustomOrder,
	}
	message := details.Name
	if res.Quote != nil {
		data["price"] = map[string]any{
			"effective": res.Quote.Price.Effective,
			"marked":    res.Quote.Price.Marked,
			"currency":  res.Quote.Price.Currency,
		}
		message = fmt.Sprintf("%s is available at %s %s",
			details.Name, res.Quote.Price.Currency, res.Quote.Price.Effective.String())
	}
	return types.OK(message, data)
}
