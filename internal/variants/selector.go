package variants

import (
	"fmt"
	"strings"

	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
)

// ColorSelection is the outcome of resolving a color choice. When the chosen
// variant carries its own slug the product identity switches: Switched is
// set and EffectiveSlug names the variant the caller must re-resolve before
// any further size, price or stock lookup.
type ColorSelection struct {
	Variant       *commerce.VariantItem
	EffectiveSlug string
	Switched      bool
}

// FindColorGroup locates the variant group that represents color: an exact
// "color" key, or a header containing "color" case-insensitively.
func FindColorGroup(details *commerce.ProductDetails) *commerce.VariantGroup {
	if details == nil {
		return nil
	}
	for i := range details.Variants {
		group := &details.Variants[i]
		if group.Key == "color" {
			return group
		}
		if strings.Contains(strings.ToLower(group.Header), "color") {
			return group
		}
	}
	return nil
}

// SelectColor validates a requested color against the product's color group,
// or auto-selects when exactly one color is available. A nil selection with
// a nil error means the product has no color axis.
func SelectColor(details *commerce.ProductDetails, requested string) (*ColorSelection, error) {
	group := FindColorGroup(details)
	if group == nil || len(group.Items) == 0 {
		return nil, nil
	}

	if trimmed := strings.TrimSpace(requested); trimmed != "" {
		return matchRequestedColor(group, trimmed)
	}

	available := availableColors(group)
	switch len(available) {
	case 0:
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "no color options are currently available")
	case 1:
		return selectionFor(available[0]), nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeColorSelectionRequired,
			fmt.Sprintf("please choose a color: %s", strings.Join(colorNames(available), ", "))).
			WithDetails(map[string]any{"available_colors": colorNames(available)})
	}
}

func matchRequestedColor(group *commerce.VariantGroup, requested string) (*ColorSelection, error) {
	for i := range group.Items {
		item := &group.Items[i]
		if !colorMatches(item, requested) {
			continue
		}
		if !item.IsAvailable {
			return nil, pkgerrors.New(pkgerrors.CodeColorNotAvailable,
				fmt.Sprintf("%s is currently unavailable", displayColor(item))).
				WithDetails(map[string]any{"available_colors": colorNames(availableColors(group))})
		}
		return selectionFor(item), nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeInvalidColor,
		fmt.Sprintf("color %q is not offered; available: %s", requested, strings.Join(colorNames(availableColors(group)), ", "))).
		WithDetails(map[string]any{"available_colors": colorNames(availableColors(group))})
}

func colorMatches(item *commerce.VariantItem, requested string) bool {
	if strings.EqualFold(item.ColorName, requested) {
		return true
	}
	if strings.EqualFold(item.Value, requested) {
		return true
	}
	return item.Value == requested
}

func selectionFor(item *commerce.VariantItem) *ColorSelection {
	selection := &ColorSelection{Variant: item}
	if item.Slug != "" {
		selection.EffectiveSlug = item.Slug
		selection.Switched = true
	}
	return selection
}

func availableColors(group *commerce.VariantGroup) []*commerce.VariantItem {
	var available []*commerce.VariantItem
	for i := range group.Items {
		if group.Items[i].IsAvailable {
			available = append(available, &group.Items[i])
		}
	}
	return available
}

func colorNames(items []*commerce.VariantItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, displayColor(item))
	}
	return names
}

func displayColor(item *commerce.VariantItem) string {
	if item.ColorName != "" {
		return item.ColorName
	}
	return item.Value
}

// SelectSize validates a requested size, auto-selecting when the product has
// exactly one. Products without sizes return an empty size with no error.
func SelectSize(details *commerce.ProductDetails, requested string) (string, error) {
	if details == nil || len(details.Sizes) == 0 {
		return "", nil
	}

	available := availableSizes(details)

	if trimmed := strings.TrimSpace(requested); trimmed != "" {
		for i := range details.Sizes {
			size := &details.Sizes[i]
			if !sizeMatches(size, trimmed) {
				continue
			}
			if !size.IsAvailable || size.Quantity <= 0 {
				return "", pkgerrors.New(pkgerrors.CodeSizeOutOfStock,
					fmt.Sprintf("size %s is out of stock", displaySize(size))).
					WithDetails(map[string]any{"available_sizes": available})
			}
			return size.Value, nil
		}
		return "", pkgerrors.New(pkgerrors.CodeInvalidSize,
			fmt.Sprintf("size %q is not offered; available: %s", trimmed, strings.Join(available, ", "))).
			WithDetails(map[string]any{"available_sizes": available})
	}

	if len(details.Sizes) == 1 {
		only := &details.Sizes[0]
		if !only.IsAvailable || only.Quantity <= 0 {
			return "", pkgerrors.New(pkgerrors.CodeSizeOutOfStock,
				fmt.Sprintf("size %s is out of stock", displaySize(only))).
				WithDetails(map[string]any{"available_sizes": []string{}})
		}
		return only.Value, nil
	}

	if len(available) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeOutOfStock, "all sizes are currently out of stock").
			WithDetails(map[string]any{"available_sizes": []string{}})
	}

	return "", pkgerrors.New(pkgerrors.CodeSizeSelectionRequired,
		fmt.Sprintf("please choose a size: %s", strings.Join(available, ", "))).
		WithDetails(map[string]any{"available_sizes": available})
}

func sizeMatches(size *commerce.SizeOption, requested string) bool {
	return strings.EqualFold(size.Value, requested) || strings.EqualFold(size.Display, requested)
}

// availableSizes lists sizes that are both flagged available and in stock.
func availableSizes(details *commerce.ProductDetails) []string {
	var available []string
	for i := range details.Sizes {
		size := &details.Sizes[i]
		if size.IsAvailable && size.Quantity > 0 {
			available = append(available, size.Value)
		}
	}
	return available
}

func displaySize(size *commerce.SizeOption) string {
	if size.Display != "" {
		return size.Display
	}
	return size.Value
}
