package copilot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/luminacommerce/copilot-actions/internal/catalog"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/types"
)

// PageProduct redirects to a product page and needs a resolvable product
// reference; every other page maps to a fixed storefront path.
const PageProduct = "product"

var pagePaths = map[string]string{
	"home":        "/",
	"cart":        "/cart/bag",
	"collections": "/collections",
	"categories":  "/categories",
	"brands":      "/brands",
	"wishlist":    "/wishlist",
	"profile":     "/profile",
	"orders":      "/profile/orders",
}

func (d *Dispatcher) handleRedirect(ctx context.Context, inv *invocation) types.ActionResult {
	var params RedirectParams
	if err := d.decodeParams(ctx, inv.params, &params); err != nil {
		return types.Fail(err)
	}

	page := strings.ToLower(strings.TrimSpace(params.Page))
	if page == PageProduct {
		slug, err := catalog.ResolveIdentifier(params.Product, params.Position, inv.snap)
		if err != nil {
			return types.Fail(err)
		}
		return redirectResult(fmt.Sprintf("/product/%s", slug))
	}

	path, ok := pagePaths[page]
	if !ok {
		return types.Fail(pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown page %q", params.Page)).
			WithDetails(map[string]any{"pages": knownPages()}))
	}
	return redirectResult(path)
}

func redirectResult(path string) types.ActionResult {
	return types.OK(fmt.Sprintf("Taking you to %s", path), map[string]any{"redirect": path})
}

func knownPages() []string {
	pages := make([]string, 0, len(pagePaths)+1)
	for page := range pagePaths {
		pages = append(pages, page)
	}
	pages = append(pages, PageProduct)
	sort.Strings(pages)
	return pages
}
