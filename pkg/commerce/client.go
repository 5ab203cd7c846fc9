package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultRequestTimeout       = 10 * time.Second
	errorBodyReadLimit    int64 = 2048
)

var errBaseURLRequired = errors.New("commerce base url is required")

// Client talks GraphQL-over-HTTP to the storefront platform. It implements
// Gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

var _ Gateway = (*Client)(nil)

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIToken sets the bearer token attached to every request.
func WithAPIToken(token string) Option {
	return func(c *Client) {
		c.apiToken = strings.TrimSpace(token)
	}
}

// WithTimeout replaces the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the platform client for the given GraphQL endpoint.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	return client, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return fmt.Errorf("graphql endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	if len(envelope.Data) == 0 {
		return errors.New("graphql response missing data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

type productPayload struct {
	UID         int    `json:"uid"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	CustomOrder bool   `json:"custom_order"`
	MOQ         *struct {
		Minimum       int `json:"minimum"`
		Maximum       int `json:"maximum"`
		IncrementUnit int `json:"increment_unit"`
	} `json:"moq"`
	Sizes []struct {
		Value       string `json:"value"`
		Display     string `json:"display"`
		IsAvailable bool   `json:"is_available"`
		Quantity    int    `json:"quantity"`
	} `json:"sizes"`
	Variants []struct {
		Key    string `json:"key"`
		Header string `json:"header"`
		Items  []struct {
			Value       string `json:"value"`
			ColorName   string `json:"color_name"`
			Slug        string `json:"slug"`
			UID         int    `json:"uid"`
			IsAvailable bool   `json:"is_available"`
		} `json:"items"`
	} `json:"variants"`
}

func (p *productPayload) toDetails() *ProductDetails {
	details := &ProductDetails{
		UID:         p.UID,
		Name:        p.Name,
		Slug:        p.Slug,
		CustomOrder: p.CustomOrder,
	}
	if p.MOQ != nil {
		details.MOQ = &MOQRule{
			Minimum:       p.MOQ.Minimum,
			Maximum:       p.MOQ.Maximum,
			IncrementUnit: p.MOQ.IncrementUnit,
		}
	}
	for _, size := range p.Sizes {
		details.Sizes = append(details.Sizes, SizeOption{
			Value:       size.Value,
			Display:     size.Display,
			IsAvailable: size.IsAvailable,
			Quantity:    size.Quantity,
		})
	}
	for _, group := range p.Variants {
		mapped := VariantGroup{Key: group.Key, Header: group.Header}
		for _, item := range group.Items {
			mapped.Items = append(mapped.Items, VariantItem{
				Value:       item.Value,
				ColorName:   item.ColorName,
				Slug:        item.Slug,
				UID:         item.UID,
				IsAvailable: item.IsAvailable,
			})
		}
		details.Variants = append(details.Variants, mapped)
	}
	return details
}

// GetProductDetails fetches the canonical product record for a slug.
func (c *Client) GetProductDetails(ctx context.Context, slug string) (*ProductDetails, error) {
	var data struct {
		Product *productPayload `json:"product"`
	}
	if err := c.execute(ctx, queryProductDetails, map[string]any{"slug": slug}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, ErrProductNotFound
	}
	return data.Product.toDetails(), nil
}

// GetProductByVariantSlug resolves a listing's variant-level slug to the
// variant's own product record.
func (c *Client) GetProductByVariantSlug(ctx context.Context, slug string) (*ProductDetails, error) {
	var data struct {
		ProductVariant *productPayload `json:"product_variant"`
	}
	if err := c.execute(ctx, queryProductByVariantSlug, map[string]any{"slug": slug}, &data); err != nil {
		return nil, err
	}
	if data.ProductVariant == nil {
		return nil, ErrProductNotFound
	}
	return data.ProductVariant.toDetails(), nil
}

type pricePayload struct {
	ArticleID         string `json:"article_id"`
	ArticleAssignment struct {
		Level    string `json:"level"`
		Strategy string `json:"strategy"`
	} `json:"article_assignment"`
	Quantity int `json:"quantity"`
	Seller   struct {
		UID  int    `json:"uid"`
		Name string `json:"name"`
	} `json:"seller"`
	Store struct {
		UID  int    `json:"uid"`
		Name string `json:"name"`
	} `json:"store"`
	PricePerPiece struct {
		Effective    decimal.Decimal `json:"effective"`
		Marked       decimal.Decimal `json:"marked"`
		CurrencyCode string          `json:"currency_code"`
	} `json:"price_per_piece"`
}

// GetProductSizePrice quotes an article for the slug/size/pincode tuple.
// The quote is scoped to all three inputs and must be re-fetched when any
// of them changes.
func (c *Client) GetProductSizePrice(ctx context.Context, slug, size, pincode string) (*PriceQuote, error) {
	var data struct {
		ProductPrice *pricePayload `json:"product_price"`
	}
	vars := map[string]any{"slug": slug, "size": size, "pincode": pincode}
	if err := c.execute(ctx, queryProductSizePrice, vars, &data); err != nil {
		return nil, err
	}
	if data.ProductPrice == nil {
		return nil, ErrPriceUnavailable
	}
	p := data.ProductPrice
	return &PriceQuote{
		ArticleID: p.ArticleID,
		ArticleAssignment: ArticleAssignment{
			Level:    p.ArticleAssignment.Level,
			Strategy: p.ArticleAssignment.Strategy,
		},
		Quantity: p.Quantity,
		Seller:   Ref{UID: p.Seller.UID, Name: p.Seller.Name},
		Store:    Ref{UID: p.Store.UID, Name: p.Store.Name},
		Price: Money{
			Effective: p.PricePerPiece.Effective,
			Marked:    p.PricePerPiece.Marked,
			Currency:  p.PricePerPiece.CurrencyCode,
		},
	}, nil
}

// ValidateLocality checks serviceability for a pincode. A nil locality with
// a nil error means the pincode is not serviceable.
func (c *Client) ValidateLocality(ctx context.Context, pincode, country string) (*Locality, error) {
	var data struct {
		Locality *struct {
			DisplayName string `json:"display_name"`
			Localities  []struct {
				DisplayName string `json:"display_name"`
			} `json:"localities"`
		} `json:"locality"`
	}
	vars := map[string]any{
		"locality_type":  "pincode",
		"locality_value": pincode,
		"country":        country,
	}
	if err := c.execute(ctx, queryValidateLocality, vars, &data); err != nil {
		return nil, err
	}
	if data.Locality == nil {
		return nil, nil
	}
	loc := &Locality{DisplayName: data.Locality.DisplayName}
	for _, entry := range data.Locality.Localities {
		loc.Localities = append(loc.Localities, entry.DisplayName)
	}
	return loc, nil
}

// AddItemsToCart submits the add mutation for the given lines.
func (c *Client) AddItemsToCart(ctx context.Context, areaCode string, items []CartLineRequest) (*CartMutationResult, error) {
	var data struct {
		AddItemsToCart *struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
			Cart    *struct {
				UserCartItemsCount int `json:"user_cart_items_count"`
			} `json:"cart"`
		} `json:"add_items_to_cart"`
	}
	vars := map[string]any{
		"area_code": areaCode,
		"items":     items,
		"buy_now":   false,
	}
	if err := c.execute(ctx, mutationAddItemsToCart, vars, &data); err != nil {
		return nil, err
	}
	if data.AddItemsToCart == nil {
		return nil, errors.New("add items response missing payload")
	}
	result := &CartMutationResult{
		Success: data.AddItemsToCart.Success,
		Message: data.AddItemsToCart.Message,
	}
	if data.AddItemsToCart.Cart != nil {
		result.ItemCount = data.AddItemsToCart.Cart.UserCartItemsCount
	}
	return result, nil
}

// GetCartDetails reads the authoritative cart line list from the platform.
func (c *Client) GetCartDetails(ctx context.Context) (*CartDetails, error) {
	var data struct {
		Cart *struct {
			ID    string `json:"id"`
			Items []struct {
				Quantity int `json:"quantity"`
				Article  struct {
					UID  string `json:"uid"`
					Size string `json:"size"`
				} `json:"article"`
				Product struct {
					UID  int    `json:"uid"`
					Name string `json:"name"`
				} `json:"product"`
				Identifiers struct {
					Identifier string `json:"identifier"`
				} `json:"identifiers"`
			} `json:"items"`
		} `json:"cart"`
	}
	if err := c.execute(ctx, queryCartDetails, nil, &data); err != nil {
		return nil, err
	}
	details := &CartDetails{}
	if data.Cart == nil {
		return details, nil
	}
	details.ID = data.Cart.ID
	for idx, item := range data.Cart.Items {
		details.Items = append(details.Items, CartLine{
			ItemID:     item.Product.UID,
			ArticleID:  item.Article.UID,
			ItemSize:   item.Article.Size,
			Identifier: item.Identifiers.Identifier,
			ItemIndex:  idx,
			Quantity:   item.Quantity,
			Name:       item.Product.Name,
		})
	}
	return details, nil
}

// UpdateCart submits a bulk update; removals are quantity-zero entries with
// the remove_item operation.
func (c *Client) UpdateCart(ctx context.Context, items []CartUpdateItem, operation string) (*CartMutationResult, error) {
	var data struct {
		UpdateCart *struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		} `json:"update_cart"`
	}
	vars := map[string]any{
		"items":     items,
		"operation": operation,
	}
	if err := c.execute(ctx, mutationUpdateCart, vars, &data); err != nil {
		return nil, err
	}
	if data.UpdateCart == nil {
		return nil, errors.New("update cart response missing payload")
	}
	return &CartMutationResult{
		Success: data.UpdateCart.Success,
		Message: data.UpdateCart.Message,
	}, nil
}
