package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://commerce.test/graphql",
		WithHTTPClient(&http.Client{Transport: rt}),
		WithAPIToken("test-token"),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGetProductDetails(t *testing.T) {
	respBody := `{"data":{"product":{
		"uid":101,"name":"Classic Tee","slug":"classic-tee","custom_order":false,
		"moq":{"minimum":2,"maximum":10,"increment_unit":1},
		"sizes":[{"value":"M","display":"Medium","is_available":true,"quantity":5}],
		"variants":[{"key":"color","header":"Color","items":[{"value":"red","color_name":"Red","slug":"classic-tee-red","uid":102,"is_available":true}]}]
	}}}`

	var capturedAuth string
	var capturedVars map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedAuth = req.Header.Get("Authorization")
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		capturedVars = payload.Variables
		if !strings.Contains(payload.Query, "product(slug: $slug)") {
			t.Fatalf("unexpected query %q", payload.Query)
		}
		return jsonResponse(http.StatusOK, respBody), nil
	})

	client := newTestClient(t, rt)
	details, err := client.GetProductDetails(context.Background(), "classic-tee")
	if err != nil {
		t.Fatalf("get product details: %v", err)
	}
	if capturedAuth != "Bearer test-token" {
		t.Fatalf("expected bearer token, got %q", capturedAuth)
	}
	if capturedVars["slug"] != "classic-tee" {
		t.Fatalf("unexpected slug variable %v", capturedVars["slug"])
	}
	if details.UID != 101 || details.Name != "Classic Tee" {
		t.Fatalf("unexpected details %+v", details)
	}
	if details.MOQ == nil || details.MOQ.Minimum != 2 {
		t.Fatalf("expected moq to be mapped, got %+v", details.MOQ)
	}
	if len(details.Sizes) != 1 || details.Sizes[0].Quantity != 5 {
		t.Fatalf("unexpected sizes %+v", details.Sizes)
	}
	if len(details.Variants) != 1 || details.Variants[0].Items[0].Slug != "classic-tee-red" {
		t.Fatalf("unexpected variants %+v", details.Variants)
	}
}

func TestGetProductDetailsNotFound(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"product":null}}`), nil
	})
	client := newTestClient(t, rt)
	_, err := client.GetProductDetails(context.Background(), "ghost")
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestGetProductSizePrice(t *testing.T) {
	respBody := `{"data":{"product_price":{
		"article_id":"art_1","article_assignment":{"level":"multi-companies","strategy":"optimal"},
		"quantity":7,"seller":{"uid":11,"name":"Seller"},"store":{"uid":22,"name":"Store"},
		"price_per_piece":{"effective":"499.00","marked":"599.00","currency_code":"INR"}
	}}}`
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, respBody), nil
	})
	client := newTestClient(t, rt)
	quote, err := client.GetProductSizePrice(context.Background(), "classic-tee", "M", "560001")
	if err != nil {
		t.Fatalf("get price: %v", err)
	}
	if quote.ArticleID != "art_1" || quote.Quantity != 7 {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if quote.Seller.UID != 11 || quote.Store.UID != 22 {
		t.Fatalf("unexpected seller/store %+v", quote)
	}
	if quote.Price.Effective.String() != "499" || quote.Price.Currency != "INR" {
		t.Fatalf("unexpected price %+v", quote.Price)
	}
}

func TestGetProductSizePriceUnavailable(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"product_price":null}}`), nil
	})
	client := newTestClient(t, rt)
	_, err := client.GetProductSizePrice(context.Background(), "classic-tee", "XXL", "560001")
	if !errors.Is(err, ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}
}

func TestValidateLocality(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"locality":{"display_name":"Bengaluru","localities":[{"display_name":"Indiranagar"}]}}}`), nil
	})
	client := newTestClient(t, rt)
	loc, err := client.ValidateLocality(context.Background(), "560001", "IN")
	if err != nil {
		t.Fatalf("validate locality: %v", err)
	}
	if loc == nil || loc.DisplayName != "Bengaluru" || len(loc.Localities) != 1 {
		t.Fatalf("unexpected locality %+v", loc)
	}
}

func TestValidateLocalityNotServiceable(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"locality":null}}`), nil
	})
	client := newTestClient(t, rt)
	loc, err := client.ValidateLocality(context.Background(), "999999", "IN")
	if err != nil {
		t.Fatalf("validate locality: %v", err)
	}
	if loc != nil {
		t.Fatalf("expected nil locality for unserviceable pincode, got %+v", loc)
	}
}

func TestAddItemsToCartCarriesItems(t *testing.T) {
	var capturedItems []any
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		bodyBytes, _ := io.ReadAll(req.Body)
		var payload struct {
			Variables map[string]any `json:"variables"`
		}
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		capturedItems, _ = payload.Variables["items"].([]any)
		return jsonResponse(http.StatusOK, `{"data":{"add_items_to_cart":{"success":true,"message":"added","cart":{"user_cart_items_count":3}}}}`), nil
	})
	client := newTestClient(t, rt)
	result, err := client.AddItemsToCart(context.Background(), "560001", []CartLineRequest{
		{ItemID: 101, ArticleID: "art_1", ItemSize: "M", Quantity: 2, SellerID: 11, StoreID: 22},
	})
	if err != nil {
		t.Fatalf("add items: %v", err)
	}
	if !result.Success || result.ItemCount != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(capturedItems) != 1 {
		t.Fatalf("expected 1 item in payload, got %d", len(capturedItems))
	}
}

func TestGraphQLErrorSurfaces(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"errors":[{"message":"rate limited"}]}`), nil
	})
	client := newTestClient(t, rt)
	_, err := client.GetCartDetails(context.Background())
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected graphql error to surface, got %v", err)
	}
}

func TestNonOKStatus(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream exploded`), nil
	})
	client := newTestClient(t, rt)
	_, err := client.GetCartDetails(context.Background())
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
}
