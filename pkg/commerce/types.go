package commerce

import "github.com/shopspring/decimal"

// ProductDetails is the normalized product record returned by the platform.
// A variant-level product carries its own slug/uid and its own size and
// stock data; callers must not mix fields across variants.
type ProductDetails struct {
	UID         int            `json:"uid"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Sizes       []SizeOption   `json:"sizes"`
	Variants    []VariantGroup `json:"variants"`
	MOQ         *MOQRule       `json:"moq,omitempty"`
	CustomOrder bool           `json:"custom_order"`
}

type SizeOption struct {
	Value       string `json:"value"`
	Display     string `json:"display"`
	IsAvailable bool   `json:"is_available"`
	Quantity    int    `json:"quantity"`
}

type VariantGroup struct {
	Key    string        `json:"key"`
	Header string        `json:"header"`
	Items  []VariantItem `json:"items"`
}

type VariantItem struct {
	Value       string `json:"value"`
	ColorName   string `json:"color_name"`
	Slug        string `json:"slug,omitempty"`
	UID         int    `json:"uid,omitempty"`
	IsAvailable bool   `json:"is_available"`
}

// MOQRule holds the order-quantity constraints; zero fields mean the
// constraint is absent.
type MOQRule struct {
	Minimum       int `json:"minimum,omitempty"`
	Maximum       int `json:"maximum,omitempty"`
	IncrementUnit int `json:"increment_unit,omitempty"`
}

// PriceQuote is the pincode+size-scoped snapshot needed to build a cart
// line. Quantity is the live available stock at the quoted article.
type PriceQuote struct {
	ArticleID         string            `json:"article_id"`
	ArticleAssignment ArticleAssignment `json:"article_assignment"`
	Quantity          int               `json:"quantity"`
	Seller            Ref               `json:"seller"`
	Store             Ref               `json:"store"`
	Price             Money             `json:"price"`
}

type ArticleAssignment struct {
	Level    string `json:"level"`
	Strategy string `json:"strategy"`
}

type Ref struct {
	UID  int    `json:"uid"`
	Name string `json:"name,omitempty"`
}

type Money struct {
	Effective decimal.Decimal `json:"effective"`
	Marked    decimal.Decimal `json:"marked"`
	Currency  string          `json:"currency"`
}

// Locality is the serviceability record for a pincode.
type Locality struct {
	DisplayName string   `json:"display_name"`
	Localities  []string `json:"localities,omitempty"`
}

// CartLineRequest is one line submitted to the add-items mutation. The
// article, seller and store identifiers come from a PriceQuote.
type CartLineRequest struct {
	ItemID            int               `json:"item_id"`
	ArticleID         string            `json:"article_id"`
	ItemSize          string            `json:"item_size,omitempty"`
	Quantity          int               `json:"quantity"`
	SellerID          int               `json:"seller_id"`
	StoreID           int               `json:"store_id"`
	ArticleAssignment ArticleAssignment `json:"article_assignment"`
}

// CartLine is one existing line read back from the cart.
type CartLine struct {
	ItemID     int    `json:"item_id"`
	ArticleID  string `json:"article_id"`
	ItemSize   string `json:"item_size,omitempty"`
	Identifier string `json:"identifier"`
	ItemIndex  int    `json:"item_index"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name,omitempty"`
}

type CartDetails struct {
	ID    string     `json:"id,omitempty"`
	Items []CartLine `json:"items"`
}

// CartUpdateItem mirrors CartLine for the update mutation; quantity zero
// removes the line.
type CartUpdateItem struct {
	ItemID     int    `json:"item_id"`
	ArticleID  string `json:"article_id"`
	ItemSize   string `json:"item_size,omitempty"`
	Identifier string `json:"identifier"`
	ItemIndex  int    `json:"item_index"`
	Quantity   int    `json:"quantity"`
}

type CartMutationResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ItemCount int    `json:"item_count"`
}

const (
	// OperationRemoveItem is the update-cart operation used for removals.
	OperationRemoveItem = "remove_item"
	// OperationUpdateItem adjusts quantities in place.
	OperationUpdateItem = "update_item"
)
