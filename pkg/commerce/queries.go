package commerce

const queryProductDetails = `
query ProductDetails($slug: String!) {
  product(slug: $slug) {
    uid
    name
    slug
    custom_order
    moq { minimum maximum increment_unit }
    sizes { value display is_available quantity }
    variants {
      key
      header
      items { value color_name slug uid is_available }
    }
  }
}`

const queryProductByVariantSlug = `
query ProductByVariantSlug($slug: String!) {
  product_variant(slug: $slug) {
    uid
    name
    slug
    custom_order
    moq { minimum maximum increment_unit }
    sizes { value display is_available quantity }
    variants {
      key
      header
      items { value color_name slug uid is_available }
    }
  }
}`

const queryProductSizePrice = `
query ProductSizePrice($slug: String!, $size: String!, $pincode: String!) {
  product_price(slug: $slug, size: $size, pincode: $pincode) {
    article_id
    article_assignment { level strategy }
    quantity
    seller { uid name }
    store { uid name }
    price_per_piece { effective marked currency_code }
  }
}`

const queryValidateLocality = `
query ValidateLocality($locality_type: String!, $locality_value: String!, $country: String) {
  locality(locality: $locality_type, locality_value: $locality_value, country: $country) {
    display_name
    localities { display_name }
  }
}`

const mutationAddItemsToCart = `
mutation AddItemsToCart($area_code: String!, $items: [CartInputItem!]!, $buy_now: Boolean) {
  add_items_to_cart(area_code: $area_code, buy_now: $buy_now, addCartRequestInput: { items: $items }) {
    success
    message
    cart { user_cart_items_count }
  }
}`

const queryCartDetails = `
query CartDetails {
  cart {
    id
    items {
      quantity
      article { uid size }
      product { uid name }
      identifiers { identifier }
    }
  }
}`

const mutationUpdateCart = `
mutation UpdateCart($items: [CartUpdateItem!]!, $operation: String!) {
  update_cart(operation: $operation, updateCartRequestInput: { items: $items }) {
    success
    message
  }
}`
