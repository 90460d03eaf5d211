package storefront

import (
	"time"

	"github.com/google/uuid"
)

// Category is the canonical category shape returned to the storefront,
// independent of which backend produced it.
type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Image        string    `json:"image,omitempty"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductVariant is a selectable option on a product (size, color, ...).
type ProductVariant struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Value           string    `json:"value"`
	PriceAdjustment string    `json:"price_adjustment,omitempty"`
	StockQuantity   int       `json:"stock_quantity"`
	IsActive        bool      `json:"is_active"`
}

// Product is the canonical product shape. Prices are decimal strings.
// DiscountPercentage and IsLowStock are derived at read time, never stored.
type Product struct {
	ID                 uuid.UUID        `json:"id"`
	CategoryID         *uuid.UUID       `json:"category_id,omitempty"`
	Category           *Category        `json:"category,omitempty"`
	Name               string           `json:"name"`
	Slug               string           `json:"slug"`
	Description        string           `json:"description,omitempty"`
	Brand              string           `json:"brand,omitempty"`
	SKU                string           `json:"sku,omitempty"`
	Tags               []string         `json:"tags,omitempty"`
	Price              string           `json:"price"`
	ComparePrice       string           `json:"compare_price,omitempty"`
	DiscountPercentage int              `json:"discount_percentage"`
	Image              string           `json:"image,omitempty"`
	Image2             string           `json:"image_2,omitempty"`
	Image3             string           `json:"image_3,omitempty"`
	Images             []string         `json:"images"`
	StockQuantity      int              `json:"stock_quantity"`
	InStock            bool             `json:"in_stock"`
	IsLowStock         bool             `json:"is_low_stock"`
	IsFeatured         bool             `json:"is_featured"`
	AverageRating      float64          `json:"average_rating"`
	ReviewCount        int              `json:"review_count"`
	Variants           []ProductVariant `json:"variants,omitempty"`
	Reviews            []Review         `json:"reviews,omitempty"`
	WhatsAppLink       string           `json:"whatsapp_link,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// Review carries the reviewer's public display name, never their account id.
type Review struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"product_id"`
	UserName           string    `json:"user_name"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title,omitempty"`
	Comment            string    `json:"comment,omitempty"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	HelpfulCount       int       `json:"helpful_count"`
	UnhelpfulCount     int       `json:"unhelpful_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// WishlistItem links a wishlist to a product.
type WishlistItem struct {
	ID      uuid.UUID `json:"id"`
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}

// Wishlist is the user's default wishlist with its items.
type Wishlist struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	IsDefault bool           `json:"is_default"`
	Items     []WishlistItem `json:"items"`
}

// CartItem is one line of the open cart. UnitPrice is captured when the
// item is added; LineTotal is quantity * unit price.
type CartItem struct {
	ID        uuid.UUID       `json:"id"`
	Product   Product         `json:"product"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Variant   *ProductVariant `json:"variant,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice string          `json:"unit_price"`
	LineTotal string          `json:"line_total"`
}

// Cart is the user's open cart. Subtotal is the sum of line totals.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	Items     []CartItem `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  string     `json:"subtotal"`
}

// User is the public profile of an authenticated account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthSession is the result of a successful register or login.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// ProductFilter narrows product listings. Zero values mean "no filter";
// Limit and Offset are normalized by the backend.
type ProductFilter struct {
	Category string
	Search   string
	Featured *bool
	Limit    int
	Offset   int
}

// CategoryProducts groups a category with its products for the aggregate
// landing-page payload.
type CategoryProducts struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}

// RegisterInput carries new-account credentials and the display name.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput carries sign-in credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AddCartItemInput adds quantity of a product (optionally a variant) to the
// open cart.
type AddCartItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// CreateReviewInput carries a new review. The authoring user is always the
// authenticated identity, never part of the input.
type CreateReviewInput struct {
	ProductID uuid.UUID
	Rating    int
	Title     string
	Comment   string
}
