package storefront

import (
	"context"

	"github.com/google/uuid"
)

// CatalogService is the catalog slice of the database backend.
type CatalogService interface {
	Categories(ctx context.Context) ([]Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*Category, error)
	Products(ctx context.Context, filter ProductFilter) ([]Product, error)
	ProductBySlug(ctx context.Context, slug string) (*Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]Product, error)
	ProductsByCategory(ctx context.Context) ([]CategoryProducts, error)
}

// AuthService is the account slice of the database backend.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthSession, error)
	Login(ctx context.Context, input LoginInput) (*AuthSession, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context) (*User, error)
}

// WishlistService is the wishlist slice of the database backend.
type WishlistService interface {
	DefaultWishlist(ctx context.Context) (*Wishlist, error)
	AddWishlistItem(ctx context.Context, productID uuid.UUID) (*Wishlist, error)
	RemoveWishlistItem(ctx context.Context, productID uuid.UUID) error
	WishlistProductIDs(ctx context.Context) ([]uuid.UUID, error)
}

// CartService is the cart slice of the database backend.
type CartService interface {
	CurrentCart(ctx context.Context) (*Cart, error)
	AddCartItem(ctx context.Context, input AddCartItemInput) (*Cart, error)
	UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*Cart, error)
	RemoveCartItem(ctx context.Context, itemID uuid.UUID) (*Cart, error)
	ClearCart(ctx context.Context) (*Cart, error)
}

// ReviewService is the review slice of the database backend.
type ReviewService interface {
	ProductReviews(ctx context.Context, productID uuid.UUID) ([]Review, error)
	CreateReview(ctx context.Context, input CreateReviewInput) (*Review, error)
}

// DatabaseBackend composes the domain services into the Backend capability
// interface for database mode.
type DatabaseBackend struct {
	catalog   CatalogService
	auth      AuthService
	wishlists WishlistService
	carts     CartService
	reviews   ReviewService
}

// NewDatabaseBackend wires the domain services into a Backend.
func NewDatabaseBackend(
	catalog CatalogService,
	auth AuthService,
	wishlists WishlistService,
	carts CartService,
	reviews ReviewService,
) *DatabaseBackend {
	return &DatabaseBackend{
		catalog:   catalog,
		auth:      auth,
		wishlists: wishlists,
		carts:     carts,
		reviews:   reviews,
	}
}

func (b *DatabaseBackend) Mode() Mode { return ModeDatabase }

func (b *DatabaseBackend) Categories(ctx context.Context) ([]Category, error) {
	return b.catalog.Categories(ctx)
}

func (b *DatabaseBackend) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	return b.catalog.CategoryBySlug(ctx, slug)
}

func (b *DatabaseBackend) Products(ctx context.Context, filter ProductFilter) ([]Product, error) {
	return b.catalog.Products(ctx, filter)
}

func (b *DatabaseBackend) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return b.catalog.ProductBySlug(ctx, slug)
}

func (b *DatabaseBackend) FeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	return b.catalog.FeaturedProducts(ctx, limit)
}

func (b *DatabaseBackend) ProductsByCategory(ctx context.Context) ([]CategoryProducts, error) {
	return b.catalog.ProductsByCategory(ctx)
}

func (b *DatabaseBackend) Register(ctx context.Context, input RegisterInput) (*AuthSession, error) {
	return b.auth.Register(ctx, input)
}

func (b *DatabaseBackend) Login(ctx context.Context, input LoginInput) (*AuthSession, error) {
	return b.auth.Login(ctx, input)
}

func (b *DatabaseBackend) Logout(ctx context.Context, refreshToken string) error {
	return b.auth.Logout(ctx, refreshToken)
}

func (b *DatabaseBackend) CurrentUser(ctx context.Context) (*User, error) {
	return b.auth.CurrentUser(ctx)
}

func (b *DatabaseBackend) DefaultWishlist(ctx context.Context) (*Wishlist, error) {
	return b.wishlists.DefaultWishlist(ctx)
}

func (b *DatabaseBackend) AddWishlistItem(ctx context.Context, productID uuid.UUID) (*Wishlist, error) {
	return b.wishlists.AddWishlistItem(ctx, productID)
}

func (b *DatabaseBackend) RemoveWishlistItem(ctx context.Context, productID uuid.UUID) error {
	return b.wishlists.RemoveWishlistItem(ctx, productID)
}

func (b *DatabaseBackend) WishlistProductIDs(ctx context.Context) ([]uuid.UUID, error) {
	return b.wishlists.WishlistProductIDs(ctx)
}

func (b *DatabaseBackend) CurrentCart(ctx context.Context) (*Cart, error) {
	return b.carts.CurrentCart(ctx)
}

func (b *DatabaseBackend) AddCartItem(ctx context.Context, input AddCartItemInput) (*Cart, error) {
	return b.carts.AddCartItem(ctx, input)
}

func (b *DatabaseBackend) UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*Cart, error) {
	return b.carts.UpdateCartItem(ctx, itemID, quantity)
}

func (b *DatabaseBackend) RemoveCartItem(ctx context.Context, itemID uuid.UUID) (*Cart, error) {
	return b.carts.RemoveCartItem(ctx, itemID)
}

func (b *DatabaseBackend) ClearCart(ctx context.Context) (*Cart, error) {
	return b.carts.ClearCart(ctx)
}

func (b *DatabaseBackend) ProductReviews(ctx context.Context, productID uuid.UUID) ([]Review, error) {
	return b.reviews.ProductReviews(ctx, productID)
}

func (b *DatabaseBackend) CreateReview(ctx context.Context, input CreateReviewInput) (*Review, error) {
	return b.reviews.CreateReview(ctx, input)
}
