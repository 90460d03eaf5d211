package storefront

import (
	"context"

	"github.com/google/uuid"

	"github.com/yaodigital/storefront-backend/pkg/config"
	"github.com/yaodigital/storefront-backend/pkg/logger"
)

// Mode identifies which backend answers facade calls. It is selected once at
// startup from configuration and never changes for the process lifetime.
type Mode string

const (
	ModeREST     Mode = "rest"
	ModeDatabase Mode = "database"
)

// ModeFor picks the backend mode: database credentials present means
// database mode, otherwise every call is proxied to the upstream REST API.
func ModeFor(cfg *config.Config) Mode {
	if cfg.DB.Configured() {
		return ModeDatabase
	}
	return ModeREST
}

// LogMode records the selected backend once at startup.
func LogMode(ctx context.Context, logg *logger.Logger, mode Mode) {
	ctx = logg.WithBackend(ctx, string(mode))
	logg.Info(ctx, "storefront backend selected")
}

// Backend is the capability interface behind the storefront facade. Both the
// REST proxy and the database implementation satisfy it; controllers only
// ever see this interface.
type Backend interface {
	Mode() Mode

	Categories(ctx context.Context) ([]Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*Category, error)

	Products(ctx context.Context, filter ProductFilter) ([]Product, error)
	ProductBySlug(ctx context.Context, slug string) (*Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]Product, error)
	ProductsByCategory(ctx context.Context) ([]CategoryProducts, error)

	Register(ctx context.Context, input RegisterInput) (*AuthSession, error)
	Login(ctx context.Context, input LoginInput) (*AuthSession, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context) (*User, error)

	DefaultWishlist(ctx context.Context) (*Wishlist, error)
	AddWishlistItem(ctx context.Context, productID uuid.UUID) (*Wishlist, error)
	RemoveWishlistItem(ctx context.Context, productID uuid.UUID) error
	WishlistProductIDs(ctx context.Context) ([]uuid.UUID, error)

	CurrentCart(ctx context.Context) (*Cart, error)
	AddCartItem(ctx context.Context, input AddCartItemInput) (*Cart, error)
	UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*Cart, error)
	RemoveCartItem(ctx context.Context, itemID uuid.UUID) (*Cart, error)
	ClearCart(ctx context.Context) (*Cart, error)

	ProductReviews(ctx context.Context, productID uuid.UUID) ([]Review, error)
	CreateReview(ctx context.Context, input CreateReviewInput) (*Review, error)
}
