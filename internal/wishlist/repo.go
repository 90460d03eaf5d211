package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/pkg/db/models"
)

const defaultWishlistName = "My Wishlist"

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureDefault lazily creates the user's default wishlist. The insert is
// idempotent against the partial unique index on (user_id) WHERE is_default,
// so concurrent first reads converge on a single row.
func (r *Repository) EnsureDefault(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	err := r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlists (user_id, name, is_default) VALUES (?, ?, TRUE)
              ON CONFLICT (user_id) WHERE is_default DO NOTHING`, userID, defaultWishlistName).
		Error
	if err != nil {
		return nil, err
	}

	var wishlist models.Wishlist
	err = r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("wishlist_items.created_at DESC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.order_index ASC")
		}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Take(&wishlist).Error
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, wishlistID, productID uuid.UUID) error {
	if wishlistID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (wishlist_id, product_id) VALUES (?, ?)
              ON CONFLICT (wishlist_id, product_id) DO NOTHING`, wishlistID, productID).
		Error
}

// RemoveItem deletes the entry if it exists. Removing an absent entry is a
// no-op.
func (r *Repository) RemoveItem(ctx context.Context, wishlistID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListProductIDs returns the liked product ids, newest first.
func (r *Repository) ListProductIDs(ctx context.Context, wishlistID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("wishlist_id = ?", wishlistID).
		Order("created_at DESC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ProductExists reports whether an active product with the id exists.
func (r *Repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ?", productID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
