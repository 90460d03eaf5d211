package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureOpen lazily creates the user's open cart. The insert is idempotent
// against the partial unique index on (user_id) WHERE status = 'open'.
func (r *Repository) EnsureOpen(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	err := r.db.WithContext(ctx).
		Exec(`INSERT INTO carts (user_id, status) VALUES (?, 'open')
              ON CONFLICT (user_id) WHERE status = 'open' DO NOTHING`, userID).
		Error
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	err = r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.order_index ASC")
		}).
		Preload("Items.Variant").
		Where("user_id = ? AND status = ?", userID, models.CartStatusOpen).
		Take(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindItem loads the cart line matching product and variant, if present.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error) {
	tx := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID)
	if variantID == nil {
		tx = tx.Where("variant_id IS NULL")
	} else {
		tx = tx.Where("variant_id = ?", *variantID)
	}

	var item models.CartItem
	if err := tx.Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetItemQuantity updates the quantity of one cart line, returning the
// number of rows touched so callers can distinguish a missing line.
func (r *Repository) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

// DeleteItem removes one cart line if it exists.
func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&models.CartItem{}).
		Error
}

// ClearItems removes every line from the cart.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).
		Error
}

// ProductByID loads one active product.
func (r *Repository) ProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", productID, true).
		Take(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// VariantByID loads one active variant belonging to the product.
func (r *Repository) VariantByID(ctx context.Context, variantID, productID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ? AND is_active = ?", variantID, productID, true).
		Take(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}
