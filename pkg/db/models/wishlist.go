package models

import (
	"time"

	"github.com/google/uuid"
)

// Wishlist is a named collection of liked products. Exactly one wishlist per
// user carries the default flag; a partial unique index on (user_id) WHERE
// is_default enforces that even under concurrent lazy creation.
type Wishlist struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index:wishlists_user_id_idx"`
	Name      string         `gorm:"column:name;not null"`
	IsDefault bool           `gorm:"column:is_default;not null;default:false"`
	Items     []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// WishlistItem links a wishlist to a liked product. A product appears at
// most once per wishlist.
type WishlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WishlistID uuid.UUID `gorm:"column:wishlist_id;type:uuid;not null;index:wishlist_items_wishlist_id_idx;uniqueIndex:wishlist_items_wishlist_product_key"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:wishlist_items_product_id_idx;uniqueIndex:wishlist_items_wishlist_product_key"`
	Product    *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
