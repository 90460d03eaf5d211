package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the canonical storefront listing.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    *uuid.UUID       `gorm:"column:category_id;type:uuid;index:products_category_id_idx"`
	Category      *Category        `gorm:"foreignKey:CategoryID"`
	Name          string           `gorm:"column:name;not null"`
	Slug          string           `gorm:"column:slug;not null;uniqueIndex:products_slug_key"`
	Description   *string          `gorm:"column:description"`
	Brand         *string          `gorm:"column:brand"`
	SKU           *string          `gorm:"column:sku"`
	Tags          pq.StringArray   `gorm:"column:tags;type:text[]"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	ComparePrice  *decimal.Decimal `gorm:"column:compare_price;type:numeric(12,2)"`
	Image         *string          `gorm:"column:image"`
	Image2        *string          `gorm:"column:image_2"`
	Image3        *string          `gorm:"column:image_3"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0"`
	InStock       bool             `gorm:"column:in_stock;not null;default:true"`
	IsFeatured    bool             `gorm:"column:is_featured;not null;default:false"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	AverageRating float64          `gorm:"column:average_rating;type:numeric(3,2);not null;default:0"`
	ReviewCount   int              `gorm:"column:review_count;not null;default:0"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants      []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews       []Review         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage is an additional gallery image beyond the inline slots.
type ProductImage struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:product_images_product_id_idx"`
	Image      string    `gorm:"column:image;not null"`
	OrderIndex int       `gorm:"column:order_index;not null;default:0"`
	IsPrimary  bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProductVariant is a selectable option of a product (size, color, pack).
type ProductVariant struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index:product_variants_product_id_idx"`
	Name            string           `gorm:"column:name;not null"`
	Value           string           `gorm:"column:value;not null"`
	PriceAdjustment *decimal.Decimal `gorm:"column:price_adjustment;type:numeric(12,2)"`
	StockQuantity   int              `gorm:"column:stock_quantity;not null;default:0"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
}
