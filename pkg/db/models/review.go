package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating for a product. The user id is always the
// authenticated account; it never comes from request input.
type Review struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx"`
	UserID             uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	User               *Profile  `gorm:"foreignKey:UserID"`
	Rating             int       `gorm:"column:rating;not null"`
	Title              *string   `gorm:"column:title"`
	Comment            *string   `gorm:"column:comment"`
	IsVerifiedPurchase bool      `gorm:"column:is_verified_purchase;not null;default:false"`
	HelpfulCount       int       `gorm:"column:helpful_count;not null;default:0"`
	UnhelpfulCount     int       `gorm:"column:unhelpful_count;not null;default:0"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
