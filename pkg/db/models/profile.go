package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the account row backing storefront authentication. The public
// display name lives here next to the credentials.
type Profile struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email;not null;uniqueIndex:profiles_email_key"`
	Username     string     `gorm:"column:username;not null;uniqueIndex:profiles_username_key"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    *string    `gorm:"column:first_name"`
	LastName     *string    `gorm:"column:last_name"`
	Phone        *string    `gorm:"column:phone"`
	Avatar       *string    `gorm:"column:avatar"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
