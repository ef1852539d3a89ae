package models

import (
	"time"

	"caterdesk-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User exists so the auth middleware has something to resolve claims against.
// Account provisioning and session issuance live in the identity service.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`

	Role       string     `gorm:"type:varchar(20);not null" json:"role"` // 'admin', 'business_admin' or 'employee'
	BusinessID *uuid.UUID `gorm:"type:uuid;index" json:"businessId"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	gorm.Model `json:"-"`
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
