package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuStatus string

const (
	MenuDraft     MenuStatus = "DRAFT"
	MenuPublished MenuStatus = "PUBLISHED"
	MenuLocked    MenuStatus = "LOCKED"
)

// DailyMenu is the set of packs and variants orderable on one calendar date.
// At most one menu exists per date. PublishedAt is stamped on the first
// publish only; idempotent re-publishes leave it unchanged.
type DailyMenu struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Date        time.Time  `gorm:"type:date;uniqueIndex;not null" json:"date"`
	Status      MenuStatus `gorm:"type:varchar(12);default:'DRAFT';not null" json:"status"`
	PublishedAt *time.Time `json:"publishedAt"`

	Packs    []DailyMenuPack    `gorm:"foreignKey:DailyMenuID" json:"packs,omitempty"`
	Variants []DailyMenuVariant `gorm:"foreignKey:DailyMenuID" json:"variants,omitempty"`

	gorm.Model `json:"-"`
}

func (m *DailyMenu) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// DailyMenuPack joins a menu to a pack, denormalizing name and price at
// attach time for historical accuracy.
type DailyMenuPack struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DailyMenuID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_menu_pack,priority:1;not null" json:"dailyMenuId"`
	PackID      uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_menu_pack,priority:2;not null" json:"packId"`
	PackName    string    `gorm:"not null" json:"packName"`
	PackPrice   float64   `gorm:"type:decimal(10,2);not null" json:"packPrice"`

	gorm.Model `json:"-"`
}

func (p *DailyMenuPack) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// DailyMenuVariant is the per-day stock line for one variant. InitialStock is
// the ceiling for the day; Remaining is decremented by reservations. The
// catalog variant's stockQuantity is only a seed, this row is authoritative.
type DailyMenuVariant struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DailyMenuID  uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_menu_variant,priority:1;not null" json:"dailyMenuId"`
	VariantID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_menu_variant,priority:2;not null" json:"variantId"`
	VariantName  string    `gorm:"not null" json:"variantName"`
	InitialStock int       `gorm:"not null" json:"initialStock"`
	Remaining    int       `gorm:"not null" json:"remaining"`

	gorm.Model `json:"-"`
}

func (v *DailyMenuVariant) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

// Consumed is how many units have been reserved against this line.
func (v *DailyMenuVariant) Consumed() int {
	return v.InitialStock - v.Remaining
}
