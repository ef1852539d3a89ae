package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pack is a priced bundle of components. Name and price are denormalized
// onto daily menus at attach time, so later catalog edits never rewrite
// history.
type Pack struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`

	Components []Component `gorm:"foreignKey:PackID" json:"components,omitempty"`

	gorm.Model `json:"-"`
}

func (p *Pack) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// Component is a named slot within a pack, filled by exactly one variant per
// order. Required components drive the publish-time warnings.
type Component struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PackID     uuid.UUID `gorm:"type:uuid;index;not null" json:"packId"`
	Name       string    `gorm:"not null" json:"name"`
	IsRequired bool      `gorm:"default:true" json:"isRequired"`

	Variants []Variant `gorm:"foreignKey:ComponentID" json:"variants,omitempty"`

	gorm.Model `json:"-"`
}

func (c *Component) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Variant is a concrete choice within a component. StockQuantity is the
// catalog-level default: it seeds a daily menu line on first attach and is
// never decremented by orders once a menu line exists.
type Variant struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ComponentID   uuid.UUID `gorm:"type:uuid;index;not null" json:"componentId"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description"`
	PhotoURL      string    `json:"photoUrl"`
	StockQuantity int       `gorm:"default:0" json:"stockQuantity"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`

	gorm.Model `json:"-"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
