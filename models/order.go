package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "PLACED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is one employee meal order against a published daily menu. Pack name
// and price are denormalized at placement so a later pack switch or catalog
// edit cannot misattribute it.
type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID      uuid.UUID   `gorm:"type:uuid;index;not null" json:"businessId"`
	UserID          uuid.UUID   `gorm:"type:uuid;index;not null" json:"userId"`
	ServiceID       uuid.UUID   `gorm:"type:uuid;index;not null" json:"serviceId"`
	DailyMenuID     uuid.UUID   `gorm:"type:uuid;index;not null" json:"dailyMenuId"`
	DailyMenuPackID uuid.UUID   `gorm:"type:uuid;index;not null" json:"dailyMenuPackId"`
	PackID          uuid.UUID   `gorm:"type:uuid;index;not null" json:"packId"`
	PackName        string      `gorm:"not null" json:"packName"`
	PackPrice       float64     `gorm:"type:decimal(10,2);not null" json:"packPrice"`
	Status          OrderStatus `gorm:"type:varchar(12);default:'PLACED';not null" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	gorm.Model `json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// OrderItem is one chosen variant within the order's pack.
type OrderItem struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID            uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	DailyMenuVariantID uuid.UUID `gorm:"type:uuid;index;not null" json:"dailyMenuVariantId"`
	VariantID          uuid.UUID `gorm:"type:uuid;index;not null" json:"variantId"`
	ComponentID        uuid.UUID `gorm:"type:uuid;index;not null" json:"componentId"`
	VariantName        string    `gorm:"not null" json:"variantName"`
	Quantity           int       `gorm:"default:1" json:"quantity"`

	gorm.Model `json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
