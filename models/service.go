package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a named ordering channel ("Lunch", "Breakfast") with a daily
// recurring order window. OrderStartTime/CutoffTime are wall clock times in
// HH:MM form; empty means unset (window opens at midnight / never closes).
type Service struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	IsActive       bool      `gorm:"default:true" json:"isActive"`
	IsPublished    bool      `gorm:"default:false" json:"isPublished"`
	OrderStartTime string    `gorm:"type:varchar(5)" json:"orderStartTime"`
	CutoffTime     string    `gorm:"type:varchar(5)" json:"cutoffTime"`

	Packs []ServicePack `gorm:"foreignKey:ServiceID" json:"packs,omitempty"`

	gorm.Model `json:"-"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// ServicePack is the catalog of packs a service is allowed to offer.
type ServicePack struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_service_pack,priority:1;not null" json:"serviceId"`
	PackID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_service_pack,priority:2;not null" json:"packId"`

	gorm.Model `json:"-"`
}

func (p *ServicePack) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
