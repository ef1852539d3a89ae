package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Business is a client company whose employees order through subscribed
// services. LogoURL and ContactInfo are carried opaque.
type Business struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	LogoURL     string         `json:"logoUrl"`
	ContactInfo datatypes.JSON `gorm:"type:jsonb" json:"contactInfo"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`

	Services []BusinessService `gorm:"foreignKey:BusinessID" json:"services,omitempty"`

	gorm.Model `json:"-"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// BusinessService marks a business's subscription to a service. Deactivation
// clears IsActive but keeps the row; reactivation goes through a fresh
// activate call.
type BusinessService struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_business_service,priority:1;not null" json:"businessId"`
	ServiceID  uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_business_service,priority:2;not null" json:"serviceId"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`

	Pack *BusinessServicePack `gorm:"foreignKey:BusinessServiceID" json:"pack,omitempty"`

	gorm.Model `json:"-"`
}

func (s *BusinessService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// BusinessServicePack is the entitlement record: which single pack the
// business receives under this service, plus an optional scheduled switch.
// NextPackID and EffectiveDate are one unit: both set while a switch is
// pending, both nil otherwise. Mutate them only through SchedulePackSwitch,
// ClearPendingSwitch and ApplyPendingSwitch.
type BusinessServicePack struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessServiceID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"businessServiceId"`
	PackID            uuid.UUID `gorm:"type:uuid;index;not null" json:"packId"`
	IsActive          bool      `gorm:"default:true" json:"isActive"`

	NextPackID    *uuid.UUID `gorm:"type:uuid" json:"nextPackId"`
	EffectiveDate *time.Time `gorm:"type:date" json:"effectiveDate"`

	gorm.Model `json:"-"`
}

func (p *BusinessServicePack) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// PendingSwitch reports the scheduled change, if one exists.
func (p *BusinessServicePack) PendingSwitch() (next uuid.UUID, effective time.Time, ok bool) {
	if p.NextPackID == nil || p.EffectiveDate == nil {
		return uuid.Nil, time.Time{}, false
	}
	return *p.NextPackID, *p.EffectiveDate, true
}

// SchedulePackSwitch records or replaces the pending switch.
func (p *BusinessServicePack) SchedulePackSwitch(next uuid.UUID, effective time.Time) {
	p.NextPackID = &next
	p.EffectiveDate = &effective
}

// ClearPendingSwitch drops the pending switch without touching the active pack.
func (p *BusinessServicePack) ClearPendingSwitch() {
	p.NextPackID = nil
	p.EffectiveDate = nil
}

// ApplyPendingSwitch promotes the scheduled pack to active and clears the
// pending fields. Returns false when no switch is pending.
func (p *BusinessServicePack) ApplyPendingSwitch() bool {
	next, _, ok := p.PendingSwitch()
	if !ok {
		return false
	}
	p.PackID = next
	p.ClearPendingSwitch()
	return true
}
