// services/subscription_service.go
package services

import (
	"errors"
	"time"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionService owns which single pack a business receives under a
// subscribed service, including switches scheduled for a future date. A
// pending switch is a passive date comparison applied lazily on reads and
// writes touching the subscription, plus a periodic sweep; there is no timer.
type SubscriptionService struct {
	db    *gorm.DB
	clock utils.Clock
}

func NewSubscriptionService(db *gorm.DB, clock utils.Clock) *SubscriptionService {
	return &SubscriptionService{db: db, clock: clock}
}

// Activate subscribes the business to the service with exactly one initial
// pack. A previously deactivated subscription is revived in place so history
// is kept on one row.
func (s *SubscriptionService) Activate(businessID, serviceID, packID uuid.UUID) (*models.BusinessService, error) {
	var business models.Business
	if err := s.db.First(&business, "id = ?", businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("business not found")
		}
		return nil, err
	}

	var service models.Service
	if err := s.db.First(&service, "id = ?", serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("service not found")
		}
		return nil, err
	}

	if err := s.requireInCatalog(s.db, serviceID, packID); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var sub models.BusinessService
	err := tx.Preload("Pack").
		Where("business_id = ? AND service_id = ?", businessID, serviceID).First(&sub).Error
	switch {
	case err == nil:
		if sub.IsActive {
			tx.Rollback()
			return nil, utils.Conflict("service %q is already active for this business", service.Name)
		}
		sub.IsActive = true
		if err := tx.Save(&sub).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if sub.Pack == nil {
			sub.Pack = &models.BusinessServicePack{BusinessServiceID: sub.ID}
		}
		sub.Pack.PackID = packID
		sub.Pack.IsActive = true
		sub.Pack.ClearPendingSwitch()
		if err := tx.Save(sub.Pack).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.BusinessService{BusinessID: businessID, ServiceID: serviceID, IsActive: true}
		if err := tx.Create(&sub).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		entitlement := models.BusinessServicePack{
			BusinessServiceID: sub.ID,
			PackID:            packID,
			IsActive:          true,
		}
		if err := tx.Create(&entitlement).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		sub.Pack = &entitlement
	default:
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Get returns the subscription after applying any due scheduled switch.
func (s *SubscriptionService) Get(businessID, serviceID uuid.UUID) (*models.BusinessService, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	sub, err := s.loadActiveTx(tx, businessID, serviceID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// ChangePack schedules a switch to a different pack. The switch never
// replaces the active pack immediately: already-placed orders and invoicing
// are pack-identity-sensitive, so the change takes effect at the next date
// boundary after the current day's cutoff, or at a caller-supplied future
// date. An existing pending switch is replaced.
func (s *SubscriptionService) ChangePack(businessID, serviceID, newPackID uuid.UUID, requested *time.Time) (*models.BusinessService, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	sub, err := s.loadActiveTx(tx, businessID, serviceID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.requireInCatalog(tx, serviceID, newPackID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if sub.Pack.PackID == newPackID {
		tx.Rollback()
		return nil, utils.InvalidArgument("pack is already active for this subscription")
	}

	today := utils.BeginningOfDay(s.clock.Now().UTC())
	effective := today.AddDate(0, 0, 1)
	if requested != nil {
		wanted := utils.BeginningOfDay(requested.UTC())
		if !wanted.After(today) {
			tx.Rollback()
			return nil, utils.InvalidArgument("effective date must be in the future")
		}
		effective = wanted
	}

	sub.Pack.SchedulePackSwitch(newPackID, effective)
	if err := tx.Save(sub.Pack).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelScheduledChange clears a pending switch without touching the active
// pack.
func (s *SubscriptionService) CancelScheduledChange(businessID, serviceID uuid.UUID) (*models.BusinessService, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	sub, err := s.loadActiveTx(tx, businessID, serviceID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, _, ok := sub.Pack.PendingSwitch(); !ok {
		tx.Rollback()
		return nil, utils.NotFound("no scheduled pack change to cancel")
	}

	sub.Pack.ClearPendingSwitch()
	if err := tx.Save(sub.Pack).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Deactivate ends the subscription without deleting history. Reactivation
// requires a fresh Activate call choosing a pack again.
func (s *SubscriptionService) Deactivate(businessID, serviceID uuid.UUID) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	sub, err := s.loadActiveTx(tx, businessID, serviceID)
	if err != nil {
		tx.Rollback()
		return err
	}

	sub.IsActive = false
	if err := tx.Save(sub).Error; err != nil {
		tx.Rollback()
		return err
	}
	sub.Pack.IsActive = false
	sub.Pack.ClearPendingSwitch()
	if err := tx.Save(sub.Pack).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ActivePackIDTx resolves the pack the business is entitled to right now,
// applying a due scheduled switch first. Order placement calls this inside
// its own transaction so an order resolves against exactly one pack identity.
func (s *SubscriptionService) ActivePackIDTx(tx *gorm.DB, businessID, serviceID uuid.UUID) (uuid.UUID, error) {
	sub, err := s.loadActiveTx(tx, businessID, serviceID)
	if err != nil {
		return uuid.Nil, err
	}
	return sub.Pack.PackID, nil
}

// ApplyDueSwitches is the periodic sweep: every pending switch whose
// effective date has elapsed is promoted. Returns how many were applied.
func (s *SubscriptionService) ApplyDueSwitches() (int, error) {
	today := utils.BeginningOfDay(s.clock.Now().UTC())

	var due []models.BusinessServicePack
	err := s.db.Where("next_pack_id IS NOT NULL AND effective_date <= ? AND is_active = ?", today, true).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	applied := 0
	for i := range due {
		ok, err := s.promoteSwitch(&due[i])
		if err != nil {
			return applied, err
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}

// promoteSwitch applies one due switch as a conditional update keyed on the
// pending fields as observed, so a ChangePack landing between the scan and
// the promotion is not clobbered.
func (s *SubscriptionService) promoteSwitch(entitlement *models.BusinessServicePack) (bool, error) {
	next, effective, ok := entitlement.PendingSwitch()
	if !ok {
		return false, nil
	}
	res := s.db.Model(&models.BusinessServicePack{}).
		Where("id = ? AND next_pack_id = ? AND effective_date = ?", entitlement.ID, next, effective).
		Updates(map[string]interface{}{
			"pack_id":        next,
			"next_pack_id":   nil,
			"effective_date": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// loadActiveTx loads the active subscription and applies a due pending switch
// in the same transaction.
func (s *SubscriptionService) loadActiveTx(tx *gorm.DB, businessID, serviceID uuid.UUID) (*models.BusinessService, error) {
	var sub models.BusinessService
	err := tx.Preload("Pack").
		Where("business_id = ? AND service_id = ? AND is_active = ?", businessID, serviceID, true).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("no active subscription for this business and service")
	}
	if err != nil {
		return nil, err
	}
	if sub.Pack == nil {
		return nil, utils.NotFound("subscription has no entitlement record")
	}

	if _, effective, ok := sub.Pack.PendingSwitch(); ok {
		today := utils.BeginningOfDay(s.clock.Now().UTC())
		if !effective.After(today) {
			sub.Pack.ApplyPendingSwitch()
			if err := tx.Save(sub.Pack).Error; err != nil {
				return nil, err
			}
		}
	}
	return &sub, nil
}

func (s *SubscriptionService) requireInCatalog(tx *gorm.DB, serviceID, packID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.ServicePack{}).
		Where("service_id = ? AND pack_id = ?", serviceID, packID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.InvalidArgument("pack is not in this service's catalog")
	}
	return nil
}
