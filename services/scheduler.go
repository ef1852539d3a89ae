// services/scheduler.go
package services

import (
	"log"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler runs the background jobs: promoting scheduled pack switches whose
// effective date has elapsed, and locking published menus once their
// governing cutoff has passed. Both are safe to run alongside request
// handlers; the same checks are enforced transactionally on each request.
type Scheduler struct {
	db    *gorm.DB
	clock utils.Clock
	menus *MenuService
	subs  *SubscriptionService
	cron  *cron.Cron
}

func NewScheduler(db *gorm.DB, clock utils.Clock, menus *MenuService, subs *SubscriptionService) *Scheduler {
	return &Scheduler{
		db:    db,
		clock: clock,
		menus: menus,
		subs:  subs,
		cron:  cron.New(),
	}
}

func (s *Scheduler) Start() {
	// Run every 5 minutes
	s.cron.AddFunc("*/5 * * * *", s.RunSweep)

	s.cron.Start()
	log.Println("Order window scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) RunSweep() {
	if applied, err := s.subs.ApplyDueSwitches(); err != nil {
		log.Printf("Pack switch sweep failed: %v", err)
	} else if applied > 0 {
		log.Printf("Applied %d scheduled pack switches", applied)
	}

	s.AutoLockDueMenus()
}

// AutoLockDueMenus locks every published menu whose governing cutoff is in
// the past. Menus still inside their window report TooEarly and are skipped.
// A menu offered only by services without a cutoff has a window that never
// closes; it is left alone on its own day (the admin locks it manually) and
// swept only once the date is past.
func (s *Scheduler) AutoLockDueMenus() {
	today := utils.BeginningOfDay(s.clock.Now().UTC())

	var menus []models.DailyMenu
	err := s.db.Where("status = ? AND date <= ?", models.MenuPublished, today).Find(&menus).Error
	if err != nil {
		log.Printf("Auto-lock scan failed: %v", err)
		return
	}

	for _, menu := range menus {
		if !menu.Date.Before(today) {
			if _, ok, err := s.menus.governingCutoff(&menu); err != nil {
				log.Printf("Auto-lock cutoff check for menu %s failed: %v", menu.ID, err)
				continue
			} else if !ok {
				continue
			}
		}
		if _, err := s.menus.Lock(menu.ID); err != nil {
			if utils.KindOf(err) == utils.KindTooEarly {
				continue
			}
			log.Printf("Auto-lock of menu %s failed: %v", menu.ID, err)
			continue
		}
		log.Printf("Auto-locked menu for %s", menu.Date.Format(utils.DateLayout))
	}
}
