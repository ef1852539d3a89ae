// services/window.go
package services

import (
	"time"

	"caterdesk-backend/models"
	"caterdesk-backend/utils"
)

// WindowState is the resolver verdict for a service's order window on one
// calendar date. Closed is permanent for that date once reached.
type WindowState string

const (
	WindowNotYetOpen WindowState = "NOT_YET_OPEN"
	WindowOpen       WindowState = "OPEN"
	WindowClosed     WindowState = "CLOSED"
)

// ResolveWindow is a pure function of the service's configured window and
// "now". An unset orderStartTime opens the window at the start of the day; an
// unset cutoffTime means the window never closes and an admin must lock the
// menu manually. This resolver, not any display countdown, is the authority
// for rejecting orders.
func ResolveWindow(svc *models.Service, date time.Time, now time.Time) WindowState {
	opensAt, hasStart := utils.AtClockTime(date, svc.OrderStartTime)
	if !hasStart {
		opensAt = utils.BeginningOfDay(date)
	}
	if now.Before(opensAt) {
		return WindowNotYetOpen
	}
	if closesAt, hasCutoff := utils.AtClockTime(date, svc.CutoffTime); hasCutoff && !now.Before(closesAt) {
		return WindowClosed
	}
	return WindowOpen
}

// Countdown reports the time remaining until the service's cutoff on the
// given date, clamped at zero, for UI display. The second return is false
// when the service has no cutoff configured.
func Countdown(svc *models.Service, date time.Time, now time.Time) (time.Duration, bool) {
	closesAt, hasCutoff := utils.AtClockTime(date, svc.CutoffTime)
	if !hasCutoff {
		return 0, false
	}
	remaining := closesAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}
