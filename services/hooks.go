package services

import (
	"log"

	"github.com/CSteenkamp/shuttle-booking-sub001/models"
	"gorm.io/gorm"
)

// Hook is a best-effort side effect fired after the core transaction
// commits (audit rows, websocket events, calendar sync, email). A hook
// that panics or fails is logged and never affects the committed result.
type Hook func() error

type hookList struct {
	hooks []Hook
}

func (h *hookList) add(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// run executes the collected hooks in order. Only called once the
// transaction has committed.
func (h *hookList) run() {
	for _, hook := range h.hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[HOOK] Post-commit hook panicked: %v", r)
				}
			}()
			if err := hook(); err != nil {
				log.Printf("[HOOK] Post-commit hook failed: %v", err)
			}
		}()
	}
}

// CalendarSync pushes a reservation to an external calendar. The real
// provider integration lives outside this service; failures are logged
// and ignored.
type CalendarSync interface {
	SyncReservation(reservation *models.Reservation) error
}

// EmailDispatcher sends booking confirmations. Best-effort.
type EmailDispatcher interface {
	SendReservationConfirmation(userID uint, reservation *models.Reservation) error
}

type noopCalendarSync struct{}

func (noopCalendarSync) SyncReservation(reservation *models.Reservation) error {
	log.Printf("[CALENDAR] Sync requested for reservation %d", reservation.ID)
	return nil
}

type noopEmailDispatcher struct{}

func (noopEmailDispatcher) SendReservationConfirmation(userID uint, reservation *models.Reservation) error {
	log.Printf("[EMAIL] Confirmation queued for user %d, reservation %d", userID, reservation.ID)
	return nil
}

// AuditService appends audit rows. Write failures are swallowed by the
// hook runner; audit must never break the primary operation.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(userID uint, action, entity string, entityID uint, details string) error {
	entry := models.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	return s.db.Create(&entry).Error
}
