package models

import "time"

// AuditLog records booking, refund and settlement actions. Writes are
// best-effort; failures never break the primary operation.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Action    string    `json:"action" gorm:"not null"` // "reservation_created", "refund_issued", ...
	Entity    string    `json:"entity"`
	EntityID  uint      `json:"entity_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
