package models

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationRun is the persisted report of one ledger-to-application
// repair pass, kept for operator review.
type ReconciliationRun struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TriggeredBy string    `gorm:"size:20;not null" json:"triggered_by"`

	CheckedCount  int    `gorm:"not null" json:"checked_count"`
	RepairedCount int    `gorm:"not null" json:"repaired_count"`
	OrphanCount   int    `gorm:"not null" json:"orphan_count"`
	OrphanOrders  string `gorm:"type:text" json:"orphan_orders"`

	StartedAt  time.Time `gorm:"not null" json:"started_at"`
	FinishedAt time.Time `gorm:"not null" json:"finished_at"`
}
