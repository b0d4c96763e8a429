package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/cod31nvictus/selfky/models"
	"gorm.io/gorm"
)

// ReconciliationReport is what one repair pass found and did.
type ReconciliationReport struct {
	Checked      int      `json:"checked"`
	Repaired     int      `json:"repaired"`
	RepairedApps []string `json:"repaired_applications"`
	OrphanOrders []string `json:"orphan_orders"`
}

// needsRepair reports whether an application has drifted from a completed
// ledger row. Amount drift counts: the ledger is authoritative for what was
// actually captured.
func needsRepair(app *models.Application, p *models.Payment) bool {
	if app.PaymentStatus != models.PaymentCompleted {
		return true
	}
	if app.Status != models.StatusPaymentCompleted && app.Status != models.StatusAdmitCardGenerated {
		return true
	}
	return app.PaymentAmount != p.Amount
}

// RunReconciliation restores the invariant that every application referenced
// by a completed ledger row is itself marked completed. It is idempotent: a
// second consecutive run repairs nothing. Orphaned payments (completed rows
// whose application is gone) are reported for manual investigation, never
// auto-created. The pass is persisted as a ReconciliationRun.
func RunReconciliation(db *gorm.DB, triggeredBy string) (*ReconciliationReport, error) {
	startedAt := time.Now()
	report := &ReconciliationReport{}

	var completed []models.Payment
	if err := db.Where("status = ?", models.PaymentCompleted).Order("created_at").Find(&completed).Error; err != nil {
		return nil, err
	}

	for i := range completed {
		payment := &completed[i]
		report.Checked++

		var app models.Application
		err := db.Where("id = ?", payment.ApplicationID).First(&app).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("🔥 CONSISTENCY: completed payment %s references missing application %s", payment.RazorpayOrderID, payment.ApplicationID)
				report.OrphanOrders = append(report.OrphanOrders, payment.RazorpayOrderID)
				continue
			}
			return nil, err
		}

		if !needsRepair(&app, payment) {
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var fresh models.Application
			if err := tx.Where("id = ?", app.ID).First(&fresh).Error; err != nil {
				return err
			}
			if !fresh.ApplyLedgerCompletion(payment) {
				return nil
			}
			return tx.Save(&fresh).Error
		})
		if err != nil {
			return nil, err
		}

		log.Printf("Reconciliation repaired application %s from payment %s", app.ApplicationNumber, payment.RazorpayOrderID)
		report.Repaired++
		report.RepairedApps = append(report.RepairedApps, app.ApplicationNumber)
	}

	run := models.ReconciliationRun{
		TriggeredBy:   triggeredBy,
		CheckedCount:  report.Checked,
		RepairedCount: report.Repaired,
		OrphanCount:   len(report.OrphanOrders),
		OrphanOrders:  strings.Join(report.OrphanOrders, ","),
		StartedAt:     startedAt,
		FinishedAt:    time.Now(),
	}
	if err := db.Create(&run).Error; err != nil {
		log.Printf("🔥 Failed to persist reconciliation run: %v", err)
	}

	return report, nil
}

// isStalePending reports whether a ledger row is an abandoned attempt: still
// pending, and created before the cutoff. Rows in any other status are never
// swept, whatever their age.
func isStalePending(p *models.Payment, cutoff time.Time) bool {
	return p.Status == models.PaymentPending && p.CreatedAt.Before(cutoff)
}

// SweepStalePendingPayments cancels pending ledger rows older than the
// cutoff, covering orders abandoned client-side (modal dismissed, tab
// closed). The matching application summary is refreshed in the same
// transaction so the applicant can retry.
func SweepStalePendingPayments(db *gorm.DB, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	var stale []models.Payment
	if err := db.Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).Find(&stale).Error; err != nil {
		return 0, err
	}

	swept := 0
	for i := range stale {
		payment := &stale[i]
		if !isStalePending(payment, cutoff) {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			reason := "payment attempt expired"
			payment.Status = models.PaymentCancelled
			payment.ErrorMessage = &reason
			if err := tx.Save(payment).Error; err != nil {
				return err
			}

			var app models.Application
			if err := tx.Where("id = ?", payment.ApplicationID).First(&app).Error; err != nil {
				return err
			}
			if err := app.MarkPaymentCancelled(); err != nil {
				// A completed payment landed since; leave the application be.
				return nil
			}
			return tx.Save(&app).Error
		})
		if err != nil {
			return swept, err
		}
		swept++
	}

	return swept, nil
}
