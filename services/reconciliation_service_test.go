package services

import (
	"testing"
	"time"

	"github.com/cod31nvictus/selfky/models"
)

func completedLedgerRow(amount int) *models.Payment {
	paymentID := "pay_test"
	return &models.Payment{
		RazorpayOrderID:   "order_test",
		RazorpayPaymentID: &paymentID,
		Amount:            amount,
		Status:            models.PaymentCompleted,
		UpdatedAt:         time.Now(),
	}
}

func TestNeedsRepair(t *testing.T) {
	tests := []struct {
		name          string
		status        models.ApplicationStatus
		paymentStatus models.PaymentStatus
		amount        int
		want          bool
	}{
		{"aligned completed", models.StatusPaymentCompleted, models.PaymentCompleted, 1200, false},
		{"aligned after issuance", models.StatusAdmitCardGenerated, models.PaymentCompleted, 1200, false},
		{"stuck in submitted", models.StatusSubmitted, models.PaymentPending, 1200, true},
		{"stuck in payment_pending", models.StatusPaymentPending, models.PaymentPending, 1200, true},
		{"status completed but mirror pending", models.StatusPaymentCompleted, models.PaymentPending, 1200, true},
		{"mirror completed but status submitted", models.StatusSubmitted, models.PaymentCompleted, 1200, true},
		{"amount drift", models.StatusPaymentCompleted, models.PaymentCompleted, 0, true},
	}

	ledger := completedLedgerRow(1200)
	for _, tt := range tests {
		app := &models.Application{
			Status:        tt.status,
			PaymentStatus: tt.paymentStatus,
			PaymentAmount: tt.amount,
		}
		if got := needsRepair(app, ledger); got != tt.want {
			t.Errorf("%s: needsRepair = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsStalePendingOnlySelectsOldPendingRows(t *testing.T) {
	cutoff := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	old := cutoff.Add(-time.Hour)
	fresh := cutoff.Add(time.Hour)

	tests := []struct {
		name      string
		status    models.PaymentStatus
		createdAt time.Time
		want      bool
	}{
		{"pending older than cutoff", models.PaymentPending, old, true},
		{"pending newer than cutoff", models.PaymentPending, fresh, false},
		{"pending exactly at cutoff", models.PaymentPending, cutoff, false},
		{"completed older than cutoff", models.PaymentCompleted, old, false},
		{"failed older than cutoff", models.PaymentFailed, old, false},
		{"cancelled older than cutoff", models.PaymentCancelled, old, false},
	}

	for _, tt := range tests {
		p := &models.Payment{Status: tt.status, CreatedAt: tt.createdAt}
		if got := isStalePending(p, cutoff); got != tt.want {
			t.Errorf("%s: isStalePending = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRepairThenRecheckIsIdempotent(t *testing.T) {
	ledger := completedLedgerRow(1500)
	app := &models.Application{
		Status:        models.StatusSubmitted,
		PaymentStatus: models.PaymentPending,
		PaymentAmount: 1500,
	}

	if !needsRepair(app, ledger) {
		t.Fatal("drifted application not flagged")
	}
	if !app.ApplyLedgerCompletion(ledger) {
		t.Fatal("repair made no change")
	}
	if needsRepair(app, ledger) {
		t.Fatal("application still flagged after repair")
	}
	if app.ApplyLedgerCompletion(ledger) {
		t.Fatal("second repair pass changed state")
	}
}
