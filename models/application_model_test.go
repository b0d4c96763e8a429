package models

import (
	"errors"
	"testing"
	"time"
)

func appInStatus(status ApplicationStatus) *Application {
	return &Application{
		ApplicationNumber: "BPH26A00001",
		CourseType:        CourseBPharm,
		Category:          CategoryGeneral,
		PaymentStatus:     PaymentPending,
		PaymentAmount:     1200,
		Status:            status,
	}
}

func isPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

func TestTransitionToPaymentPending(t *testing.T) {
	tests := []struct {
		from    ApplicationStatus
		wantErr bool
	}{
		{StatusDraft, true},
		{StatusSubmitted, false},
		{StatusPaymentPending, false},
		{StatusPaymentCompleted, true},
		{StatusAdmitCardGenerated, true},
	}

	for _, tt := range tests {
		app := appInStatus(tt.from)
		err := app.TransitionToPaymentPending()
		if tt.wantErr {
			if !isPrecondition(err) {
				t.Errorf("from %s: want PreconditionError, got %v", tt.from, err)
			}
			if app.Status != tt.from {
				t.Errorf("from %s: status changed to %s on rejected transition", tt.from, app.Status)
			}
			continue
		}
		if err != nil {
			t.Errorf("from %s: unexpected error %v", tt.from, err)
		}
		if app.Status != StatusPaymentPending {
			t.Errorf("from %s: status = %s, want payment_pending", tt.from, app.Status)
		}
	}
}

func TestTransitionToPaymentPendingIsIdempotent(t *testing.T) {
	app := appInStatus(StatusSubmitted)
	for i := 0; i < 3; i++ {
		if err := app.TransitionToPaymentPending(); err != nil {
			t.Fatalf("call %d: unexpected error %v", i+1, err)
		}
	}
	if app.Status != StatusPaymentPending {
		t.Fatalf("status = %s, want payment_pending", app.Status)
	}
}

func TestMarkPaymentCompleted(t *testing.T) {
	paidAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	app := appInStatus(StatusPaymentPending)
	if err := app.MarkPaymentCompleted("pay_123", paidAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != StatusPaymentCompleted {
		t.Errorf("status = %s, want payment_completed", app.Status)
	}
	if app.PaymentStatus != PaymentCompleted {
		t.Errorf("payment status = %s, want completed", app.PaymentStatus)
	}
	if app.TransactionID == nil || *app.TransactionID != "pay_123" {
		t.Errorf("transaction id not stamped")
	}
	if app.PaymentDate == nil || !app.PaymentDate.Equal(paidAt) {
		t.Errorf("payment date not stamped")
	}
}

func TestMarkPaymentCompletedCoversCrashBeforeStatusWrite(t *testing.T) {
	// A crash between order creation and the payment_pending write leaves the
	// application in submitted; completion must still land.
	app := appInStatus(StatusSubmitted)
	if err := app.MarkPaymentCompleted("pay_crash", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != StatusPaymentCompleted {
		t.Errorf("status = %s, want payment_completed", app.Status)
	}
}

func TestMarkPaymentCompletedFromDraftFails(t *testing.T) {
	app := appInStatus(StatusDraft)
	if err := app.MarkPaymentCompleted("pay_x", time.Now()); !isPrecondition(err) {
		t.Fatalf("want PreconditionError, got %v", err)
	}
}

func TestMarkPaymentFailedRevertsToPaymentPending(t *testing.T) {
	app := appInStatus(StatusPaymentPending)
	if err := app.MarkPaymentFailed(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != StatusPaymentPending {
		t.Errorf("status = %s, want payment_pending for retry", app.Status)
	}
	if app.PaymentStatus != PaymentFailed {
		t.Errorf("payment status = %s, want failed", app.PaymentStatus)
	}
}

func TestMarkPaymentFailedRejectedAfterCompletion(t *testing.T) {
	app := appInStatus(StatusPaymentCompleted)
	app.PaymentStatus = PaymentCompleted
	if err := app.MarkPaymentFailed(); !isPrecondition(err) {
		t.Fatalf("want PreconditionError, got %v", err)
	}
	if app.PaymentStatus != PaymentCompleted {
		t.Errorf("completed payment mirror overwritten")
	}
}

func TestMarkPaymentCancelledAllowsRetry(t *testing.T) {
	app := appInStatus(StatusPaymentPending)
	if err := app.MarkPaymentCancelled(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != StatusPaymentPending || app.PaymentStatus != PaymentCancelled {
		t.Fatalf("got status=%s payment=%s, want payment_pending/cancelled", app.Status, app.PaymentStatus)
	}
	if err := app.TransitionToPaymentPending(); err != nil {
		t.Fatalf("retry after cancellation rejected: %v", err)
	}
}

func TestIssueAdmitCardRequiresCompletedPayment(t *testing.T) {
	for _, status := range []ApplicationStatus{StatusDraft, StatusSubmitted, StatusPaymentPending} {
		app := appInStatus(status)
		err := app.IssueAdmitCard("SLF26A00001", "15 July 2026", "10:00 AM", "Block A")
		if !isPrecondition(err) {
			t.Errorf("from %s: want PreconditionError, got %v", status, err)
		}
		if app.RollNumber != nil {
			t.Errorf("from %s: roll number stamped on rejected issuance", status)
		}
	}
}

func TestIssueAdmitCardIsTerminalAndIdempotent(t *testing.T) {
	app := appInStatus(StatusPaymentCompleted)
	app.PaymentStatus = PaymentCompleted

	if err := app.IssueAdmitCard("SLF26A00001", "15 July 2026", "10:00 AM", "Block A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != StatusAdmitCardGenerated {
		t.Fatalf("status = %s, want admit_card_generated", app.Status)
	}

	// Second issuance with different data is a no-op.
	if err := app.IssueAdmitCard("SLF99Z99999", "different", "different", "different"); err != nil {
		t.Fatalf("re-issue returned error: %v", err)
	}
	if *app.RollNumber != "SLF26A00001" {
		t.Fatalf("re-issue overwrote roll number: %s", *app.RollNumber)
	}

	// No transition leaves the terminal state.
	if err := app.TransitionToPaymentPending(); !isPrecondition(err) {
		t.Fatalf("terminal state left via TransitionToPaymentPending: %v", err)
	}
}

func TestApplyLedgerCompletion(t *testing.T) {
	paymentID := "pay_ledger"
	ledger := &Payment{
		RazorpayOrderID:   "order_ledger",
		RazorpayPaymentID: &paymentID,
		Amount:            1200,
		Status:            PaymentCompleted,
		UpdatedAt:         time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC),
	}

	// Simulated crash mid-flow: ledger says completed, application stuck in
	// submitted.
	app := appInStatus(StatusSubmitted)
	if !app.ApplyLedgerCompletion(ledger) {
		t.Fatal("drifted application reported as aligned")
	}
	if app.Status != StatusPaymentCompleted || app.PaymentStatus != PaymentCompleted {
		t.Fatalf("got status=%s payment=%s after repair", app.Status, app.PaymentStatus)
	}
	if app.PaymentAmount != 1200 {
		t.Fatalf("amount not copied from ledger: %d", app.PaymentAmount)
	}

	// Idempotent: a second pass changes nothing.
	if app.ApplyLedgerCompletion(ledger) {
		t.Fatal("aligned application repaired again")
	}
}

func TestApplyLedgerCompletionPreservesTerminalState(t *testing.T) {
	paymentID := "pay_term"
	ledger := &Payment{RazorpayPaymentID: &paymentID, Amount: 1200, Status: PaymentCompleted}

	app := appInStatus(StatusAdmitCardGenerated)
	app.PaymentStatus = PaymentFailed // drifted mirror
	if !app.ApplyLedgerCompletion(ledger) {
		t.Fatal("drifted mirror reported as aligned")
	}
	if app.Status != StatusAdmitCardGenerated {
		t.Fatalf("repair regressed terminal status to %s", app.Status)
	}
	if app.PaymentStatus != PaymentCompleted {
		t.Fatalf("mirror not repaired: %s", app.PaymentStatus)
	}
}
