package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseType string

const (
	CourseBPharm CourseType = "bpharm"
	CourseMPharm CourseType = "mpharm"
)

type Category string

const (
	CategoryGeneral Category = "General"
	CategoryOBC     Category = "OBC"
	CategoryEWS     Category = "EWS"
	CategorySC      Category = "SC"
	CategoryST      Category = "ST"
	CategoryPWD     Category = "PWD"
)

type ApplicationStatus string

const (
	StatusDraft              ApplicationStatus = "draft"
	StatusSubmitted          ApplicationStatus = "submitted"
	StatusPaymentPending     ApplicationStatus = "payment_pending"
	StatusPaymentCompleted   ApplicationStatus = "payment_completed"
	StatusAdmitCardGenerated ApplicationStatus = "admit_card_generated"
)

// Application is one applicant's submission for one course. Status is the
// authoritative lifecycle state; the Payment* fields are a read-fast mirror
// of the payments ledger and are only written inside the same transaction as
// a ledger row, or by reconciliation.
type Application struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationNumber string     `gorm:"size:20;not null;unique" json:"application_number"`
	UserID            uuid.UUID  `gorm:"not null;index" json:"user_id"`
	CourseType        CourseType `gorm:"size:10;not null" json:"course_type"`

	FullName    string    `gorm:"size:255;not null" json:"full_name"`
	FathersName string    `gorm:"size:255;not null" json:"fathers_name"`
	Category    Category  `gorm:"size:10;not null" json:"category"`
	DateOfBirth time.Time `gorm:"not null" json:"date_of_birth"`

	PhotoKey     string `gorm:"size:255;not null" json:"photo_key"`
	SignatureKey string `gorm:"size:255;not null" json:"signature_key"`

	PaymentStatus PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	PaymentAmount int           `gorm:"not null" json:"payment_amount"`
	TransactionID *string       `gorm:"size:64" json:"transaction_id"`
	PaymentDate   *time.Time    `json:"payment_date"`

	RollNumber   *string `gorm:"size:20;unique" json:"roll_number"`
	ExamDate     *string `gorm:"size:32" json:"exam_date"`
	ExamTime     *string `gorm:"size:32" json:"exam_time"`
	ExamCenter   *string `gorm:"size:255" json:"exam_center"`
	AdmitCardURL *string `gorm:"size:255" json:"admit_card_url"`

	Status ApplicationStatus `gorm:"size:30;not null;default:'submitted'" json:"status"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransitionToPaymentPending moves the application into payment_pending when
// a gateway order is created. Re-entering the state (a retry after a failed
// or cancelled attempt) is a no-op, not an error.
func (a *Application) TransitionToPaymentPending() error {
	switch a.Status {
	case StatusSubmitted, StatusPaymentPending:
		a.Status = StatusPaymentPending
		return nil
	default:
		return NewPreconditionError("cannot create a payment order for application %s in status %s", a.ApplicationNumber, a.Status)
	}
}

// MarkPaymentCompleted records a captured payment. It is the only path that
// sets status and the payment mirror to completed together. The submitted
// case covers a crash between order creation and the status write.
func (a *Application) MarkPaymentCompleted(transactionID string, paidAt time.Time) error {
	if a.Status == StatusPaymentCompleted || a.Status == StatusAdmitCardGenerated {
		if a.PaymentStatus == PaymentCompleted {
			return nil
		}
	} else if a.Status != StatusPaymentPending && a.Status != StatusSubmitted {
		return NewPreconditionError("cannot complete payment for application %s in status %s", a.ApplicationNumber, a.Status)
	}
	a.PaymentStatus = PaymentCompleted
	a.TransactionID = &transactionID
	a.PaymentDate = &paidAt
	if a.Status != StatusAdmitCardGenerated {
		a.Status = StatusPaymentCompleted
	}
	return nil
}

// MarkPaymentFailed records a failed attempt. The failure reason lives on
// the ledger row; the application stays in payment_pending so the applicant
// can retry. It never falls back to draft.
func (a *Application) MarkPaymentFailed() error {
	if a.PaymentStatus == PaymentCompleted {
		return NewPreconditionError("application %s already has a completed payment", a.ApplicationNumber)
	}
	if a.Status != StatusPaymentPending && a.Status != StatusSubmitted {
		return NewPreconditionError("cannot fail payment for application %s in status %s", a.ApplicationNumber, a.Status)
	}
	a.PaymentStatus = PaymentFailed
	a.Status = StatusPaymentPending
	return nil
}

// MarkPaymentCancelled records a user-aborted or expired attempt.
func (a *Application) MarkPaymentCancelled() error {
	if a.PaymentStatus == PaymentCompleted {
		return NewPreconditionError("application %s already has a completed payment", a.ApplicationNumber)
	}
	if a.Status != StatusPaymentPending && a.Status != StatusSubmitted {
		return NewPreconditionError("cannot cancel payment for application %s in status %s", a.ApplicationNumber, a.Status)
	}
	a.PaymentStatus = PaymentCancelled
	a.Status = StatusPaymentPending
	return nil
}

// IssueAdmitCard stamps the exam metadata and moves the application into its
// terminal state. Issuing again once generated is a no-op.
func (a *Application) IssueAdmitCard(rollNumber, examDate, examTime, examCenter string) error {
	if a.Status == StatusAdmitCardGenerated {
		return nil
	}
	if a.Status != StatusPaymentCompleted {
		return NewPreconditionError("admit card requires a completed payment; application %s is %s", a.ApplicationNumber, a.Status)
	}
	a.RollNumber = &rollNumber
	a.ExamDate = &examDate
	a.ExamTime = &examTime
	a.ExamCenter = &examCenter
	a.Status = StatusAdmitCardGenerated
	return nil
}

// ApplyLedgerCompletion aligns the application with a completed ledger row.
// The ledger is authoritative: amount and date are copied from it, never the
// reverse. Returns true when anything changed; an already-aligned application
// (including one past admit-card issuance) is untouched, which is what makes
// reconciliation idempotent.
func (a *Application) ApplyLedgerCompletion(p *Payment) bool {
	aligned := a.PaymentStatus == PaymentCompleted &&
		(a.Status == StatusPaymentCompleted || a.Status == StatusAdmitCardGenerated) &&
		a.PaymentAmount == p.Amount
	if aligned {
		return false
	}
	a.PaymentStatus = PaymentCompleted
	a.PaymentAmount = p.Amount
	if p.RazorpayPaymentID != nil {
		a.TransactionID = p.RazorpayPaymentID
	}
	paidAt := p.UpdatedAt
	a.PaymentDate = &paidAt
	if a.Status != StatusAdmitCardGenerated {
		a.Status = StatusPaymentCompleted
	}
	return true
}

func IsValidCourseType(c CourseType) bool {
	return c == CourseBPharm || c == CourseMPharm
}

func IsValidCategory(c Category) bool {
	switch c {
	case CategoryGeneral, CategoryOBC, CategoryEWS, CategorySC, CategoryST, CategoryPWD:
		return true
	}
	return false
}
