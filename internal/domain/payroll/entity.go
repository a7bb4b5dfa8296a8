package payroll

import (
	"time"

	"github.com/nominacloud/erp-backend-go/internal/domain/concept"
	"github.com/shopspring/decimal"
)

// RecordStatus enum
type RecordStatus string

const (
	RecordStatusDraft    RecordStatus = "BORRADOR"
	RecordStatusApproved RecordStatus = "APROBADO"
	RecordStatusPaid     RecordStatus = "PAGADO"
)

// CanTransitionTo reports whether the forward-only record lifecycle allows
// moving from s to next. No state is skipped and no transition reverses.
func (s RecordStatus) CanTransitionTo(next RecordStatus) bool {
	switch s {
	case RecordStatusDraft:
		return next == RecordStatusApproved
	case RecordStatusApproved:
		return next == RecordStatusPaid
	default:
		return false
	}
}

// PayRecord is one employee's payroll computation for one period. At most
// one record exists per (period, employee). Totals are always the sum of
// the owned line items; they are never edited independently.
type PayRecord struct {
	ID              string
	CompanyID       string
	PeriodID        string
	EmployeeID      string
	MonthlySalary   decimal.Decimal // captured at creation, immutable
	HourlyRate      decimal.Decimal
	DaysPaid        int
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	Status          RecordStatus
	Note            *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	PaidAt          *time.Time
	CreatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	LineItems []PayLineItem

	// Joined fields
	EmployeeName *string
}

// PayLineItem is one earning or deduction component of a pay record. Line
// items are owned by the record: every recalculation deletes the previous
// set and inserts the new one.
type PayLineItem struct {
	ID          string
	PayRecordID string
	ConceptID   string
	Type        concept.ConceptType
	Quantity    decimal.Decimal
	UnitValue   decimal.Decimal
	LineTotal   decimal.Decimal
	Note        *string

	// Joined fields
	ConceptCode *string
	ConceptName *string
}
