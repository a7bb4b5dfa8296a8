package ancillary

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType enum
type PaymentType string

const (
	PaymentTypeIncome    PaymentType = "INCOME"
	PaymentTypeDeduction PaymentType = "DEDUCTION"
)

// AncillaryPayment is a free-form, pre-valued ledger entry (bonuses, loans,
// reimbursements) attached to an employee and period.
type AncillaryPayment struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	PeriodID    string
	Label       string
	Description *string
	Amount      decimal.Decimal
	Type        PaymentType
	Approved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
