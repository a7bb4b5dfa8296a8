package period

import "time"

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
	PeriodStatusPaid   PeriodStatus = "PAID"
)

// CanTransitionTo reports whether the forward-only period lifecycle allows
// moving from s to next. No state is skipped and no transition reverses.
func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	switch s {
	case PeriodStatusOpen:
		return next == PeriodStatusClosed
	case PeriodStatusClosed:
		return next == PeriodStatusPaid
	default:
		return false
	}
}

// PayPeriod is a fixed date range over which employees are paid once.
// Immutable reference data once pay records exist against it.
type PayPeriod struct {
	ID        string
	CompanyID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	DayCount  int
	Status    PeriodStatus
	ClosedAt  *time.Time
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
