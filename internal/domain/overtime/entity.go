package overtime

import (
	"time"

	"github.com/shopspring/decimal"
)

// OvertimeType enum
type OvertimeType string

const (
	OvertimeTypeDay     OvertimeType = "DAY"
	OvertimeTypeHoliday OvertimeType = "HOLIDAY"
)

// OvertimeEntry is a pre-valued ledger entry. The calculation engine takes
// HourlyValue and LineTotal as stored; it never reprices them.
type OvertimeEntry struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	PeriodID    string
	Date        time.Time
	Type        OvertimeType
	Hours       decimal.Decimal
	HourlyValue decimal.Decimal
	LineTotal   decimal.Decimal
	Approved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
