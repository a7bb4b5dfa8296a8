package parameter

import (
	"time"

	"github.com/shopspring/decimal"
)

// Well-known parameter codes the payroll engine resolves.
const (
	CodeMonthlyLaborHours  = "HORAS_LABORALES_MES"
	CodeTransportAllowance = "AUX_TRANSPORTE"
)

// Built-in fallback values used when a company has no stored parameter for
// the requested year.
const (
	DefaultMonthlyLaborHours  = 240
	DefaultTransportAllowance = 162000
)

// Parameter is a company-scoped, year-scoped configuration value. Values
// never carry over between years; each year must be seeded explicitly or the
// built-in default applies.
type Parameter struct {
	ID        string
	CompanyID string
	Code      string
	Year      int
	Value     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
