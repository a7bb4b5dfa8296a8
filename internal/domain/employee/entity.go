package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the narrow read model the payroll core consumes. The employee
// master data module owns the full record.
type Employee struct {
	ID                         string
	CompanyID                  string
	FullName                   string
	MonthlySalary              decimal.Decimal
	TransportAllowanceEligible bool
	Active                     bool
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}
