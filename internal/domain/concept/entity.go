package concept

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConceptType enum
type ConceptType string

const (
	ConceptTypeEarning   ConceptType = "DEVENGADO"
	ConceptTypeDeduction ConceptType = "DEDUCCION"
)

// ConceptSubtype marks concepts the calculation engine treats specially.
type ConceptSubtype string

const (
	SubtypeBasic              ConceptSubtype = "BASIC"
	SubtypeOvertimeDay        ConceptSubtype = "OVERTIME_DAY"
	SubtypeOvertimeHoliday    ConceptSubtype = "OVERTIME_HOLIDAY"
	SubtypeTransportAllowance ConceptSubtype = "TRANSPORT_ALLOWANCE"
	SubtypeHealthDeduction    ConceptSubtype = "HEALTH_DEDUCTION"
	SubtypePensionDeduction   ConceptSubtype = "PENSION_DEDUCTION"
	SubtypeOther              ConceptSubtype = "OTHER"
)

// PayConcept is a catalog entry describing one category of earning or
// deduction. Formula is informational only; the engine keys off Subtype and
// Percentage.
type PayConcept struct {
	ID         string
	CompanyID  string
	Code       string
	Name       string
	Type       ConceptType
	Subtype    *ConceptSubtype
	Formula    *string
	Percentage *decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FindBySubtype returns the first active concept of the given type and
// subtype, or nil.
func FindBySubtype(concepts []PayConcept, t ConceptType, s ConceptSubtype) *PayConcept {
	for i := range concepts {
		c := &concepts[i]
		if c.IsActive && c.Type == t && c.Subtype != nil && *c.Subtype == s {
			return c
		}
	}
	return nil
}
