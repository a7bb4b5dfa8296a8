package concept

import (
	"github.com/nominacloud/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var validSubtypes = []string{
	string(SubtypeBasic), string(SubtypeOvertimeDay), string(SubtypeOvertimeHoliday),
	string(SubtypeTransportAllowance), string(SubtypeHealthDeduction),
	string(SubtypePensionDeduction), string(SubtypeOther),
}

type CreateConceptRequest struct {
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Type       string           `json:"type"` // "DEVENGADO" or "DEDUCCION"
	Subtype    *string          `json:"subtype,omitempty"`
	Formula    *string          `json:"formula,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

func (r *CreateConceptRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidConceptCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be 2-20 uppercase letters, digits or underscores"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.Type != string(ConceptTypeEarning) && r.Type != string(ConceptTypeDeduction) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'DEVENGADO' or 'DEDUCCION'"})
	}
	if r.Subtype != nil && !validator.IsInSlice(*r.Subtype, validSubtypes) {
		errs = append(errs, validator.ValidationError{Field: "subtype", Message: "is not a known subtype"})
	}
	if r.Percentage != nil && (r.Percentage.IsNegative() || r.Percentage.GreaterThan(decimal.NewFromInt(100))) {
		errs = append(errs, validator.ValidationError{Field: "percentage", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateConceptRequest struct {
	ID         string
	Name       *string          `json:"name,omitempty"`
	Formula    *string          `json:"formula,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	IsActive   *bool            `json:"is_active,omitempty"`
}

func (r *UpdateConceptRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "cannot be empty"})
	}
	if r.Percentage != nil && (r.Percentage.IsNegative() || r.Percentage.GreaterThan(decimal.NewFromInt(100))) {
		errs = append(errs, validator.ValidationError{Field: "percentage", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ConceptResponse struct {
	ID         string           `json:"id"`
	CompanyID  string           `json:"company_id"`
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Subtype    *string          `json:"subtype,omitempty"`
	Formula    *string          `json:"formula,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	IsActive   bool             `json:"is_active"`
}
