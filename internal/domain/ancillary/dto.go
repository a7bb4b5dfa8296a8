package ancillary

import (
	"github.com/nominacloud/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	EmployeeID  string          `json:"employee_id"`
	PeriodID    string          `json:"period_id"`
	Label       string          `json:"label"`
	Description *string         `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"` // "INCOME" or "DEDUCTION"
}

func (r *CreatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.PeriodID) {
		errs = append(errs, validator.ValidationError{Field: "period_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Label) {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if r.Type != string(PaymentTypeIncome) && r.Type != string(PaymentTypeDeduction) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'INCOME' or 'DEDUCTION'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePaymentRequest struct {
	ID          string
	Label       *string          `json:"label,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Approved    *bool            `json:"approved,omitempty"`
}

func (r *UpdatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Label != nil && validator.IsEmpty(*r.Label) {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "cannot be empty"})
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	PeriodID    string          `json:"period_id"`
	Label       string          `json:"label"`
	Description *string         `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Approved    bool            `json:"approved"`
}
