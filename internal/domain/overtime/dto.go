package overtime

import (
	"github.com/nominacloud/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateOvertimeRequest struct {
	EmployeeID  string          `json:"employee_id"`
	PeriodID    string          `json:"period_id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Type        string          `json:"type"` // "DAY" or "HOLIDAY"
	Hours       decimal.Decimal `json:"hours"`
	HourlyValue decimal.Decimal `json:"hourly_value"`
}

func (r *CreateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.PeriodID) {
		errs = append(errs, validator.ValidationError{Field: "period_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid YYYY-MM-DD date"})
	}
	if r.Type != string(OvertimeTypeDay) && r.Type != string(OvertimeTypeHoliday) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'DAY' or 'HOLIDAY'"})
	}
	if !r.Hours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be positive"})
	}
	if !r.HourlyValue.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hourly_value", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateOvertimeRequest struct {
	ID          string
	Date        *string          `json:"date,omitempty"`
	Type        *string          `json:"type,omitempty"`
	Hours       *decimal.Decimal `json:"hours,omitempty"`
	HourlyValue *decimal.Decimal `json:"hourly_value,omitempty"`
	Approved    *bool            `json:"approved,omitempty"`
}

func (r *UpdateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid YYYY-MM-DD date"})
		}
	}
	if r.Type != nil && *r.Type != string(OvertimeTypeDay) && *r.Type != string(OvertimeTypeHoliday) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'DAY' or 'HOLIDAY'"})
	}
	if r.Hours != nil && !r.Hours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be positive"})
	}
	if r.HourlyValue != nil && !r.HourlyValue.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "hourly_value", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OvertimeResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	PeriodID    string          `json:"period_id"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Hours       decimal.Decimal `json:"hours"`
	HourlyValue decimal.Decimal `json:"hourly_value"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Approved    bool            `json:"approved"`
}
