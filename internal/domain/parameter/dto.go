package parameter

import (
	"github.com/nominacloud/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpsertParameterRequest struct {
	Code  string          `json:"code"`
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
}

func (r *UpsertParameterRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidConceptCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be 2-20 uppercase letters, digits or underscores"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a valid year"})
	}
	if r.Value.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ParameterResponse struct {
	ID    string          `json:"id"`
	Code  string          `json:"code"`
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
}
