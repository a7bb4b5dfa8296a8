package response

import (
	"errors"
	"net/http"

	"github.com/nominacloud/erp-backend-go/internal/domain/ancillary"
	"github.com/nominacloud/erp-backend-go/internal/domain/concept"
	"github.com/nominacloud/erp-backend-go/internal/domain/employee"
	"github.com/nominacloud/erp-backend-go/internal/domain/overtime"
	"github.com/nominacloud/erp-backend-go/internal/domain/parameter"
	"github.com/nominacloud/erp-backend-go/internal/domain/payroll"
	"github.com/nominacloud/erp-backend-go/internal/domain/period"
	"github.com/nominacloud/erp-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Period domain errors
	case errors.Is(err, period.ErrPeriodNotFound):
		NotFound(w, "Pay period not found")
	case errors.Is(err, period.ErrPeriodNotOpen):
		Conflict(w, "Pay period is not open")
	case errors.Is(err, period.ErrPeriodNotClosed):
		Conflict(w, "Pay period must be closed first")
	case errors.Is(err, period.ErrPeriodHasRecords):
		Conflict(w, "Pay period has payroll records and cannot be deleted")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayRecordExists):
		Conflict(w, "Payroll record already exists for this employee and period")
	case errors.Is(err, payroll.ErrPayRecordNotDraft):
		Conflict(w, "Payroll record is no longer a draft")
	case errors.Is(err, payroll.ErrPayRecordNotApproved):
		Conflict(w, "Payroll record is not approved")
	case errors.Is(err, payroll.ErrEmployeeNotActive):
		Conflict(w, "Employee is not active")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Concept domain errors
	case errors.Is(err, concept.ErrConceptNotFound):
		NotFound(w, "Pay concept not found")
	case errors.Is(err, concept.ErrConceptCodeExists):
		Conflict(w, "Pay concept code already exists")

	// Ledger domain errors
	case errors.Is(err, overtime.ErrOvertimeEntryNotFound):
		NotFound(w, "Overtime entry not found")
	case errors.Is(err, ancillary.ErrPaymentNotFound):
		NotFound(w, "Ancillary payment not found")

	// Parameter domain errors
	case errors.Is(err, parameter.ErrParameterNotFound):
		NotFound(w, "Parameter not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
