package payroll

import (
	"time"

	"github.com/nominacloud/erp-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePayRecordRequest struct {
	PeriodID   string `json:"period_id"`
	EmployeeID string `json:"employee_id"`
}

func (r *CreatePayRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PeriodID) {
		errs = append(errs, validator.ValidationError{Field: "period_id", Message: "is required"})
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayRecordRequest struct {
	ID       string
	DaysPaid *int    `json:"days_paid,omitempty"`
	Note     *string `json:"note,omitempty"`
}

func (r *UpdatePayRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DaysPaid != nil && (*r.DaysPaid <= 0 || *r.DaysPaid > 31) {
		errs = append(errs, validator.ValidationError{Field: "days_paid", Message: "must be between 1 and 31"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveRequest struct {
	Note *string `json:"note,omitempty"`
}

type RecordFilter struct {
	PeriodID   *string
	EmployeeID *string
	Status     *string
	Page       int
	Limit      int
}

type LineItemResponse struct {
	ID          string          `json:"id"`
	ConceptID   string          `json:"concept_id"`
	ConceptCode *string         `json:"concept_code,omitempty"`
	ConceptName *string         `json:"concept_name,omitempty"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Note        *string         `json:"note,omitempty"`
}

type PayRecordResponse struct {
	ID              string             `json:"id"`
	PeriodID        string             `json:"period_id"`
	EmployeeID      string             `json:"employee_id"`
	EmployeeName    *string            `json:"employee_name,omitempty"`
	MonthlySalary   decimal.Decimal    `json:"monthly_salary"`
	HourlyRate      decimal.Decimal    `json:"hourly_rate"`
	DaysPaid        int                `json:"days_paid"`
	TotalEarnings   decimal.Decimal    `json:"total_earnings"`
	TotalDeductions decimal.Decimal    `json:"total_deductions"`
	NetPay          decimal.Decimal    `json:"net_pay"`
	Status          string             `json:"status"`
	Note            *string            `json:"note,omitempty"`
	ApprovedBy      *string            `json:"approved_by,omitempty"`
	ApprovedAt      *string            `json:"approved_at,omitempty"`
	PaidAt          *string            `json:"paid_at,omitempty"`
	LineItems       []LineItemResponse `json:"line_items,omitempty"`
}

type ListPayRecordsResponse struct {
	Data       []PayRecordResponse `json:"data"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// GenerateForPeriodResponse separates employees skipped because a record
// already exists from employees whose generation failed.
type GenerateForPeriodResponse struct {
	Created      []PayRecordResponse `json:"created"`
	SkippedCount int                 `json:"skipped_count"`
	FailedCount  int                 `json:"failed_count"`
}

type PeriodSummaryResponse struct {
	PeriodID        string          `json:"period_id"`
	TotalEmployees  int             `json:"total_employees"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`
	DraftCount      int             `json:"draft_count"`
	ApprovedCount   int             `json:"approved_count"`
	PaidCount       int             `json:"paid_count"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}

// MapToResponse converts a record (with whatever line items are loaded)
// into its API shape.
func MapToResponse(r PayRecord) PayRecordResponse {
	lines := make([]LineItemResponse, 0, len(r.LineItems))
	for _, l := range r.LineItems {
		lines = append(lines, LineItemResponse{
			ID:          l.ID,
			ConceptID:   l.ConceptID,
			ConceptCode: l.ConceptCode,
			ConceptName: l.ConceptName,
			Type:        string(l.Type),
			Quantity:    l.Quantity,
			UnitValue:   l.UnitValue,
			LineTotal:   l.LineTotal,
			Note:        l.Note,
		})
	}

	return PayRecordResponse{
		ID:              r.ID,
		PeriodID:        r.PeriodID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		MonthlySalary:   r.MonthlySalary,
		HourlyRate:      r.HourlyRate,
		DaysPaid:        r.DaysPaid,
		TotalEarnings:   r.TotalEarnings,
		TotalDeductions: r.TotalDeductions,
		NetPay:          r.NetPay,
		Status:          string(r.Status),
		Note:            r.Note,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      formatTimePtr(r.ApprovedAt),
		PaidAt:          formatTimePtr(r.PaidAt),
		LineItems:       lines,
	}
}
