package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayRecordRepository defines data access for pay records and their owned
// line items. All methods include companyID to prevent cross-company data
// access.
type PayRecordRepository interface {
	Create(ctx context.Context, record PayRecord) (PayRecord, error)
	GetByID(ctx context.Context, id string, companyID string) (PayRecord, error)
	// GetByIDForUpdate locks the record row for the lifetime of the
	// surrounding transaction, serializing concurrent recalculations.
	GetByIDForUpdate(ctx context.Context, id string, companyID string) (PayRecord, error)
	GetByEmployeePeriod(ctx context.Context, employeeID, periodID, companyID string) (PayRecord, error)
	List(ctx context.Context, companyID string, filter RecordFilter) ([]PayRecord, int64, error)
	GetLineItems(ctx context.Context, recordID string) ([]PayLineItem, error)
	// ReplaceLineItems deletes every line item of the record and inserts the
	// given set. Must run inside the caller's transaction.
	ReplaceLineItems(ctx context.Context, recordID string, lines []PayLineItem) ([]PayLineItem, error)
	// UpdateTotals writes the recalculated header figures.
	UpdateTotals(ctx context.Context, id string, companyID string, hourlyRate, earnings, deductions, net decimal.Decimal) error
	Approve(ctx context.Context, id string, companyID string, approverID string, note *string, at time.Time) error
	MarkPaid(ctx context.Context, id string, companyID string, at time.Time) error
	Update(ctx context.Context, companyID string, req UpdatePayRecordRequest) error
	Delete(ctx context.Context, id string, companyID string) error
	ExistsForPeriod(ctx context.Context, periodID string, companyID string) (bool, error)
	GetPeriodSummary(ctx context.Context, periodID string, companyID string) (PeriodSummaryResponse, error)
}
