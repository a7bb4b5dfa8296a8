package overtime

import "context"

type OvertimeRepository interface {
	Create(ctx context.Context, entry OvertimeEntry) (OvertimeEntry, error)
	GetByID(ctx context.Context, id string, companyID string) (OvertimeEntry, error)
	ListByEmployeePeriod(ctx context.Context, employeeID, periodID, companyID string, approvedOnly bool) ([]OvertimeEntry, error)
	// Update writes the full mutable field set; the service merges the
	// request into the loaded entry and recomputes line_total first.
	Update(ctx context.Context, entry OvertimeEntry) error
	Delete(ctx context.Context, id string, companyID string) error
}
