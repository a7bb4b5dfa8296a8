package employee

import "context"

// EmployeeRepository is the read-only view over the employee master data.
// All methods are companyID-scoped to prevent cross-company access.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
}
