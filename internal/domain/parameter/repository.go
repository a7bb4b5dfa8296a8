package parameter

import "context"

type ParameterRepository interface {
	Get(ctx context.Context, code string, companyID string, year int) (Parameter, error)
	Upsert(ctx context.Context, param Parameter) (Parameter, error)
	ListByCompanyYear(ctx context.Context, companyID string, year int) ([]Parameter, error)
}
