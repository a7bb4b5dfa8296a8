package period

import (
	"context"
	"time"
)

type PeriodRepository interface {
	Create(ctx context.Context, p PayPeriod) (PayPeriod, error)
	GetByID(ctx context.Context, id string, companyID string) (PayPeriod, error)
	ListByCompanyID(ctx context.Context, companyID string) ([]PayPeriod, error)
	// SetStatus records a lifecycle transition together with its timestamp
	// (closed_at for CLOSED, paid_at for PAID).
	SetStatus(ctx context.Context, id string, companyID string, status PeriodStatus, at time.Time) error
	Delete(ctx context.Context, id string, companyID string) error
}
