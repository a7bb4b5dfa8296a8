package parameter

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Resolver answers parameter lookups with the stored company value for the
// year, falling back to the built-in default when none exists.
type Resolver struct {
	repo ParameterRepository
}

func NewResolver(repo ParameterRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the stored value for (code, companyID, year) or the given
// fallback when the parameter is absent. Any other repository error is
// returned as-is.
func (r *Resolver) Resolve(ctx context.Context, code string, companyID string, year int, fallback decimal.Decimal) (decimal.Decimal, error) {
	p, err := r.repo.Get(ctx, code, companyID, year)
	if err != nil {
		if errors.Is(err, ErrParameterNotFound) {
			return fallback, nil
		}
		return decimal.Zero, fmt.Errorf("failed to resolve parameter %s: %w", code, err)
	}
	return p.Value, nil
}

func (r *Resolver) MonthlyLaborHours(ctx context.Context, companyID string, year int) (decimal.Decimal, error) {
	return r.Resolve(ctx, CodeMonthlyLaborHours, companyID, year, decimal.NewFromInt(DefaultMonthlyLaborHours))
}

func (r *Resolver) TransportAllowance(ctx context.Context, companyID string, year int) (decimal.Decimal, error) {
	return r.Resolve(ctx, CodeTransportAllowance, companyID, year, decimal.NewFromInt(DefaultTransportAllowance))
}
