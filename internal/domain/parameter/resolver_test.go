package parameter

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	stored map[string]Parameter
	err    error
}

func (s *stubRepo) Get(_ context.Context, code string, companyID string, year int) (Parameter, error) {
	if s.err != nil {
		return Parameter{}, s.err
	}
	p, ok := s.stored[code]
	if !ok {
		return Parameter{}, ErrParameterNotFound
	}
	return p, nil
}

func (s *stubRepo) Upsert(_ context.Context, param Parameter) (Parameter, error) {
	return param, nil
}

func (s *stubRepo) ListByCompanyYear(_ context.Context, companyID string, year int) ([]Parameter, error) {
	return nil, nil
}

func TestResolveReturnsStoredValue(t *testing.T) {
	repo := &stubRepo{stored: map[string]Parameter{
		CodeMonthlyLaborHours: {Code: CodeMonthlyLaborHours, Value: decimal.NewFromInt(220)},
	}}
	r := NewResolver(repo)

	got, err := r.MonthlyLaborHours(context.Background(), "company-1", 2026)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(220)))
}

func TestResolveFallsBackWhenAbsent(t *testing.T) {
	r := NewResolver(&stubRepo{stored: map[string]Parameter{}})

	hours, err := r.MonthlyLaborHours(context.Background(), "company-1", 2026)
	require.NoError(t, err)
	assert.True(t, hours.Equal(decimal.NewFromInt(DefaultMonthlyLaborHours)))

	allowance, err := r.TransportAllowance(context.Background(), "company-1", 2026)
	require.NoError(t, err)
	assert.True(t, allowance.Equal(decimal.NewFromInt(DefaultTransportAllowance)))
}

func TestResolvePropagatesRepositoryError(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewResolver(&stubRepo{err: boom})

	_, err := r.MonthlyLaborHours(context.Background(), "company-1", 2026)
	assert.ErrorIs(t, err, boom)
}
