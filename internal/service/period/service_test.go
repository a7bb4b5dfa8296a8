package period

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/nominacloud/erp-backend-go/internal/domain/payroll"
	"github.com/nominacloud/erp-backend-go/internal/domain/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "company-1"

type fakePeriodRepo struct {
	periods map[string]period.PayPeriod
}

func (f *fakePeriodRepo) Create(_ context.Context, p period.PayPeriod) (period.PayPeriod, error) {
	p.ID = uuid.NewString()
	f.periods[p.ID] = p
	return p, nil
}

func (f *fakePeriodRepo) GetByID(_ context.Context, id string, companyID string) (period.PayPeriod, error) {
	p, ok := f.periods[id]
	if !ok || p.CompanyID != companyID {
		return period.PayPeriod{}, period.ErrPeriodNotFound
	}
	return p, nil
}

func (f *fakePeriodRepo) ListByCompanyID(_ context.Context, companyID string) ([]period.PayPeriod, error) {
	var out []period.PayPeriod
	for _, p := range f.periods {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePeriodRepo) SetStatus(_ context.Context, id string, companyID string, status period.PeriodStatus, at time.Time) error {
	p, ok := f.periods[id]
	if !ok {
		return period.ErrPeriodNotFound
	}
	p.Status = status
	switch status {
	case period.PeriodStatusClosed:
		p.ClosedAt = &at
	case period.PeriodStatusPaid:
		p.PaidAt = &at
	}
	f.periods[id] = p
	return nil
}

func (f *fakePeriodRepo) Delete(_ context.Context, id string, companyID string) error {
	delete(f.periods, id)
	return nil
}

// stubPayRecordRepo only answers ExistsForPeriod, the one pay-record check
// this service makes.
type stubPayRecordRepo struct {
	payroll.PayRecordRepository
	hasRecords bool
}

func (s *stubPayRecordRepo) ExistsForPeriod(_ context.Context, periodID string, companyID string) (bool, error) {
	return s.hasRecords, nil
}

func authedContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": testCompanyID,
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(hasRecords bool) (*PeriodService, *fakePeriodRepo) {
	repo := &fakePeriodRepo{periods: map[string]period.PayPeriod{}}
	return NewPeriodService(repo, &stubPayRecordRepo{hasRecords: hasRecords}), repo
}

func createPeriod(t *testing.T, svc *PeriodService, ctx context.Context) period.PeriodResponse {
	t.Helper()
	resp, err := svc.Create(ctx, period.CreatePeriodRequest{
		Name:      "2026-01 Q1",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-15",
		DayCount:  15,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateStartsOpen(t *testing.T) {
	svc, _ := newTestService(false)
	resp := createPeriod(t, svc, authedContext(t))
	assert.Equal(t, string(period.PeriodStatusOpen), resp.Status)
	assert.Nil(t, resp.ClosedAt)
}

func TestCreateRejectsReversedDates(t *testing.T) {
	svc, _ := newTestService(false)
	_, err := svc.Create(authedContext(t), period.CreatePeriodRequest{
		Name:      "broken",
		StartDate: "2026-01-15",
		EndDate:   "2026-01-01",
		DayCount:  15,
	})
	assert.Error(t, err)
}

func TestCloseThenMarkPaid(t *testing.T) {
	svc, _ := newTestService(false)
	ctx := authedContext(t)
	created := createPeriod(t, svc, ctx)

	closed, err := svc.Close(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(period.PeriodStatusClosed), closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	paid, err := svc.MarkPaid(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(period.PeriodStatusPaid), paid.Status)
	assert.NotNil(t, paid.PaidAt)
}

func TestMarkPaidRequiresClosed(t *testing.T) {
	svc, _ := newTestService(false)
	ctx := authedContext(t)
	created := createPeriod(t, svc, ctx)

	_, err := svc.MarkPaid(ctx, created.ID)
	assert.ErrorIs(t, err, period.ErrPeriodNotClosed)
}

func TestCloseTwiceFails(t *testing.T) {
	svc, _ := newTestService(false)
	ctx := authedContext(t)
	created := createPeriod(t, svc, ctx)

	_, err := svc.Close(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.Close(ctx, created.ID)
	assert.ErrorIs(t, err, period.ErrPeriodNotOpen)
}

func TestDeleteRejectedWhenRecordsExist(t *testing.T) {
	svc, _ := newTestService(true)
	ctx := authedContext(t)
	created := createPeriod(t, svc, ctx)

	err := svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, period.ErrPeriodHasRecords)
}

func TestDeleteEmptyPeriod(t *testing.T) {
	svc, repo := newTestService(false)
	ctx := authedContext(t)
	created := createPeriod(t, svc, ctx)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, repo.periods)
}
