package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/nominacloud/erp-backend-go/internal/config"
	"github.com/nominacloud/erp-backend-go/internal/domain/ancillary"
	"github.com/nominacloud/erp-backend-go/internal/domain/concept"
	"github.com/nominacloud/erp-backend-go/internal/domain/employee"
	"github.com/nominacloud/erp-backend-go/internal/domain/overtime"
	"github.com/nominacloud/erp-backend-go/internal/domain/parameter"
	"github.com/nominacloud/erp-backend-go/internal/domain/payroll"
	"github.com/nominacloud/erp-backend-go/internal/domain/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "company-1"
	testUserID    = "user-1"
)

// fakeTxManager runs the function directly; the fakes below have no
// transactional state to protect.
type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePayRecordRepo struct {
	records map[string]payroll.PayRecord
	lines   map[string][]payroll.PayLineItem
}

func newFakePayRecordRepo() *fakePayRecordRepo {
	return &fakePayRecordRepo{
		records: make(map[string]payroll.PayRecord),
		lines:   make(map[string][]payroll.PayLineItem),
	}
}

func (f *fakePayRecordRepo) Create(_ context.Context, record payroll.PayRecord) (payroll.PayRecord, error) {
	for _, r := range f.records {
		if r.EmployeeID == record.EmployeeID && r.PeriodID == record.PeriodID {
			return payroll.PayRecord{}, payroll.ErrPayRecordExists
		}
	}
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now()
	f.records[record.ID] = record
	return record, nil
}

func (f *fakePayRecordRepo) GetByID(_ context.Context, id string, companyID string) (payroll.PayRecord, error) {
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return payroll.PayRecord{}, payroll.ErrPayRecordNotFound
	}
	return r, nil
}

func (f *fakePayRecordRepo) GetByIDForUpdate(ctx context.Context, id string, companyID string) (payroll.PayRecord, error) {
	return f.GetByID(ctx, id, companyID)
}

func (f *fakePayRecordRepo) GetByEmployeePeriod(_ context.Context, employeeID, periodID, companyID string) (payroll.PayRecord, error) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.PeriodID == periodID && r.CompanyID == companyID {
			return r, nil
		}
	}
	return payroll.PayRecord{}, payroll.ErrPayRecordNotFound
}

func (f *fakePayRecordRepo) List(_ context.Context, companyID string, filter payroll.RecordFilter) ([]payroll.PayRecord, int64, error) {
	var out []payroll.PayRecord
	for _, r := range f.records {
		if r.CompanyID != companyID {
			continue
		}
		if filter.PeriodID != nil && r.PeriodID != *filter.PeriodID {
			continue
		}
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(r.Status) != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakePayRecordRepo) GetLineItems(_ context.Context, recordID string) ([]payroll.PayLineItem, error) {
	return f.lines[recordID], nil
}

func (f *fakePayRecordRepo) ReplaceLineItems(_ context.Context, recordID string, lines []payroll.PayLineItem) ([]payroll.PayLineItem, error) {
	stored := make([]payroll.PayLineItem, 0, len(lines))
	for _, l := range lines {
		l.ID = uuid.NewString()
		l.PayRecordID = recordID
		stored = append(stored, l)
	}
	f.lines[recordID] = stored
	return stored, nil
}

func (f *fakePayRecordRepo) UpdateTotals(_ context.Context, id string, companyID string, hourlyRate, earnings, deductions, net decimal.Decimal) error {
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return payroll.ErrPayRecordNotFound
	}
	r.HourlyRate = hourlyRate
	r.TotalEarnings = earnings
	r.TotalDeductions = deductions
	r.NetPay = net
	f.records[id] = r
	return nil
}

func (f *fakePayRecordRepo) Approve(_ context.Context, id string, companyID string, approverID string, note *string, at time.Time) error {
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return payroll.ErrPayRecordNotFound
	}
	r.Status = payroll.RecordStatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &at
	if note != nil {
		r.Note = note
	}
	f.records[id] = r
	return nil
}

func (f *fakePayRecordRepo) MarkPaid(_ context.Context, id string, companyID string, at time.Time) error {
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return payroll.ErrPayRecordNotFound
	}
	r.Status = payroll.RecordStatusPaid
	r.PaidAt = &at
	f.records[id] = r
	return nil
}

func (f *fakePayRecordRepo) Update(_ context.Context, companyID string, req payroll.UpdatePayRecordRequest) error {
	r, ok := f.records[req.ID]
	if !ok || r.CompanyID != companyID {
		return payroll.ErrPayRecordNotFound
	}
	if req.DaysPaid != nil {
		r.DaysPaid = *req.DaysPaid
	}
	if req.Note != nil {
		r.Note = req.Note
	}
	f.records[req.ID] = r
	return nil
}

func (f *fakePayRecordRepo) Delete(_ context.Context, id string, companyID string) error {
	r, ok := f.records[id]
	if !ok || r.CompanyID != companyID {
		return payroll.ErrPayRecordNotFound
	}
	delete(f.records, id)
	delete(f.lines, id)
	return nil
}

func (f *fakePayRecordRepo) ExistsForPeriod(_ context.Context, periodID string, companyID string) (bool, error) {
	for _, r := range f.records {
		if r.PeriodID == periodID && r.CompanyID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayRecordRepo) GetPeriodSummary(_ context.Context, periodID string, companyID string) (payroll.PeriodSummaryResponse, error) {
	summary := payroll.PeriodSummaryResponse{
		PeriodID:        periodID,
		TotalEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNetPay:     decimal.Zero,
	}
	for _, r := range f.records {
		if r.PeriodID != periodID || r.CompanyID != companyID {
			continue
		}
		summary.TotalEmployees++
		summary.TotalEarnings = summary.TotalEarnings.Add(r.TotalEarnings)
		summary.TotalDeductions = summary.TotalDeductions.Add(r.TotalDeductions)
		summary.TotalNetPay = summary.TotalNetPay.Add(r.NetPay)
		switch r.Status {
		case payroll.RecordStatusDraft:
			summary.DraftCount++
		case payroll.RecordStatusApproved:
			summary.ApprovedCount++
		case payroll.RecordStatusPaid:
			summary.PaidCount++
		}
	}
	return summary, nil
}

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
	if !ok || p.CompanyID != companyID {
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

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	active    []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]employee.Employee, error) {
	return f.active, nil
}

type fakeConceptRepo struct {
	concepts []concept.PayConcept
}

func (f *fakeConceptRepo) Create(_ context.Context, c concept.PayConcept) (concept.PayConcept, error) {
	c.ID = uuid.NewString()
	f.concepts = append(f.concepts, c)
	return c, nil
}

func (f *fakeConceptRepo) GetByID(_ context.Context, id string, companyID string) (concept.PayConcept, error) {
	for _, c := range f.concepts {
		if c.ID == id && c.CompanyID == companyID {
			return c, nil
		}
	}
	return concept.PayConcept{}, concept.ErrConceptNotFound
}

func (f *fakeConceptRepo) ListByCompanyID(_ context.Context, companyID string, activeOnly bool) ([]concept.PayConcept, error) {
	var out []concept.PayConcept
	for _, c := range f.concepts {
		if c.CompanyID != companyID {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeConceptRepo) Update(_ context.Context, companyID string, req concept.UpdateConceptRequest) error {
	return nil
}

func (f *fakeConceptRepo) Delete(_ context.Context, id string, companyID string) error {
	return nil
}

type fakeOvertimeRepo struct {
	entries []overtime.OvertimeEntry
}

func (f *fakeOvertimeRepo) Create(_ context.Context, e overtime.OvertimeEntry) (overtime.OvertimeEntry, error) {
	e.ID = uuid.NewString()
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeOvertimeRepo) GetByID(_ context.Context, id string, companyID string) (overtime.OvertimeEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return overtime.OvertimeEntry{}, overtime.ErrOvertimeEntryNotFound
}

func (f *fakeOvertimeRepo) ListByEmployeePeriod(_ context.Context, employeeID, periodID, companyID string, approvedOnly bool) ([]overtime.OvertimeEntry, error) {
	var out []overtime.OvertimeEntry
	for _, e := range f.entries {
		if e.EmployeeID != employeeID || e.PeriodID != periodID {
			continue
		}
		if approvedOnly && !e.Approved {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeOvertimeRepo) Update(_ context.Context, entry overtime.OvertimeEntry) error { return nil }

func (f *fakeOvertimeRepo) Delete(_ context.Context, id string, companyID string) error { return nil }

type fakeAncillaryRepo struct {
	payments []ancillary.AncillaryPayment
}

func (f *fakeAncillaryRepo) Create(_ context.Context, p ancillary.AncillaryPayment) (ancillary.AncillaryPayment, error) {
	p.ID = uuid.NewString()
	f.payments = append(f.payments, p)
	return p, nil
}

func (f *fakeAncillaryRepo) GetByID(_ context.Context, id string, companyID string) (ancillary.AncillaryPayment, error) {
	for _, p := range f.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return ancillary.AncillaryPayment{}, ancillary.ErrPaymentNotFound
}

func (f *fakeAncillaryRepo) ListByEmployeePeriod(_ context.Context, employeeID, periodID, companyID string, approvedOnly bool) ([]ancillary.AncillaryPayment, error) {
	var out []ancillary.AncillaryPayment
	for _, p := range f.payments {
		if p.EmployeeID != employeeID || p.PeriodID != periodID {
			continue
		}
		if approvedOnly && !p.Approved {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeAncillaryRepo) Update(_ context.Context, payment ancillary.AncillaryPayment) error {
	return nil
}

func (f *fakeAncillaryRepo) Delete(_ context.Context, id string, companyID string) error { return nil }

// failingAncillaryRepo errors for one employee, after the draft record has
// already been inserted.
type failingAncillaryRepo struct {
	fakeAncillaryRepo
	failEmployeeID string
}

func (f *failingAncillaryRepo) ListByEmployeePeriod(ctx context.Context, employeeID, periodID, companyID string, approvedOnly bool) ([]ancillary.AncillaryPayment, error) {
	if employeeID == f.failEmployeeID {
		return nil, errors.New("ancillary ledger unavailable")
	}
	return f.fakeAncillaryRepo.ListByEmployeePeriod(ctx, employeeID, periodID, companyID, approvedOnly)
}

type fakeParameterRepo struct {
	params map[string]parameter.Parameter
}

func paramKey(code string, year int) string {
	return fmt.Sprintf("%s/%d", code, year)
}

func (f *fakeParameterRepo) Get(_ context.Context, code string, companyID string, year int) (parameter.Parameter, error) {
	p, ok := f.params[paramKey(code, year)]
	if !ok {
		return parameter.Parameter{}, parameter.ErrParameterNotFound
	}
	return p, nil
}

func (f *fakeParameterRepo) Upsert(_ context.Context, param parameter.Parameter) (parameter.Parameter, error) {
	f.params[paramKey(param.Code, param.Year)] = param
	return param, nil
}

func (f *fakeParameterRepo) ListByCompanyYear(_ context.Context, companyID string, year int) ([]parameter.Parameter, error) {
	return nil, nil
}

type testEnv struct {
	svc       *PayrollService
	records   *fakePayRecordRepo
	periods   *fakePeriodRepo
	employees *fakeEmployeeRepo
	concepts  *fakeConceptRepo
	overtime  *fakeOvertimeRepo
	ancillary *fakeAncillaryRepo
	params    *fakeParameterRepo
}

func subtypePtr(s concept.ConceptSubtype) *concept.ConceptSubtype { return &s }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func newTestEnv(t *testing.T, cfg config.PayrollConfig) *testEnv {
	t.Helper()

	env := &testEnv{
		records:   newFakePayRecordRepo(),
		periods:   &fakePeriodRepo{periods: make(map[string]period.PayPeriod)},
		employees: &fakeEmployeeRepo{employees: make(map[string]employee.Employee)},
		concepts:  &fakeConceptRepo{},
		overtime:  &fakeOvertimeRepo{},
		ancillary: &fakeAncillaryRepo{},
		params:    &fakeParameterRepo{params: make(map[string]parameter.Parameter)},
	}

	env.concepts.concepts = []concept.PayConcept{
		{ID: "c-basic", CompanyID: testCompanyID, Code: "SUELDO", Name: "Sueldo basico", Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeBasic), IsActive: true},
		{ID: "c-health", CompanyID: testCompanyID, Code: "SALUD", Name: "Salud", Type: concept.ConceptTypeDeduction, Subtype: subtypePtr(concept.SubtypeHealthDeduction), Percentage: decimalPtr(decimal.NewFromInt(4)), IsActive: true},
		{ID: "c-pension", CompanyID: testCompanyID, Code: "PENSION", Name: "Pension", Type: concept.ConceptTypeDeduction, Subtype: subtypePtr(concept.SubtypePensionDeduction), Percentage: decimalPtr(decimal.NewFromInt(4)), IsActive: true},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.svc = NewPayrollService(
		fakeTxManager{},
		cfg,
		logger,
		env.records,
		env.periods,
		env.employees,
		env.concepts,
		env.overtime,
		env.ancillary,
		parameter.NewResolver(env.params),
	)
	return env
}

func (env *testEnv) addEmployee(id string, salary int64, active bool) employee.Employee {
	emp := employee.Employee{
		ID:            id,
		CompanyID:     testCompanyID,
		FullName:      "Employee " + id,
		MonthlySalary: decimal.NewFromInt(salary),
		Active:        active,
	}
	env.employees.employees[id] = emp
	env.employees.active = append(env.employees.active, emp)
	return emp
}

func (env *testEnv) addPeriod(status period.PeriodStatus, dayCount int) period.PayPeriod {
	p := period.PayPeriod{
		ID:        uuid.NewString(),
		CompanyID: testCompanyID,
		Name:      "2026-01 Q1",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
		DayCount:  dayCount,
		Status:    status,
	}
	env.periods.periods[p.ID] = p
	return p
}

func authedContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    testUserID,
		"company_id": testCompanyID,
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestGenerateForPeriodCreatesDrafts(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	env.addEmployee("emp-2", 1800000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	require.Len(t, resp.Created, 2)
	assert.Equal(t, 0, resp.SkippedCount)

	for _, rec := range resp.Created {
		assert.Equal(t, string(payroll.RecordStatusDraft), rec.Status)
		assert.Equal(t, 30, rec.DaysPaid)
		assert.True(t, rec.NetPay.IsPositive())
		assert.True(t, rec.TotalEarnings.Sub(rec.TotalDeductions).Equal(rec.NetPay))
	}

	// 2,400,000 over 240 labor hours
	first, err := env.records.GetByEmployeePeriod(ctx, "emp-1", per.ID, testCompanyID)
	require.NoError(t, err)
	assert.True(t, first.HourlyRate.Equal(decimal.NewFromInt(10000)), "hourly rate %s", first.HourlyRate)
	assert.True(t, first.TotalEarnings.Equal(decimal.NewFromInt(2400000)))
	assert.True(t, first.TotalDeductions.Equal(decimal.NewFromInt(192000)))
	assert.True(t, first.NetPay.Equal(decimal.NewFromInt(2208000)))
}

func TestGenerateForPeriodIsIdempotent(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	env.addEmployee("emp-2", 1800000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	first, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	require.Len(t, first.Created, 2)

	second, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, 2, second.SkippedCount)
}

func TestGenerateForPeriodRequiresOpenPeriod(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusClosed, 30)

	_, err := env.svc.GenerateForPeriod(authedContext(t), per.ID)
	assert.ErrorIs(t, err, period.ErrPeriodNotOpen)
}

func TestGenerateForPeriodSkipsFailedEmployee(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	env.addEmployee("emp-2", 1800000, false) // fails calculation
	per := env.addPeriod(period.PeriodStatusOpen, 30)

	ctx := authedContext(t)
	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Created, 1)
	assert.Equal(t, 0, resp.SkippedCount)
	assert.Equal(t, 1, resp.FailedCount)

	// Failure before the insert: no record for the inactive employee.
	_, err = env.records.GetByEmployeePeriod(ctx, "emp-2", per.ID, testCompanyID)
	assert.ErrorIs(t, err, payroll.ErrPayRecordNotFound)
}

func TestGenerateForPeriodKeepsDraftWhenCalculationFails(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	env.addEmployee("emp-2", 1800000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	// emp-2's calculation fails after its draft record was inserted.
	env.svc = NewPayrollService(
		fakeTxManager{},
		config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		env.records,
		env.periods,
		env.employees,
		env.concepts,
		env.overtime,
		&failingAncillaryRepo{failEmployeeID: "emp-2"},
		parameter.NewResolver(env.params),
	)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	assert.Equal(t, "emp-1", resp.Created[0].EmployeeID)
	assert.Equal(t, 0, resp.SkippedCount)
	assert.Equal(t, 1, resp.FailedCount)

	// The failed employee's draft survives with zero totals and no lines.
	rec, err := env.records.GetByEmployeePeriod(ctx, "emp-2", per.ID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, payroll.RecordStatusDraft, rec.Status)
	assert.True(t, rec.TotalEarnings.IsZero())
	assert.True(t, rec.NetPay.IsZero())
	lines, err := env.records.GetLineItems(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGenerateForPeriodAbortsOnFailure(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorAbort})
	env.addEmployee("emp-1", 2400000, true)
	env.addEmployee("emp-2", 1800000, false)
	per := env.addPeriod(period.PeriodStatusOpen, 30)

	_, err := env.svc.GenerateForPeriod(authedContext(t), per.ID)
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotActive)
}

func TestRecalculateRejectsNonDraft(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	recordID := resp.Created[0].ID

	_, err = env.svc.Approve(ctx, recordID, payroll.ApproveRequest{})
	require.NoError(t, err)

	_, err = env.svc.Recalculate(ctx, recordID)
	assert.ErrorIs(t, err, payroll.ErrPayRecordNotDraft)

	// Totals must be untouched by the failed recalculation.
	rec, err := env.records.GetByID(ctx, recordID, testCompanyID)
	require.NoError(t, err)
	assert.True(t, rec.NetPay.Equal(decimal.NewFromInt(2208000)))
}

func TestRecalculatePicksUpApprovedOvertime(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	env.concepts.concepts = append(env.concepts.concepts, concept.PayConcept{
		ID: "c-ot-day", CompanyID: testCompanyID, Code: "HED", Name: "Hora extra diurna",
		Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeOvertimeDay), IsActive: true,
	})

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	recordID := resp.Created[0].ID

	env.overtime.entries = append(env.overtime.entries, overtime.OvertimeEntry{
		ID: "ot-1", CompanyID: testCompanyID, EmployeeID: "emp-1", PeriodID: per.ID,
		Type: overtime.OvertimeTypeDay, Hours: decimal.NewFromInt(10),
		HourlyValue: decimal.NewFromInt(12500), LineTotal: decimal.NewFromInt(125000),
		Approved: true,
	})

	result, err := env.svc.Recalculate(ctx, recordID)
	require.NoError(t, err)

	// earnings 2,400,000 + 125,000; health and pension 4% each over the sum
	assert.True(t, result.TotalEarnings.Equal(decimal.NewFromInt(2525000)), "earnings %s", result.TotalEarnings)
	assert.True(t, result.TotalDeductions.Equal(decimal.NewFromInt(202000)), "deductions %s", result.TotalDeductions)
	assert.True(t, result.NetPay.Equal(decimal.NewFromInt(2323000)))
}

func TestApproveThenMarkPaid(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	recordID := resp.Created[0].ID

	note := "reviewed"
	approved, err := env.svc.Approve(ctx, recordID, payroll.ApproveRequest{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RecordStatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, testUserID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	paid, err := env.svc.MarkPaid(ctx, recordID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RecordStatusPaid), paid.Status)
	assert.NotNil(t, paid.PaidAt)
}

func TestMarkPaidRequiresApproval(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)

	_, err = env.svc.MarkPaid(ctx, resp.Created[0].ID)
	assert.ErrorIs(t, err, payroll.ErrPayRecordNotApproved)
}

func TestApproveTwiceFails(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	recordID := resp.Created[0].ID

	_, err = env.svc.Approve(ctx, recordID, payroll.ApproveRequest{})
	require.NoError(t, err)

	_, err = env.svc.Approve(ctx, recordID, payroll.ApproveRequest{})
	assert.ErrorIs(t, err, payroll.ErrPayRecordNotDraft)
}

func TestUpdateAfterApproveFails(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	recordID := resp.Created[0].ID

	_, err = env.svc.Approve(ctx, recordID, payroll.ApproveRequest{})
	require.NoError(t, err)

	days := 20
	_, err = env.svc.Update(ctx, payroll.UpdatePayRecordRequest{ID: recordID, DaysPaid: &days})
	assert.ErrorIs(t, err, payroll.ErrPayRecordNotDraft)
}

func TestUpdateDaysPaidRecalculates(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	recordID := resp.Created[0].ID

	days := 15
	result, err := env.svc.Update(ctx, payroll.UpdatePayRecordRequest{ID: recordID, DaysPaid: &days})
	require.NoError(t, err)

	// half-month rule: exactly half the monthly amounts
	assert.True(t, result.TotalEarnings.Equal(decimal.NewFromInt(1200000)), "earnings %s", result.TotalEarnings)
	assert.True(t, result.TotalDeductions.Equal(decimal.NewFromInt(96000)))
	assert.True(t, result.NetPay.Equal(decimal.NewFromInt(1104000)))
}

func TestDeleteRejectsNonDraft(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	recordID := resp.Created[0].ID

	_, err = env.svc.Approve(ctx, recordID, payroll.ApproveRequest{})
	require.NoError(t, err)

	err = env.svc.Delete(ctx, recordID)
	assert.ErrorIs(t, err, payroll.ErrPayRecordNotDraft)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	req := payroll.CreatePayRecordRequest{PeriodID: per.ID, EmployeeID: "emp-1"}
	_, err := env.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, req)
	assert.ErrorIs(t, err, payroll.ErrPayRecordExists)
}

func TestPeriodSummaryAggregates(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	env.addEmployee("emp-2", 1800000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)

	_, err = env.svc.Approve(ctx, resp.Created[0].ID, payroll.ApproveRequest{})
	require.NoError(t, err)

	summary, err := env.svc.PeriodSummary(ctx, per.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalEmployees)
	assert.Equal(t, 1, summary.DraftCount)
	assert.Equal(t, 1, summary.ApprovedCount)
	assert.Equal(t, 0, summary.PaidCount)
	assert.True(t, summary.TotalEarnings.Equal(decimal.NewFromInt(4200000)), "earnings %s", summary.TotalEarnings)
}

func TestStoredLaborHoursParameterOverridesDefault(t *testing.T) {
	env := newTestEnv(t, config.PayrollConfig{OnEmployeeError: config.OnEmployeeErrorSkip})
	env.addEmployee("emp-1", 2400000, true)
	per := env.addPeriod(period.PeriodStatusOpen, 30)
	ctx := authedContext(t)

	_, err := env.params.Upsert(ctx, parameter.Parameter{
		CompanyID: testCompanyID,
		Code:      parameter.CodeMonthlyLaborHours,
		Year:      2026,
		Value:     decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	resp, err := env.svc.GenerateForPeriod(ctx, per.ID)
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	assert.True(t, resp.Created[0].HourlyRate.Equal(decimal.NewFromInt(12000)), "hourly rate %s", resp.Created[0].HourlyRate)
}
