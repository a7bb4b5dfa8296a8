package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominacloud/erp-backend-go/internal/config"
	"github.com/nominacloud/erp-backend-go/internal/domain/ancillary"
	"github.com/nominacloud/erp-backend-go/internal/domain/concept"
	"github.com/nominacloud/erp-backend-go/internal/domain/employee"
	"github.com/nominacloud/erp-backend-go/internal/domain/overtime"
	"github.com/nominacloud/erp-backend-go/internal/domain/parameter"
	"github.com/nominacloud/erp-backend-go/internal/domain/payroll"
	"github.com/nominacloud/erp-backend-go/internal/domain/period"
	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
)

// PayrollService owns the pay-record lifecycle: creation, batch generation,
// recalculation, approval and payment. Every mutation runs inside a
// transaction with the record row locked.
type PayrollService struct {
	tx            database.TxManager
	cfg           config.PayrollConfig
	logger        *slog.Logger
	payRecordRepo payroll.PayRecordRepository
	periodRepo    period.PeriodRepository
	employeeRepo  employee.EmployeeRepository
	conceptRepo   concept.ConceptRepository
	overtimeRepo  overtime.OvertimeRepository
	ancillaryRepo ancillary.AncillaryRepository
	params        *parameter.Resolver
}

func NewPayrollService(
	tx database.TxManager,
	cfg config.PayrollConfig,
	logger *slog.Logger,
	payRecordRepo payroll.PayRecordRepository,
	periodRepo period.PeriodRepository,
	employeeRepo employee.EmployeeRepository,
	conceptRepo concept.ConceptRepository,
	overtimeRepo overtime.OvertimeRepository,
	ancillaryRepo ancillary.AncillaryRepository,
	params *parameter.Resolver,
) *PayrollService {
	return &PayrollService{
		tx:            tx,
		cfg:           cfg,
		logger:        logger,
		payRecordRepo: payRecordRepo,
		periodRepo:    periodRepo,
		employeeRepo:  employeeRepo,
		conceptRepo:   conceptRepo,
		overtimeRepo:  overtimeRepo,
		ancillaryRepo: ancillaryRepo,
		params:        params,
	}
}

func getClaimsFromContext(ctx context.Context) (companyID string, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return companyID, userID, nil
}

// allowanceYear picks the year the transport-allowance parameter is resolved
// against. The period's start year keeps historical periods reproducible;
// the wall-clock mode exists for compatibility with older deployments.
func (s *PayrollService) allowanceYear(p period.PayPeriod) int {
	if s.cfg.AllowanceYearFromClock {
		return time.Now().Year()
	}
	return p.StartDate.Year()
}

// recalculateLocked recomputes the full line-item set and totals for a
// record whose row is already locked by the surrounding transaction. The
// record's captured monthly salary is used as-is; eligibility and ledgers
// are read fresh.
func (s *PayrollService) recalculateLocked(ctx context.Context, rec payroll.PayRecord, per period.PayPeriod, companyID string) (payroll.PayRecord, error) {
	emp, err := s.employeeRepo.GetByID(ctx, rec.EmployeeID, companyID)
	if err != nil {
		return payroll.PayRecord{}, err
	}

	concepts, err := s.conceptRepo.ListByCompanyID(ctx, companyID, true)
	if err != nil {
		return payroll.PayRecord{}, err
	}

	overtimeEntries, err := s.overtimeRepo.ListByEmployeePeriod(ctx, rec.EmployeeID, rec.PeriodID, companyID, true)
	if err != nil {
		return payroll.PayRecord{}, err
	}

	ancillaryPayments, err := s.ancillaryRepo.ListByEmployeePeriod(ctx, rec.EmployeeID, rec.PeriodID, companyID, true)
	if err != nil {
		return payroll.PayRecord{}, err
	}

	allowance, err := s.params.TransportAllowance(ctx, companyID, s.allowanceYear(per))
	if err != nil {
		return payroll.PayRecord{}, err
	}

	result := payroll.Compute(payroll.CalcInput{
		MonthlySalary:      rec.MonthlySalary,
		DaysPaid:           rec.DaysPaid,
		TransportEligible:  emp.TransportAllowanceEligible,
		TransportAllowance: allowance,
		Concepts:           concepts,
		Overtime:           overtimeEntries,
		Ancillary:          ancillaryPayments,
	})

	if len(result.SkippedPaymentIDs) > 0 {
		s.logger.WarnContext(ctx, "ancillary payments skipped: no matching OTHER concept",
			slog.String("pay_record_id", rec.ID),
			slog.Int("skipped", len(result.SkippedPaymentIDs)),
		)
	}

	lines, err := s.payRecordRepo.ReplaceLineItems(ctx, rec.ID, result.Lines)
	if err != nil {
		return payroll.PayRecord{}, err
	}

	if err := s.payRecordRepo.UpdateTotals(ctx, rec.ID, companyID, rec.HourlyRate, result.TotalEarnings, result.TotalDeductions, result.NetPay); err != nil {
		return payroll.PayRecord{}, err
	}

	rec.LineItems = lines
	rec.TotalEarnings = result.TotalEarnings
	rec.TotalDeductions = result.TotalDeductions
	rec.NetPay = result.NetPay
	return rec, nil
}

// createDraft inserts a zero-total draft record for the employee. Must run
// inside a transaction.
func (s *PayrollService) createDraft(ctx context.Context, emp employee.Employee, per period.PayPeriod, companyID, userID string) (payroll.PayRecord, error) {
	if !emp.Active {
		return payroll.PayRecord{}, payroll.ErrEmployeeNotActive
	}

	laborHours, err := s.params.MonthlyLaborHours(ctx, companyID, per.StartDate.Year())
	if err != nil {
		return payroll.PayRecord{}, err
	}

	rec, err := s.payRecordRepo.Create(ctx, payroll.PayRecord{
		CompanyID:     companyID,
		PeriodID:      per.ID,
		EmployeeID:    emp.ID,
		MonthlySalary: emp.MonthlySalary,
		HourlyRate:    emp.MonthlySalary.Div(laborHours).Round(2),
		DaysPaid:      per.DayCount,
		Status:        payroll.RecordStatusDraft,
		CreatedBy:     &userID,
	})
	if err != nil {
		return payroll.PayRecord{}, err
	}

	rec.EmployeeName = &emp.FullName
	return rec, nil
}

// createAndCalculate inserts a draft record for the employee and computes
// its initial line-item set. Must run inside a transaction.
func (s *PayrollService) createAndCalculate(ctx context.Context, emp employee.Employee, per period.PayPeriod, companyID, userID string) (payroll.PayRecord, error) {
	rec, err := s.createDraft(ctx, emp, per, companyID, userID)
	if err != nil {
		return payroll.PayRecord{}, err
	}
	return s.recalculateLocked(ctx, rec, per, companyID)
}

// Create builds a single draft record for one employee in an open period.
func (s *PayrollService) Create(ctx context.Context, req payroll.CreatePayRecordRequest) (payroll.PayRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayRecordResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	var rec payroll.PayRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		per, err := s.periodRepo.GetByID(ctx, req.PeriodID, companyID)
		if err != nil {
			return err
		}
		if per.Status != period.PeriodStatusOpen {
			return period.ErrPeriodNotOpen
		}

		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
		if err != nil {
			return err
		}

		rec, err = s.createAndCalculate(ctx, emp, per, companyID, userID)
		return err
	})
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	return payroll.MapToResponse(rec), nil
}

// GenerateForPeriod creates draft records for every active employee that
// does not yet have one in the period. The draft insert happens directly in
// the batch transaction; only the calculation runs in a per-employee
// savepoint, so a calculation failure rolls back that employee's line items
// but leaves the draft record in place with zero totals.
func (s *PayrollService) GenerateForPeriod(ctx context.Context, periodID string) (payroll.GenerateForPeriodResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.GenerateForPeriodResponse{}, err
	}

	resp := payroll.GenerateForPeriodResponse{Created: []payroll.PayRecordResponse{}}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		per, err := s.periodRepo.GetByID(ctx, periodID, companyID)
		if err != nil {
			return err
		}
		if per.Status != period.PeriodStatusOpen {
			return period.ErrPeriodNotOpen
		}

		employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			return err
		}

		for _, emp := range employees {
			_, err := s.payRecordRepo.GetByEmployeePeriod(ctx, emp.ID, periodID, companyID)
			if err == nil {
				resp.SkippedCount++
				continue
			}
			if !errors.Is(err, payroll.ErrPayRecordNotFound) {
				return err
			}

			rec, genErr := s.createDraft(ctx, emp, per, companyID, userID)
			if genErr == nil {
				genErr = database.WithinSavepoint(ctx, func(ctx context.Context) error {
					calculated, calcErr := s.recalculateLocked(ctx, rec, per, companyID)
					if calcErr != nil {
						return calcErr
					}
					rec = calculated
					return nil
				})
			}
			if genErr != nil {
				if s.cfg.OnEmployeeError == config.OnEmployeeErrorAbort {
					return fmt.Errorf("failed to generate pay record for employee %s: %w", emp.ID, genErr)
				}
				s.logger.WarnContext(ctx, "continuing batch after employee failure",
					slog.String("employee_id", emp.ID),
					slog.String("period_id", periodID),
					slog.String("error", genErr.Error()),
				)
				resp.FailedCount++
				continue
			}

			resp.Created = append(resp.Created, payroll.MapToResponse(rec))
		}

		return nil
	})
	if err != nil {
		return payroll.GenerateForPeriodResponse{}, err
	}

	return resp, nil
}

// Recalculate rebuilds the line items and totals of a draft record from the
// current ledgers, catalog and parameters.
func (s *PayrollService) Recalculate(ctx context.Context, id string) (payroll.PayRecordResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	var rec payroll.PayRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err = s.payRecordRepo.GetByIDForUpdate(ctx, id, companyID)
		if err != nil {
			return err
		}
		if rec.Status != payroll.RecordStatusDraft {
			return payroll.ErrPayRecordNotDraft
		}

		per, err := s.periodRepo.GetByID(ctx, rec.PeriodID, companyID)
		if err != nil {
			return err
		}

		rec, err = s.recalculateLocked(ctx, rec, per, companyID)
		return err
	})
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	return payroll.MapToResponse(rec), nil
}

// Update edits the mutable header fields of a draft record and recomputes
// it when the paid-day count changed.
func (s *PayrollService) Update(ctx context.Context, req payroll.UpdatePayRecordRequest) (payroll.PayRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayRecordResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	var rec payroll.PayRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err = s.payRecordRepo.GetByIDForUpdate(ctx, req.ID, companyID)
		if err != nil {
			return err
		}
		if rec.Status != payroll.RecordStatusDraft {
			return payroll.ErrPayRecordNotDraft
		}

		if err := s.payRecordRepo.Update(ctx, companyID, req); err != nil {
			return err
		}
		if req.Note != nil {
			rec.Note = req.Note
		}

		if req.DaysPaid != nil && *req.DaysPaid != rec.DaysPaid {
			rec.DaysPaid = *req.DaysPaid

			per, err := s.periodRepo.GetByID(ctx, rec.PeriodID, companyID)
			if err != nil {
				return err
			}
			rec, err = s.recalculateLocked(ctx, rec, per, companyID)
			return err
		}

		lines, err := s.payRecordRepo.GetLineItems(ctx, rec.ID)
		if err != nil {
			return err
		}
		rec.LineItems = lines
		return nil
	})
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	return payroll.MapToResponse(rec), nil
}

// Approve moves a draft record to APROBADO, freezing its line items.
func (s *PayrollService) Approve(ctx context.Context, id string, req payroll.ApproveRequest) (payroll.PayRecordResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	var rec payroll.PayRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err = s.payRecordRepo.GetByIDForUpdate(ctx, id, companyID)
		if err != nil {
			return err
		}
		if !rec.Status.CanTransitionTo(payroll.RecordStatusApproved) {
			return payroll.ErrPayRecordNotDraft
		}

		now := time.Now().UTC()
		if err := s.payRecordRepo.Approve(ctx, id, companyID, userID, req.Note, now); err != nil {
			return err
		}

		rec.Status = payroll.RecordStatusApproved
		rec.ApprovedBy = &userID
		rec.ApprovedAt = &now
		if req.Note != nil {
			rec.Note = req.Note
		}

		lines, err := s.payRecordRepo.GetLineItems(ctx, rec.ID)
		if err != nil {
			return err
		}
		rec.LineItems = lines
		return nil
	})
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	return payroll.MapToResponse(rec), nil
}

// MarkPaid moves an approved record to PAGADO.
func (s *PayrollService) MarkPaid(ctx context.Context, id string) (payroll.PayRecordResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	var rec payroll.PayRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err = s.payRecordRepo.GetByIDForUpdate(ctx, id, companyID)
		if err != nil {
			return err
		}
		if !rec.Status.CanTransitionTo(payroll.RecordStatusPaid) {
			return payroll.ErrPayRecordNotApproved
		}

		now := time.Now().UTC()
		if err := s.payRecordRepo.MarkPaid(ctx, id, companyID, now); err != nil {
			return err
		}

		rec.Status = payroll.RecordStatusPaid
		rec.PaidAt = &now
		return nil
	})
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	return payroll.MapToResponse(rec), nil
}

// Delete removes a draft record together with its line items.
func (s *PayrollService) Delete(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.payRecordRepo.GetByIDForUpdate(ctx, id, companyID)
		if err != nil {
			return err
		}
		if rec.Status != payroll.RecordStatusDraft {
			return payroll.ErrPayRecordNotDraft
		}

		return s.payRecordRepo.Delete(ctx, id, companyID)
	})
}

func (s *PayrollService) GetByID(ctx context.Context, id string) (payroll.PayRecordResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	rec, err := s.payRecordRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}

	lines, err := s.payRecordRepo.GetLineItems(ctx, rec.ID)
	if err != nil {
		return payroll.PayRecordResponse{}, err
	}
	rec.LineItems = lines

	return payroll.MapToResponse(rec), nil
}

func (s *PayrollService) List(ctx context.Context, filter payroll.RecordFilter) (payroll.ListPayRecordsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayRecordsResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, total, err := s.payRecordRepo.List(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayRecordsResponse{}, err
	}

	data := make([]payroll.PayRecordResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, payroll.MapToResponse(rec))
	}

	return payroll.ListPayRecordsResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// PeriodSummary aggregates record totals and status counts for a period.
func (s *PayrollService) PeriodSummary(ctx context.Context, periodID string) (payroll.PeriodSummaryResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodSummaryResponse{}, err
	}

	if _, err := s.periodRepo.GetByID(ctx, periodID, companyID); err != nil {
		return payroll.PeriodSummaryResponse{}, err
	}

	return s.payRecordRepo.GetPeriodSummary(ctx, periodID, companyID)
}
