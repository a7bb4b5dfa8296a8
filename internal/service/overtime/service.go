package overtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/overtime"
	"github.com/nominacloud/erp-backend-go/internal/domain/payroll"
	"github.com/nominacloud/erp-backend-go/internal/pkg/validator"
)

type OvertimeService struct {
	overtimeRepo  overtime.OvertimeRepository
	payRecordRepo payroll.PayRecordRepository
}

func NewOvertimeService(overtimeRepo overtime.OvertimeRepository, payRecordRepo payroll.PayRecordRepository) *OvertimeService {
	return &OvertimeService{
		overtimeRepo:  overtimeRepo,
		payRecordRepo: payRecordRepo,
	}
}

func getClaimsFromContext(ctx context.Context) (companyID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// checkRecordIsDraft rejects ledger writes once the employee's pay record
// for the period has left draft. A missing record is fine; the ledger can be
// filled before records are generated.
func (s *OvertimeService) checkRecordIsDraft(ctx context.Context, employeeID, periodID, companyID string) error {
	rec, err := s.payRecordRepo.GetByEmployeePeriod(ctx, employeeID, periodID, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayRecordNotFound) {
			return nil
		}
		return err
	}
	if rec.Status != payroll.RecordStatusDraft {
		return payroll.ErrPayRecordNotDraft
	}
	return nil
}

func mapToResponse(e overtime.OvertimeEntry) overtime.OvertimeResponse {
	return overtime.OvertimeResponse{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		PeriodID:    e.PeriodID,
		Date:        e.Date.Format("2006-01-02"),
		Type:        string(e.Type),
		Hours:       e.Hours,
		HourlyValue: e.HourlyValue,
		LineTotal:   e.LineTotal,
		Approved:    e.Approved,
	}
}

func (s *OvertimeService) Create(ctx context.Context, req overtime.CreateOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	if err := s.checkRecordIsDraft(ctx, req.EmployeeID, req.PeriodID, companyID); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	date, _ := validator.ParseDate(req.Date)

	created, err := s.overtimeRepo.Create(ctx, overtime.OvertimeEntry{
		CompanyID:   companyID,
		EmployeeID:  req.EmployeeID,
		PeriodID:    req.PeriodID,
		Date:        date,
		Type:        overtime.OvertimeType(req.Type),
		Hours:       req.Hours,
		HourlyValue: req.HourlyValue,
		LineTotal:   req.Hours.Mul(req.HourlyValue).Round(0),
	})
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *OvertimeService) GetByID(ctx context.Context, id string) (overtime.OvertimeResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	e, err := s.overtimeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return mapToResponse(e), nil
}

func (s *OvertimeService) ListByEmployeePeriod(ctx context.Context, employeeID, periodID string) ([]overtime.OvertimeResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.overtimeRepo.ListByEmployeePeriod(ctx, employeeID, periodID, companyID, false)
	if err != nil {
		return nil, err
	}

	responses := make([]overtime.OvertimeResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, mapToResponse(e))
	}

	return responses, nil
}

func (s *OvertimeService) Update(ctx context.Context, req overtime.UpdateOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	e, err := s.overtimeRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	if err := s.checkRecordIsDraft(ctx, e.EmployeeID, e.PeriodID, companyID); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	if req.Date != nil {
		date, _ := validator.ParseDate(*req.Date)
		e.Date = date
	}
	if req.Type != nil {
		e.Type = overtime.OvertimeType(*req.Type)
	}
	if req.Hours != nil {
		e.Hours = *req.Hours
	}
	if req.HourlyValue != nil {
		e.HourlyValue = *req.HourlyValue
	}
	if req.Approved != nil {
		e.Approved = *req.Approved
	}
	e.LineTotal = e.Hours.Mul(e.HourlyValue).Round(0)

	if err := s.overtimeRepo.Update(ctx, e); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return mapToResponse(e), nil
}

func (s *OvertimeService) Delete(ctx context.Context, id string) error {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	e, err := s.overtimeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}

	if err := s.checkRecordIsDraft(ctx, e.EmployeeID, e.PeriodID, companyID); err != nil {
		return err
	}

	return s.overtimeRepo.Delete(ctx, id, companyID)
}
