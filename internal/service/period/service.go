package period

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/payroll"
	"github.com/nominacloud/erp-backend-go/internal/domain/period"
	"github.com/nominacloud/erp-backend-go/internal/pkg/validator"
)

type PeriodService struct {
	periodRepo    period.PeriodRepository
	payRecordRepo payroll.PayRecordRepository
}

func NewPeriodService(periodRepo period.PeriodRepository, payRecordRepo payroll.PayRecordRepository) *PeriodService {
	return &PeriodService{
		periodRepo:    periodRepo,
		payRecordRepo: payRecordRepo,
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

func mapToResponse(p period.PayPeriod) period.PeriodResponse {
	resp := period.PeriodResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		StartDate: p.StartDate.Format("2006-01-02"),
		EndDate:   p.EndDate.Format("2006-01-02"),
		DayCount:  p.DayCount,
		Status:    string(p.Status),
	}
	if p.ClosedAt != nil {
		s := p.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &s
	}
	if p.PaidAt != nil {
		s := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}

func (s *PeriodService) Create(ctx context.Context, req period.CreatePeriodRequest) (period.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return period.PeriodResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	startDate, _ := validator.ParseDate(req.StartDate)
	endDate, _ := validator.ParseDate(req.EndDate)

	created, err := s.periodRepo.Create(ctx, period.PayPeriod{
		CompanyID: companyID,
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		DayCount:  req.DayCount,
		Status:    period.PeriodStatusOpen,
	})
	if err != nil {
		return period.PeriodResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *PeriodService) GetByID(ctx context.Context, id string) (period.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	p, err := s.periodRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	return mapToResponse(p), nil
}

func (s *PeriodService) List(ctx context.Context) ([]period.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	periods, err := s.periodRepo.ListByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]period.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, mapToResponse(p))
	}

	return responses, nil
}

// Close moves an OPEN period to CLOSED. Records in the period can no longer
// be created or recalculated afterwards.
func (s *PeriodService) Close(ctx context.Context, id string) (period.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	p, err := s.periodRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	if !p.Status.CanTransitionTo(period.PeriodStatusClosed) {
		return period.PeriodResponse{}, period.ErrPeriodNotOpen
	}

	now := time.Now().UTC()
	if err := s.periodRepo.SetStatus(ctx, id, companyID, period.PeriodStatusClosed, now); err != nil {
		return period.PeriodResponse{}, err
	}

	p.Status = period.PeriodStatusClosed
	p.ClosedAt = &now
	return mapToResponse(p), nil
}

// MarkPaid moves a CLOSED period to PAID. An open period must be closed
// first.
func (s *PeriodService) MarkPaid(ctx context.Context, id string) (period.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	p, err := s.periodRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	if !p.Status.CanTransitionTo(period.PeriodStatusPaid) {
		return period.PeriodResponse{}, period.ErrPeriodNotClosed
	}

	now := time.Now().UTC()
	if err := s.periodRepo.SetStatus(ctx, id, companyID, period.PeriodStatusPaid, now); err != nil {
		return period.PeriodResponse{}, err
	}

	p.Status = period.PeriodStatusPaid
	p.PaidAt = &now
	return mapToResponse(p), nil
}

// Delete removes a period that has no payroll records against it.
func (s *PeriodService) Delete(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := s.periodRepo.GetByID(ctx, id, companyID); err != nil {
		return err
	}

	hasRecords, err := s.payRecordRepo.ExistsForPeriod(ctx, id, companyID)
	if err != nil {
		return err
	}
	if hasRecords {
		return period.ErrPeriodHasRecords
	}

	return s.periodRepo.Delete(ctx, id, companyID)
}
