package ancillary

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/ancillary"
	"github.com/nominacloud/erp-backend-go/internal/domain/payroll"
)

type AncillaryService struct {
	ancillaryRepo ancillary.AncillaryRepository
	payRecordRepo payroll.PayRecordRepository
}

func NewAncillaryService(ancillaryRepo ancillary.AncillaryRepository, payRecordRepo payroll.PayRecordRepository) *AncillaryService {
	return &AncillaryService{
		ancillaryRepo: ancillaryRepo,
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
// for the period has left draft.
func (s *AncillaryService) checkRecordIsDraft(ctx context.Context, employeeID, periodID, companyID string) error {
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

func mapToResponse(p ancillary.AncillaryPayment) ancillary.PaymentResponse {
	return ancillary.PaymentResponse{
		ID:          p.ID,
		EmployeeID:  p.EmployeeID,
		PeriodID:    p.PeriodID,
		Label:       p.Label,
		Description: p.Description,
		Amount:      p.Amount,
		Type:        string(p.Type),
		Approved:    p.Approved,
	}
}

func (s *AncillaryService) Create(ctx context.Context, req ancillary.CreatePaymentRequest) (ancillary.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return ancillary.PaymentResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return ancillary.PaymentResponse{}, err
	}

	if err := s.checkRecordIsDraft(ctx, req.EmployeeID, req.PeriodID, companyID); err != nil {
		return ancillary.PaymentResponse{}, err
	}

	created, err := s.ancillaryRepo.Create(ctx, ancillary.AncillaryPayment{
		CompanyID:   companyID,
		EmployeeID:  req.EmployeeID,
		PeriodID:    req.PeriodID,
		Label:       req.Label,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        ancillary.PaymentType(req.Type),
	})
	if err != nil {
		return ancillary.PaymentResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *AncillaryService) GetByID(ctx context.Context, id string) (ancillary.PaymentResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return ancillary.PaymentResponse{}, err
	}

	p, err := s.ancillaryRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return ancillary.PaymentResponse{}, err
	}

	return mapToResponse(p), nil
}

func (s *AncillaryService) ListByEmployeePeriod(ctx context.Context, employeeID, periodID string) ([]ancillary.PaymentResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.ancillaryRepo.ListByEmployeePeriod(ctx, employeeID, periodID, companyID, false)
	if err != nil {
		return nil, err
	}

	responses := make([]ancillary.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, mapToResponse(p))
	}

	return responses, nil
}

func (s *AncillaryService) Update(ctx context.Context, req ancillary.UpdatePaymentRequest) (ancillary.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return ancillary.PaymentResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return ancillary.PaymentResponse{}, err
	}

	p, err := s.ancillaryRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return ancillary.PaymentResponse{}, err
	}

	if err := s.checkRecordIsDraft(ctx, p.EmployeeID, p.PeriodID, companyID); err != nil {
		return ancillary.PaymentResponse{}, err
	}

	if req.Label != nil {
		p.Label = *req.Label
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Amount != nil {
		p.Amount = *req.Amount
	}
	if req.Approved != nil {
		p.Approved = *req.Approved
	}

	if err := s.ancillaryRepo.Update(ctx, p); err != nil {
		return ancillary.PaymentResponse{}, err
	}

	return mapToResponse(p), nil
}

func (s *AncillaryService) Delete(ctx context.Context, id string) error {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := s.ancillaryRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}

	if err := s.checkRecordIsDraft(ctx, p.EmployeeID, p.PeriodID, companyID); err != nil {
		return err
	}

	return s.ancillaryRepo.Delete(ctx, id, companyID)
}
