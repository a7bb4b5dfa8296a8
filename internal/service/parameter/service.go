package parameter

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/parameter"
)

type ParameterService struct {
	parameterRepo parameter.ParameterRepository
}

func NewParameterService(parameterRepo parameter.ParameterRepository) *ParameterService {
	return &ParameterService{parameterRepo: parameterRepo}
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

func mapToResponse(p parameter.Parameter) parameter.ParameterResponse {
	return parameter.ParameterResponse{
		ID:    p.ID,
		Code:  p.Code,
		Year:  p.Year,
		Value: p.Value,
	}
}

func (s *ParameterService) Upsert(ctx context.Context, req parameter.UpsertParameterRequest) (parameter.ParameterResponse, error) {
	if err := req.Validate(); err != nil {
		return parameter.ParameterResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return parameter.ParameterResponse{}, err
	}

	p, err := s.parameterRepo.Upsert(ctx, parameter.Parameter{
		CompanyID: companyID,
		Code:      req.Code,
		Year:      req.Year,
		Value:     req.Value,
	})
	if err != nil {
		return parameter.ParameterResponse{}, err
	}

	return mapToResponse(p), nil
}

func (s *ParameterService) ListByYear(ctx context.Context, year int) ([]parameter.ParameterResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	params, err := s.parameterRepo.ListByCompanyYear(ctx, companyID, year)
	if err != nil {
		return nil, err
	}

	responses := make([]parameter.ParameterResponse, 0, len(params))
	for _, p := range params {
		responses = append(responses, mapToResponse(p))
	}

	return responses, nil
}
