package concept

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/concept"
)

type ConceptService struct {
	conceptRepo concept.ConceptRepository
}

func NewConceptService(conceptRepo concept.ConceptRepository) *ConceptService {
	return &ConceptService{conceptRepo: conceptRepo}
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

func mapToResponse(c concept.PayConcept) concept.ConceptResponse {
	resp := concept.ConceptResponse{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		Code:       c.Code,
		Name:       c.Name,
		Type:       string(c.Type),
		Formula:    c.Formula,
		Percentage: c.Percentage,
		IsActive:   c.IsActive,
	}
	if c.Subtype != nil {
		s := string(*c.Subtype)
		resp.Subtype = &s
	}
	return resp
}

func (s *ConceptService) Create(ctx context.Context, req concept.CreateConceptRequest) (concept.ConceptResponse, error) {
	if err := req.Validate(); err != nil {
		return concept.ConceptResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return concept.ConceptResponse{}, err
	}

	c := concept.PayConcept{
		CompanyID:  companyID,
		Code:       req.Code,
		Name:       req.Name,
		Type:       concept.ConceptType(req.Type),
		Formula:    req.Formula,
		Percentage: req.Percentage,
		IsActive:   true,
	}
	if req.Subtype != nil {
		subtype := concept.ConceptSubtype(*req.Subtype)
		c.Subtype = &subtype
	}

	created, err := s.conceptRepo.Create(ctx, c)
	if err != nil {
		return concept.ConceptResponse{}, err
	}

	return mapToResponse(created), nil
}

func (s *ConceptService) GetByID(ctx context.Context, id string) (concept.ConceptResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return concept.ConceptResponse{}, err
	}

	c, err := s.conceptRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return concept.ConceptResponse{}, err
	}

	return mapToResponse(c), nil
}

func (s *ConceptService) List(ctx context.Context, activeOnly bool) ([]concept.ConceptResponse, error) {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	concepts, err := s.conceptRepo.ListByCompanyID(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]concept.ConceptResponse, 0, len(concepts))
	for _, c := range concepts {
		responses = append(responses, mapToResponse(c))
	}

	return responses, nil
}

func (s *ConceptService) Update(ctx context.Context, req concept.UpdateConceptRequest) (concept.ConceptResponse, error) {
	if err := req.Validate(); err != nil {
		return concept.ConceptResponse{}, err
	}

	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return concept.ConceptResponse{}, err
	}

	if err := s.conceptRepo.Update(ctx, companyID, req); err != nil {
		return concept.ConceptResponse{}, err
	}

	c, err := s.conceptRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return concept.ConceptResponse{}, err
	}

	return mapToResponse(c), nil
}

func (s *ConceptService) Delete(ctx context.Context, id string) error {
	companyID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.conceptRepo.Delete(ctx, id, companyID)
}
