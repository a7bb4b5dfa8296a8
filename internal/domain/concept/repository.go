package concept

import "context"

// ConceptRepository defines data access for the pay-concept catalog.
// All methods include companyID to prevent cross-company data access.
type ConceptRepository interface {
	Create(ctx context.Context, c PayConcept) (PayConcept, error)
	GetByID(ctx context.Context, id string, companyID string) (PayConcept, error)
	ListByCompanyID(ctx context.Context, companyID string, activeOnly bool) ([]PayConcept, error)
	Update(ctx context.Context, companyID string, req UpdateConceptRequest) error
	Delete(ctx context.Context, id string, companyID string) error
}
