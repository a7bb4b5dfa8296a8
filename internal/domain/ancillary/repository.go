package ancillary

import "context"

type AncillaryRepository interface {
	Create(ctx context.Context, payment AncillaryPayment) (AncillaryPayment, error)
	GetByID(ctx context.Context, id string, companyID string) (AncillaryPayment, error)
	ListByEmployeePeriod(ctx context.Context, employeeID, periodID, companyID string, approvedOnly bool) ([]AncillaryPayment, error)
	// Update writes the full mutable field set; the service merges the
	// request into the loaded payment first.
	Update(ctx context.Context, payment AncillaryPayment) error
	Delete(ctx context.Context, id string, companyID string) error
}
