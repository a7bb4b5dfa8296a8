package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/ancillary"
	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
)

type ancillaryRepository struct {
	db *database.DB
}

func NewAncillaryRepository(db *database.DB) ancillary.AncillaryRepository {
	return &ancillaryRepository{db: db}
}

func (r *ancillaryRepository) Create(ctx context.Context, payment ancillary.AncillaryPayment) (ancillary.AncillaryPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO ancillary_payments (id, company_id, employee_id, period_id, label, description, amount, type, approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, company_id, employee_id, period_id, label, description, amount, type, approved, created_at, updated_at
	`

	var created ancillary.AncillaryPayment
	err := q.QueryRow(ctx, query,
		uuid.NewString(), payment.CompanyID, payment.EmployeeID, payment.PeriodID,
		payment.Label, payment.Description, payment.Amount, payment.Type, payment.Approved,
	).Scan(
		&created.ID, &created.CompanyID, &created.EmployeeID, &created.PeriodID, &created.Label,
		&created.Description, &created.Amount, &created.Type, &created.Approved,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return ancillary.AncillaryPayment{}, fmt.Errorf("failed to create ancillary payment: %w", err)
	}

	return created, nil
}

func (r *ancillaryRepository) GetByID(ctx context.Context, id string, companyID string) (ancillary.AncillaryPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_id, label, description, amount, type, approved, created_at, updated_at
		FROM ancillary_payments
		WHERE id = $1 AND company_id = $2
	`

	var p ancillary.AncillaryPayment
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&p.ID, &p.CompanyID, &p.EmployeeID, &p.PeriodID, &p.Label, &p.Description,
		&p.Amount, &p.Type, &p.Approved, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ancillary.AncillaryPayment{}, ancillary.ErrPaymentNotFound
		}
		return ancillary.AncillaryPayment{}, fmt.Errorf("failed to get ancillary payment: %w", err)
	}

	return p, nil
}

func (r *ancillaryRepository) ListByEmployeePeriod(ctx context.Context, employeeID, periodID, companyID string, approvedOnly bool) ([]ancillary.AncillaryPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_id, label, description, amount, type, approved, created_at, updated_at
		FROM ancillary_payments
		WHERE employee_id = $1 AND period_id = $2 AND company_id = $3
	`
	if approvedOnly {
		query += " AND approved = true"
	}
	query += " ORDER BY created_at"

	rows, err := q.Query(ctx, query, employeeID, periodID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ancillary payments: %w", err)
	}
	defer rows.Close()

	var payments []ancillary.AncillaryPayment
	for rows.Next() {
		var p ancillary.AncillaryPayment
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.EmployeeID, &p.PeriodID, &p.Label, &p.Description,
			&p.Amount, &p.Type, &p.Approved, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ancillary payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, nil
}

func (r *ancillaryRepository) Update(ctx context.Context, payment ancillary.AncillaryPayment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE ancillary_payments
		SET label = $3, description = $4, amount = $5, approved = $6, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		payment.ID, payment.CompanyID, payment.Label, payment.Description,
		payment.Amount, payment.Approved,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ancillary.ErrPaymentNotFound
		}
		return fmt.Errorf("failed to update ancillary payment: %w", err)
	}

	return nil
}

func (r *ancillaryRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM ancillary_payments WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ancillary.ErrPaymentNotFound
		}
		return fmt.Errorf("failed to delete ancillary payment: %w", err)
	}

	return nil
}
