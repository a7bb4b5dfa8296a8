package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/period"
	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
)

type periodRepository struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) period.PeriodRepository {
	return &periodRepository{db: db}
}

func (r *periodRepository) Create(ctx context.Context, p period.PayPeriod) (period.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_periods (id, company_id, name, start_date, end_date, day_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, company_id, name, start_date, end_date, day_count, status, closed_at, paid_at, created_at, updated_at
	`

	var created period.PayPeriod
	err := q.QueryRow(ctx, query,
		uuid.NewString(), p.CompanyID, p.Name, p.StartDate, p.EndDate, p.DayCount, p.Status,
	).Scan(
		&created.ID, &created.CompanyID, &created.Name, &created.StartDate, &created.EndDate,
		&created.DayCount, &created.Status, &created.ClosedAt, &created.PaidAt,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return period.PayPeriod{}, fmt.Errorf("failed to create pay period: %w", err)
	}

	return created, nil
}

func (r *periodRepository) GetByID(ctx context.Context, id string, companyID string) (period.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, start_date, end_date, day_count, status, closed_at, paid_at, created_at, updated_at
		FROM pay_periods
		WHERE id = $1 AND company_id = $2
	`

	var p period.PayPeriod
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.StartDate, &p.EndDate, &p.DayCount, &p.Status,
		&p.ClosedAt, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return period.PayPeriod{}, period.ErrPeriodNotFound
		}
		return period.PayPeriod{}, fmt.Errorf("failed to get pay period: %w", err)
	}

	return p, nil
}

func (r *periodRepository) ListByCompanyID(ctx context.Context, companyID string) ([]period.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, start_date, end_date, day_count, status, closed_at, paid_at, created_at, updated_at
		FROM pay_periods
		WHERE company_id = $1
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay periods: %w", err)
	}
	defer rows.Close()

	var periods []period.PayPeriod
	for rows.Next() {
		var p period.PayPeriod
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.Name, &p.StartDate, &p.EndDate, &p.DayCount, &p.Status,
			&p.ClosedAt, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pay period: %w", err)
		}
		periods = append(periods, p)
	}

	return periods, nil
}

func (r *periodRepository) SetStatus(ctx context.Context, id string, companyID string, status period.PeriodStatus, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	var stampColumn string
	switch status {
	case period.PeriodStatusClosed:
		stampColumn = "closed_at"
	case period.PeriodStatusPaid:
		stampColumn = "paid_at"
	default:
		return fmt.Errorf("unsupported period status transition target: %s", status)
	}

	query := fmt.Sprintf(`
		UPDATE pay_periods
		SET status = $3, %s = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`, stampColumn)

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID, status, at).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return period.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to update pay period status: %w", err)
	}

	return nil
}

func (r *periodRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM pay_periods WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return period.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to delete pay period: %w", err)
	}

	return nil
}
