package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/overtime"
	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepository{db: db}
}

func (r *overtimeRepository) Create(ctx context.Context, entry overtime.OvertimeEntry) (overtime.OvertimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_entries (id, company_id, employee_id, period_id, date, type, hours, hourly_value, line_total, approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, company_id, employee_id, period_id, date, type, hours, hourly_value, line_total, approved, created_at, updated_at
	`

	var created overtime.OvertimeEntry
	err := q.QueryRow(ctx, query,
		uuid.NewString(), entry.CompanyID, entry.EmployeeID, entry.PeriodID, entry.Date,
		entry.Type, entry.Hours, entry.HourlyValue, entry.LineTotal, entry.Approved,
	).Scan(
		&created.ID, &created.CompanyID, &created.EmployeeID, &created.PeriodID, &created.Date,
		&created.Type, &created.Hours, &created.HourlyValue, &created.LineTotal, &created.Approved,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return overtime.OvertimeEntry{}, fmt.Errorf("failed to create overtime entry: %w", err)
	}

	return created, nil
}

func (r *overtimeRepository) GetByID(ctx context.Context, id string, companyID string) (overtime.OvertimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_id, date, type, hours, hourly_value, line_total, approved, created_at, updated_at
		FROM overtime_entries
		WHERE id = $1 AND company_id = $2
	`

	var e overtime.OvertimeEntry
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.PeriodID, &e.Date, &e.Type, &e.Hours,
		&e.HourlyValue, &e.LineTotal, &e.Approved, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.OvertimeEntry{}, overtime.ErrOvertimeEntryNotFound
		}
		return overtime.OvertimeEntry{}, fmt.Errorf("failed to get overtime entry: %w", err)
	}

	return e, nil
}

func (r *overtimeRepository) ListByEmployeePeriod(ctx context.Context, employeeID, periodID, companyID string, approvedOnly bool) ([]overtime.OvertimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_id, date, type, hours, hourly_value, line_total, approved, created_at, updated_at
		FROM overtime_entries
		WHERE employee_id = $1 AND period_id = $2 AND company_id = $3
	`
	if approvedOnly {
		query += " AND approved = true"
	}
	query += " ORDER BY date, created_at"

	rows, err := q.Query(ctx, query, employeeID, periodID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime entries: %w", err)
	}
	defer rows.Close()

	var entries []overtime.OvertimeEntry
	for rows.Next() {
		var e overtime.OvertimeEntry
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.EmployeeID, &e.PeriodID, &e.Date, &e.Type, &e.Hours,
			&e.HourlyValue, &e.LineTotal, &e.Approved, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan overtime entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (r *overtimeRepository) Update(ctx context.Context, entry overtime.OvertimeEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_entries
		SET date = $3, type = $4, hours = $5, hourly_value = $6, line_total = $7, approved = $8, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		entry.ID, entry.CompanyID, entry.Date, entry.Type, entry.Hours,
		entry.HourlyValue, entry.LineTotal, entry.Approved,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.ErrOvertimeEntryNotFound
		}
		return fmt.Errorf("failed to update overtime entry: %w", err)
	}

	return nil
}

func (r *overtimeRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM overtime_entries WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.ErrOvertimeEntryNotFound
		}
		return fmt.Errorf("failed to delete overtime entry: %w", err)
	}

	return nil
}
