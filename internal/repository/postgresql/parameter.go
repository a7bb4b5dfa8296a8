package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/parameter"
	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
)

type parameterRepository struct {
	db *database.DB
}

func NewParameterRepository(db *database.DB) parameter.ParameterRepository {
	return &parameterRepository{db: db}
}

func (r *parameterRepository) Get(ctx context.Context, code string, companyID string, year int) (parameter.Parameter, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, year, value, created_at, updated_at
		FROM parameters
		WHERE code = $1 AND company_id = $2 AND year = $3
	`

	var p parameter.Parameter
	err := q.QueryRow(ctx, query, code, companyID, year).Scan(
		&p.ID, &p.CompanyID, &p.Code, &p.Year, &p.Value, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return parameter.Parameter{}, parameter.ErrParameterNotFound
		}
		return parameter.Parameter{}, fmt.Errorf("failed to get parameter: %w", err)
	}

	return p, nil
}

func (r *parameterRepository) Upsert(ctx context.Context, param parameter.Parameter) (parameter.Parameter, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO parameters (id, company_id, code, year, value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, code, year) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
		RETURNING id, company_id, code, year, value, created_at, updated_at
	`

	var p parameter.Parameter
	err := q.QueryRow(ctx, query,
		uuid.NewString(), param.CompanyID, param.Code, param.Year, param.Value,
	).Scan(
		&p.ID, &p.CompanyID, &p.Code, &p.Year, &p.Value, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return parameter.Parameter{}, fmt.Errorf("failed to upsert parameter: %w", err)
	}

	return p, nil
}

func (r *parameterRepository) ListByCompanyYear(ctx context.Context, companyID string, year int) ([]parameter.Parameter, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, year, value, created_at, updated_at
		FROM parameters
		WHERE company_id = $1 AND year = $2
		ORDER BY code
	`

	rows, err := q.Query(ctx, query, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}
	defer rows.Close()

	var params []parameter.Parameter
	for rows.Next() {
		var p parameter.Parameter
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Year, &p.Value, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		params = append(params, p)
	}

	return params, nil
}
