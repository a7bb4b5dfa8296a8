package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/concept"
	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
)

type conceptRepository struct {
	db *database.DB
}

func NewConceptRepository(db *database.DB) concept.ConceptRepository {
	return &conceptRepository{db: db}
}

func (r *conceptRepository) Create(ctx context.Context, c concept.PayConcept) (concept.PayConcept, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_concepts (id, company_id, code, name, type, subtype, formula, percentage, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, company_id, code, name, type, subtype, formula, percentage, is_active, created_at, updated_at
	`

	var created concept.PayConcept
	err := q.QueryRow(ctx, query,
		uuid.NewString(), c.CompanyID, c.Code, c.Name, c.Type, c.Subtype, c.Formula, c.Percentage, c.IsActive,
	).Scan(
		&created.ID, &created.CompanyID, &created.Code, &created.Name, &created.Type,
		&created.Subtype, &created.Formula, &created.Percentage, &created.IsActive,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_pay_concept_code") {
			return concept.PayConcept{}, concept.ErrConceptCodeExists
		}
		return concept.PayConcept{}, fmt.Errorf("failed to create pay concept: %w", err)
	}

	return created, nil
}

func (r *conceptRepository) GetByID(ctx context.Context, id string, companyID string) (concept.PayConcept, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, name, type, subtype, formula, percentage, is_active, created_at, updated_at
		FROM pay_concepts
		WHERE id = $1 AND company_id = $2
	`

	var c concept.PayConcept
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.Subtype, &c.Formula, &c.Percentage,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return concept.PayConcept{}, concept.ErrConceptNotFound
		}
		return concept.PayConcept{}, fmt.Errorf("failed to get pay concept: %w", err)
	}

	return c, nil
}

func (r *conceptRepository) ListByCompanyID(ctx context.Context, companyID string, activeOnly bool) ([]concept.PayConcept, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, code, name, type, subtype, formula, percentage, is_active, created_at, updated_at
		FROM pay_concepts
		WHERE company_id = $1
	`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY type, code"

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay concepts: %w", err)
	}
	defer rows.Close()

	var concepts []concept.PayConcept
	for rows.Next() {
		var c concept.PayConcept
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.Subtype, &c.Formula, &c.Percentage,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pay concept: %w", err)
		}
		concepts = append(concepts, c)
	}

	return concepts, nil
}

func (r *conceptRepository) Update(ctx context.Context, companyID string, req concept.UpdateConceptRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, companyID}
	argIdx := 3

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Formula != nil {
		setParts = append(setParts, fmt.Sprintf("formula = $%d", argIdx))
		args = append(args, *req.Formula)
		argIdx++
	}
	if req.Percentage != nil {
		setParts = append(setParts, fmt.Sprintf("percentage = $%d", argIdx))
		args = append(args, *req.Percentage)
		argIdx++
	}
	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE pay_concepts
		SET %s
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`, strings.Join(setParts, ", "))

	var updatedID string
	err := q.QueryRow(ctx, query, args...).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return concept.ErrConceptNotFound
		}
		return fmt.Errorf("failed to update pay concept: %w", err)
	}

	return nil
}

func (r *conceptRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM pay_concepts WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return concept.ErrConceptNotFound
		}
		return fmt.Errorf("failed to delete pay concept: %w", err)
	}

	return nil
}
