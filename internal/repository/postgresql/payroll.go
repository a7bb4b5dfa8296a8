package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/payroll"
	"github.com/nominacloud/erp-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayRecordRepository {
	return &payrollRepository{db: db}
}

const payRecordColumns = `
	pr.id, pr.company_id, pr.period_id, pr.employee_id, pr.monthly_salary, pr.hourly_rate,
	pr.days_paid, pr.total_earnings, pr.total_deductions, pr.net_pay, pr.status, pr.note,
	pr.approved_by, pr.approved_at, pr.paid_at, pr.created_by, pr.created_at, pr.updated_at`

func scanPayRecord(row pgx.Row) (payroll.PayRecord, error) {
	var r payroll.PayRecord
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.PeriodID, &r.EmployeeID, &r.MonthlySalary, &r.HourlyRate,
		&r.DaysPaid, &r.TotalEarnings, &r.TotalDeductions, &r.NetPay, &r.Status, &r.Note,
		&r.ApprovedBy, &r.ApprovedAt, &r.PaidAt, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *payrollRepository) Create(ctx context.Context, record payroll.PayRecord) (payroll.PayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_records (
			id, company_id, period_id, employee_id, monthly_salary, hourly_rate,
			days_paid, total_earnings, total_deductions, net_pay, status, note, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, company_id, period_id, employee_id, monthly_salary, hourly_rate,
			days_paid, total_earnings, total_deductions, net_pay, status, note,
			approved_by, approved_at, paid_at, created_by, created_at, updated_at
	`

	created, err := scanPayRecord(q.QueryRow(ctx, query,
		uuid.NewString(), record.CompanyID, record.PeriodID, record.EmployeeID,
		record.MonthlySalary, record.HourlyRate, record.DaysPaid,
		record.TotalEarnings, record.TotalDeductions, record.NetPay,
		record.Status, record.Note, record.CreatedBy,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_pay_record_period_employee") {
			return payroll.PayRecord{}, payroll.ErrPayRecordExists
		}
		return payroll.PayRecord{}, fmt.Errorf("failed to create pay record: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) getByID(ctx context.Context, id string, companyID string, forUpdate bool) (payroll.PayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + payRecordColumns + `, e.full_name
		FROM pay_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.id = $1 AND pr.company_id = $2
	`
	if forUpdate {
		query += " FOR UPDATE OF pr"
	}

	var rec payroll.PayRecord
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&rec.ID, &rec.CompanyID, &rec.PeriodID, &rec.EmployeeID, &rec.MonthlySalary, &rec.HourlyRate,
		&rec.DaysPaid, &rec.TotalEarnings, &rec.TotalDeductions, &rec.NetPay, &rec.Status, &rec.Note,
		&rec.ApprovedBy, &rec.ApprovedAt, &rec.PaidAt, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayRecord{}, payroll.ErrPayRecordNotFound
		}
		return payroll.PayRecord{}, fmt.Errorf("failed to get pay record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.PayRecord, error) {
	return r.getByID(ctx, id, companyID, false)
}

func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string, companyID string) (payroll.PayRecord, error) {
	return r.getByID(ctx, id, companyID, true)
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID, periodID, companyID string) (payroll.PayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + payRecordColumns + `
		FROM pay_records pr
		WHERE pr.employee_id = $1 AND pr.period_id = $2 AND pr.company_id = $3
	`

	rec, err := scanPayRecord(q.QueryRow(ctx, query, employeeID, periodID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayRecord{}, payroll.ErrPayRecordNotFound
		}
		return payroll.PayRecord{}, fmt.Errorf("failed to get pay record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) List(ctx context.Context, companyID string, filter payroll.RecordFilter) ([]payroll.PayRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"pr.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.PeriodID != nil {
		where = append(where, fmt.Sprintf("pr.period_id = $%d", argIdx))
		args = append(args, *filter.PeriodID)
		argIdx++
	}
	if filter.EmployeeID != nil {
		where = append(where, fmt.Sprintf("pr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("pr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(where, " AND ")

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM pay_records pr WHERE " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count pay records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT`+payRecordColumns+`, e.full_name
		FROM pay_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE %s
		ORDER BY e.full_name, pr.id
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pay records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayRecord
	for rows.Next() {
		var rec payroll.PayRecord
		if err := rows.Scan(
			&rec.ID, &rec.CompanyID, &rec.PeriodID, &rec.EmployeeID, &rec.MonthlySalary, &rec.HourlyRate,
			&rec.DaysPaid, &rec.TotalEarnings, &rec.TotalDeductions, &rec.NetPay, &rec.Status, &rec.Note,
			&rec.ApprovedBy, &rec.ApprovedAt, &rec.PaidAt, &rec.CreatedBy, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan pay record: %w", err)
		}
		records = append(records, rec)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) GetLineItems(ctx context.Context, recordID string) ([]payroll.PayLineItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT li.id, li.pay_record_id, li.concept_id, li.type, li.quantity, li.unit_value, li.line_total, li.note,
			c.code, c.name
		FROM pay_line_items li
		JOIN pay_concepts c ON c.id = li.concept_id
		WHERE li.pay_record_id = $1
		ORDER BY li.type, c.code, li.id
	`

	rows, err := q.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay line items: %w", err)
	}
	defer rows.Close()

	var lines []payroll.PayLineItem
	for rows.Next() {
		var l payroll.PayLineItem
		if err := rows.Scan(
			&l.ID, &l.PayRecordID, &l.ConceptID, &l.Type, &l.Quantity, &l.UnitValue, &l.LineTotal, &l.Note,
			&l.ConceptCode, &l.ConceptName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pay line item: %w", err)
		}
		lines = append(lines, l)
	}

	return lines, nil
}

func (r *payrollRepository) ReplaceLineItems(ctx context.Context, recordID string, lines []payroll.PayLineItem) ([]payroll.PayLineItem, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM pay_line_items WHERE pay_record_id = $1`, recordID); err != nil {
		return nil, fmt.Errorf("failed to delete pay line items: %w", err)
	}

	query := `
		INSERT INTO pay_line_items (id, pay_record_id, concept_id, type, quantity, unit_value, line_total, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	created := make([]payroll.PayLineItem, 0, len(lines))
	for _, line := range lines {
		line.ID = uuid.NewString()
		line.PayRecordID = recordID
		if _, err := q.Exec(ctx, query,
			line.ID, line.PayRecordID, line.ConceptID, line.Type,
			line.Quantity, line.UnitValue, line.LineTotal, line.Note,
		); err != nil {
			return nil, fmt.Errorf("failed to insert pay line item: %w", err)
		}
		created = append(created, line)
	}

	return created, nil
}

func (r *payrollRepository) UpdateTotals(ctx context.Context, id string, companyID string, hourlyRate, earnings, deductions, net decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_records
		SET hourly_rate = $3, total_earnings = $4, total_deductions = $5, net_pay = $6, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID, hourlyRate, earnings, deductions, net).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayRecordNotFound
		}
		return fmt.Errorf("failed to update pay record totals: %w", err)
	}

	return nil
}

func (r *payrollRepository) Approve(ctx context.Context, id string, companyID string, approverID string, note *string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_records
		SET status = $3, approved_by = $4, approved_at = $5, note = COALESCE($6, note), updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID, payroll.RecordStatusApproved, approverID, at, note).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayRecordNotFound
		}
		return fmt.Errorf("failed to approve pay record: %w", err)
	}

	return nil
}

func (r *payrollRepository) MarkPaid(ctx context.Context, id string, companyID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_records
		SET status = $3, paid_at = $4, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID, payroll.RecordStatusPaid, at).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayRecordNotFound
		}
		return fmt.Errorf("failed to mark pay record paid: %w", err)
	}

	return nil
}

func (r *payrollRepository) Update(ctx context.Context, companyID string, req payroll.UpdatePayRecordRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, companyID}
	argIdx := 3

	if req.DaysPaid != nil {
		setParts = append(setParts, fmt.Sprintf("days_paid = $%d", argIdx))
		args = append(args, *req.DaysPaid)
		argIdx++
	}
	if req.Note != nil {
		setParts = append(setParts, fmt.Sprintf("note = $%d", argIdx))
		args = append(args, *req.Note)
		argIdx++
	}

	query := fmt.Sprintf(`
		UPDATE pay_records
		SET %s
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`, strings.Join(setParts, ", "))

	var updatedID string
	err := q.QueryRow(ctx, query, args...).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayRecordNotFound
		}
		return fmt.Errorf("failed to update pay record: %w", err)
	}

	return nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	// line items go with the record
	if _, err := q.Exec(ctx, `DELETE FROM pay_line_items WHERE pay_record_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete pay line items: %w", err)
	}

	query := `DELETE FROM pay_records WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayRecordNotFound
		}
		return fmt.Errorf("failed to delete pay record: %w", err)
	}

	return nil
}

func (r *payrollRepository) ExistsForPeriod(ctx context.Context, periodID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM pay_records WHERE period_id = $1 AND company_id = $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, periodID, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pay records for period: %w", err)
	}

	return exists, nil
}

func (r *payrollRepository) GetPeriodSummary(ctx context.Context, periodID string, companyID string) (payroll.PeriodSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*),
			COALESCE(SUM(total_earnings), 0),
			COALESCE(SUM(total_deductions), 0),
			COALESCE(SUM(net_pay), 0),
			COUNT(*) FILTER (WHERE status = 'BORRADOR'),
			COUNT(*) FILTER (WHERE status = 'APROBADO'),
			COUNT(*) FILTER (WHERE status = 'PAGADO')
		FROM pay_records
		WHERE period_id = $1 AND company_id = $2
	`

	summary := payroll.PeriodSummaryResponse{PeriodID: periodID}
	err := q.QueryRow(ctx, query, periodID, companyID).Scan(
		&summary.TotalEmployees, &summary.TotalEarnings, &summary.TotalDeductions,
		&summary.TotalNetPay, &summary.DraftCount, &summary.ApprovedCount, &summary.PaidCount,
	)
	if err != nil {
		return payroll.PeriodSummaryResponse{}, fmt.Errorf("failed to get period summary: %w", err)
	}

	return summary, nil
}
