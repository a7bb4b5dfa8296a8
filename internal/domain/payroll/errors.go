package payroll

import "errors"

var (
	ErrPayRecordNotFound    = errors.New("payroll record not found")
	ErrPayRecordExists      = errors.New("payroll record already exists for this employee and period")
	ErrPayRecordNotDraft    = errors.New("cannot modify an approved or paid payroll record")
	ErrPayRecordNotApproved = errors.New("payroll record is not approved")
	ErrEmployeeNotActive    = errors.New("employee is not active")
)
