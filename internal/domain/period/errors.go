package period

import "errors"

var (
	ErrPeriodNotFound   = errors.New("pay period not found")
	ErrPeriodNotOpen    = errors.New("pay period is not open")
	ErrPeriodNotClosed  = errors.New("pay period is not closed")
	ErrPeriodHasRecords = errors.New("pay period has payroll records and cannot be deleted")
)
