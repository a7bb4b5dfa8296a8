package concept

import "errors"

var (
	ErrConceptNotFound   = errors.New("pay concept not found")
	ErrConceptCodeExists = errors.New("pay concept code already exists")
)
