package parameter

import "errors"

var ErrParameterNotFound = errors.New("parameter not found")
