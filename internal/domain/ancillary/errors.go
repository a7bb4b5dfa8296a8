package ancillary

import "errors"

var ErrPaymentNotFound = errors.New("ancillary payment not found")
