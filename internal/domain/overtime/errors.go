package overtime

import "errors"

var ErrOvertimeEntryNotFound = errors.New("overtime entry not found")
