package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordStatusTransitions(t *testing.T) {
	cases := []struct {
		from    RecordStatus
		to      RecordStatus
		allowed bool
	}{
		{RecordStatusDraft, RecordStatusApproved, true},
		{RecordStatusApproved, RecordStatusPaid, true},
		{RecordStatusDraft, RecordStatusPaid, false},
		{RecordStatusApproved, RecordStatusDraft, false},
		{RecordStatusPaid, RecordStatusApproved, false},
		{RecordStatusPaid, RecordStatusDraft, false},
		{RecordStatusDraft, RecordStatusDraft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}
