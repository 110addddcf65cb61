package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRefundStatus(t *testing.T) {
	valid := []string{"requested", "processing", "completed", "failed", "denied"}
	for _, s := range valid {
		assert.Truef(t, IsValidRefundStatus(s), "expected %q to be valid", s)
	}

	invalid := []string{"REQUESTED", "Completed", "PROCESSING", "approved", "cancelled", "", "completed "}
	for _, s := range invalid {
		assert.Falsef(t, IsValidRefundStatus(s), "expected %q to be invalid", s)
	}
}

func TestCanAdvanceRefundStatus(t *testing.T) {
	requested := REFUND_REQUESTED
	processing := REFUND_PROCESSING
	completed := REFUND_COMPLETED
	failed := REFUND_FAILED
	denied := REFUND_DENIED

	cases := []struct {
		name string
		from *RefundStatus
		to   RefundStatus
		want bool
	}{
		{"nil to requested", nil, requested, true},
		{"nil to completed", nil, completed, true},
		{"requested to processing", &requested, processing, true},
		{"requested to completed", &requested, completed, true},
		{"requested to denied", &requested, denied, true},
		{"processing to completed", &processing, completed, true},
		{"processing to failed", &processing, failed, true},
		{"processing to requested", &processing, requested, false},
		{"completed to processing", &completed, processing, false},
		{"completed to requested", &completed, requested, false},
		{"failed to completed", &failed, completed, false},
		{"denied to failed", &denied, failed, false},
		{"requested to requested", &requested, requested, false},
		{"requested to unknown", &requested, RefundStatus("approved"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAdvanceRefundStatus(tc.from, tc.to))
		})
	}
}
