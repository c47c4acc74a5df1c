package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceRules_IsWorkdayDate(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		date string
		want bool
	}{
		{"2024-01-15", true},  // Monday
		{"2024-01-19", true},  // Friday
		{"2024-01-20", false}, // Saturday
		{"2024-01-21", false}, // Sunday
		{"not-a-date", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.IsWorkdayDate(tt.date))
		})
	}
}
