package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedb/models"
	"invoicedb/normalize"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"us dashes", "01-20-2025", "2025-01-20"},
		{"us slashes", "01/20/2025", "2025-01-20"},
		{"iso passthrough", "2025-01-20", "2025-01-20"},
		{"non-padded slashes", "1/20/2025", "2025-01-20"},
		{"non-padded dashes", "1-5-2025", "2025-01-05"},
		{"non-padded iso", "2025-1-2", "2025-01-02"},
		{"surrounding whitespace", " 03/17/2025 ", "2025-03-17"},
		{"blank means no value", "", ""},
		{"whitespace only means no value", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalize.Date(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"garbage", "not-a-date"},
		{"month out of range", "13-01-2025"},
		{"day out of range", "02-30-2025"},
		{"day first", "20-01-2025"},
		{"partial", "2025-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalize.Date(tt.in)
			assert.ErrorIs(t, err, models.ErrInvalidFormat)
		})
	}
}
