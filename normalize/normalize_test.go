package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedb/models"
	"invoicedb/normalize"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "alice", "Alice"},
		{"already canonical", "Alice", "Alice"},
		{"uppercase input", "ALICE", "Alice"},
		{"two words", "john smith", "John Smith"},
		{"surrounding whitespace", "  john   smith  ", "John Smith"},
		{"apostrophe", "o'brien", "O'Brien"},
		{"hyphenated", "jean-luc picard", "Jean-Luc Picard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalize.Name(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestName_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"digits", "alice2"},
		{"symbols", "alice!"},
		{"trailing hyphen", "alice-"},
		{"leading apostrophe", "'alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalize.Name(tt.in)
			assert.ErrorIs(t, err, models.ErrInvalidFormat)
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "alice@example.com", "alice@example.com"},
		{"mixed case folds", "Alice@Example.COM", "alice@example.com"},
		{"surrounding whitespace", "  alice@example.com  ", "alice@example.com"},
		{"plus tag", "alice+billing@example.com", "alice+billing@example.com"},
		{"subdomain", "a.b@mail.example.co", "a.b@mail.example.co"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalize.Email(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmail_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing at", "alice.example.com"},
		{"missing domain dot", "alice@example"},
		{"short tld", "alice@example.c"},
		{"spaces inside", "alice smith@example.com"},
		{"two ats", "a@b@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalize.Email(tt.in)
			assert.ErrorIs(t, err, models.ErrInvalidFormat)
		})
	}
}
