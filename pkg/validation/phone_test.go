package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"e164 US", "+14155551234", true},
		{"bare 10 digits", "4155551234", true},
		{"15 digits", "123456789012345", true},
		{"15 digits with plus", "+123456789012345", true},
		{"spaces stripped", "+91 98765 43210", true},
		{"letters", "abc", false},
		{"empty", "", false},
		{"too short", "12345678", false},
		{"too long", "1234567890123456", false},
		{"plus only", "+", false},
		{"dash not stripped", "415-555-1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+14155551234"))
	assert.Error(t, ValidatePhone(""))
	assert.Error(t, ValidatePhone("not-a-number"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+14155551234", NormalizePhone(" +1 (415) 555-1234 "))
	assert.Equal(t, "4155551234", NormalizePhone("415 555 1234"))
}
