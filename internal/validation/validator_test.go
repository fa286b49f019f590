package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_IsNonEmptyString(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"   ", false},
		{"\t\n", false},
		{"Kochi", true},
		{"  Fort Kochi  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, validator.IsNonEmptyString(tt.input))
		})
	}
}

func TestValidator_TrimAndValidateString(t *testing.T) {
	assert.Equal(t, "Kochi", NewValidator().TrimAndValidateString("  Kochi \n"))
}

func TestValidator_Coordinates(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsValidLatitude(9.9312))
	assert.True(t, v.IsValidLatitude(-90))
	assert.False(t, v.IsValidLatitude(90.1))
	assert.True(t, v.IsValidLongitude(180))
	assert.False(t, v.IsValidLongitude(-180.5))
}
