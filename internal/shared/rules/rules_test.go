package rules

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

func TestFirstLetterUppercase(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"", false},
		{"Gabriel", false},
		{"Ángel", false},
		{"1984", false},
		{"_x", false},
		{"gabriel", true},
		{"ángel", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validation.Validate(tt.value, FirstLetterUppercase)
			if tt.wantErr {
				assert.EqualError(t, err, "The first letter must be uppercase")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFirstLetterUppercase_NilPointer(t *testing.T) {
	var s *string
	assert.NoError(t, validation.Validate(s, FirstLetterUppercase))
}

func TestFirstLetterUppercase_Pointer(t *testing.T) {
	lower, upper := "ana", "Ana"
	assert.Error(t, validation.Validate(&lower, FirstLetterUppercase))
	assert.NoError(t, validation.Validate(&upper, FirstLetterUppercase))
}
