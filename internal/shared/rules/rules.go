// Package rules holds ozzo-validation rules shared by the domain DTOs.
package rules

import (
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrFirstLetterUppercase is returned when a value starts with a lowercase letter.
var ErrFirstLetterUppercase = validation.NewError("validation_first_letter_uppercase", "The first letter must be uppercase")

// FirstLetterUppercase accepts empty values; otherwise the first rune
// must equal its upper-case form (digits and symbols pass).
var FirstLetterUppercase = validation.By(func(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r != unicode.ToUpper(r) {
		return ErrFirstLetterUppercase
	}
	return nil
})
