package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MinPasswordLength = 6
	dateLayout        = "2006-01-02"
)

var (
	hasDigit  = regexp.MustCompile(`[0-9]`)
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasSymbol = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(MinPasswordLength, 0).Error("Passwords must be at least 6 characters"),
		validation.Match(hasDigit).Error("Passwords must have at least one digit ('0'-'9')"),
		validation.Match(hasLower).Error("Passwords must have at least one lowercase ('a'-'z')"),
		validation.Match(hasUpper).Error("Passwords must have at least one uppercase ('A'-'Z')"),
		validation.Match(hasSymbol).Error("Passwords must have at least one non alphanumeric character"),
	}
}

// Date is a calendar day, written as 2006-01-02. RFC 3339 timestamps
// are accepted on input and truncated to the day.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return errors.New("birthDate must be a date like 2000-12-31")
		}
	}
	*d = NewDate(t)
	return nil
}

// ========================================
// REQUESTS
// ========================================

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the registration rules
func (r CredentialsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("The field email is required"),
			is.EmailFormat.Error("The field email must be a valid email"),
			validation.Length(0, 256),
		),
		validation.Field(&r.Password,
			append([]validation.Rule{validation.Required.Error("The field password is required")}, passwordRules()...)...,
		),
	)
}

// ValidateLogin only checks presence; password rules are not disclosed on login
func (r CredentialsRequest) ValidateLogin() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("The field email is required")),
		validation.Field(&r.Password, validation.Required.Error("The field password is required")),
	)
}

type UpdateUserRequest struct {
	BirthDate       *Date  `json:"birthDate"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r UpdateUserRequest) Validate() error {
	changing := r.NewPassword != ""
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.When(changing, passwordRules()...)),
		validation.Field(&r.CurrentPassword,
			validation.When(changing, validation.Required.Error(ErrCurrentPasswordRequired.Error())),
		),
	)
}

type EditClaimRequest struct {
	Email string `json:"email"`
}

func (r EditClaimRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("The field email is required"),
			is.EmailFormat.Error("The field email must be a valid email"),
		),
	)
}

// ========================================
// RESPONSES
// ========================================

type AuthResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

type UserResponse struct {
	Email     string `json:"email"`
	BirthDate *Date  `json:"birthDate"`
	IsAdmin   bool   `json:"isAdmin"`
}

func (u *User) ToResponse() UserResponse {
	out := UserResponse{Email: u.Email, IsAdmin: u.IsAdmin()}
	if u.BirthDate != nil {
		d := NewDate(*u.BirthDate)
		out.BirthDate = &d
	}
	return out
}

func ToResponses(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out
}
