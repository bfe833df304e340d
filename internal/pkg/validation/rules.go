package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Email validation pattern, matched against the lowercased address
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Password min length
	PasswordMinLength = 8
	PasswordMaxLength = 72

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100

	// Comment text bounds in characters
	CommentMinLength = 1
	CommentMaxLength = 1000

	// Star rating bounds
	RatingMin = 1
	RatingMax = 5
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail reports whether email is a plausible address.
func IsEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(NormalizeEmail(email))
}

// IsPassword reports whether password is long enough and mixes letters and digits.
func IsPassword(password string) bool {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return false
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// StringValidation validates one string value
type StringValidation struct {
	Value  string
	MinLen int
	MaxLen int
}

// NewStringValidation creates a new validation for a required string
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// Validate performs validation. Lengths count characters, not bytes.
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return false
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}

	return true
}

// NumericValidation validates one integer value
type NumericValidation struct {
	Value int
	Min   int
	Max   int
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{Value: value}
}

// WithMin sets minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

// WithMax sets maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	if v.Min != 0 && v.Value < v.Min {
		return false
	}

	if v.Max != 0 && v.Value > v.Max {
		return false
	}

	return true
}

// RegisterRules adds the "password" and "comment_type" binding tags to v.
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsPassword(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("comment_type", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
		case "material", "profile":
			return true
		}
		return false
	})
}
