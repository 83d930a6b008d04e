package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Contact number pattern - exactly 10 digits
	ContactPattern = `^\d{10}$`

	// Email validation pattern - deliberately loose, mirrors what the
	// backend itself accepts
	EmailPattern = `^\S+@\S+\.\S+$`

	// Password min length for login/reset forms
	PasswordMinLength = 6
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Contact *regexp.Regexp
	Email   *regexp.Regexp
}{
	Contact: regexp.MustCompile(ContactPattern),
	Email:   regexp.MustCompile(EmailPattern),
}

// IsContactNumber reports whether value is exactly 10 digits
func IsContactNumber(value string) bool {
	return CompiledPatterns.Contact.MatchString(value)
}

// IsEmail reports whether value looks like an email address
func IsEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(value)
}

// IsNumeric reports whether value parses as a decimal number
func IsNumeric(value string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return err == nil
}

// NewValidator builds a validator instance with the custom rules the form
// drafts use in their struct tags.
func NewValidator() *validator.Validate {
	v := validator.New()

	// contact: exactly 10 digits
	_ = v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return IsContactNumber(fl.Field().String())
	})

	// loose_email: the backend's tolerant address check
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})

	// numeric_str: a string that parses as a number
	_ = v.RegisterValidation("numeric_str", func(fl validator.FieldLevel) bool {
		return IsNumeric(fl.Field().String())
	})

	return v
}
