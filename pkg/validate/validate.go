// Package validate checks request structs with go-playground/validator and
// turns the first failure into a domain error.
//
// Besides the stock tags it registers "contact", the email rule shared by
// registration and profile updates.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/akinalp/gamevault/pkg"
	"github.com/go-playground/validator/v10"
)

// contactPattern is ^[\w-.]+@([\w-]+\.)+[\w-]{2,4}$ with the first class
// reordered, since RE2 reads "\w-." as a range.
var contactPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	if err := val.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return IsContact(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	// Report json names ("email") instead of Go names ("Email").
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return val
}

// IsContact reports whether s is a well-formed contact identifier (email).
func IsContact(s string) bool {
	return contactPattern.MatchString(s)
}

// Struct validates s and returns nil, or the first failing field as an error
// wrapping pkg.ErrValidation (pkg.ErrInvalidFormat for the contact rule).
//
// Fields are checked in declaration order and only the first failure is
// reported, so request structs list their fields in the order checks should run.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %s", pkg.ErrValidation, err.Error())
	}

	first := fieldErrs[0]
	switch first.Tag() {
	case "contact":
		return fmt.Errorf("%w: %s must be a valid email address", pkg.ErrInvalidFormat, first.Field())
	case "required":
		return fmt.Errorf("%w: %s is required", pkg.ErrValidation, first.Field())
	default:
		return fmt.Errorf("%w: %s failed %q", pkg.ErrValidation, first.Field(), first.Tag())
	}
}
