// Package validation holds the field-level error type shared by every form
// and the named predicates the forms are composed of.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field to the message reported next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Check records the message for err under field when err is non-nil.
func (e Errors) Check(field string, err error) {
	if err != nil {
		e.Add(field, Message(err))
	}
}

// Err returns nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Fields extracts the field errors from err, if any.
func Fields(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var (
	transactionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,}$`)
	usernamePattern      = regexp.MustCompile(`^[\w.@+-]+$`)
)

const OrganiserPasswordPrefix = "admin"

var (
	ErrTransactionID      = errors.New("invalid transaction id")
	ErrOrganiserPassword  = errors.New("organiser password without required prefix")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordNumeric    = errors.New("password entirely numeric")
	ErrUsernameCharacters = errors.New("invalid username characters")
)

// Messages shown next to a field for the errors above.
const (
	MsgTransactionID      = "Transaction ID must be at least 8 characters and alphanumeric."
	MsgOrganiserPassword  = "Organiser password must start with '" + OrganiserPasswordPrefix + "'"
	MsgPasswordMismatch   = "The two password fields didn't match."
	MsgPasswordTooShort   = "This password is too short. It must contain at least 8 characters."
	MsgPasswordNumeric    = "This password is entirely numeric."
	MsgUsernameCharacters = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var messages = []struct {
	err error
	msg string
}{
	{ErrTransactionID, MsgTransactionID},
	{ErrOrganiserPassword, MsgOrganiserPassword},
	{ErrPasswordMismatch, MsgPasswordMismatch},
	{ErrPasswordTooShort, MsgPasswordTooShort},
	{ErrPasswordNumeric, MsgPasswordNumeric},
	{ErrUsernameCharacters, MsgUsernameCharacters},
}

// Message returns the user-facing sentence for err. Errors without one are
// reported by their own text.
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

// TransactionID checks a manual-payment reference: at least eight letters,
// digits or hyphens.
func TransactionID(id string) error {
	if !transactionIDPattern.MatchString(id) {
		return ErrTransactionID
	}
	return nil
}

// OrganiserPassword applies the organiser password policy. Other roles are
// unconstrained by it.
func OrganiserPassword(isOrganiser bool, password string) error {
	if isOrganiser && !strings.HasPrefix(password, OrganiserPasswordPrefix) {
		return ErrOrganiserPassword
	}
	return nil
}

func PasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if strings.Trim(password, "0123456789") == "" {
		return ErrPasswordNumeric
	}
	return nil
}

func PasswordsMatch(password1, password2 string) error {
	if password1 != password2 {
		return ErrPasswordMismatch
	}
	return nil
}

func Username(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrUsernameCharacters
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	v.RegisterValidation("txnid", func(fl validator.FieldLevel) bool {
		return TransactionID(fl.Field().String()) == nil
	})
	return v
}

// fieldName reports fields by their form name so errors line up with the
// submitted fields.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Struct runs the `validate` tags of s and converts failures to field errors.
func Struct(s any) Errors {
	errs := Errors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		errs.Add("__all__", err.Error())
		return errs
	}
	for _, fe := range ves {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "oneof", "gte", "lte":
		return "Select a valid choice."
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "txnid":
		return MsgTransactionID
	default:
		return "Enter a valid value."
	}
}
