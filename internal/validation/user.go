package validation

import (
	"errors"
	"unicode"

	"github.com/asaskevich/govalidator"
	ozzo "github.com/go-ozzo/ozzo-validation"
)

// Message keys for user fields.
const (
	UsernameNull    = "username_null"
	UsernameSize    = "username_size"
	EmailNull       = "email_null"
	EmailInvalid    = "email_invalid"
	EmailInUse      = "email_in_use"
	PasswordNull    = "password_null"
	PasswordSize    = "password_size"
	PasswordPattern = "password_pattern"
)

func Username(username string) error {
	return ozzo.Validate(username,
		ozzo.Required.Error(UsernameNull),
		ozzo.RuneLength(4, 32).Error(UsernameSize),
	)
}

// Email checks presence and address shape. Uniqueness is checked by the caller.
func Email(email string) error {
	return ozzo.Validate(email,
		ozzo.Required.Error(EmailNull),
		ozzo.NewStringRule(govalidator.IsEmail, EmailInvalid),
	)
}

func Password(password string) error {
	return ozzo.Validate(password,
		ozzo.Required.Error(PasswordNull),
		ozzo.RuneLength(6, 0).Error(PasswordSize),
		ozzo.By(passwordPattern),
	)
}

// passwordPattern requires a lowercase letter, an uppercase letter and a digit.
func passwordPattern(value interface{}) error {
	s, _ := value.(string)
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return errors.New(PasswordPattern)
	}
	return nil
}

// Registration validates every registration field and reports all failures.
func Registration(username, email, password string) Errors {
	var errs Errors
	errs = collect(errs, FieldUsername, Username(username))
	errs = collect(errs, FieldEmail, Email(email))
	errs = collect(errs, FieldPassword, Password(password))
	return errs
}

func collect(errs Errors, field string, err error) Errors {
	if err == nil {
		return errs
	}
	return errs.Set(field, err.Error())
}
