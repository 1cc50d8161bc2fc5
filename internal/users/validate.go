package users

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"padel-backend/internal"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// ValidateRegistration checks the field shapes of a registration request and
// returns a validation error naming the first offending field.
func ValidateRegistration(name, email, password, phone string) error {
	if strings.TrimSpace(name) == "" {
		return internal.Errorf(internal.KindValidation, "name is required")
	}
	if strings.TrimSpace(email) == "" {
		return internal.Errorf(internal.KindValidation, "email is required")
	}
	if !emailPattern.MatchString(email) {
		return internal.Errorf(internal.KindValidation, "email must look like local@domain.tld")
	}
	if password == "" {
		return internal.Errorf(internal.KindValidation, "password is required")
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if strings.TrimSpace(phone) == "" {
		return internal.Errorf(internal.KindValidation, "phone is required")
	}
	if _, err := PhoneFromString(phone); err != nil {
		return err
	}
	return nil
}

// ValidatePassword enforces the 8 to 16 character length allowed for a
// plaintext password.
func ValidatePassword(plain string) error {
	if n := utf8.RuneCountInString(plain); n < 8 || n > 16 {
		return internal.Errorf(internal.KindValidation, "password must be between 8 and 16 characters")
	}
	return nil
}

// PhoneFromString parses a phone number, requiring exactly 9 digits.
func PhoneFromString(phone string) (int64, error) {
	if len(phone) != 9 {
		return 0, internal.Errorf(internal.KindValidation, "phone must be a 9 digit number")
	}
	n, err := strconv.ParseInt(phone, 10, 64)
	if err != nil || n < 0 {
		return 0, internal.Errorf(internal.KindValidation, "phone must be a 9 digit number")
	}
	return n, nil
}

// CheckConflict folds a FindConflicting result into a single error: nil when
// nothing conflicts, a duplicate error naming the colliding fields, and the
// lookup error itself when the store failed. Only a not-found lookup means
// the write may proceed.
func CheckConflict(existing *User, lookupErr error, name, email string, phone int64) error {
	if lookupErr != nil {
		if internal.KindOf(lookupErr) == internal.KindNotFound {
			return nil
		}
		return lookupErr
	}
	return DuplicateError(existing, name, email, phone)
}

// DuplicateError names which of name, email and phone collide with an
// existing record, so the caller knows what to change.
func DuplicateError(existing *User, name, email string, phone int64) error {
	if existing == nil {
		return nil
	}

	var fields []string
	if name != "" && existing.Name == name {
		fields = append(fields, "name")
	}
	if email != "" && existing.Email == email {
		fields = append(fields, "email")
	}
	if phone != 0 && existing.Phone == phone {
		fields = append(fields, "phone")
	}
	if len(fields) == 0 {
		fields = append(fields, "name, email or phone")
	}

	return internal.Errorf(internal.KindDuplicate, "a user already exists with that %s", strings.Join(fields, ", "))
}
