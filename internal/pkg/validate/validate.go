package validate

import (
	"reflect"
	"strings"

	"github.com/andreanaya/go-account/internal/domain"
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

func init() {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("accountpassword", passwordRule); err != nil {
		panic(err)
	}
}

// passwordRule enforces the account password policy: minimum 8 characters
// with at least one lower-case letter, one upper-case letter, one digit and
// one symbol from !@#$%^&*.
func passwordRule(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len([]rune(s)) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("!@#$%^&*", r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// NormalizeCreate trims surrounding whitespace from every field and
// optionally folds the email to lower case.
func NormalizeCreate(req *domain.CreateUserRequest, foldEmail bool) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Password = strings.TrimSpace(req.Password)
	req.PasswordConfirmation = strings.TrimSpace(req.PasswordConfirmation)
	if foldEmail {
		req.Email = strings.ToLower(req.Email)
	}
}

// NormalizeUpdate trims present fields and drops blank ones so they read as
// absent. A blank field on update means "leave unchanged".
func NormalizeUpdate(req *domain.UpdateUserRequest, foldEmail bool) {
	req.Username = trimmed(req.Username)
	req.Email = trimmed(req.Email)
	req.Password = trimmed(req.Password)
	req.PasswordConfirmation = trimmed(req.PasswordConfirmation)
	if foldEmail && req.Email != nil {
		folded := strings.ToLower(*req.Email)
		req.Email = &folded
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// Create checks the registration rules. Every field is checked; failures
// come back together, in field order.
func Create(req *domain.CreateUserRequest) domain.ValidationErrors {
	return collect(v.Struct(req))
}

// Update checks the same rules as Create but with every field optional.
// Confirmation equality is checked here because the request carries pointer
// fields.
func Update(req *domain.UpdateUserRequest) domain.ValidationErrors {
	errs := collect(v.Struct(req))
	if req.Password != nil && req.PasswordConfirmation != nil && *req.Password != *req.PasswordConfirmation {
		errs = append(errs, domain.FieldError{Field: "passwordConfirmation", Message: "invalid"})
	}
	return errs
}

type emailOnly struct {
	Email string `json:"email" validate:"required,email"`
}

// Email checks a single email address, as used by the reset flow.
func Email(email string) domain.ValidationErrors {
	return collect(v.Struct(&emailOnly{Email: strings.TrimSpace(email)}))
}

func collect(err error) domain.ValidationErrors {
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ValidationErrors{{Field: "request", Message: "invalid"}}
	}
	out := make(domain.ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		msg := "invalid"
		if fe.Tag() == "required" || fe.Tag() == "required_with" {
			msg = "missing"
		}
		out = append(out, domain.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
