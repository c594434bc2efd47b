package validate

import (
	"testing"

	"github.com/andreanaya/go-account/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validCreate() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Username:             "alice123",
		Email:                "alice@example.com",
		Password:             "Secret1!",
		PasswordConfirmation: "Secret1!",
	}
}

func TestCreate_Valid(t *testing.T) {
	req := validCreate()
	assert.Empty(t, Create(&req))
}

func TestCreate_AllMissing(t *testing.T) {
	req := domain.CreateUserRequest{}
	errs := Create(&req)

	require.Len(t, errs, 4)
	fields := make([]string, len(errs))
	for i, fe := range errs {
		fields[i] = fe.Field
		assert.Equal(t, "missing", fe.Message)
	}
	assert.Equal(t, []string{"username", "email", "password", "passwordConfirmation"}, fields)
}

func TestCreate_ShortUsername(t *testing.T) {
	req := validCreate()
	req.Username = "abc"
	errs := Create(&req)

	require.Len(t, errs, 1)
	assert.Equal(t, domain.FieldError{Field: "username", Message: "invalid"}, errs[0])
}

func TestCreate_NonAlphanumUsername(t *testing.T) {
	req := validCreate()
	req.Username = "alice bob!"
	errs := Create(&req)

	require.Len(t, errs, 1)
	assert.Equal(t, "username", errs[0].Field)
}

func TestCreate_BadEmail(t *testing.T) {
	req := validCreate()
	req.Email = "not-an-email"
	errs := Create(&req)

	require.Len(t, errs, 1)
	assert.Equal(t, domain.FieldError{Field: "email", Message: "invalid"}, errs[0])
}

func TestCreate_PasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"all classes present", "Secret1!", true},
		{"too short", "Se1!", false},
		{"no upper case", "secret1!", false},
		{"no lower case", "SECRET1!", false},
		{"no digit", "Secrets!", false},
		{"no symbol", "Secrets1", false},
		{"symbol outside allowed set", "Secret1?", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreate()
			req.Password = tc.password
			req.PasswordConfirmation = tc.password
			errs := Create(&req)
			if tc.ok {
				assert.Empty(t, errs)
			} else {
				require.Len(t, errs, 1)
				assert.Equal(t, domain.FieldError{Field: "password", Message: "invalid"}, errs[0])
			}
		})
	}
}

func TestCreate_ConfirmationMismatch(t *testing.T) {
	req := validCreate()
	req.PasswordConfirmation = "Different1!"
	errs := Create(&req)

	require.Len(t, errs, 1)
	assert.Equal(t, domain.FieldError{Field: "passwordConfirmation", Message: "invalid"}, errs[0])
}

func TestNormalizeCreate_TrimsAndFolds(t *testing.T) {
	req := domain.CreateUserRequest{
		Username:             " alice123 ",
		Email:                " Alice@Example.COM ",
		Password:             " Secret1! ",
		PasswordConfirmation: " Secret1! ",
	}
	NormalizeCreate(&req, true)

	assert.Equal(t, "alice123", req.Username)
	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "Secret1!", req.Password)
}

func TestNormalizeCreate_KeepsCaseWhenFoldDisabled(t *testing.T) {
	req := domain.CreateUserRequest{Email: "Alice@Example.COM"}
	NormalizeCreate(&req, false)
	assert.Equal(t, "Alice@Example.COM", req.Email)
}

func TestUpdate_EmptyRequestIsValid(t *testing.T) {
	req := domain.UpdateUserRequest{}
	assert.Empty(t, Update(&req))
}

func TestUpdate_PasswordRequiresConfirmation(t *testing.T) {
	req := domain.UpdateUserRequest{Password: strPtr("Secret1!")}
	errs := Update(&req)

	require.Len(t, errs, 1)
	assert.Equal(t, domain.FieldError{Field: "passwordConfirmation", Message: "missing"}, errs[0])
}

func TestUpdate_ConfirmationMismatch(t *testing.T) {
	req := domain.UpdateUserRequest{
		Password:             strPtr("Secret1!"),
		PasswordConfirmation: strPtr("Different1!"),
	}
	errs := Update(&req)

	require.Len(t, errs, 1)
	assert.Equal(t, domain.FieldError{Field: "passwordConfirmation", Message: "invalid"}, errs[0])
}

func TestUpdate_InvalidPresentFields(t *testing.T) {
	req := domain.UpdateUserRequest{
		Username: strPtr("ab"),
		Email:    strPtr("nope"),
	}
	errs := Update(&req)

	require.Len(t, errs, 2)
	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "email", errs[1].Field)
}

func TestNormalizeUpdate_BlankBecomesAbsent(t *testing.T) {
	req := domain.UpdateUserRequest{
		Username: strPtr("  "),
		Email:    strPtr(""),
		Password: strPtr(" Secret1! "),
	}
	NormalizeUpdate(&req, false)

	assert.Nil(t, req.Username)
	assert.Nil(t, req.Email)
	require.NotNil(t, req.Password)
	assert.Equal(t, "Secret1!", *req.Password)
}

func TestNormalizeUpdate_FoldsEmail(t *testing.T) {
	req := domain.UpdateUserRequest{Email: strPtr("Alice@Example.COM")}
	NormalizeUpdate(&req, true)

	require.NotNil(t, req.Email)
	assert.Equal(t, "alice@example.com", *req.Email)
}

func TestEmail(t *testing.T) {
	assert.Empty(t, Email("alice@example.com"))

	errs := Email("")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.FieldError{Field: "email", Message: "missing"}, errs[0])

	errs = Email("nope")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.FieldError{Field: "email", Message: "invalid"}, errs[0])
}
