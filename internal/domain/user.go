package domain

import "time"

type User struct {
	UserID   string `json:"id" dynamodbav:"user_id"`
	Username string `json:"username" dynamodbav:"username"`
	Email    string `json:"email" dynamodbav:"email"`
	// PasswordHash is the bcrypt digest of the current password. Never
	// serialized into responses.
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	// Active flips to true exactly once, on email confirmation.
	Active bool `json:"active" dynamodbav:"active"`
	// CredentialChangedAt is the Unix time (seconds) of the last password
	// change. Any token issued before it is considered revoked.
	CredentialChangedAt int64     `json:"-" dynamodbav:"credential_changed_at"`
	CreatedAt           time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt           time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Username             string `json:"username" validate:"required,min=5,alphanum"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,accountpassword"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

// UpdateUserRequest carries optional profile mutations. A nil (or blank)
// field leaves the stored value unchanged. PasswordConfirmation equality is
// checked in validate.Update because eqfield does not span pointer fields.
type UpdateUserRequest struct {
	Username             *string `json:"username" validate:"omitempty,min=5,alphanum"`
	Email                *string `json:"email" validate:"omitempty,email"`
	Password             *string `json:"password" validate:"omitempty,accountpassword"`
	PasswordConfirmation *string `json:"passwordConfirmation" validate:"required_with=Password"`
}
