package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andreanaya/go-account/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Authenticate(ctx context.Context, username, password string) (string, *domain.User, error) {
	args := m.Called(ctx, username, password)
	if u, _ := args.Get(1).(*domain.User); u != nil {
		return args.String(0), u, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}
func (m *mockAuthSvc) Confirm(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthSvc) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockAuthSvc) Authorize(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLogin_Success(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Authenticate", mock.Anything, "alice", "Secret1!").
		Return("tok123", &domain.User{UserID: "u1"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "Secret1!",
	}))
	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Login(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "tok123", body["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Authenticate", mock.Anything, "alice", "wrong").
		Return("", nil, &domain.AuthError{Reason: domain.ReasonInvalidCredentials})

	req := httptest.NewRequest(http.MethodPost, "/api/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "wrong",
	}))
	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Login(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decode(t, rr)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "authentication", errBody["type"])
	assert.Equal(t, domain.ReasonInvalidCredentials, errBody["message"])
}

func TestLogin_UnconfirmedEmail(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Authenticate", mock.Anything, "alice", "Secret1!").
		Return("", nil, &domain.AuthError{Reason: domain.ReasonEmailNotConfirmed})

	req := httptest.NewRequest(http.MethodPost, "/api/login", jsonBody(t, map[string]string{
		"username": "alice",
		"password": "Secret1!",
	}))
	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Login(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decode(t, rr)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, domain.ReasonEmailNotConfirmed, errBody["message"])
}

func TestReset_UniformResponse(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("RequestPasswordReset", mock.Anything, "a@b.com").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/resetpassword", jsonBody(t, map[string]string{
		"email": "a@b.com",
	}))
	rr := httptest.NewRecorder()
	NewPasswordRecoveryHandler(svc).Reset(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Password sent to email", body["message"])
}

func TestReset_InvalidEmail(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("RequestPasswordReset", mock.Anything, "nope").
		Return(domain.ValidationErrors{{Field: "email", Message: "invalid"}})

	req := httptest.NewRequest(http.MethodPost, "/api/resetpassword", jsonBody(t, map[string]string{
		"email": "nope",
	}))
	rr := httptest.NewRecorder()
	NewPasswordRecoveryHandler(svc).Reset(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
}
