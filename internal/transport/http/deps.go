package http

import (
	"github.com/andreanaya/go-account/internal/infrastructure/dynamo"
	jwtinfra "github.com/andreanaya/go-account/internal/infrastructure/jwt"
	"github.com/andreanaya/go-account/internal/infrastructure/ses"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	Mailer      ses.Mailer
	JWTProvider *jwtinfra.Provider
}
