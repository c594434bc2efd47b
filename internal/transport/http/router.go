package http

import (
	"net/http"

	"github.com/andreanaya/go-account/internal/application/auth"
	"github.com/andreanaya/go-account/internal/application/user"
	"github.com/andreanaya/go-account/internal/config"
	"github.com/andreanaya/go-account/internal/transport/http/handler"
	appmiddleware "github.com/andreanaya/go-account/internal/transport/http/middleware"
	"github.com/andreanaya/go-account/internal/transport/http/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the application router: the JSON API under /api and the
// server-rendered web flows at the root. Both channels share the same
// services and rate-limit classes; only the serialization differs.
func NewRouter(cfg *config.Config, deps *Deps) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:        deps.UserRepo,
		Mailer:          deps.Mailer,
		Tokens:          deps.JWTProvider,
		BaseURL:         cfg.BaseURL,
		LowercaseEmails: cfg.LowercaseEmails,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:        deps.UserRepo,
		Mailer:          deps.Mailer,
		Tokens:          deps.JWTProvider,
		LowercaseEmails: cfg.LowercaseEmails,
	})

	// One limiter per sensitive route class, shared across channels.
	strictRL := appmiddleware.NewRateLimiter(appmiddleware.StrictPolicy, cfg.Production())
	lowRL := appmiddleware.NewRateLimiter(appmiddleware.LowPolicy, cfg.Production())

	accountH := handler.NewAccountHandler(userSvc)
	sessionH := handler.NewSessionHandler(authSvc)
	pwH := handler.NewPasswordRecoveryHandler(authSvc)
	healthH := handler.NewHealthHandler()

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	webH := web.NewHandler(userSvc, authSvc, renderer, cfg.Production())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/health-check/{action}", healthH.Ping)
		r.With(strictRL.Limit).Post("/register", accountH.Register)
		r.With(lowRL.Limit).Post("/login", sessionH.Login)
		r.With(lowRL.Limit).Post("/resetpassword", pwH.Reset)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(authSvc, handler.RejectUnauthorized))

			r.Get("/account", accountH.Get)
			r.With(lowRL.Limit).Put("/account", accountH.Update)
			r.With(lowRL.Limit).Delete("/account", accountH.Delete)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(web.ParseNotification)

		r.Get("/register", webH.RegisterForm)
		r.With(strictRL.Limit).Post("/register", webH.Register)
		r.Get("/login", webH.LoginForm)
		r.With(lowRL.Limit).Post("/login", webH.Login)
		r.Get("/logout", webH.Logout)
		r.Get("/confirm/{token}", webH.Confirm)
		r.Get("/resetpassword", webH.ResetForm)
		r.With(lowRL.Limit).Post("/resetpassword", webH.Reset)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(authSvc, webH.RejectUnauthorized))

			r.Get("/account", webH.Account)
			r.Get("/update", webH.UpdateForm)
			r.With(lowRL.Limit).Post("/update", webH.Update)
			r.With(lowRL.Limit).Post("/delete", webH.Delete)
		})
	})

	return r, nil
}
