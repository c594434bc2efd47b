package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreanaya/go-account/internal/config"
	"github.com/andreanaya/go-account/internal/infrastructure/dynamo"
	jwtinfra "github.com/andreanaya/go-account/internal/infrastructure/jwt"
	"github.com/andreanaya/go-account/internal/infrastructure/ses"
	transporthttp "github.com/andreanaya/go-account/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTableUsers)

	jwtProvider, err := jwtinfra.NewProvider(cfg.TokenSecret, time.Duration(cfg.TokenExpiryDays)*24*time.Hour)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	mailer, err := ses.NewMailer(cfg)
	if err != nil {
		log.Fatalf("ses mailer: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTableUsers),
		Mailer:      mailer,
		JWTProvider: jwtProvider,
	}

	router, err := transporthttp.NewRouter(cfg, deps)
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
