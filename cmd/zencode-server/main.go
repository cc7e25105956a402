package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/kannan-innovates/zenCode"
	"github.com/kannan-innovates/zenCode/httpapi"
	"github.com/kannan-innovates/zenCode/mail"
	"github.com/kannan-innovates/zenCode/userstore"
)

func main() {
	// Missing .env means system env vars carry the config.
	_ = godotenv.Load()

	production := os.Getenv("APP_ENV") == "production"

	var log *zap.Logger
	var err error
	if production {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log, production); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(log *zap.Logger, production bool) error {
	cfg := zencode.DefaultConfig()
	cfg.JWT.AccessSecret = []byte(os.Getenv("JWT_ACCESS_SECRET"))
	cfg.JWT.RefreshSecret = []byte(os.Getenv("JWT_REFRESH_SECRET"))
	if len(cfg.JWT.AccessSecret) == 0 || len(cfg.JWT.RefreshSecret) == 0 {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	cfg.FrontendURL = envOr("FRONTEND_URL", "http://localhost:5173")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Mongo
	mongoURI := envOr("MONGO_URI", "mongodb://localhost:27017")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}
	users := userstore.NewMongo(client.Database(envOr("MONGO_DB", "zencode")))
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	mailer := mail.NewSMTP(mail.Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     envOr("SMTP_PORT", "465"),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	})

	engine, err := zencode.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserStore(users).
		WithMailer(mailer).
		WithLogger(log).
		Build()
	if err != nil {
		return err
	}

	_, handler := httpapi.NewServer(engine, log, httpapi.Config{
		AllowedOrigins: strings.Split(envOr("CORS_ORIGINS", cfg.FrontendURL), ","),
		SecureCookies:  production,
	})

	addr := ":" + envOr("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
