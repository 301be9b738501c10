package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Amanshah2829/fund-manager-test/internal/api"
	"github.com/Amanshah2829/fund-manager-test/internal/auth"
	"github.com/Amanshah2829/fund-manager-test/internal/engine"
	"github.com/Amanshah2829/fund-manager-test/internal/notify"
	"github.com/Amanshah2829/fund-manager-test/internal/storage/sqlite"
	"github.com/Amanshah2829/fund-manager-test/pkg/logging"
)

const defaultPort = 8080

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// config is assembled once at startup from the environment and passed
// down explicitly; nothing reads the environment after this.
type config struct {
	dbPath         string
	addr           string
	jwtSecret      string
	tokenDuration  time.Duration
	commissionRate decimal.Decimal
	telegramToken  string
	adminChatID    string
	adminEmail     string
	adminPassword  string
	adminName      string
}

func loadConfig() (*config, error) {
	cfg := &config{
		dbPath:        getEnv("DB_PATH", "./data/chitfund.db"),
		addr:          fmt.Sprintf(":%s", getEnv("PORT", fmt.Sprint(defaultPort))),
		jwtSecret:     os.Getenv("JWT_SECRET"),
		tokenDuration: 24 * time.Hour,
		telegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		adminChatID:   os.Getenv("TELEGRAM_ADMIN_CHAT_ID"),
		adminEmail:    os.Getenv("ADMIN_EMAIL"),
		adminPassword: os.Getenv("ADMIN_PASSWORD"),
		adminName:     getEnv("ADMIN_NAME", "Foreman"),
	}
	if cfg.jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	rate := getEnv("COMMISSION_RATE", engine.DefaultCommissionRate.String())
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMISSION_RATE %q: %w", rate, err)
	}
	cfg.commissionRate = parsed
	return cfg, nil
}

// seedAdmin makes sure the configured foreman login exists, so a fresh
// deployment is usable without manual database edits.
func seedAdmin(ctx context.Context, authenticator auth.Authenticator, cfg *config) error {
	if cfg.adminEmail == "" || cfg.adminPassword == "" {
		return nil
	}
	_, err := authenticator.Register(ctx, cfg.adminEmail, cfg.adminName, cfg.adminPassword)
	if errors.Is(err, auth.ErrEmailExists) {
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("Seeded foreman account", "email", cfg.adminEmail)
	return nil
}

func main() {
	logging.Setup()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.dbPath)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.telegramToken != "" {
		notifier = notify.NewLogged(notify.NewTelegram(cfg.telegramToken), store)
		slog.Info("Telegram notifications enabled")
	} else {
		slog.Warn("TELEGRAM_BOT_TOKEN not set, notifications disabled")
	}

	eng := engine.New(store, notifier, engine.Config{
		CommissionRate: cfg.commissionRate,
		AdminChatID:    cfg.adminChatID,
	})

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.jwtSecret, cfg.tokenDuration)

	if err := seedAdmin(context.Background(), authenticator, cfg); err != nil {
		slog.Error("Failed to seed foreman account", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(eng, store, authenticator, jwtManager)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", corsMiddleware(server.Router()))

	// h2c allows HTTP/2 without TLS for clients behind a terminating proxy.
	h2cHandler := h2c.NewHandler(mux, &http2.Server{})

	slog.Info("Server starting", "address", cfg.addr)
	if err := http.ListenAndServe(cfg.addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
