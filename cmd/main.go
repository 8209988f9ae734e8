package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpctx "github.com/dtroode/gophcheck-server/internal/api/http/context"
	"github.com/dtroode/gophcheck-server/internal/api/http/handler"
	"github.com/dtroode/gophcheck-server/internal/api/http/router"
	httpServer "github.com/dtroode/gophcheck-server/internal/api/http/server"
	"github.com/dtroode/gophcheck-server/internal/config"
	"github.com/dtroode/gophcheck-server/internal/digest"
	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
	"github.com/dtroode/gophcheck-server/internal/repository/postgres"
	redisrepo "github.com/dtroode/gophcheck-server/internal/repository/redis"
	"github.com/dtroode/gophcheck-server/internal/server"
	"github.com/dtroode/gophcheck-server/internal/service"
	"github.com/dtroode/gophcheck-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	provision := flag.String("provision", "", "comma separated access codes to store, then exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("failed to load .env: %v", err)
		}
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	if cfg.Staff.DemoMode && strings.TrimSpace(cfg.Staff.PIN) == "" {
		logger.Warn("STAFF_DEMO_MODE is on and no STAFF_PIN is set: any credential opens a session")
	}
	hasher := digest.NewHasher(cfg.Code.Pepper)
	if !hasher.Peppered() {
		logger.Warn("CODE_PEPPER is empty: code digests are unkeyed")
	}

	provider := postgres.NewProvider(cfg.Database.DSN)
	defer provider.Close()

	codeRepo := postgres.NewCodeRepository(provider)

	if *provision != "" {
		if err := provisionCodes(ctx, codeRepo, hasher, *provision); err != nil {
			logger.Fatal("failed to provision codes", "error", err)
		}
		logger.Info("codes provisioned")
		return
	}

	// The handle is built lazily; a failure here is retried by the first request.
	if _, err := provider.DB(ctx); err != nil {
		logger.Error("database is not reachable yet", "error", err)
	}

	counters, closeCounters, err := newCounterStore(ctx, cfg, provider)
	if err != nil {
		logger.Fatal("failed to initialize rate limit backend", "error", err)
	}
	defer closeCounters()

	signer, err := token.NewSigner(cfg.Session.HMACSecret)
	if err != nil {
		logger.Fatal("failed to initialize session signer", "error", err)
	}

	codeLimiter := service.NewLimiter(counters, cfg.RateLimit.Window(), cfg.RateLimit.Lock(), logger)
	loginLimit := service.LoginLimit{}
	if cfg.LoginRateLimit.Enabled {
		loginLimit = service.LoginLimit{
			Limiter: service.NewLimiter(counters, cfg.RateLimit.Window(), cfg.LoginRateLimit.Lock(), logger),
			PerIP:   cfg.LoginRateLimit.PerIP,
		}
	}

	sessionService := service.NewSession(signer, cfg.Staff.PIN, cfg.Staff.DemoMode, loginLimit, logger)
	redemptionService := service.NewRedemption(
		codeRepo,
		postgres.NewAttemptRepository(provider),
		codeLimiter,
		hasher,
		service.RedemptionLimits{PerIP: cfg.RateLimit.PerIP, PerSession: cfg.RateLimit.PerSession},
		logger,
	)

	diag := handler.NewDiag(handler.DiagFlags{
		HasDatabase:      provider.Configured(),
		HasSessionSecret: cfg.Session.HMACSecret != "",
		HasPepper:        hasher.Peppered(),
		HasStaffPin:      strings.TrimSpace(cfg.Staff.PIN) != "",
		HasRedis:         cfg.Redis.URL != "",
	}, provider)

	r := router.New(sessionService, redemptionService, diag,
		router.Options{
			Cookie:                handler.CookieOptions{Secure: cfg.Session.CookieSecure},
			TrustForwardedHeaders: cfg.HTTP.TrustForwardedHeaders,
		},
		httpctx.NewManager(), logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newCounterStore(ctx context.Context, cfg *config.Config, provider *postgres.Provider) (model.CounterStore, func(), error) {
	switch cfg.RateLimit.Backend {
	case config.BackendRedis:
		client, err := redisrepo.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.NewCounterStore(client), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		return postgres.NewCounterRepository(provider), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown rate limit backend %q", cfg.RateLimit.Backend)
	}
}

func provisionCodes(ctx context.Context, codes model.CodeStore, hasher *digest.Hasher, list string) error {
	var errs []error
	for _, raw := range strings.Split(list, ",") {
		code := digest.Normalize(raw)
		if !digest.ValidFormat(code) {
			errs = append(errs, fmt.Errorf("%q: %w", raw, model.ErrInvalidFormat))
			continue
		}
		if err := codes.Create(ctx, hasher.Hash(code)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", code, err))
		}
	}
	return errors.Join(errs...)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
