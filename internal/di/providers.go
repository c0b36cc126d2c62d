package di

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"
	"go.uber.org/zap"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/ai"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/config"
	"github.com/emilythestrangee/devflow/backend/internal/database"
	"github.com/emilythestrangee/devflow/backend/internal/logger"
	"github.com/emilythestrangee/devflow/backend/internal/metrics"
	"github.com/emilythestrangee/devflow/backend/internal/ratelimit"
	"github.com/emilythestrangee/devflow/backend/internal/server"
	"github.com/emilythestrangee/devflow/backend/internal/store"
	"github.com/emilythestrangee/devflow/backend/internal/validation"
)

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.ZapLogger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return logger.NewLogger(cfg.Log.Format, cfg.Log.Level)
}

// ProvideRegistry provides the prometheus registry served on /metrics.
func ProvideRegistry(i do.Injector) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, nil
}

func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(do.MustInvoke[*prometheus.Registry](i)), nil
}

// DatabaseHandle wraps the database service with shutdown capability.
type DatabaseHandle struct {
	database.Service
}

// Shutdown implements do.ShutdownerWithError.
func (h *DatabaseHandle) Shutdown() error {
	return h.Close()
}

// ProvideDatabase opens the database and waits for it to answer.
func ProvideDatabase(i do.Injector) (*DatabaseHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.ZapLogger](i)

	svc, err := database.New(context.Background(), cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &DatabaseHandle{Service: svc}, nil
}

func ProvideStore(i do.Injector) (*store.Store, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	return store.New(db.GetDB()), nil
}

func ProvideTokenManager(i do.Injector) (*auth.TokenManager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func ProvideCompleter(i do.Injector) (ai.Completer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.ZapLogger](i)

	if cfg.AI.APIKey == "" {
		log.Warn("no AI api key configured, answer generation is disabled")
	}
	return ai.NewCompleter(cfg.AI), nil
}

// RateLimiterHandle stops the limiter's sweeper on shutdown.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdowner.
func (h *RateLimiterHandle) Shutdown() {
	h.Stop()
}

func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	rl := cfg.RateLimit
	return &RateLimiterHandle{ratelimit.New(rl.RPS, rl.Burst, rl.IdleTTL)}, nil
}

func ProvideActions(i do.Injector) (*actions.Actions, error) {
	log := do.MustInvoke[*logger.ZapLogger](i)

	return actions.New(actions.Deps{
		Store:     do.MustInvoke[*store.Store](i),
		Validator: validation.New(),
		Tokens:    do.MustInvoke[*auth.TokenManager](i),
		Completer: do.MustInvoke[ai.Completer](i),
		Limiter:   do.MustInvoke[*RateLimiterHandle](i).KeyedRateLimiter,
		Metrics:   do.MustInvoke[*metrics.Metrics](i),
		Logger:    log,
	}), nil
}

// HTTPServerHandle wraps http.Server with graceful shutdown.
type HTTPServerHandle struct {
	*http.Server
	cfg config.HTTPConfig
	log logger.Logger
}

// Shutdown implements do.ShutdownerWithError.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.ShutdownTimeout)
	defer cancel()

	h.log.Info("shutting down http server", zap.Duration("timeout", h.cfg.ShutdownTimeout))
	return h.Server.Shutdown(ctx)
}

func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.ZapLogger](i)

	srv := server.NewServer(cfg.HTTP, server.Deps{
		DB:       do.MustInvoke[*DatabaseHandle](i),
		Actions:  do.MustInvoke[*actions.Actions](i),
		Tokens:   do.MustInvoke[*auth.TokenManager](i),
		Metrics:  do.MustInvoke[*metrics.Metrics](i),
		Gatherer: do.MustInvoke[*prometheus.Registry](i),
		Logger:   log,
	})
	return &HTTPServerHandle{Server: srv, cfg: cfg.HTTP, log: log}, nil
}
