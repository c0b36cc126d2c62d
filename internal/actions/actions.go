// Package actions implements every operation of the forum. Each action runs
// the validation and authorization pipeline, performs its work through the
// store and returns a response.Result; failures are logged and normalized
// in one place.
package actions

import (
	"context"

	"github.com/emilythestrangee/devflow/backend/internal/ai"
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/config"
	"github.com/emilythestrangee/devflow/backend/internal/logger"
	"github.com/emilythestrangee/devflow/backend/internal/metrics"
	"github.com/emilythestrangee/devflow/backend/internal/ratelimit"
	"github.com/emilythestrangee/devflow/backend/internal/response"
	"github.com/emilythestrangee/devflow/backend/internal/store"
	"github.com/emilythestrangee/devflow/backend/internal/validation"
)

// Deps are the collaborators of Actions. Metrics and Limiter may be nil;
// a nil Completer reports AI answers as unavailable.
type Deps struct {
	Store     *store.Store
	Validator *validation.Validator
	Tokens    *auth.TokenManager
	Completer ai.Completer
	Limiter   *ratelimit.KeyedRateLimiter
	Metrics   *metrics.Metrics
	Logger    logger.Logger
}

type Actions struct {
	store      *store.Store
	validator  *validation.Validator
	tokens     *auth.TokenManager
	completer  ai.Completer
	limiter    *ratelimit.KeyedRateLimiter
	metrics    *metrics.Metrics
	log        logger.Logger
	normalizer *apperrors.Normalizer
}

func New(d Deps) *Actions {
	log := d.Logger
	if log == nil {
		log = logger.NewNoopLogger()
	}
	validator := d.Validator
	if validator == nil {
		validator = validation.New()
	}

	completer := d.Completer
	if completer == nil {
		completer = ai.NewCompleter(config.AIConfig{})
	}

	var recorder apperrors.Recorder
	if d.Metrics != nil {
		recorder = d.Metrics
	}

	return &Actions{
		store:      d.Store,
		validator:  validator,
		tokens:     d.Tokens,
		completer:  completer,
		limiter:    d.Limiter,
		metrics:    d.Metrics,
		log:        log,
		normalizer: apperrors.NewNormalizer(log, recorder),
	}
}

// Reject logs and normalizes a failure that happened before an action could
// run, such as an undecodable request body.
func (a *Actions) Reject(ctx context.Context, operation string, err error) *apperrors.Error {
	return a.normalizer.Handle(ctx, operation, err)
}

func fail[T any](ctx context.Context, a *Actions, operation string, err error) response.Result[T] {
	return response.Fail[T](a.normalizer.Handle(ctx, operation, err))
}

// PageInfo is returned alongside every paginated listing.
type PageInfo struct {
	Total  int64 `json:"total"`
	IsNext bool  `json:"is_next"`
}

func pageInfo[T any](p store.Page[T]) PageInfo {
	return PageInfo{Total: p.Total, IsNext: p.IsNext}
}
