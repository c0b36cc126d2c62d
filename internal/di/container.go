// Package di wires the server's services together with samber/do.
package di

import (
	"github.com/samber/do/v2"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/config"
)

// NewContainer creates the DI container for cfg with all providers.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideRegistry)
	do.Provide(injector, ProvideMetrics)

	// Database layer
	do.Provide(injector, ProvideDatabase)
	do.Provide(injector, ProvideStore)

	// Auth and AI
	do.Provide(injector, ProvideTokenManager)
	do.Provide(injector, ProvideCompleter)
	do.Provide(injector, ProvideRateLimiter)

	// Actions and server
	do.Provide(injector, ProvideActions)
	do.Provide(injector, ProvideHTTPServer)

	return injector
}

// Bootstrap initializes every service so that configuration and connection
// errors surface before the server starts listening.
func Bootstrap(injector *do.RootScope) (*HTTPServerHandle, error) {
	if _, err := do.Invoke[*actions.Actions](injector); err != nil {
		return nil, err
	}
	return do.Invoke[*HTTPServerHandle](injector)
}
