// Package action is the guarded entry point every action passes through:
// parameters are normalized and validated first, then the session is checked.
package action

import (
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/validation"
)

// Normalizable params are cleaned up (trimmed, defaulted) before validation.
type Normalizable interface {
	Normalize()
}

// Options configures a pipeline run.
type Options struct {
	// Authorize requires a session.
	Authorize bool
}

// Context is what a successful run hands to the action body.
type Context[P any] struct {
	Params  P
	Session *auth.Session
}

// UserID returns the session user, or "" when there is no session.
func (c Context[P]) UserID() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.UserID
}

// Run validates params and then checks authorization. A validation failure
// is reported even when the caller is also unauthenticated.
func Run[P any](v *validation.Validator, params P, sess *auth.Session, opts Options) (Context[P], error) {
	if n, ok := any(&params).(Normalizable); ok {
		n.Normalize()
	}

	if err := v.Validate(params); err != nil {
		return Context[P]{}, err
	}

	if opts.Authorize && (sess == nil || sess.UserID == "") {
		return Context[P]{}, apperrors.Unauthorized("")
	}

	return Context[P]{Params: params, Session: sess}, nil
}
