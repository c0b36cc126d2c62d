// Package middleware holds the gin middleware of the HTTP API.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/response"
)

const sessionKey = "devflow_session"

// Session resolves the bearer token of a request into an *auth.Session.
// Requests without a valid token pass through without a session; whether
// that is acceptable is decided by each action.
func Session(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if ok && token != "" {
			if sess, err := tm.Parse(strings.TrimSpace(token)); err == nil {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

// SessionFrom returns the session resolved by Session, or nil.
func SessionFrom(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}

// RequireSession rejects requests without a session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFrom(c) == nil {
			result := response.Fail[any](apperrors.Unauthorized(""))
			c.AbortWithStatusJSON(result.Status(), result)
			return
		}
		c.Next()
	}
}
