package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

type AuthHandler struct {
	actions *actions.Actions
}

// SignUp handles credentials registration
func (h *AuthHandler) SignUp(c *gin.Context) {
	var p actions.SignUpParams
	if !bindJSON(c, h.actions, "SignUp", &p) {
		return
	}
	respond(c, h.actions.SignUp(c.Request.Context(), p))
}

// SignIn handles credentials login
func (h *AuthHandler) SignIn(c *gin.Context) {
	var p actions.SignInParams
	if !bindJSON(c, h.actions, "SignIn", &p) {
		return
	}
	respond(c, h.actions.SignIn(c.Request.Context(), p))
}

// SignInWithOAuth handles login with a verified provider identity
func (h *AuthHandler) SignInWithOAuth(c *gin.Context) {
	var p actions.SignInWithOAuthParams
	if !bindJSON(c, h.actions, "SignInWithOAuth", &p) {
		return
	}
	respond(c, h.actions.SignInWithOAuth(c.Request.Context(), p))
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	respond(c, h.actions.Me(c.Request.Context(), middleware.SessionFrom(c)))
}
