package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

type UserHandler struct {
	actions *actions.Actions
}

// GetUser returns a public user profile
func (h *UserHandler) GetUser(c *gin.Context) {
	p := actions.GetUserParams{UserID: c.Param("id")}
	respond(c, h.actions.GetUser(c.Request.Context(), middleware.SessionFrom(c), p))
}

func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	var p actions.GetUserByEmailParams
	if !bindJSON(c, h.actions, "GetUserByEmail", &p) {
		return
	}
	respond(c, h.actions.GetUserByEmail(c.Request.Context(), middleware.SessionFrom(c), p))
}

// ListAccounts returns the accounts linked to the current user
func (h *UserHandler) ListAccounts(c *gin.Context) {
	respond(c, h.actions.ListAccounts(c.Request.Context(), middleware.SessionFrom(c)))
}

func (h *UserHandler) CreateAccount(c *gin.Context) {
	var p actions.CreateAccountParams
	if !bindJSON(c, h.actions, "CreateAccount", &p) {
		return
	}
	respond(c, h.actions.CreateAccount(c.Request.Context(), middleware.SessionFrom(c), p))
}

func (h *UserHandler) GetAccountByProvider(c *gin.Context) {
	var p actions.GetAccountByProviderParams
	if !bindJSON(c, h.actions, "GetAccountByProvider", &p) {
		return
	}
	respond(c, h.actions.GetAccountByProvider(c.Request.Context(), middleware.SessionFrom(c), p))
}
