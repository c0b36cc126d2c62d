package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

type VoteHandler struct {
	actions *actions.Actions
}

// CreateVote casts, switches or withdraws a vote
func (h *VoteHandler) CreateVote(c *gin.Context) {
	var p actions.CreateVoteParams
	if !bindJSON(c, h.actions, "CreateVote", &p) {
		return
	}
	respond(c, h.actions.CreateVote(c.Request.Context(), middleware.SessionFrom(c), p))
}

// Status reports how the current user voted on a target
func (h *VoteHandler) Status(c *gin.Context) {
	var p actions.HasVotedParams
	if !bindQuery(c, h.actions, "HasVoted", &p) {
		return
	}
	respond(c, h.actions.HasVoted(c.Request.Context(), middleware.SessionFrom(c), p))
}
