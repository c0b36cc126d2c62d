package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

type AIHandler struct {
	actions *actions.Actions
}

// GenerateAnswer drafts an answer with the completion service
func (h *AIHandler) GenerateAnswer(c *gin.Context) {
	var p actions.GenerateAnswerParams
	if !bindJSON(c, h.actions, "GenerateAnswer", &p) {
		return
	}
	respond(c, h.actions.GenerateAnswer(c.Request.Context(), middleware.SessionFrom(c), p))
}
