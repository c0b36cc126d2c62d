package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

type CollectionHandler struct {
	actions *actions.Actions
}

func (h *CollectionHandler) Toggle(c *gin.Context) {
	var p actions.CollectionParams
	if !bindJSON(c, h.actions, "ToggleSaveQuestion", &p) {
		return
	}
	respond(c, h.actions.ToggleSaveQuestion(c.Request.Context(), middleware.SessionFrom(c), p))
}

// List returns the current user's saved questions
func (h *CollectionHandler) List(c *gin.Context) {
	var p actions.ListSavedQuestionsParams
	if !bindQuery(c, h.actions, "ListSavedQuestions", &p) {
		return
	}
	respond(c, h.actions.ListSavedQuestions(c.Request.Context(), middleware.SessionFrom(c), p))
}
