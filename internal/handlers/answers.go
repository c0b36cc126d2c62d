package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

type AnswerHandler struct {
	actions *actions.Actions
}

// ListAnswers returns the answers of a question
func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	var p actions.ListAnswersParams
	if !bindQuery(c, h.actions, "ListAnswers", &p) {
		return
	}
	p.QuestionID = c.Param("id")
	respond(c, h.actions.ListAnswers(c.Request.Context(), middleware.SessionFrom(c), p))
}

// CreateAnswer answers a question
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	var p actions.CreateAnswerParams
	if !bindJSON(c, h.actions, "CreateAnswer", &p) {
		return
	}
	p.QuestionID = c.Param("id")
	respond(c, h.actions.CreateAnswer(c.Request.Context(), middleware.SessionFrom(c), p))
}
