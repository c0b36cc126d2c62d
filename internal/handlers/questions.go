package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

type QuestionHandler struct {
	actions *actions.Actions
}

// ListQuestions returns a page of questions
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var p actions.ListQuestionsParams
	if !bindQuery(c, h.actions, "ListQuestions", &p) {
		return
	}
	respond(c, h.actions.ListQuestions(c.Request.Context(), middleware.SessionFrom(c), p))
}

// CreateQuestion asks a new question
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var p actions.CreateQuestionParams
	if !bindJSON(c, h.actions, "CreateQuestion", &p) {
		return
	}
	respond(c, h.actions.CreateQuestion(c.Request.Context(), middleware.SessionFrom(c), p))
}

// GetQuestion returns a single question by ID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	p := actions.GetQuestionParams{QuestionID: c.Param("id")}
	respond(c, h.actions.GetQuestion(c.Request.Context(), middleware.SessionFrom(c), p))
}

// EditQuestion updates a question (author only)
func (h *QuestionHandler) EditQuestion(c *gin.Context) {
	var p actions.EditQuestionParams
	if !bindJSON(c, h.actions, "EditQuestion", &p) {
		return
	}
	p.QuestionID = c.Param("id")
	respond(c, h.actions.EditQuestion(c.Request.Context(), middleware.SessionFrom(c), p))
}

func (h *QuestionHandler) IncrementViews(c *gin.Context) {
	p := actions.IncrementViewsParams{QuestionID: c.Param("id")}
	respond(c, h.actions.IncrementViews(c.Request.Context(), middleware.SessionFrom(c), p))
}
