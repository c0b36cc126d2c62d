package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

type TagHandler struct {
	actions *actions.Actions
}

func (h *TagHandler) ListTags(c *gin.Context) {
	var p actions.ListTagsParams
	if !bindQuery(c, h.actions, "ListTags", &p) {
		return
	}
	respond(c, h.actions.ListTags(c.Request.Context(), middleware.SessionFrom(c), p))
}

// TagQuestions returns a tag with a page of its questions
func (h *TagHandler) TagQuestions(c *gin.Context) {
	var p actions.GetTagQuestionsParams
	if !bindQuery(c, h.actions, "GetTagQuestions", &p) {
		return
	}
	p.TagID = c.Param("id")
	respond(c, h.actions.GetTagQuestions(c.Request.Context(), middleware.SessionFrom(c), p))
}
