package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/response"
	"github.com/emilythestrangee/devflow/backend/internal/validation"
)

// Handler combines all handler types
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Question   *QuestionHandler
	Answer     *AnswerHandler
	Tag        *TagHandler
	Vote       *VoteHandler
	Collection *CollectionHandler
	AI         *AIHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(a *actions.Actions) *Handler {
	return &Handler{
		Auth:       &AuthHandler{actions: a},
		User:       &UserHandler{actions: a},
		Question:   &QuestionHandler{actions: a},
		Answer:     &AnswerHandler{actions: a},
		Tag:        &TagHandler{actions: a},
		Vote:       &VoteHandler{actions: a},
		Collection: &CollectionHandler{actions: a},
		AI:         &AIHandler{actions: a},
	}
}

func respond[T any](c *gin.Context, result response.Result[T]) {
	c.JSON(result.Status(), result)
}

func reject(c *gin.Context, a *actions.Actions, op string, err error) {
	e := a.Reject(c.Request.Context(), op, err)
	respond(c, response.Fail[any](e))
}

// bindJSON decodes the request body into dst. On failure the error
// response has been written and false is returned.
func bindJSON(c *gin.Context, a *actions.Actions, op string, dst any) bool {
	if err := validation.DecodeJSON(c.Request.Body, dst); err != nil {
		reject(c, a, op, err)
		return false
	}
	return true
}

// bindQuery reads query parameters into dst using its form tags.
func bindQuery(c *gin.Context, a *actions.Actions, op string, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		reject(c, a, op, apperrors.Validation(map[string][]string{
			"query": {"is invalid"},
		}).WithCause(err))
		return false
	}
	return true
}
