package actions

import (
	"context"
	"strings"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/response"
	"github.com/emilythestrangee/devflow/backend/internal/store"
)

type CollectionParams struct {
	QuestionID string `json:"question_id" validate:"required"`
}

type ListSavedQuestionsParams struct {
	Page     int    `json:"page" form:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" form:"page_size" validate:"gte=0,lte=100"`
	Query    string `json:"query" form:"query" validate:"max=100"`
	Filter   string `json:"filter" form:"filter" validate:"omitempty,oneof=newest unanswered popular"`
}

func (p *ListSavedQuestionsParams) Normalize() {
	p.Query = strings.TrimSpace(p.Query)
}

type SavedState struct {
	Saved bool `json:"saved"`
}

// ToggleSaveQuestion saves a question to the caller's collection, or removes
// it when already saved.
func (a *Actions) ToggleSaveQuestion(ctx context.Context, sess *auth.Session, p CollectionParams) response.Result[SavedState] {
	const op = "ToggleSaveQuestion"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[SavedState](ctx, a, op, err)
	}
	questionID := ac.Params.QuestionID

	var state SavedState
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		exists, err := tx.QuestionExists(ctx, questionID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("Question")
		}

		saved, err := tx.FindCollection(ctx, ac.UserID(), questionID)
		if err != nil {
			return err
		}
		if saved != nil {
			return tx.DeleteCollection(ctx, saved.ID)
		}

		state.Saved = true
		return tx.CreateCollection(ctx, &models.Collection{AuthorID: ac.UserID(), QuestionID: questionID})
	})
	if err != nil {
		return fail[SavedState](ctx, a, op, err)
	}
	return response.OK(state)
}

func (a *Actions) ListSavedQuestions(ctx context.Context, sess *auth.Session, p ListSavedQuestionsParams) response.Result[QuestionList] {
	const op = "ListSavedQuestions"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[QuestionList](ctx, a, op, err)
	}

	page, err := a.store.ListQuestions(ctx, store.QuestionQuery{
		Pagination: store.Pagination{Page: ac.Params.Page, PageSize: ac.Params.PageSize},
		Query:      ac.Params.Query,
		Filter:     ac.Params.Filter,
		SavedBy:    ac.UserID(),
	})
	if err != nil {
		return fail[QuestionList](ctx, a, op, err)
	}
	return response.OK(QuestionList{Questions: page.Items, PageInfo: pageInfo(page)})
}
