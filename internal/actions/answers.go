package actions

import (
	"context"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/response"
	"github.com/emilythestrangee/devflow/backend/internal/store"
)

type CreateAnswerParams struct {
	QuestionID string `json:"question_id" validate:"required"`
	Content    string `json:"content" validate:"required,min=100"`
}

type ListAnswersParams struct {
	QuestionID string `json:"question_id" validate:"required"`
	Page       int    `json:"page" form:"page" validate:"gte=0"`
	PageSize   int    `json:"page_size" form:"page_size" validate:"gte=0,lte=100"`
	Filter     string `json:"filter" form:"filter" validate:"omitempty,oneof=latest oldest popular"`
}

type AnswerList struct {
	Answers []models.Answer `json:"answers"`
	PageInfo
}

// CreateAnswer stores an answer and bumps the question's answer counter in
// the same transaction.
func (a *Actions) CreateAnswer(ctx context.Context, sess *auth.Session, p CreateAnswerParams) response.Result[*models.Answer] {
	const op = "CreateAnswer"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[*models.Answer](ctx, a, op, err)
	}

	answer := &models.Answer{
		QuestionID: ac.Params.QuestionID,
		Content:    ac.Params.Content,
		AuthorID:   ac.UserID(),
	}
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		exists, err := tx.QuestionExists(ctx, answer.QuestionID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("Question")
		}
		if err := tx.CreateAnswer(ctx, answer); err != nil {
			return err
		}
		if err := tx.IncrementAnswers(ctx, answer.QuestionID); err != nil {
			return err
		}
		answer, err = tx.GetAnswer(ctx, answer.ID)
		return err
	})
	if err != nil {
		return fail[*models.Answer](ctx, a, op, err)
	}
	return response.Created(answer)
}

func (a *Actions) ListAnswers(ctx context.Context, sess *auth.Session, p ListAnswersParams) response.Result[AnswerList] {
	const op = "ListAnswers"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[AnswerList](ctx, a, op, err)
	}

	page, err := a.store.ListAnswers(ctx, store.AnswerQuery{
		Pagination: store.Pagination{Page: ac.Params.Page, PageSize: ac.Params.PageSize},
		QuestionID: ac.Params.QuestionID,
		Filter:     ac.Params.Filter,
	})
	if err != nil {
		return fail[AnswerList](ctx, a, op, err)
	}
	return response.OK(AnswerList{Answers: page.Items, PageInfo: pageInfo(page)})
}
