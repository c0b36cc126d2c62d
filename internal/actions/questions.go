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
	"github.com/emilythestrangee/devflow/backend/internal/tags"
)

type CreateQuestionParams struct {
	Title   string   `json:"title" validate:"required,min=5,max=100"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"min=1,max=3,dive,required,min=1,max=15"`
}

func (p *CreateQuestionParams) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Tags = trimAll(p.Tags)
}

type EditQuestionParams struct {
	QuestionID string   `json:"question_id" validate:"required"`
	Title      string   `json:"title" validate:"required,min=5,max=100"`
	Content    string   `json:"content" validate:"required"`
	Tags       []string `json:"tags" validate:"min=1,max=3,dive,required,min=1,max=15"`
}

func (p *EditQuestionParams) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Tags = trimAll(p.Tags)
}

type GetQuestionParams struct {
	QuestionID string `json:"question_id" validate:"required"`
}

type IncrementViewsParams struct {
	QuestionID string `json:"question_id" validate:"required"`
}

type ListQuestionsParams struct {
	Page     int    `json:"page" form:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" form:"page_size" validate:"gte=0,lte=100"`
	Query    string `json:"query" form:"query" validate:"max=100"`
	Filter   string `json:"filter" form:"filter" validate:"omitempty,oneof=newest unanswered popular recommended"`
}

func (p *ListQuestionsParams) Normalize() {
	p.Query = strings.TrimSpace(p.Query)
}

type QuestionList struct {
	Questions []models.Question `json:"questions"`
	PageInfo
}

type ViewCount struct {
	Views int `json:"views"`
}

// CreateQuestion stores a question together with its tags in one
// transaction: question insert, tag upserts, association inserts.
func (a *Actions) CreateQuestion(ctx context.Context, sess *auth.Session, p CreateQuestionParams) response.Result[*models.Question] {
	const op = "CreateQuestion"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[*models.Question](ctx, a, op, err)
	}

	q := &models.Question{
		Title:    ac.Params.Title,
		Content:  ac.Params.Content,
		AuthorID: ac.UserID(),
	}
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.CreateQuestion(ctx, q); err != nil {
			return err
		}
		linked, err := tx.SyncQuestionTags(ctx, q.ID, nil, ac.Params.Tags)
		if err != nil {
			return err
		}
		q.Tags = linked
		return nil
	})
	if err != nil {
		return fail[*models.Question](ctx, a, op, err)
	}

	a.addTagUpserts(len(q.Tags))
	return response.Created(q)
}

// EditQuestion updates a question and reconciles its tags. Only the author
// may edit; the check runs inside the transaction before any write.
// Concurrent edits of one question are last-write-wins.
func (a *Actions) EditQuestion(ctx context.Context, sess *auth.Session, p EditQuestionParams) response.Result[*models.Question] {
	const op = "EditQuestion"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[*models.Question](ctx, a, op, err)
	}
	params := ac.Params

	var (
		edited  *models.Question
		upserts int
	)
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		q, err := tx.GetQuestion(ctx, params.QuestionID)
		if err != nil {
			return err
		}
		if q.AuthorID != ac.UserID() {
			return apperrors.Unauthorized("You are not allowed to edit this question")
		}

		if q.Title != params.Title || q.Content != params.Content {
			if err := tx.UpdateQuestionContent(ctx, q.ID, params.Title, params.Content); err != nil {
				return err
			}
		}

		upserts = len(tags.Diff(q.Tags, params.Tags).ToAdd)
		if _, err := tx.SyncQuestionTags(ctx, q.ID, q.Tags, params.Tags); err != nil {
			return err
		}

		edited, err = tx.GetQuestion(ctx, q.ID)
		return err
	})
	if err != nil {
		return fail[*models.Question](ctx, a, op, err)
	}

	a.addTagUpserts(upserts)
	return response.OK(edited)
}

func (a *Actions) GetQuestion(ctx context.Context, sess *auth.Session, p GetQuestionParams) response.Result[*models.Question] {
	const op = "GetQuestion"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[*models.Question](ctx, a, op, err)
	}

	q, err := a.store.GetQuestion(ctx, ac.Params.QuestionID)
	if err != nil {
		return fail[*models.Question](ctx, a, op, err)
	}
	return response.OK(q)
}

func (a *Actions) ListQuestions(ctx context.Context, sess *auth.Session, p ListQuestionsParams) response.Result[QuestionList] {
	const op = "ListQuestions"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[QuestionList](ctx, a, op, err)
	}

	page, err := a.store.ListQuestions(ctx, store.QuestionQuery{
		Pagination: store.Pagination{Page: ac.Params.Page, PageSize: ac.Params.PageSize},
		Query:      ac.Params.Query,
		Filter:     ac.Params.Filter,
	})
	if err != nil {
		return fail[QuestionList](ctx, a, op, err)
	}
	return response.OK(QuestionList{Questions: page.Items, PageInfo: pageInfo(page)})
}

func (a *Actions) IncrementViews(ctx context.Context, sess *auth.Session, p IncrementViewsParams) response.Result[ViewCount] {
	const op = "IncrementViews"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[ViewCount](ctx, a, op, err)
	}

	views, err := a.store.IncrementViews(ctx, ac.Params.QuestionID)
	if err != nil {
		return fail[ViewCount](ctx, a, op, err)
	}
	return response.OK(ViewCount{Views: views})
}

func (a *Actions) addTagUpserts(n int) {
	if a.metrics != nil && n > 0 {
		a.metrics.AddTagUpserts(n)
	}
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
