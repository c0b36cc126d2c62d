package actions

import (
	"context"
	"strings"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/response"
	"github.com/emilythestrangee/devflow/backend/internal/store"
)

type ListTagsParams struct {
	Page     int    `json:"page" form:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" form:"page_size" validate:"gte=0,lte=100"`
	Query    string `json:"query" form:"query" validate:"max=100"`
	Filter   string `json:"filter" form:"filter" validate:"omitempty,oneof=popular recent oldest name"`
}

func (p *ListTagsParams) Normalize() {
	p.Query = strings.TrimSpace(p.Query)
}

type GetTagQuestionsParams struct {
	TagID    string `json:"tag_id" validate:"required"`
	Page     int    `json:"page" form:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" form:"page_size" validate:"gte=0,lte=100"`
	Query    string `json:"query" form:"query" validate:"max=100"`
}

func (p *GetTagQuestionsParams) Normalize() {
	p.Query = strings.TrimSpace(p.Query)
}

type TagList struct {
	Tags []models.Tag `json:"tags"`
	PageInfo
}

type TagQuestions struct {
	Tag       *models.Tag       `json:"tag"`
	Questions []models.Question `json:"questions"`
	PageInfo
}

func (a *Actions) ListTags(ctx context.Context, sess *auth.Session, p ListTagsParams) response.Result[TagList] {
	const op = "ListTags"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[TagList](ctx, a, op, err)
	}

	page, err := a.store.ListTags(ctx, store.TagQuery{
		Pagination: store.Pagination{Page: ac.Params.Page, PageSize: ac.Params.PageSize},
		Query:      ac.Params.Query,
		Filter:     ac.Params.Filter,
	})
	if err != nil {
		return fail[TagList](ctx, a, op, err)
	}
	return response.OK(TagList{Tags: page.Items, PageInfo: pageInfo(page)})
}

// GetTagQuestions returns a tag and a page of the questions linked to it.
func (a *Actions) GetTagQuestions(ctx context.Context, sess *auth.Session, p GetTagQuestionsParams) response.Result[TagQuestions] {
	const op = "GetTagQuestions"

	ac, err := action.Run(a.validator, p, sess, action.Options{})
	if err != nil {
		return fail[TagQuestions](ctx, a, op, err)
	}

	tag, err := a.store.GetTag(ctx, ac.Params.TagID)
	if err != nil {
		return fail[TagQuestions](ctx, a, op, err)
	}

	page, err := a.store.ListQuestions(ctx, store.QuestionQuery{
		Pagination: store.Pagination{Page: ac.Params.Page, PageSize: ac.Params.PageSize},
		Query:      ac.Params.Query,
		TagID:      tag.ID,
	})
	if err != nil {
		return fail[TagQuestions](ctx, a, op, err)
	}
	return response.OK(TagQuestions{Tag: tag, Questions: page.Items, PageInfo: pageInfo(page)})
}
