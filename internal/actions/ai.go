package actions

import (
	"context"
	"errors"
	"strings"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/ai"
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/response"
)

type GenerateAnswerParams struct {
	Question   string `json:"question" validate:"required,min=5"`
	Content    string `json:"content" validate:"required,min=10"`
	UserAnswer string `json:"user_answer"`
}

func (p *GenerateAnswerParams) Normalize() {
	p.Question = strings.TrimSpace(p.Question)
	p.Content = strings.TrimSpace(p.Content)
}

type GeneratedAnswer struct {
	Answer string `json:"answer"`
}

// GenerateAnswer drafts an answer with the completion service. Calls are
// rate limited per user.
func (a *Actions) GenerateAnswer(ctx context.Context, sess *auth.Session, p GenerateAnswerParams) response.Result[GeneratedAnswer] {
	const op = "GenerateAnswer"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[GeneratedAnswer](ctx, a, op, err)
	}

	if a.limiter != nil && !a.limiter.Allow(ac.UserID()) {
		return fail[GeneratedAnswer](ctx, a, op, apperrors.RateLimited("Too many AI requests, try again later"))
	}

	text, err := a.completer.Generate(ctx,
		ai.AnswerPrompt(ac.Params.Question, ac.Params.Content, ac.Params.UserAnswer),
		ai.AnswerSystemPrompt,
	)
	if a.metrics != nil {
		a.metrics.ObserveCompletion(err == nil)
	}
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			return fail[GeneratedAnswer](ctx, a, op, apperrors.Internal("AI answers are not available", err))
		}
		return fail[GeneratedAnswer](ctx, a, op, apperrors.Internal("Failed to generate answer", err))
	}

	return response.OK(GeneratedAnswer{Answer: ai.CleanAnswer(text)})
}
