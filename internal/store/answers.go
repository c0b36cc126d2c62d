package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/devflow/backend/internal/models"
)

// Answer listing filters.
const (
	AnswerFilterLatest  = "latest"
	AnswerFilterOldest  = "oldest"
	AnswerFilterPopular = "popular"
)

// AnswerQuery selects a page of a question's answers.
type AnswerQuery struct {
	Pagination
	QuestionID string
	Filter     string
}

func (s *Store) CreateAnswer(ctx context.Context, a *models.Answer) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (s *Store) GetAnswer(ctx context.Context, id string) (*models.Answer, error) {
	var a models.Answer
	if err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).Take(&a).Error; err != nil {
		return nil, notFound(err, "Answer")
	}
	return &a, nil
}

// ListAnswers returns one page of the answers to a question.
func (s *Store) ListAnswers(ctx context.Context, aq AnswerQuery) (Page[models.Answer], error) {
	base := func() *gorm.DB {
		return s.db.Model(&models.Answer{}).Where("question_id = ?", aq.QuestionID)
	}

	var order string
	switch aq.Filter {
	case AnswerFilterOldest:
		order = "created_at ASC, id ASC"
	case AnswerFilterPopular:
		order = "upvotes DESC, created_at DESC"
	default:
		order = "created_at DESC, id DESC"
	}

	return listPage[models.Answer](ctx, base, order, aq.Pagination, "Author")
}
