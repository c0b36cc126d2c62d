package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/models"
)

// Question listing filters.
const (
	FilterNewest      = "newest"
	FilterUnanswered  = "unanswered"
	FilterPopular     = "popular"
	FilterRecommended = "recommended"
)

// QuestionQuery selects a page of questions.
type QuestionQuery struct {
	Pagination
	// Query matches title or content, case-insensitively.
	Query  string
	Filter string
	// TagID restricts the listing to questions linked to the tag.
	TagID string
	// SavedBy restricts the listing to questions saved by the user.
	SavedBy string
}

// CreateQuestion inserts q. Tags are not written; see SyncQuestionTags.
func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(q).Error
}

// GetQuestion loads a question with its author and tags.
func (s *Store) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	if err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).Take(&q).Error; err != nil {
		return nil, notFound(err, "Question")
	}

	tags, err := s.QuestionTags(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.Tags = tags
	return &q, nil
}

// QuestionExists reports whether a question with id exists.
func (s *Store) QuestionExists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// UpdateQuestionContent overwrites the title and content of a question.
func (s *Store) UpdateQuestionContent(ctx context.Context, id, title, content string) error {
	res := s.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).Updates(map[string]any{
		"title":      title,
		"content":    content,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Question")
	}
	return nil
}

// IncrementViews adds one view and returns the new count.
func (s *Store) IncrementViews(ctx context.Context, id string) (int, error) {
	res := s.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.NotFound("Question")
	}

	var views int
	err := s.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).Pluck("views", &views).Error
	return views, err
}

// IncrementAnswers adds one to the answer counter of a question.
func (s *Store) IncrementAnswers(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).
		UpdateColumn("answers", gorm.Expr("answers + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Question")
	}
	return nil
}

// ListQuestions returns one page of questions with authors and tags.
// The recommended filter yields an empty page.
func (s *Store) ListQuestions(ctx context.Context, qq QuestionQuery) (Page[models.Question], error) {
	if qq.Filter == FilterRecommended {
		return Page[models.Question]{Items: []models.Question{}}, nil
	}

	base := func() *gorm.DB {
		q := s.db.Model(&models.Question{})
		if qq.TagID != "" {
			q = q.Joins("JOIN question_tags ON question_tags.question_id = questions.id").
				Where("question_tags.tag_id = ?", qq.TagID)
		}
		if qq.SavedBy != "" {
			q = q.Joins("JOIN collections ON collections.question_id = questions.id").
				Where("collections.author_id = ?", qq.SavedBy)
		}
		if qq.Query != "" {
			pattern := containsPattern(qq.Query)
			q = q.Where(`(LOWER(questions.title) LIKE ? ESCAPE '\' OR LOWER(questions.content) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		if qq.Filter == FilterUnanswered {
			q = q.Where("questions.answers = 0")
		}
		return q
	}

	order := "questions.created_at DESC, questions.id DESC"
	if qq.Filter == FilterPopular {
		order = "questions.upvotes DESC, questions.created_at DESC"
	}

	page, err := listPage[models.Question](ctx, base, order, qq.Pagination, "Author")
	if err != nil {
		return Page[models.Question]{}, err
	}

	if err := s.attachTags(ctx, page.Items); err != nil {
		return Page[models.Question]{}, err
	}
	return page, nil
}

// attachTags fills Tags of every question with one query.
func (s *Store) attachTags(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]string, len(questions))
	byID := make(map[string]*models.Question, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
		questions[i].Tags = []models.Tag{}
		byID[questions[i].ID] = &questions[i]
	}

	type row struct {
		QuestionID string
		ID         string
		Name       string
		Questions  int
		CreatedAt  time.Time
	}
	var rows []row
	err := s.db.WithContext(ctx).Table("question_tags").
		Select("question_tags.question_id, tags.id, tags.name, tags.questions, tags.created_at").
		Joins("JOIN tags ON tags.id = question_tags.tag_id").
		Where("question_tags.question_id IN ?", ids).
		Order("question_tags.id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, r := range rows {
		q := byID[r.QuestionID]
		q.Tags = append(q.Tags, models.Tag{ID: r.ID, Name: r.Name, Questions: r.Questions, CreatedAt: r.CreatedAt})
	}
	return nil
}
