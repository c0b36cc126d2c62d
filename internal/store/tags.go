package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/tags"
)

// Tag listing filters.
const (
	TagFilterPopular = "popular"
	TagFilterRecent  = "recent"
	TagFilterOldest  = "oldest"
	TagFilterName    = "name"
)

// TagQuery selects a page of tags.
type TagQuery struct {
	Pagination
	Query  string
	Filter string
}

// UpsertTag increments the counter of the tag named name, creating it with a
// count of one when no tag shares its case-folded name. The insert and the
// increment are one statement, which is what keeps concurrent creation of
// the same name from producing two tags or losing an increment.
func (s *Store) UpsertTag(ctx context.Context, name string) (*models.Tag, error) {
	key := tags.Key(name)
	if key == "" {
		return nil, fmt.Errorf("upsert tag: empty name")
	}

	candidate := models.Tag{Name: name, NameKey: key, Questions: 1}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"questions": gorm.Expr("tags.questions + 1"),
		}),
	}).Create(&candidate).Error
	if err != nil {
		return nil, fmt.Errorf("upsert tag %q: %w", name, err)
	}

	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("name_key = ?", key).Take(&tag).Error; err != nil {
		return nil, fmt.Errorf("reload tag %q: %w", name, err)
	}
	return &tag, nil
}

// DecrementTags subtracts one from the counter of every tag in ids. Counters
// stop at zero.
func (s *Store) DecrementTags(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).
		UpdateColumn("questions", gorm.Expr("CASE WHEN questions > 0 THEN questions - 1 ELSE 0 END")).Error
}

// LinkTags inserts one association row per tag, in order.
func (s *Store) LinkTags(ctx context.Context, questionID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.QuestionTag, len(tagIDs))
	for i, tagID := range tagIDs {
		links[i] = models.QuestionTag{QuestionID: questionID, TagID: tagID}
	}
	return s.db.WithContext(ctx).Create(&links).Error
}

// UnlinkTags deletes the association rows between a question and tagIDs and
// returns the ids of the tags whose row was actually removed. A row already
// deleted by an overlapping edit is not reported.
func (s *Store) UnlinkTags(ctx context.Context, questionID string, tagIDs []string) ([]string, error) {
	removed := make([]string, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		res := s.db.WithContext(ctx).
			Where("question_id = ? AND tag_id = ?", questionID, tagID).
			Delete(&models.QuestionTag{})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			removed = append(removed, tagID)
		}
	}
	return removed, nil
}

// QuestionTags returns the tags linked to a question in link order.
func (s *Store) QuestionTags(ctx context.Context, questionID string) ([]models.Tag, error) {
	tagList := []models.Tag{}
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.*").
		Joins("JOIN question_tags ON question_tags.tag_id = tags.id").
		Where("question_tags.question_id = ?", questionID).
		Order("question_tags.id").
		Find(&tagList).Error
	return tagList, err
}

// SyncQuestionTags makes the tags of a question match desired. current is
// what the question is linked to now (nil for a new question). Desired names
// are first upserted, then removed tags are unlinked and only the tags whose
// link row was deleted are decremented, then the new links are inserted.
// It returns the resulting tags in link order.
func (s *Store) SyncQuestionTags(ctx context.Context, questionID string, current []models.Tag, desired []string) ([]models.Tag, error) {
	plan := tags.Diff(current, desired)
	if plan.Empty() {
		if current == nil {
			return []models.Tag{}, nil
		}
		return current, nil
	}

	addIDs := make([]string, 0, len(plan.ToAdd))
	for _, name := range plan.ToAdd {
		tag, err := s.UpsertTag(ctx, name)
		if err != nil {
			return nil, err
		}
		addIDs = append(addIDs, tag.ID)
	}

	if removeIDs := plan.RemoveIDs(); len(removeIDs) > 0 {
		unlinked, err := s.UnlinkTags(ctx, questionID, removeIDs)
		if err != nil {
			return nil, fmt.Errorf("unlink tags: %w", err)
		}
		if err := s.DecrementTags(ctx, unlinked); err != nil {
			return nil, fmt.Errorf("decrement tags: %w", err)
		}
	}

	if err := s.LinkTags(ctx, questionID, addIDs); err != nil {
		return nil, fmt.Errorf("link tags: %w", err)
	}

	return s.QuestionTags(ctx, questionID)
}

// GetTag loads a tag by id.
func (s *Store) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&tag).Error; err != nil {
		return nil, notFound(err, "Tag")
	}
	return &tag, nil
}

// GetTagByName finds a tag by case-insensitive name.
func (s *Store) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("name_key = ?", tags.Key(name)).Take(&tag).Error; err != nil {
		return nil, notFound(err, "Tag")
	}
	return &tag, nil
}

// ListTags returns one page of tags.
func (s *Store) ListTags(ctx context.Context, tq TagQuery) (Page[models.Tag], error) {
	base := func() *gorm.DB {
		q := s.db.Model(&models.Tag{})
		if tq.Query != "" {
			q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(tq.Query))
		}
		return q
	}

	var order string
	switch tq.Filter {
	case TagFilterRecent:
		order = "created_at DESC, id DESC"
	case TagFilterOldest:
		order = "created_at ASC, id ASC"
	case TagFilterName:
		order = "name_key ASC"
	default:
		order = "questions DESC, name_key ASC"
	}

	return listPage[models.Tag](ctx, base, order, tq.Pagination)
}
