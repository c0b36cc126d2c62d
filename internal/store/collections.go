package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/models"
)

// FindCollection returns the saved entry of a question for a user, or nil.
func (s *Store) FindCollection(ctx context.Context, authorID, questionID string) (*models.Collection, error) {
	var c models.Collection
	err := s.db.WithContext(ctx).Where("author_id = ? AND question_id = ?", authorID, questionID).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCollection(ctx context.Context, c *models.Collection) error {
	return s.db.WithContext(ctx).Omit("Question").Create(c).Error
}

func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Collection{}).Error
}
