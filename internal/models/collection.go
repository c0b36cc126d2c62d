package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/id"
)

// Collection is a question saved by a user.
type Collection struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	AuthorID   string    `gorm:"not null;uniqueIndex:idx_collections_author_question" json:"author_id"`
	QuestionID string    `gorm:"not null;uniqueIndex:idx_collections_author_question;index" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *Collection) BeforeCreate(*gorm.DB) error {
	return assignID(&c.ID, id.PrefixCollection)
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Account{},
		&Question{},
		&Tag{},
		&QuestionTag{},
		&Answer{},
		&Vote{},
		&Collection{},
	}
}
