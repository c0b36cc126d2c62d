package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/id"
)

// Question is a forum question. Tags is not a column: it is loaded from the
// question_tags association, ordered by link creation.
type Question struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  string    `gorm:"index;not null" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags      []Tag     `gorm:"-" json:"tags"`
	Views     int       `gorm:"not null;default:0" json:"views"`
	Answers   int       `gorm:"not null;default:0" json:"answers"`
	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int       `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Question) BeforeCreate(*gorm.DB) error {
	return assignID(&q.ID, id.PrefixQuestion)
}

// Tag is created on first use and never deleted. NameKey is the case-folded
// name and carries the uniqueness constraint.
type Tag struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	NameKey   string    `gorm:"uniqueIndex;not null" json:"-"`
	Questions int       `gorm:"not null;default:0" json:"questions"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	return assignID(&t.ID, id.PrefixTag)
}

// QuestionTag is one edge of the question/tag many-to-many relation. IDs are
// time ordered so that a question's tags keep their insertion order.
type QuestionTag struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	QuestionID string    `gorm:"not null;uniqueIndex:idx_question_tags_pair" json:"question_id"`
	TagID      string    `gorm:"not null;uniqueIndex:idx_question_tags_pair;index" json:"tag_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (qt *QuestionTag) BeforeCreate(*gorm.DB) error {
	if qt.ID == "" {
		qt.ID = id.Ordered(id.PrefixQuestionTag)
	}
	return nil
}
