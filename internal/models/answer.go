package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/id"
)

type Answer struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	AuthorID   string    `gorm:"index;not null" json:"author_id"`
	Author     *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	QuestionID string    `gorm:"index;not null" json:"question_id"`
	Upvotes    int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes  int       `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *Answer) BeforeCreate(*gorm.DB) error {
	return assignID(&a.ID, id.PrefixAnswer)
}
