package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/id"
)

// Voted targets.
const (
	ActionQuestion = "question"
	ActionAnswer   = "answer"
)

// Vote types.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// Vote tracks one user's vote on a question or answer.
type Vote struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	AuthorID   string    `gorm:"not null;uniqueIndex:idx_votes_author_action" json:"author_id"`
	ActionID   string    `gorm:"not null;uniqueIndex:idx_votes_author_action" json:"action_id"`
	ActionType string    `gorm:"not null;uniqueIndex:idx_votes_author_action" json:"action_type"`
	VoteType   string    `gorm:"not null" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (v *Vote) BeforeCreate(*gorm.DB) error {
	return assignID(&v.ID, id.PrefixVote)
}
