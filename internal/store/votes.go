package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/models"
)

// voteTable maps a vote target to the table carrying its counters.
func voteTable(actionType string) (string, error) {
	switch actionType {
	case models.ActionQuestion:
		return "questions", nil
	case models.ActionAnswer:
		return "answers", nil
	default:
		return "", fmt.Errorf("unknown vote target %q", actionType)
	}
}

// FindVote returns the vote of author on a target, or nil when there is none.
func (s *Store) FindVote(ctx context.Context, authorID, actionID, actionType string) (*models.Vote, error) {
	var v models.Vote
	err := s.db.WithContext(ctx).
		Where("author_id = ? AND action_id = ? AND action_type = ?", authorID, actionID, actionType).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) CreateVote(ctx context.Context, v *models.Vote) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *Store) UpdateVoteType(ctx context.Context, id, voteType string) error {
	return s.db.WithContext(ctx).Model(&models.Vote{}).Where("id = ?", id).Update("vote_type", voteType).Error
}

func (s *Store) DeleteVote(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vote{}).Error
}

// VoteTargetExists reports whether the voted question or answer exists.
func (s *Store) VoteTargetExists(ctx context.Context, actionType, actionID string) (bool, error) {
	table, err := voteTable(actionType)
	if err != nil {
		return false, err
	}
	var n int64
	err = s.db.WithContext(ctx).Table(table).Where("id = ?", actionID).Count(&n).Error
	return n > 0, err
}

// AdjustVoteCounts adds the deltas to the upvote and downvote counters of a
// question or answer. Counters stop at zero.
func (s *Store) AdjustVoteCounts(ctx context.Context, actionType, actionID string, upDelta, downDelta int) error {
	table, err := voteTable(actionType)
	if err != nil {
		return err
	}
	if upDelta == 0 && downDelta == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Table(table).Where("id = ?", actionID).UpdateColumns(map[string]any{
		"upvotes":   clampedAdd("upvotes", upDelta),
		"downvotes": clampedAdd("downvotes", downDelta),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(targetName(actionType))
	}
	return nil
}

func clampedAdd(column string, delta int) any {
	return gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s + ? < 0 THEN 0 ELSE %[1]s + ? END", column), delta, delta)
}

func targetName(actionType string) string {
	if actionType == models.ActionAnswer {
		return "Answer"
	}
	return "Question"
}
