package actions

import (
	"context"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/response"
	"github.com/emilythestrangee/devflow/backend/internal/store"
)

type CreateVoteParams struct {
	TargetID   string `json:"target_id" validate:"required"`
	TargetType string `json:"target_type" validate:"required,oneof=question answer"`
	VoteType   string `json:"vote_type" validate:"required,oneof=upvote downvote"`
}

type HasVotedParams struct {
	TargetID   string `json:"target_id" form:"target_id" validate:"required"`
	TargetType string `json:"target_type" form:"target_type" validate:"required,oneof=question answer"`
}

type VoteStatus struct {
	HasUpvoted   bool `json:"has_upvoted"`
	HasDownvoted bool `json:"has_downvoted"`
}

func statusOf(voteType string) VoteStatus {
	return VoteStatus{HasUpvoted: voteType == models.VoteUp, HasDownvoted: voteType == models.VoteDown}
}

func counterDelta(voteType string, delta int) (up, down int) {
	if voteType == models.VoteUp {
		return delta, 0
	}
	return 0, delta
}

// CreateVote casts, withdraws or switches a vote. Voting the same way twice
// withdraws the vote; voting the other way switches it. The target's
// counters change in the same transaction.
func (a *Actions) CreateVote(ctx context.Context, sess *auth.Session, p CreateVoteParams) response.Result[VoteStatus] {
	const op = "CreateVote"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[VoteStatus](ctx, a, op, err)
	}
	params := ac.Params
	userID := ac.UserID()

	var status VoteStatus
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		exists, err := tx.VoteTargetExists(ctx, params.TargetType, params.TargetID)
		if err != nil {
			return err
		}
		if !exists {
			if params.TargetType == models.ActionAnswer {
				return apperrors.NotFound("Answer")
			}
			return apperrors.NotFound("Question")
		}

		existing, err := tx.FindVote(ctx, userID, params.TargetID, params.TargetType)
		if err != nil {
			return err
		}

		var up, down int
		switch {
		case existing == nil:
			vote := &models.Vote{
				AuthorID:   userID,
				ActionID:   params.TargetID,
				ActionType: params.TargetType,
				VoteType:   params.VoteType,
			}
			if err := tx.CreateVote(ctx, vote); err != nil {
				return err
			}
			up, down = counterDelta(params.VoteType, 1)
			status = statusOf(params.VoteType)

		case existing.VoteType == params.VoteType:
			if err := tx.DeleteVote(ctx, existing.ID); err != nil {
				return err
			}
			up, down = counterDelta(params.VoteType, -1)

		default:
			if err := tx.UpdateVoteType(ctx, existing.ID, params.VoteType); err != nil {
				return err
			}
			addUp, addDown := counterDelta(params.VoteType, 1)
			subUp, subDown := counterDelta(existing.VoteType, -1)
			up, down = addUp+subUp, addDown+subDown
			status = statusOf(params.VoteType)
		}

		return tx.AdjustVoteCounts(ctx, params.TargetType, params.TargetID, up, down)
	})
	if err != nil {
		return fail[VoteStatus](ctx, a, op, err)
	}
	return response.OK(status)
}

func (a *Actions) HasVoted(ctx context.Context, sess *auth.Session, p HasVotedParams) response.Result[VoteStatus] {
	const op = "HasVoted"

	ac, err := action.Run(a.validator, p, sess, action.Options{Authorize: true})
	if err != nil {
		return fail[VoteStatus](ctx, a, op, err)
	}

	vote, err := a.store.FindVote(ctx, ac.UserID(), ac.Params.TargetID, ac.Params.TargetType)
	if err != nil {
		return fail[VoteStatus](ctx, a, op, err)
	}
	if vote == nil {
		return response.OK(VoteStatus{})
	}
	return response.OK(statusOf(vote.VoteType))
}
