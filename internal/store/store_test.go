package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/database/databasetest"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/store"
)

func newStore(t *testing.T) (*store.Store, *gorm.DB) {
	t.Helper()
	db := databasetest.New(t)
	return store.New(db), db
}

func seedUser(t *testing.T, s *store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Name: username, Username: username, Email: username + "@devflow.test"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createQuestion(t *testing.T, s *store.Store, authorID, title string, tagNames ...string) *models.Question {
	t.Helper()
	ctx := context.Background()
	q := &models.Question{Title: title, Content: "content of " + title, AuthorID: authorID}
	err := s.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.CreateQuestion(ctx, q); err != nil {
			return err
		}
		tagList, err := tx.SyncQuestionTags(ctx, q.ID, nil, tagNames)
		if err != nil {
			return err
		}
		q.Tags = tagList
		return nil
	})
	require.NoError(t, err)
	return q
}

func tagByName(t *testing.T, s *store.Store, name string) *models.Tag {
	t.Helper()
	tag, err := s.GetTagByName(context.Background(), name)
	require.NoError(t, err)
	return tag
}

func linkCount(t *testing.T, db *gorm.DB, questionID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.QuestionTag{}).Where("question_id = ?", questionID).Count(&n).Error)
	return n
}

func tagNames(tagList []models.Tag) []string {
	names := make([]string, len(tagList))
	for i, t := range tagList {
		names[i] = t.Name
	}
	return names
}

func TestUpsertTag_CaseInsensitive(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	first, err := s.UpsertTag(ctx, "Next.js")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Questions)
	assert.Equal(t, "Next.js", first.Name)

	second, err := s.UpsertTag(ctx, "NEXT.JS")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Questions)
	assert.Equal(t, "Next.js", second.Name)

	var n int64
	require.NoError(t, s.DB().Model(&models.Tag{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUpsertTag_EmptyName(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.UpsertTag(context.Background(), "  ")
	assert.Error(t, err)
}

func TestDecrementTags_ClampsAtZero(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()

	tag, err := s.UpsertTag(ctx, "go")
	require.NoError(t, err)

	require.NoError(t, s.DecrementTags(ctx, []string{tag.ID}))
	require.NoError(t, s.DecrementTags(ctx, []string{tag.ID}))

	var got models.Tag
	require.NoError(t, db.Where("id = ?", tag.ID).Take(&got).Error)
	assert.Equal(t, 0, got.Questions)
}

func TestSyncQuestionTags_CreateAndEdit(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")

	q := createQuestion(t, s, author.ID, "State management", "react", "Redux")

	assert.Equal(t, []string{"react", "Redux"}, tagNames(q.Tags))
	assert.Equal(t, 1, tagByName(t, s, "react").Questions)
	assert.Equal(t, 1, tagByName(t, s, "redux").Questions)
	assert.EqualValues(t, 2, linkCount(t, db, q.ID))

	var edited []models.Tag
	err := s.WithTx(ctx, func(tx *store.Store) error {
		current, err := tx.QuestionTags(ctx, q.ID)
		if err != nil {
			return err
		}
		edited, err = tx.SyncQuestionTags(ctx, q.ID, current, []string{"react", "typescript"})
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"react", "typescript"}, tagNames(edited))
	assert.Equal(t, 1, tagByName(t, s, "react").Questions)
	assert.Equal(t, 0, tagByName(t, s, "Redux").Questions)
	assert.Equal(t, 1, tagByName(t, s, "typescript").Questions)
	assert.EqualValues(t, 2, linkCount(t, db, q.ID))

	// Zero-count tags are kept.
	_, err = s.GetTagByName(ctx, "redux")
	assert.NoError(t, err)
}

func TestSyncQuestionTags_UnchangedSetIsNoop(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")
	q := createQuestion(t, s, author.ID, "Hooks", "react", "redux")

	var before []models.QuestionTag
	require.NoError(t, db.Where("question_id = ?", q.ID).Order("id").Find(&before).Error)

	err := s.WithTx(ctx, func(tx *store.Store) error {
		current, err := tx.QuestionTags(ctx, q.ID)
		if err != nil {
			return err
		}
		_, err = tx.SyncQuestionTags(ctx, q.ID, current, []string{"REDUX", "React"})
		return err
	})
	require.NoError(t, err)

	var after []models.QuestionTag
	require.NoError(t, db.Where("question_id = ?", q.ID).Order("id").Find(&after).Error)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, tagByName(t, s, "react").Questions)
	assert.Equal(t, 1, tagByName(t, s, "redux").Questions)
}

func TestSyncQuestionTags_SharedTagAcrossQuestions(t *testing.T) {
	s, _ := newStore(t)
	author := seedUser(t, s, "ada")

	q1 := createQuestion(t, s, author.ID, "Routing", "Next.js")
	q2 := createQuestion(t, s, author.ID, "Middleware", "NEXT.JS")

	require.Len(t, q1.Tags, 1)
	require.Len(t, q2.Tags, 1)
	assert.Equal(t, q1.Tags[0].ID, q2.Tags[0].ID)
	assert.Equal(t, 2, tagByName(t, s, "next.js").Questions)
}

// Two edits of the same question that both start from the same tag list
// remove the same link. Only the one that deleted the row decrements.
func TestSyncQuestionTags_StaleSnapshotKeepsCounter(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")

	q1 := createQuestion(t, s, author.ID, "Streaming RPCs", "go", "grpc")
	createQuestion(t, s, author.ID, "Interceptors", "grpc")
	stale := q1.Tags

	for range 2 {
		err := s.WithTx(ctx, func(tx *store.Store) error {
			_, err := tx.SyncQuestionTags(ctx, q1.ID, stale, []string{"go"})
			return err
		})
		require.NoError(t, err)
	}

	grpc := tagByName(t, s, "grpc")
	var links int64
	require.NoError(t, db.Model(&models.QuestionTag{}).Where("tag_id = ?", grpc.ID).Count(&links).Error)
	assert.EqualValues(t, 1, links)
	assert.EqualValues(t, links, grpc.Questions)
	assert.Equal(t, 1, tagByName(t, s, "go").Questions)
	assert.EqualValues(t, 1, linkCount(t, db, q1.ID))
}

func TestUnlinkTags_ReportsRemovedRows(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")
	q := createQuestion(t, s, author.ID, "Unlinking", "go", "rust")

	removed, err := s.UnlinkTags(ctx, q.ID, []string{q.Tags[1].ID, "tag-missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{q.Tags[1].ID}, removed)

	removed, err = s.UnlinkTags(ctx, q.ID, []string{q.Tags[1].ID})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestWithTx_RollsBackTagIncrementWhenLinkFails(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")
	createQuestion(t, s, author.ID, "Existing", "react")

	errLinkFailed := errors.New("link insert failed")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_question_tags", func(tx *gorm.DB) {
		if tx.Statement.Table == "question_tags" {
			_ = tx.AddError(errLinkFailed)
		}
	}))

	q := &models.Question{Title: "Doomed", Content: "never stored", AuthorID: author.ID}
	err := s.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.CreateQuestion(ctx, q); err != nil {
			return err
		}
		_, err := tx.SyncQuestionTags(ctx, q.ID, nil, []string{"react", "svelte"})
		return err
	})
	require.ErrorIs(t, err, errLinkFailed)

	assert.Equal(t, 1, tagByName(t, s, "react").Questions)
	_, err = s.GetTagByName(ctx, "svelte")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.GetQuestion(ctx, q.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.WithTx(ctx, func(tx *store.Store) error {
			if _, err := tx.UpsertTag(ctx, "rust"); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, err := s.GetTagByName(ctx, "rust")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The connection was released: a new transaction can run.
	require.NoError(t, s.WithTx(ctx, func(tx *store.Store) error {
		_, err := tx.UpsertTag(ctx, "rust")
		return err
	}))
}

func TestGetQuestion_NotFound(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.GetQuestion(context.Background(), "q-missing")
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Question not found", appErr.Message)
}

func TestIncrementViews(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")
	q := createQuestion(t, s, author.ID, "Views", "go")

	views, err := s.IncrementViews(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, views)

	views, err = s.IncrementViews(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, views)

	_, err = s.IncrementViews(ctx, "q-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListQuestions(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")

	first := createQuestion(t, s, author.ID, "Goroutine leaks", "go")
	second := createQuestion(t, s, author.ID, "React hooks 100%", "react", "javascript")
	third := createQuestion(t, s, author.ID, "Channels in Go", "go", "concurrency")
	require.NoError(t, s.IncrementAnswers(ctx, first.ID))

	t.Run("newest first with tags and authors", func(t *testing.T) {
		page, err := s.ListQuestions(ctx, store.QuestionQuery{})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.EqualValues(t, 3, page.Total)
		assert.False(t, page.IsNext)

		got := map[string][]string{}
		for _, q := range page.Items {
			require.NotNil(t, q.Author)
			assert.Equal(t, "ada", q.Author.Username)
			got[q.ID] = tagNames(q.Tags)
		}
		assert.Equal(t, []string{"react", "javascript"}, got[second.ID])
		assert.Equal(t, []string{"go", "concurrency"}, got[third.ID])
	})

	t.Run("query matches title case-insensitively", func(t *testing.T) {
		page, err := s.ListQuestions(ctx, store.QuestionQuery{Query: "GOROUTINE"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, first.ID, page.Items[0].ID)
	})

	t.Run("query escapes wildcards", func(t *testing.T) {
		page, err := s.ListQuestions(ctx, store.QuestionQuery{Query: "100%"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, second.ID, page.Items[0].ID)
	})

	t.Run("unanswered", func(t *testing.T) {
		page, err := s.ListQuestions(ctx, store.QuestionQuery{Filter: store.FilterUnanswered})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		for _, q := range page.Items {
			assert.NotEqual(t, first.ID, q.ID)
		}
	})

	t.Run("recommended is empty", func(t *testing.T) {
		page, err := s.ListQuestions(ctx, store.QuestionQuery{Filter: store.FilterRecommended})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.False(t, page.IsNext)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := s.ListQuestions(ctx, store.QuestionQuery{Pagination: store.Pagination{Page: 1, PageSize: 2}})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.True(t, page.IsNext)

		page, err = s.ListQuestions(ctx, store.QuestionQuery{Pagination: store.Pagination{Page: 2, PageSize: 2}})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.False(t, page.IsNext)
	})

	t.Run("by tag", func(t *testing.T) {
		goTag := tagByName(t, s, "go")
		page, err := s.ListQuestions(ctx, store.QuestionQuery{TagID: goTag.ID})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.EqualValues(t, 2, page.Total)
	})
}

func TestListTags(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")

	createQuestion(t, s, author.ID, "One", "go", "sql")
	createQuestion(t, s, author.ID, "Two", "go")
	createQuestion(t, s, author.ID, "Three", "Angular")

	page, err := s.ListTags(ctx, store.TagQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "go", page.Items[0].Name)

	page, err = s.ListTags(ctx, store.TagQuery{Filter: store.TagFilterName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Angular", "go", "sql"}, tagNames(page.Items))

	page, err = s.ListTags(ctx, store.TagQuery{Query: "SQ"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sql"}, tagNames(page.Items))
}

func TestVotesAndCounters(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")
	q := createQuestion(t, s, author.ID, "Votes", "go")

	require.NoError(t, s.AdjustVoteCounts(ctx, models.ActionQuestion, q.ID, 1, 0))
	require.NoError(t, s.AdjustVoteCounts(ctx, models.ActionQuestion, q.ID, -1, -1))

	var got models.Question
	require.NoError(t, db.Where("id = ?", q.ID).Take(&got).Error)
	assert.Equal(t, 0, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)

	err := s.AdjustVoteCounts(ctx, models.ActionAnswer, "ans-missing", 1, 0)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = s.AdjustVoteCounts(ctx, "comment", q.ID, 1, 0)
	assert.Error(t, err)

	v, err := s.FindVote(ctx, author.ID, q.ID, models.ActionQuestion)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCollections(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	author := seedUser(t, s, "ada")
	q := createQuestion(t, s, author.ID, "Saved", "go")

	require.NoError(t, s.CreateCollection(ctx, &models.Collection{AuthorID: author.ID, QuestionID: q.ID}))

	c, err := s.FindCollection(ctx, author.ID, q.ID)
	require.NoError(t, err)
	require.NotNil(t, c)

	page, err := s.ListQuestions(ctx, store.QuestionQuery{SavedBy: author.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, q.ID, page.Items[0].ID)

	require.NoError(t, s.DeleteCollection(ctx, c.ID))
	c, err = s.FindCollection(ctx, author.ID, q.ID)
	require.NoError(t, err)
	assert.Nil(t, c)
}
