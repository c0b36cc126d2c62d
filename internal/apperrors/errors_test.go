package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/logger"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
		{Kind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("edit question: %w", NotFound("Question"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "edit question: Question not found", err.Error())
}

func TestValidationMessageListsFields(t *testing.T) {
	err := Validation(map[string][]string{
		"title": {"is required"},
		"tags":  {"must contain at least 1 item"},
	})

	assert.Equal(t, "Validation Error: tags, title", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.Status())
	assert.Equal(t, []string{"is required"}, err.Details["title"])
}

func TestNormalize(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
	})

	t.Run("known kind passes through", func(t *testing.T) {
		in := Forbidden("An account with the same provider already exists")
		out := Normalize(fmt.Errorf("wrapped: %w", in))
		assert.Same(t, in, out)
	})

	t.Run("record not found", func(t *testing.T) {
		out := Normalize(gorm.ErrRecordNotFound)
		assert.Equal(t, KindNotFound, out.Kind)
	})

	t.Run("duplicate key", func(t *testing.T) {
		out := Normalize(fmt.Errorf("create vote: %w", gorm.ErrDuplicatedKey))
		assert.Equal(t, KindForbidden, out.Kind)
		assert.Equal(t, http.StatusForbidden, out.Status())
		assert.Equal(t, "Resource already exists", out.Message)
		assert.ErrorIs(t, out, gorm.ErrDuplicatedKey)
	})

	t.Run("unknown error does not leak", func(t *testing.T) {
		out := Normalize(errors.New("pq: connection refused to 10.0.0.3"))
		assert.Equal(t, KindInternal, out.Kind)
		assert.Equal(t, UnexpectedMessage, out.Message)
		assert.Empty(t, out.Details)
		assert.ErrorContains(t, out, "connection refused")
	})
}

type countingRecorder map[string]int

func (r countingRecorder) ObserveFailure(operation string, kind Kind) {
	r[operation+"/"+string(kind)]++
}

func TestNormalizerHandleLogsAndRecords(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec := countingRecorder{}
	n := NewNormalizer(&logger.ZapLogger{Logger: zap.New(core)}, rec)

	ctx := logger.ContextWithRequestID(context.Background(), "req-1")
	out := n.Handle(ctx, "CreateQuestion", Validation(map[string][]string{"title": {"is required"}}))
	require.NotNil(t, out)
	assert.Equal(t, KindValidation, out.Kind)

	n.Handle(ctx, "CreateQuestion", errors.New("driver: bad connection"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap(), "details")
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, UnexpectedMessage, entries[1].Message)
	assert.Equal(t, "driver: bad connection", entries[1].ContextMap()["error"])

	assert.Equal(t, 1, rec["CreateQuestion/VALIDATION"])
	assert.Equal(t, 1, rec["CreateQuestion/INTERNAL"])

	assert.Nil(t, n.Handle(ctx, "Noop", nil))
}
