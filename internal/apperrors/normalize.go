package apperrors

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/logger"
)

// Normalize maps any error onto a known kind. Errors that are not *Error
// become KindInternal with UnexpectedMessage; their text stays in the cause.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("").WithCause(err)
	}

	// A create that lost a race on a unique index.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Forbidden("Resource already exists").WithCause(err)
	}

	return Internal("", err)
}

// Recorder counts normalized failures. Implemented by the metrics package.
type Recorder interface {
	ObserveFailure(operation string, kind Kind)
}

// Normalizer logs every failure and converts it with Normalize.
type Normalizer struct {
	log      logger.Logger
	recorder Recorder
}

// NewNormalizer returns a Normalizer. recorder may be nil.
func NewNormalizer(log logger.Logger, recorder Recorder) *Normalizer {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Normalizer{log: log, recorder: recorder}
}

// Handle logs err at error level and returns its normalized form.
func (n *Normalizer) Handle(ctx context.Context, operation string, err error) *Error {
	e := Normalize(err)
	if e == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("kind", string(e.Kind)),
		zap.Int("status", e.Status()),
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("details", e.Details))
	}
	if e.cause != nil {
		fields = append(fields, zap.Error(e.cause))
	}
	n.log.ErrorWithContext(ctx, e.Message, fields...)

	if n.recorder != nil {
		n.recorder.ObserveFailure(operation, e.Kind)
	}

	return e
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
