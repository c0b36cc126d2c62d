// Package store persists the forum entities with gorm. Every method runs on
// the handle the Store was built with, so a Store passed to the WithTx
// callback keeps all of its reads and writes inside that transaction.
package store

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTx runs fn in a transaction. The transaction commits when fn returns
// nil and rolls back when it returns an error or panics; the connection is
// released on every path. The Store handed to fn must not be shared with
// other goroutines.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Pagination selects one page of a listing. Page is 1-based.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of results.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	IsNext bool  `json:"is_next"`
}

// listPage runs the count and the page query of a listing concurrently.
// base must build a fresh query on every call. Not for use inside WithTx.
func listPage[T any](ctx context.Context, base func() *gorm.DB, order string, p Pagination, preload ...string) (Page[T], error) {
	p = p.normalized()

	var (
		total int64
		items []T
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		q := base().WithContext(gctx)
		for _, rel := range preload {
			q = q.Preload(rel)
		}
		return q.Order(order).Offset(p.offset()).Limit(p.PageSize).Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}

	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:  items,
		Total:  total,
		IsNext: total > int64(p.offset()+len(items)),
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a case-insensitive LIKE pattern matching q anywhere.
// Use with "LOWER(col) LIKE ? ESCAPE '\'".
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

// notFound converts gorm.ErrRecordNotFound into a NotFound error for resource.
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource).WithCause(err)
	}
	return err
}
