// Package response defines the result envelope every action returns.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
)

// Result is either a success carrying data or a failure carrying a normalized
// error. Its fields are unexported so the two cases can only be built with OK,
// Created or Fail.
type Result[T any] struct {
	data    T
	status  int
	failure *apperrors.Error
}

// OK wraps data in a 200 success.
func OK[T any](data T) Result[T] {
	return Result[T]{data: data, status: http.StatusOK}
}

// Created wraps data in a 201 success.
func Created[T any](data T) Result[T] {
	return Result[T]{data: data, status: http.StatusCreated}
}

// Fail wraps a normalized error. A nil error is treated as an unexpected failure.
func Fail[T any](err *apperrors.Error) Result[T] {
	if err == nil {
		err = apperrors.ErrInternal
	}
	return Result[T]{status: err.Status(), failure: err}
}

// Success reports whether r is a success.
func (r Result[T]) Success() bool {
	return r.failure == nil
}

// Data returns the payload and true on success.
func (r Result[T]) Data() (T, bool) {
	return r.data, r.failure == nil
}

// Err returns the failure and true on failure.
func (r Result[T]) Err() (*apperrors.Error, bool) {
	return r.failure, r.failure != nil
}

// Status returns the HTTP status code of the result.
func (r Result[T]) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

type successBody[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type errorBody struct {
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type failureBody struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// MarshalJSON renders {success:true, data} or {success:false, error:{message, details?}}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.failure != nil {
		return json.Marshal(failureBody{
			Error: errorBody{Message: r.failure.Message, Details: r.failure.Details},
		})
	}
	return json.Marshal(successBody[T]{Success: true, Data: r.data})
}
