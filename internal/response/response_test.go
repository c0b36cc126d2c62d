package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
)

func TestOK(t *testing.T) {
	r := OK(map[string]int{"views": 3})

	require.True(t, r.Success())
	data, ok := r.Data()
	require.True(t, ok)
	assert.Equal(t, 3, data["views"])
	_, failed := r.Err()
	assert.False(t, failed)
	assert.Equal(t, http.StatusOK, r.Status())

	body, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"views":3}}`, string(body))
}

func TestCreated(t *testing.T) {
	r := Created("q-1")
	assert.Equal(t, http.StatusCreated, r.Status())
}

func TestFail(t *testing.T) {
	r := Fail[string](apperrors.Validation(map[string][]string{"title": {"is required"}}))

	require.False(t, r.Success())
	_, ok := r.Data()
	assert.False(t, ok)
	e, failed := r.Err()
	require.True(t, failed)
	assert.Equal(t, apperrors.KindValidation, e.Kind)
	assert.Equal(t, http.StatusBadRequest, r.Status())

	body, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"success":false,"error":{"message":"Validation Error: title","details":{"title":["is required"]}}}`,
		string(body))
}

func TestFailInternalHidesCause(t *testing.T) {
	r := Fail[int](apperrors.Normalize(errors.New("duplicate key value violates unique constraint")))

	body, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"message":"An unexpected error occurred"}}`, string(body))
	assert.Equal(t, http.StatusInternalServerError, r.Status())
}

func TestFailNil(t *testing.T) {
	r := Fail[int](nil)
	assert.False(t, r.Success())
	assert.Equal(t, http.StatusInternalServerError, r.Status())
}

func TestZeroValueIsEmptySuccess(t *testing.T) {
	var r Result[string]
	assert.True(t, r.Success())
	assert.Equal(t, http.StatusOK, r.Status())
}
