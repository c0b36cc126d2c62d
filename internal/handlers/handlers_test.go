package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/apperrors"
	"github.com/emilythestrangee/devflow/backend/internal/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failure struct {
	Success bool `json:"success"`
	Error   struct {
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	return c, w
}

func TestRespond(t *testing.T) {
	c, w := newContext(http.MethodGet, "/", "")
	respond(c, response.Created(map[string]string{"id": "q-1"}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"q-1"}}`, w.Body.String())

	c, w = newContext(http.MethodGet, "/", "")
	respond(c, response.Fail[any](apperrors.NotFound("Question")))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"message":"Question not found"}}`, w.Body.String())
}

func TestBindJSON(t *testing.T) {
	a := actions.New(actions.Deps{})

	var p actions.CreateQuestionParams
	c, _ := newContext(http.MethodPost, "/api/questions", `{"title":"Hello there","tags":["go"]}`)
	require.True(t, bindJSON(c, a, "CreateQuestion", &p))
	assert.Equal(t, "Hello there", p.Title)

	c, w := newContext(http.MethodPost, "/api/questions", `{"tags":"go"}`)
	assert.False(t, bindJSON(c, a, "CreateQuestion", &p))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body failure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, []string{"must be of type array"}, body.Error.Details["tags"])
}

func TestBindQuery(t *testing.T) {
	a := actions.New(actions.Deps{})

	var p actions.ListQuestionsParams
	c, _ := newContext(http.MethodGet, "/api/questions?page=2&page_size=20&query=nil+map&filter=popular", "")
	require.True(t, bindQuery(c, a, "ListQuestions", &p))
	assert.Equal(t, actions.ListQuestionsParams{Page: 2, PageSize: 20, Query: "nil map", Filter: "popular"}, p)

	c, w := newContext(http.MethodGet, "/api/questions?page_size=many", "")
	assert.False(t, bindQuery(c, a, "ListQuestions", &p))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body failure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"is invalid"}, body.Error.Details["query"])
}
