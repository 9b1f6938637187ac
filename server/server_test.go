package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travels-app/travels/internal/store"
	"github.com/travels-app/travels/server"
)

func newTestRouter(t *testing.T) (*store.Store, http.Handler) {
	t.Helper()
	s := store.New()
	return s, server.New(context.Background(), s).Router()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetUser(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/users/new",
		`{"id":1,"first_name":"A","last_name":"B","gender":"m","birth_date":0,"email":"x@y"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Travels", rec.Header().Get("Server"))
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec = doRequest(t, h, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"first_name":"A","last_name":"B","gender":"m","birth_date":0,"email":"x@y"}`, rec.Body.String())
}

func TestGetUserNotFound(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/users/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCreateUserMalformedBody(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/users/new", `{"id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFullFlowVisitsAndAvg(t *testing.T) {
	_, h := newTestRouter(t)

	doRequest(t, h, http.MethodPost, "/users/new",
		`{"id":1,"first_name":"A","last_name":"B","gender":"m","birth_date":0,"email":"x@y"}`)
	doRequest(t, h, http.MethodPost, "/locations/new",
		`{"id":10,"distance":5,"city":"C","place":"P","country":"Q"}`)
	rec := doRequest(t, h, http.MethodPost, "/visits/new",
		`{"id":100,"user":1,"location":10,"visited_at":1000,"mark":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/users/1/visits", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"visits":[{"mark":5,"visited_at":1000,"place":"P"}]}`, rec.Body.String())

	rec = doRequest(t, h, http.MethodGet, "/locations/10/avg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"avg":5.0}`, rec.Body.String())
}

func TestNewRouteNotShadowedByIDRoute(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/users/new",
		`{"id":1,"first_name":"A","last_name":"B","gender":"m","birth_date":0,"email":"x@y"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/users/new", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnmatchedPathIs404(t *testing.T) {
	_, h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// An unrecognized query key with a malformed %-escape must not 400 —
// only recognized filter keys are escape-checked (spec §4.4.1/§4.4.2:
// "any other key is ignored").
func TestUnrecognizedQueryKeyWithBadEscapeIsIgnored(t *testing.T) {
	_, h := newTestRouter(t)

	doRequest(t, h, http.MethodPost, "/users/new",
		`{"id":1,"first_name":"A","last_name":"B","gender":"m","birth_date":0,"email":"x@y"}`)
	doRequest(t, h, http.MethodPost, "/locations/new",
		`{"id":10,"distance":5,"city":"C","place":"P","country":"Q"}`)
	doRequest(t, h, http.MethodPost, "/visits/new",
		`{"id":100,"user":1,"location":10,"visited_at":1000,"mark":5}`)

	rec := doRequest(t, h, http.MethodGet, "/users/1/visits?junk=%zz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"visits":[{"mark":5,"visited_at":1000,"place":"P"}]}`, rec.Body.String())

	rec = doRequest(t, h, http.MethodGet, "/locations/10/avg?junk=%zz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"avg":5.0}`, rec.Body.String())
}
