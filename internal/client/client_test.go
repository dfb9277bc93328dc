package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"evaluation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method      string
	path        string
	query       string
	contentType string
	body        string
}

func fakeServer(t *testing.T, status int, response string) (*Client, chan captured) {
	t.Helper()
	reqs := make(chan captured, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs <- captured{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Content-Type"), string(body)}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return c, reqs
}

func TestListKeepsOrder(t *testing.T) {
	c, reqs := fakeServer(t, http.StatusOK, `{"evaluation":[
		{"id":"2","name":"zed","skill_score":1,"experience_score":2,"hire":1},
		{"id":"1","name":"amy","skill_score":3,"experience_score":4,"hire":-1}]}`)

	records, err := c.List(context.Background(), Evaluation, &Sort{Column: 2, Asc: false})
	require.NoError(t, err)

	assert.Equal(t, []model.Record{
		{ID: "2", Name: "zed", SkillScore: 1, ExperienceScore: 2, Hire: 1},
		{ID: "1", Name: "amy", SkillScore: 3, ExperienceScore: 4, Hire: -1},
	}, records)
	req := <-reqs
	assert.Equal(t, "/evaluation", req.path)
	assert.Equal(t, "asc=false&sort_column=2", req.query)
}

func TestListWithoutSort(t *testing.T) {
	c, reqs := fakeServer(t, http.StatusOK, `{"reviewers":[]}`)

	records, err := c.List(context.Background(), ReviewerList, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	req := <-reqs
	assert.Equal(t, "/reviewer/list", req.path)
	assert.Empty(t, req.query)
}

func TestListMissingKey(t *testing.T) {
	c, _ := fakeServer(t, http.StatusOK, `{"reviewers":[]}`)

	_, err := c.List(context.Background(), Reviewer, nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestPutBody(t *testing.T) {
	c, reqs := fakeServer(t, http.StatusOK, `{"status":"ok"}`)

	err := c.Put(context.Background(), model.Record{ID: "ignored", Name: "Alice", SkillScore: 8, ExperienceScore: 5, Hire: -1})
	require.NoError(t, err)

	req := <-reqs
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/reviewer", req.path)
	assert.Equal(t, "application/json", req.contentType)
	assert.JSONEq(t, `{"name":"Alice","skill_score":8,"experience_score":5,"hire":-1}`, req.body)
}

func TestUpdateSendsOnlyGivenFields(t *testing.T) {
	c, reqs := fakeServer(t, http.StatusOK, `{"status":"ok"}`)
	skill := 4

	require.NoError(t, c.Update(context.Background(), "bob", &skill, nil, nil))
	req := <-reqs
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/reviewer/bob", req.path)
	assert.Equal(t, "skill_score=4", req.body)
}

func TestAverageAndGet(t *testing.T) {
	c, _ := fakeServer(t, http.StatusOK, `{"name":"Average","skill_score":1.5,"experience_score":2.5,"hire":0}`)
	avg, err := c.Average(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.AverageSummary{Name: "Average", SkillScore: 1.5, ExperienceScore: 2.5, Hire: 0}, avg)

	c, reqs := fakeServer(t, http.StatusOK, `{"name":"a.b@c","skill_score":1,"experience_score":2,"hire":1}`)
	rec, err := c.Get(context.Background(), "a.b@c")
	require.NoError(t, err)
	assert.Equal(t, "a.b@c", rec.Name)
	assert.Equal(t, "/reviewer/a.b@c", (<-reqs).path)
}

func TestAPIError(t *testing.T) {
	c, _ := fakeServer(t, http.StatusNotFound, `{"code":"UserNotFound","message":"reviewer not found: ghost"}`)

	err := c.Delete(context.Background(), "ghost")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "UserNotFound", apiErr.Code)
	assert.Equal(t, "server returned 404 UserNotFound: reviewer not found: ghost", err.Error())
}

func TestAPIErrorPlainBody(t *testing.T) {
	c, _ := fakeServer(t, http.StatusBadGateway, "")

	_, err := c.Average(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.List(context.Background(), ReviewerList, nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestImport(t *testing.T) {
	gotFile := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("files")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(f)
		gotFile <- string(data)
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]any{"files": []string{"panel.csv"}})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "panel.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nalice\n"), 0o600))

	c, err := New(srv.URL)
	require.NoError(t, err)
	files, err := c.Import(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"panel.csv"}, files)
	assert.Equal(t, "name\nalice\n", <-gotFile)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
	_, err = New("://nope")
	assert.Error(t, err)
}

func TestParseResource(t *testing.T) {
	for in, want := range map[string]Resource{
		"":              ReviewerList,
		"reviewer-list": ReviewerList,
		"reviewer":      Reviewer,
		"evaluation":    Evaluation,
	} {
		got, err := ParseResource(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseResource("students")
	assert.Error(t, err)
}
