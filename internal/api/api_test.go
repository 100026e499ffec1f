package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecraft-dev/codecraft-server/internal/auth"
	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Bootstrap(context.Background(), db))

	router := NewRouter(sqlite.NewWithDB(db), auth.NewMockAuthorizer(), func() bool { return true })
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

const aliceToken = "dev:gh-alice:alice@example.com"

func upsertTestUser(t *testing.T, srv *httptest.Server, token string) model.User {
	t.Helper()
	resp, body := doRequest(t, "POST", srv.URL+"/api/users", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var u model.User
	require.NoError(t, json.Unmarshal(body, &u))
	return u
}

func upsertTestReview(t *testing.T, srv *httptest.Server, token, repoName string, total int) model.Review {
	t.Helper()
	resp, body := doRequest(t, "POST", srv.URL+"/api/users/gh-alice/reviews", token, map[string]interface{}{
		"repoName": repoName,
		"repoUrl":  "https://github.com/" + repoName,
		"payload": map[string]interface{}{
			"summary":   map[string]interface{}{"totalIssues": total, "minorIssues": total},
			"issues":    []interface{}{},
			"toolsUsed": []string{"eslint"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var r model.Review
	require.NoError(t, json.Unmarshal(body, &r))
	return r
}

func TestAPI_RequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doRequest(t, "POST", srv.URL+"/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, "GET", srv.URL+"/api/users/gh-alice/reviews", "not-a-dev-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_UpsertUser(t *testing.T) {
	srv := newTestServer(t)

	u := upsertTestUser(t, srv, aliceToken)
	assert.Equal(t, "gh-alice", u.IdentityID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.UserID)

	// Re-upsert with a changed email patches in place.
	resp, body := doRequest(t, "POST", srv.URL+"/api/users", aliceToken, map[string]string{"email": "new@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var again model.User
	require.NoError(t, json.Unmarshal(body, &again))
	assert.Equal(t, u.UserID, again.UserID)
	assert.Equal(t, "new@example.com", again.Email)
}

func TestAPI_UpsertUser_InvalidEmail(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doRequest(t, "POST", srv.URL+"/api/users", aliceToken, map[string]string{"email": "not an email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_PathIdentityMismatch(t *testing.T) {
	srv := newTestServer(t)
	upsertTestUser(t, srv, aliceToken)

	resp, _ := doRequest(t, "GET", srv.URL+"/api/users/gh-bob/reviews", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_ReviewLifecycle(t *testing.T) {
	srv := newTestServer(t)
	upsertTestUser(t, srv, aliceToken)

	r := upsertTestReview(t, srv, aliceToken, "alice/widgets", 3)
	assert.NotEmpty(t, r.ReviewID)

	// Re-analysis keeps the id.
	again := upsertTestReview(t, srv, aliceToken, "alice/widgets", 5)
	assert.Equal(t, r.ReviewID, again.ReviewID)
	assert.Equal(t, 5, again.Payload.Summary.TotalIssues)

	resp, body := doRequest(t, "GET", srv.URL+"/api/users/gh-alice/reviews", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Reviews []model.Review `json:"reviews"`
		Count   int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.Count)

	resp, body = doRequest(t, "GET", srv.URL+"/api/users/gh-alice/reviews/"+r.ReviewID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail model.ReviewDetail
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.False(t, detail.IsSaved)

	resp, _ = doRequest(t, "GET", srv.URL+"/api/users/gh-alice/reviews/missing", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_UpsertReview_Validation(t *testing.T) {
	srv := newTestServer(t)
	upsertTestUser(t, srv, aliceToken)

	resp, _ := doRequest(t, "POST", srv.URL+"/api/users/gh-alice/reviews", aliceToken, map[string]interface{}{
		"repoName": "no-slash",
		"payload":  map[string]interface{}{"summary": map[string]interface{}{}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, "POST", srv.URL+"/api/users/gh-alice/reviews", aliceToken, map[string]interface{}{
		"repoName": "alice/widgets",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_BookmarkLifecycle(t *testing.T) {
	srv := newTestServer(t)
	upsertTestUser(t, srv, aliceToken)
	r := upsertTestReview(t, srv, aliceToken, "alice/widgets", 2)

	savedURL := srv.URL + "/api/users/gh-alice/saved-reviews"

	resp, body := doRequest(t, "POST", savedURL, aliceToken, map[string]string{"reviewId": r.ReviewID, "notes": "keep"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sv model.SavedReview
	require.NoError(t, json.Unmarshal(body, &sv))
	assert.Equal(t, r.ReviewID, sv.ReviewID)

	resp, _ = doRequest(t, "POST", savedURL, aliceToken, map[string]string{"reviewId": r.ReviewID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doRequest(t, "GET", savedURL, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		SavedReviews []model.SavedReviewWithReview `json:"savedReviews"`
		Count        int                           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, 1, list.Count)
	require.NotNil(t, list.SavedReviews[0].Review)
	assert.Equal(t, "alice/widgets", list.SavedReviews[0].Review.RepoName)

	resp, _ = doRequest(t, "DELETE", fmt.Sprintf("%s/%s", savedURL, r.ReviewID), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, "DELETE", fmt.Sprintf("%s/%s", savedURL, r.ReviewID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Stats(t *testing.T) {
	srv := newTestServer(t)
	upsertTestUser(t, srv, aliceToken)
	upsertTestReview(t, srv, aliceToken, "alice/a", 3)
	upsertTestReview(t, srv, aliceToken, "alice/b", 5)

	resp, body := doRequest(t, "GET", srv.URL+"/api/users/gh-alice/stats", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats model.ReviewStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 2, stats.TotalReviews)
	assert.Equal(t, 8, stats.TotalIssuesFound)
	assert.Len(t, stats.RecentActivity, 2)
}

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doRequest(t, "GET", srv.URL+"/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "healthy", payload["status"])
}
