package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintree/backend/internal/auth"
	"kintree/backend/internal/memstore"
	"kintree/backend/pkg/config"
)

func newTestServer() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Port: "0", Env: "test", CookieSecret: "test-secret"}
	s := NewServer(cfg, memstore.New(), auth.NewHMACCodec(cfg.CookieSecret))
	return s.Router()
}

// do sends a JSON request, optionally authenticated with a bearer token, and
// decodes the response body into out when it is non-nil.
func do(t *testing.T, router *gin.Engine, method, path, token string, body, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

// registerUser creates an account and logs in, returning the session token.
func registerUser(t *testing.T, router *gin.Engine, email, name string) string {
	t.Helper()
	w := do(t, router, "POST", "/api/auth/register", "", map[string]string{
		"email":        email,
		"display_name": name,
		"password":     "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	cookie := sessionCookieFrom(t, w)
	// SetCookie stores the value URL-escaped, so the token's colons come
	// back as %3A and must be unescaped before use as a bearer token.
	token, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func createTestTree(t *testing.T, router *gin.Engine, token, name string) string {
	t.Helper()
	var tree struct {
		ID string `json:"id"`
	}
	w := do(t, router, "POST", "/api/trees", token, map[string]string{"name": name}, &tree)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, tree.ID)
	return tree.ID
}

func createTestPerson(t *testing.T, router *gin.Engine, token, treeID, name string) string {
	t.Helper()
	var p struct {
		ID string `json:"id"`
	}
	w := do(t, router, "POST", fmt.Sprintf("/api/trees/%s/people", treeID), token,
		map[string]string{"display_name": name}, &p)
	require.Equal(t, http.StatusCreated, w.Code)
	return p.ID
}

func TestRegisterAndMe(t *testing.T) {
	router := newTestServer()
	token := registerUser(t, router, "alice@example.com", "Alice")

	var me struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	}
	w := do(t, router, "GET", "/api/auth/me", token, nil, &me)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.True(t, me.IsAdmin)
}

func TestSessionCookieAuthenticates(t *testing.T) {
	router := newTestServer()
	w := do(t, router, "POST", "/api/auth/register", "", map[string]string{
		"email":        "alice@example.com",
		"display_name": "Alice",
		"password":     "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := sessionCookieFrom(t, w)

	// The escaped cookie value replayed as a cookie header authenticates.
	req, err := http.NewRequest("GET", "/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The unescaped value works as a bearer token too.
	token, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	w = do(t, router, "GET", "/api/auth/me", token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestServer()
	registerUser(t, router, "alice@example.com", "Alice")

	w := do(t, router, "POST", "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTreeExistenceHidden(t *testing.T) {
	router := newTestServer()
	ownerTok := registerUser(t, router, "owner@example.com", "Owner")
	strangerTok := registerUser(t, router, "stranger@example.com", "Stranger")
	treeID := createTestTree(t, router, ownerTok, "Private")

	// A stranger sees 404, not 403.
	w := do(t, router, "GET", "/api/trees/"+treeID, strangerTok, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewerCannotEdit(t *testing.T) {
	router := newTestServer()
	ownerTok := registerUser(t, router, "owner@example.com", "Owner")
	viewerTok := registerUser(t, router, "viewer@example.com", "Viewer")
	treeID := createTestTree(t, router, ownerTok, "Shared")

	w := do(t, router, "POST", fmt.Sprintf("/api/trees/%s/access", treeID), ownerTok,
		map[string]string{"email": "viewer@example.com", "role": "viewer"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "GET", fmt.Sprintf("/api/trees/%s/people", treeID), viewerTok, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "POST", fmt.Sprintf("/api/trees/%s/people", treeID), viewerTok,
		map[string]string{"display_name": "Nope"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestParentLimitOverHTTP(t *testing.T) {
	router := newTestServer()
	token := registerUser(t, router, "owner@example.com", "Owner")
	treeID := createTestTree(t, router, token, "Limits")

	child := createTestPerson(t, router, token, treeID, "Child")
	relPath := fmt.Sprintf("/api/trees/%s/relationships", treeID)
	for i := 1; i <= 2; i++ {
		parent := createTestPerson(t, router, token, treeID, fmt.Sprintf("Parent %d", i))
		w := do(t, router, "POST", relPath, token, map[string]string{
			"from_person_id": parent, "to_person_id": child, "type": "PARENT_OF",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	third := createTestPerson(t, router, token, treeID, "Parent 3")
	w := do(t, router, "POST", relPath, token, map[string]string{
		"from_person_id": third, "to_person_id": child, "type": "PARENT_OF",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "person already has two parents", resp["error"])
}

func TestMergeEndpointKeepsComments(t *testing.T) {
	router := newTestServer()
	token := registerUser(t, router, "owner@example.com", "Owner")
	treeID := createTestTree(t, router, token, "Merge")

	keep := createTestPerson(t, router, token, treeID, "John Smith")
	remove := createTestPerson(t, router, token, treeID, "John Smith")

	w := do(t, router, "POST", fmt.Sprintf("/api/trees/%s/people/%s/comments", treeID, remove), token,
		map[string]string{"content": "research note"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, "POST", fmt.Sprintf("/api/trees/%s/people/%s/merge", treeID, keep), token,
		map[string]string{"remove_id": remove}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var comments []map[string]interface{}
	w = do(t, router, "GET", fmt.Sprintf("/api/trees/%s/people/%s/comments", treeID, keep), token, nil, &comments)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, comments, 1)

	w = do(t, router, "GET", fmt.Sprintf("/api/trees/%s/people/%s", treeID, remove), token, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLinkSpousesEndpointReturnsReport(t *testing.T) {
	router := newTestServer()
	token := registerUser(t, router, "owner@example.com", "Owner")
	treeID := createTestTree(t, router, token, "Spouses")

	a := createTestPerson(t, router, token, treeID, "Alice")
	b := createTestPerson(t, router, token, treeID, "Bob")
	child := createTestPerson(t, router, token, treeID, "Carol")

	w := do(t, router, "POST", fmt.Sprintf("/api/trees/%s/relationships", treeID), token,
		map[string]string{"from_person_id": a, "to_person_id": child, "type": "PARENT_OF"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var report struct {
		SharedWithB []string `json:"shared_with_b"`
	}
	w = do(t, router, "POST", fmt.Sprintf("/api/trees/%s/people/%s/spouse", treeID, a), token,
		map[string]string{"spouse_id": b}, &report)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Carol"}, report.SharedWithB)
}

func TestChangelogRecordsMutations(t *testing.T) {
	router := newTestServer()
	token := registerUser(t, router, "owner@example.com", "Owner")
	treeID := createTestTree(t, router, token, "Audited")
	createTestPerson(t, router, token, treeID, "Someone")

	var changes []struct {
		Action     string `json:"action"`
		EntityType string `json:"entity_type"`
	}
	w := do(t, router, "GET", fmt.Sprintf("/api/trees/%s/changes", treeID), token, nil, &changes)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, changes)
	assert.Equal(t, "create", changes[0].Action)
	assert.Equal(t, "person", changes[0].EntityType)
}

func TestShareLinkFlow(t *testing.T) {
	router := newTestServer()
	ownerTok := registerUser(t, router, "owner@example.com", "Owner")
	treeID := createTestTree(t, router, ownerTok, "Shared")
	createTestPerson(t, router, ownerTok, treeID, "Someone")

	var link struct {
		Token string `json:"token"`
	}
	w := do(t, router, "POST", fmt.Sprintf("/api/trees/%s/shares", treeID), ownerTok, nil, &link)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, link.Token)

	w = do(t, router, "POST", fmt.Sprintf("/api/shares/%s/viewers", link.Token), ownerTok,
		map[string]string{"email": "guest@example.com", "name": "Guest"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The invited viewer reads the graph without an account.
	var export struct {
		Nodes []map[string]interface{} `json:"nodes"`
	}
	w = do(t, router, "GET", fmt.Sprintf("/api/share/%s/graph?email=guest@example.com", link.Token), "", nil, &export)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, export.Nodes, 1)

	// An uninvited email is turned away.
	w = do(t, router, "GET", fmt.Sprintf("/api/share/%s/graph?email=other@example.com", link.Token), "", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The access log recorded the read.
	var log []map[string]interface{}
	w = do(t, router, "GET", fmt.Sprintf("/api/shares/%s/log", link.Token), ownerTok, nil, &log)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, log, 1)
}

func TestGroupAccessFlow(t *testing.T) {
	router := newTestServer()
	ownerTok := registerUser(t, router, "owner@example.com", "Owner")
	memberTok := registerUser(t, router, "member@example.com", "Member")
	treeID := createTestTree(t, router, ownerTok, "Grouped")

	var group struct {
		ID string `json:"id"`
	}
	w := do(t, router, "POST", "/api/groups", ownerTok,
		map[string]string{"name": "Researchers"}, &group)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, "POST", fmt.Sprintf("/api/groups/%s/members", group.ID), ownerTok,
		map[string]string{"email": "member@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, "POST", fmt.Sprintf("/api/trees/%s/group-access", treeID), ownerTok,
		map[string]string{"group_id": group.ID, "role": "editor"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Group membership grants the member editor access.
	w = do(t, router, "POST", fmt.Sprintf("/api/trees/%s/people", treeID), memberTok,
		map[string]string{"display_name": "Added By Member"}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}
