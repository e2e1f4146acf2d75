package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-portal/internal/docstore"
	"github.com/mind-engage/mindengage-portal/internal/eventlog"
	"github.com/mind-engage/mindengage-portal/internal/identity"
	"github.com/mind-engage/mindengage-portal/internal/portal"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
	"github.com/mind-engage/mindengage-portal/internal/storage"
)

const adminEmail = "admin@example.com"

type testServer struct {
	h   http.Handler
	ids *identity.LocalProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := docstore.NewMemoryStore()
	blobs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	ids := identity.NewLocalProvider(store, identity.LogMailer{}, identity.LocalConfig{Secret: "test", BcryptCost: bcrypt.MinCost})
	svc := portal.NewService(portal.Deps{Store: store, Identity: ids, Blobs: blobs, Events: eventlog.NewRepo(store)})
	roles := rbac.NewAllowList([]string{adminEmail}, rbac.ProfileResolver{Lookup: svc})
	return &testServer{
		h:   NewRouter(RouterDeps{Service: svc, Identity: ids, Roles: roles, CORSOrigins: []string{"http://localhost:3000"}}),
		ids: ids,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) signUpStudent(t *testing.T, email, semester string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email": email, "password": "secret1", "name": "Student " + email, "semester": semester,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decodeBody[struct {
		Session identity.Session `json:"session"`
	}](t, rec)
	return out.Session.Token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	sess, err := s.ids.SignUp(context.Background(), adminEmail, "adminpw")
	require.NoError(t, err)
	return sess.Token
}

func (s *testServer) createContent(t *testing.T, token, kind, semester, text string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/content", token, map[string]string{
		"title": "Week 1 " + kind, "type": kind, "semester": semester, "text": text,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[contentView](t, rec).ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/readyz", "", nil).Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	tok := s.signUpStudent(t, "ana@example.com", "sem-2")

	rec := s.do(t, http.MethodGet, "/me", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[struct {
		Role    string         `json:"role"`
		Profile portal.Profile `json:"profile"`
	}](t, rec)
	assert.Equal(t, rbac.RoleStudent, me.Role)
	assert.Equal(t, "sem-2", me.Profile.Semester)

	rec = s.do(t, http.MethodPost, "/auth/signin", "", map[string]string{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	rec = s.do(t, http.MethodPost, "/auth/signin", "", map[string]string{"email": "ana@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/auth/signout", tok, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/me", tok, nil).Code)
}

func TestSignUpValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"email": "bad", "password": "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[struct {
		Fields map[string]string `json:"fields"`
	}](t, rec)
	assert.Equal(t, "email", body.Fields["email"])
	assert.Equal(t, "min", body.Fields["password"])
	assert.Equal(t, "required", body.Fields["name"])

	s.signUpStudent(t, "dup@example.com", "")
	rec = s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"email": "dup@example.com", "password": "secret1", "name": "D"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPasswordResetAlwaysAccepted(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/auth/password-reset", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/password-reset/confirm", "", map[string]string{"code": "bogus", "password": "secret2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnauthenticated(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/me", "/content", "/scores", "/students"} {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, path, "", nil).Code, path)
	}
}

func TestStudentForbiddenFromAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	tok := s.signUpStudent(t, "ana@example.com", "")
	cases := []struct{ method, path string }{
		{http.MethodPost, "/content"},
		{http.MethodPost, "/content/preview"},
		{http.MethodGet, "/students"},
		{http.MethodDelete, "/students/x"},
		{http.MethodGet, "/analytics/overview"},
		{http.MethodGet, "/content/x/source"},
		{http.MethodGet, "/events"},
	}
	for _, c := range cases {
		rec := s.do(t, c.method, c.path, tok, map[string]string{})
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", c.method, c.path)
	}
}

func TestContentAndSubmissionFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	stu := s.signUpStudent(t, "ana@example.com", "sem-1")

	// admin profile is created on first /me
	rec := s.do(t, http.MethodGet, "/me", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), portal.AdminName)

	// nothing parseable
	rec = s.do(t, http.MethodPost, "/content", admin, map[string]string{"title": "Empty", "type": "quiz", "text": "hello"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), msgParseEmpty)

	rec = s.do(t, http.MethodPost, "/content/preview", admin, map[string]string{"type": "assignment", "text": "Q1: a\nA1: b\nQ2: c"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[struct {
		Count int `json:"count"`
	}](t, rec).Count)

	quizText := "Q1: Largest planet?\nA) Mars\nB) Jupiter\nC) Venus\nD) Earth\nCorrect: B"
	quizID := s.createContent(t, admin, "quiz", "sem-1", quizText)
	s.createContent(t, admin, "assignment", "sem-3", "Q1: Capital of France?\nA1: Paris")

	// source archive
	rec = s.do(t, http.MethodGet, "/content/"+quizID+"/source", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, quizText, rec.Body.String())

	// student sees only their semester, without keys
	rec = s.do(t, http.MethodGet, "/content", stu, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, quizID, list[0]["id"])
	assert.Equal(t, false, list[0]["attempted"])
	assert.NotContains(t, rec.Body.String(), "correctAnswer")

	rec = s.do(t, http.MethodGet, "/content/"+quizID, stu, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correctAnswer")
	rec = s.do(t, http.MethodGet, "/content/"+quizID, admin, nil)
	assert.Contains(t, rec.Body.String(), `"correctAnswer":"B"`)

	// admin sees everything
	rec = s.do(t, http.MethodGet, "/content", admin, nil)
	assert.Len(t, decodeBody[[]contentView](t, rec), 2)

	// blank answer is rejected and nothing is recorded
	rec = s.do(t, http.MethodPost, "/content/"+quizID+"/submissions", stu, map[string]any{"answers": []string{" "}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), msgIncomplete)

	rec = s.do(t, http.MethodPost, "/content/"+quizID+"/submissions", stu, map[string]any{"answers": []string{"A", "B"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/content/"+quizID+"/submissions", stu, map[string]any{"answers": []string{"B"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sub := decodeBody[portal.Submission](t, rec)
	assert.Equal(t, 1, sub.Record.Score)
	assert.Equal(t, 1, sub.Record.TotalQuestions)

	rec = s.do(t, http.MethodPost, "/content/missing/submissions", stu, map[string]any{"answers": []string{"B"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// scores: student sees own, admin sees all
	rec = s.do(t, http.MethodGet, "/scores", stu, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	scores := decodeBody[[]scoreView](t, rec)
	require.Len(t, scores, 1)
	assert.InDelta(t, 100.0, scores[0].Pct, 0.001)

	rec = s.do(t, http.MethodGet, "/me/stats", stu, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"attempts":1`)
	stats := decodeBody[struct {
		Scores []scoreView `json:"scores"`
	}](t, rec)
	require.Len(t, stats.Scores, 1)
	assert.Equal(t, scores[0].ID, stats.Scores[0].ID)
	assert.NotEmpty(t, stats.Scores[0].ID)
	assert.InDelta(t, 100.0, stats.Scores[0].Pct, 0.001)

	rec = s.do(t, http.MethodGet, "/analytics/overview", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ov := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 1, ov["totalStudents"])
	assert.EqualValues(t, 1, ov["totalQuizzes"])
	assert.EqualValues(t, 1, ov["totalAssignments"])
	assert.EqualValues(t, 100, ov["averageScore"])

	// delete the student
	rec = s.do(t, http.MethodGet, "/students", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	students := decodeBody[[]studentView](t, rec)
	require.Len(t, students, 1)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/students/"+students[0].ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/students/"+students[0].ID, admin, nil).Code)
	rec = s.do(t, http.MethodGet, "/scores", admin, nil)
	assert.Empty(t, decodeBody[[]scoreView](t, rec))
}

func TestEventsFeed(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	stu := s.signUpStudent(t, "ana@example.com", "")
	quizID := s.createContent(t, admin, "quiz", "", "Q1: Largest planet?\nA) Mars\nB) Jupiter\nC) Venus\nD) Earth\nCorrect: B")
	s.createContent(t, admin, "assignment", "", "Q1: Capital of France?\nA1: Paris")
	rec := s.do(t, http.MethodPost, "/content/"+quizID+"/submissions", stu, map[string]any{"answers": []string{"B"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tests := []struct {
		name   string
		query  string
		status int
		types  []string
	}{
		{"all", "", http.StatusOK, []string{eventlog.TypeScoreRecorded, eventlog.TypeContentCreated, eventlog.TypeContentCreated}},
		{"by type", "?type=ContentCreated", http.StatusOK, []string{eventlog.TypeContentCreated, eventlog.TypeContentCreated}},
		{"limited", "?type=ContentCreated&limit=1", http.StatusOK, []string{eventlog.TypeContentCreated}},
		{"unknown type", "?type=Nope", http.StatusBadRequest, nil},
		{"bad limit", "?limit=abc", http.StatusBadRequest, nil},
		{"negative limit", "?limit=-1", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/events"+tt.query, admin, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			evs := decodeBody[[]eventlog.Event](t, rec)
			got := make([]string, 0, len(evs))
			for _, e := range evs {
				got = append(got, e.Type)
			}
			assert.ElementsMatch(t, tt.types, got)
		})
	}
}
