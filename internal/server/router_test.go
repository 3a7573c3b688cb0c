package server_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bridgeapp/bridge/internal/auth"
	"github.com/bridgeapp/bridge/internal/config"
	"github.com/bridgeapp/bridge/internal/gateway"
	"github.com/bridgeapp/bridge/internal/models"
	"github.com/bridgeapp/bridge/internal/server"
	"github.com/bridgeapp/bridge/internal/store/memory"
	"github.com/gin-gonic/gin"
)

type testApp struct {
	router    *gin.Engine
	users     *memory.UserStore
	summaries *memory.SummaryStore
	gen       *gateway.MockGenerator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := memory.NewUserStore()
	summaries := memory.NewSummaryStore()
	gen := gateway.NewMockGenerator()

	cfg := &config.Config{
		SessionSecret: "test-secret",
		FrontendURL:   "http://localhost:5173",
		GeminiModel:   "mock",
		Env:           "test",
		MaxBodyBytes:  1 << 20,
	}

	router := server.New(server.Deps{
		Config:    cfg,
		Auth:      auth.NewService(users),
		Generator: gen,
		Summaries: summaries,
	})

	return &testApp{router: router, users: users, summaries: summaries, gen: gen}
}

// do performs a JSON request, attaching any session cookies.
func (a *testApp) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns their session cookies.
func (a *testApp) signup(t *testing.T, name, email, password, question, answer string) []*http.Cookie {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/signup", gin.H{
		"name":             name,
		"email":            email,
		"password":         password,
		"securityQuestion": question,
		"securityAnswer":   answer,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signup failed: %d %s", w.Code, w.Body.String())
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("signup set no session cookie")
	}
	return cookies
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestSignupLoginScenario(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "Ana", "ana@x.com", "pw123", "City?", "Paris")

	w := app.do(t, http.MethodPost, "/api/login", gin.H{"email": "ana@x.com", "password": "pw123"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var user struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	decodeJSON(t, w, &user)
	if user.Email != "ana@x.com" || user.DisplayName != "Ana" {
		t.Fatalf("unexpected user payload: %s", w.Body.String())
	}
	if body := w.Body.String(); bytes.Contains([]byte(body), []byte("pw123")) || bytes.Contains([]byte(body), []byte("Hash")) {
		t.Fatalf("response leaks secret fields: %s", body)
	}

	if w := app.do(t, http.MethodPost, "/api/login", gin.H{"email": "ana@x.com", "password": "wrong"}, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/login", gin.H{"email": "ghost@x.com", "password": "pw123"}, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", w.Code)
	}

	// Second signup with the same email fails regardless of other fields.
	w = app.do(t, http.MethodPost, "/api/signup", gin.H{
		"name": "Other", "email": "ana@x.com", "password": "zzz",
		"securityQuestion": "Pet?", "securityAnswer": "Rex",
	}, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate signup: expected 422, got %d", w.Code)
	}

	// Missing fields are a 422 as well.
	if w := app.do(t, http.MethodPost, "/api/signup", gin.H{"email": "x@x.com"}, nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing fields: expected 422, got %d", w.Code)
	}
}

func TestRecoverScenario(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "Ana", "ana@x.com", "pw123", "City?", "Paris")

	w := app.do(t, http.MethodPost, "/api/recover", gin.H{"email": "ana@x.com"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recover question failed: %d", w.Code)
	}
	var question struct {
		Question string `json:"question"`
	}
	decodeJSON(t, w, &question)
	if question.Question != "City?" {
		t.Fatalf("expected question City?, got %q", question.Question)
	}

	for _, answer := range []string{"paris", "PARIS"} {
		w := app.do(t, http.MethodPost, "/api/recover", gin.H{"email": "ana@x.com", "answer": answer}, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("recover with answer %q: expected 200, got %d", answer, w.Code)
		}
		var verified struct {
			Verified bool `json:"verified"`
		}
		decodeJSON(t, w, &verified)
		if !verified.Verified {
			t.Fatalf("expected verified:true for %q", answer)
		}
	}

	if w := app.do(t, http.MethodPost, "/api/recover", gin.H{"email": "ana@x.com", "answer": "Berlin"}, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong answer: expected 401, got %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/recover", gin.H{"email": "ghost@x.com"}, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", w.Code)
	}

	// Reset is reachable with just the email; the new password then works.
	if w := app.do(t, http.MethodPost, "/api/reset", gin.H{"email": "ana@x.com", "newPassword": "fresh"}, nil); w.Code != http.StatusOK {
		t.Fatalf("reset failed: %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/login", gin.H{"email": "ana@x.com", "password": "fresh"}, nil); w.Code != http.StatusOK {
		t.Fatalf("login with reset password failed: %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/reset", gin.H{"email": "ghost@x.com", "newPassword": "x"}, nil); w.Code != http.StatusNotFound {
		t.Fatalf("reset unknown email: expected 404, got %d", w.Code)
	}
}

func TestSummarizePersistsOnlyForSessions(t *testing.T) {
	app := newTestApp(t)

	// Anonymous call: summary returned, nothing stored.
	w := app.do(t, http.MethodPost, "/summarize", gin.H{"text": "hello"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous summarize failed: %d %s", w.Code, w.Body.String())
	}
	var out struct {
		Summary string `json:"summary"`
	}
	decodeJSON(t, w, &out)
	if out.Summary == "" {
		t.Fatalf("expected a summary")
	}
	if records, _ := app.summaries.ListByUser(1); len(records) != 0 {
		t.Fatalf("anonymous call must not persist, found %d records", len(records))
	}

	// The same call with a session creates exactly one record for the caller.
	cookies := app.signup(t, "Ana", "ana@x.com", "pw123", "City?", "Paris")
	if w := app.do(t, http.MethodPost, "/summarize", gin.H{"text": "hello"}, cookies); w.Code != http.StatusOK {
		t.Fatalf("authenticated summarize failed: %d", w.Code)
	}

	records, err := app.summaries.ListByUser(1)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	record := records[0]
	if record.Kind != models.KindText || record.OriginalText != "hello" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if len(record.Metadata) == 0 {
		t.Fatalf("expected usage metadata on the record")
	}
}

func TestDescribeAndAnalyzeValidation(t *testing.T) {
	app := newTestApp(t)

	if w := app.do(t, http.MethodPost, "/api/describe", gin.H{"mimeType": "image/png"}, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("describe without image: expected 400, got %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/analyze-file", gin.H{"mimeType": "application/pdf"}, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("analyze without data: expected 400, got %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/analyze-file", gin.H{"fileData": "aGk="}, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("analyze without mime: expected 400, got %d", w.Code)
	}
	if w := app.do(t, http.MethodPost, "/api/describe", gin.H{"image": "*** not base64 ***"}, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("describe with bad base64: expected 400, got %d", w.Code)
	}
}

func TestAnalyzeFilePersistedKinds(t *testing.T) {
	app := newTestApp(t)
	cookies := app.signup(t, "Ana", "ana@x.com", "pw123", "City?", "Paris")
	payload := base64.StdEncoding.EncodeToString([]byte("file-bytes"))

	for _, mime := range []string{"application/pdf", "audio/mpeg", "text/csv"} {
		w := app.do(t, http.MethodPost, "/api/analyze-file", gin.H{"fileData": payload, "mimeType": mime}, cookies)
		if w.Code != http.StatusOK {
			t.Fatalf("analyze %s failed: %d %s", mime, w.Code, w.Body.String())
		}
	}

	// Describe persists the image kind.
	if w := app.do(t, http.MethodPost, "/api/describe", gin.H{"image": payload, "mimeType": "image/png"}, cookies); w.Code != http.StatusOK {
		t.Fatalf("describe failed: %d", w.Code)
	}

	records, _ := app.summaries.ListByUser(1)
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	kinds := map[models.SummaryKind]int{}
	labels := map[string]int{}
	for _, r := range records {
		kinds[r.Kind]++
		labels[r.OriginalText]++
	}
	if kinds[models.KindPDF] != 1 || kinds[models.KindAudio] != 2 || kinds[models.KindImage] != 1 {
		t.Fatalf("unexpected kind split: %v", kinds)
	}
	if labels["PDF Analysis"] != 1 || labels["Audio Transcript"] != 2 || labels["Image Analysis"] != 1 {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	app := newTestApp(t)

	if w := app.do(t, http.MethodGet, "/api/history", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("history without session: expected 401, got %d", w.Code)
	}

	anaCookies := app.signup(t, "Ana", "ana@x.com", "pw123", "City?", "Paris")
	bobCookies := app.signup(t, "Bob", "bob@x.com", "pw456", "Pet?", "Rex")

	// Seed records with distinct timestamps; Ana owns 1 and 3, Bob owns 2.
	base := time.Now().Add(-time.Hour)
	for i, owner := range []uint{1, 2, 1} {
		summary := &models.Summary{UserID: owner, Kind: models.KindText, OriginalText: fmt.Sprintf("input %d", i+1), SummaryText: "out"}
		summary.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := app.summaries.Create(summary); err != nil {
			t.Fatalf("seed summary: %v", err)
		}
	}

	w := app.do(t, http.MethodGet, "/api/history", nil, anaCookies)
	if w.Code != http.StatusOK {
		t.Fatalf("history failed: %d", w.Code)
	}
	var list []models.Summary
	decodeJSON(t, w, &list)
	if len(list) != 2 {
		t.Fatalf("expected Ana's 2 records, got %d", len(list))
	}
	if list[0].OriginalText != "input 3" || list[1].OriginalText != "input 1" {
		t.Fatalf("history not newest-first: %q then %q", list[0].OriginalText, list[1].OriginalText)
	}

	// Deleting Bob's record with Ana's session never deletes.
	if w := app.do(t, http.MethodDelete, "/api/history/2", nil, anaCookies); w.Code != http.StatusNotFound {
		t.Fatalf("cross-owner delete: expected 404, got %d", w.Code)
	}
	if records, _ := app.summaries.ListByUser(2); len(records) != 1 {
		t.Fatalf("Bob's record must survive a cross-owner delete")
	}

	// Owner delete returns the deleted record.
	w = app.do(t, http.MethodDelete, "/api/history/1", nil, anaCookies)
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete failed: %d", w.Code)
	}
	var deleted models.Summary
	decodeJSON(t, w, &deleted)
	if deleted.ID != 1 {
		t.Fatalf("expected deleted record 1, got %d", deleted.ID)
	}
	if records, _ := app.summaries.ListByUser(1); len(records) != 1 {
		t.Fatalf("expected one record left for Ana")
	}

	if w := app.do(t, http.MethodDelete, "/api/history/99", nil, bobCookies); w.Code != http.StatusNotFound {
		t.Fatalf("missing id: expected 404, got %d", w.Code)
	}
}

func TestUpstreamFailureSurfacesAs500(t *testing.T) {
	app := newTestApp(t)
	app.gen.Err = errors.New("model overloaded")

	w := app.do(t, http.MethodPost, "/summarize", gin.H{"text": "hello"}, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on upstream failure, got %d", w.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, w, &resp)
	if resp.Error == "" || !bytes.Contains([]byte(resp.Error), []byte("model overloaded")) {
		t.Fatalf("provider message not attached: %q", resp.Error)
	}
}

func TestCurrentUserAndLogout(t *testing.T) {
	app := newTestApp(t)

	// No session: 200 with an empty body.
	w := app.do(t, http.MethodGet, "/api/current_user", nil, nil)
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("anonymous current_user: expected empty 200, got %d %q", w.Code, w.Body.String())
	}

	cookies := app.signup(t, "Ana", "ana@x.com", "pw123", "City?", "Paris")
	w = app.do(t, http.MethodGet, "/api/current_user", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("current_user failed: %d", w.Code)
	}
	var user struct {
		Email string `json:"email"`
	}
	decodeJSON(t, w, &user)
	if user.Email != "ana@x.com" {
		t.Fatalf("unexpected current user: %s", w.Body.String())
	}

	if w := app.do(t, http.MethodGet, "/api/logout", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("logout without session: expected 401, got %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/api/logout", nil, cookies); w.Code != http.StatusFound {
		t.Fatalf("logout: expected redirect, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	if w := app.do(t, http.MethodGet, "/health", nil, nil); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
}
