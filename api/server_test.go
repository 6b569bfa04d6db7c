package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/services"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2018, time.July, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	t       *testing.T
	router  *chi.Mux
	db      database.Database
	session *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Type:          "sqlite",
		SQLitePath:    filepath.Join(t.TempDir(), "roster.db"),
		SlowThreshold: time.Second,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB().DB(); err == nil {
			sqlDB.Close()
		}
	})

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		Session: config.SessionConfig{
			Secret:       "test-secret",
			TTL:          time.Hour,
			Username:     "editor",
			PasswordHash: string(hash),
		},
	}
	clock := func() time.Time { return testNow }

	router, err := newRouter(db, withConfig(cfg), WithClock(clock))
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	token, err := services.NewSessionManager(cfg.Session, clock).Issue("editor")
	if err != nil {
		t.Fatal(err)
	}
	return &testServer{
		t:       t,
		router:  router,
		db:      db,
		session: &http.Cookie{Name: sessionCookie, Value: token},
	}
}

func (s *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (s *testServer) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, cookies...)
}

// editor posts as a signed-in editor.
func (s *testServer) editor(path string, form url.Values) *httptest.ResponseRecorder {
	return s.postForm(path, form, s.session)
}

func shootingForm(doc string) url.Values {
	return url.Values{"shooting": {doc}}
}

func bodycamForm(doc string) url.Values {
	return url.Values{"bodycam": {doc}}
}

const janeDoe = `{"name": "Jane Doe", "date": "2018-06-01T09:30:00.000Z", "age": "", "state": "CA",
	"race": "B", "gender": "F", "city": "Oakland", "tags": ["unarmed"], "sources": ["https://example.com/a"]}`

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int, body string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d, body %q", rec.Code, status, rec.Body.String())
	}
	if body != "" && rec.Body.String() != body {
		t.Errorf("body = %q, want %q", rec.Body.String(), body)
	}
}

func TestEditorEndpointsRequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/ajax/submit-killing",
		"/ajax/edit-killing",
		"/ajax/delete-killing",
		"/ajax/upload-image",
		"/bodycams/ajax/submit",
		"/bodycams/ajax/edit",
		"/bodycams/ajax/link",
		"/api/blog-post",
	} {
		rec := s.postForm(path, url.Values{})
		expect(t, rec, http.StatusUnauthorized, errs.Unauthorized.Error())
	}

	rec := s.postForm("/ajax/submit-killing", shootingForm(janeDoe), &http.Cookie{Name: sessionCookie, Value: "forged"})
	expect(t, rec, http.StatusUnauthorized, "")

	rec = s.get("/bodycams/dashboard")
	expect(t, rec, http.StatusSeeOther, "")
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fbodycams%2Fdashboard" {
		t.Errorf("location = %q", loc)
	}
}

func TestSubmitIncidentThenList(t *testing.T) {
	s := newTestServer(t)

	rec := s.editor("/ajax/submit-killing", shootingForm(janeDoe))
	expect(t, rec, http.StatusOK, "1")

	rec = s.get("/ajax/shootings")
	expect(t, rec, http.StatusOK, "")
	var got IncidentCollection
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Year != 2018 || got.Total != 1 {
		t.Fatalf("collection = %+v", got)
	}
	view := got.Shootings[0]
	if view.Name != "Jane Doe" || view.Date != "2018-06-01" || view.Age != -1 || view.StateLabel != "California" {
		t.Errorf("view = %+v", view)
	}
	if len(view.Tags) != 1 || len(view.Sources) != 1 {
		t.Errorf("tags %v sources %v", view.Tags, view.Sources)
	}

	rec = s.get("/ajax/shootings?year=2017")
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 0 {
		t.Errorf("2017 total = %d", got.Total)
	}
}

func TestSubmitIncidentAcceptsJSONBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/ajax/submit-killing", strings.NewReader(janeDoe))
	req.Header.Set("Content-Type", "application/json")
	expect(t, s.do(req, s.session), http.StatusOK, "1")
}

func TestSubmitIncidentErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		form   url.Values
		status int
		body   string
	}{
		{
			name:   "invalid fields",
			form:   shootingForm(`{"date": "2018-13-01", "state": "ZZ", "race": "B", "gender": "M"}`),
			status: http.StatusBadRequest,
			body: "date: Enter a valid date.<br>" +
				"state: Select a valid choice. ZZ is not one of the available choices.<br>",
		},
		{
			name:   "missing payload",
			form:   url.Values{},
			status: http.StatusBadRequest,
		},
		{
			name:   "not json",
			form:   shootingForm("{"),
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, s.editor("/ajax/submit-killing", tt.form), tt.status, tt.body)
		})
	}
}

func TestEditAndDeleteIncident(t *testing.T) {
	s := newTestServer(t)
	expect(t, s.editor("/ajax/submit-killing", shootingForm(janeDoe)), http.StatusOK, "1")

	edit := `{"id": 1, "name": "Jane Roe", "date": "2018-06-01", "state": "CA", "race": "B", "gender": "F", "tags": []}`
	expect(t, s.editor("/ajax/edit-killing", shootingForm(edit)), http.StatusOK, "")

	incident, err := s.db.IncidentRepo().FindByID(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if incident.Name != "Jane Roe" || len(incident.Tags) != 0 {
		t.Errorf("incident = %+v", incident)
	}

	missing := `{"id": 7, "date": "2018-06-01", "state": "CA", "race": "B", "gender": "F"}`
	expect(t, s.editor("/ajax/edit-killing", shootingForm(missing)), http.StatusInternalServerError,
		"Shooting matching query does not exist.")

	expect(t, s.editor("/ajax/delete-killing", url.Values{"id": {"1"}}), http.StatusOK, "")
	expect(t, s.editor("/ajax/delete-killing", url.Values{"id": {"1"}}), http.StatusInternalServerError,
		"Shooting matching query does not exist.")
	expect(t, s.editor("/ajax/delete-killing", url.Values{"id": {"abc"}}), http.StatusInternalServerError,
		`invalid id "abc"`)
}

func TestBodycamPartialLink(t *testing.T) {
	s := newTestServer(t)

	doc := `{"title": "Footage", "video": "<iframe></iframe>", "state": "CA", "date": "2018-06-02", "shooting": "42"}`
	expect(t, s.editor("/bodycams/ajax/submit", bodycamForm(doc)), http.StatusNotAcceptable, errs.PartialLinkGuidance)

	all, err := s.db.BodycamRepo().FindAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Linked() {
		t.Fatalf("bodycams = %+v", all)
	}
}

func TestBodycamSubmitEditLink(t *testing.T) {
	s := newTestServer(t)
	expect(t, s.editor("/ajax/submit-killing", shootingForm(janeDoe)), http.StatusOK, "1")

	doc := `{"title": "Footage", "video": "<iframe></iframe>", "state": "CA", "date": "2018-06-02", "shooting": ""}`
	expect(t, s.editor("/bodycams/ajax/submit", bodycamForm(doc)), http.StatusOK, "1")

	edit := `{"id": "1", "title": "Footage 2", "video": "<iframe></iframe>", "state": "CA", "date": "2018-06-02", "shooting": 1}`
	expect(t, s.editor("/bodycams/ajax/edit", bodycamForm(edit)), http.StatusOK, "1")

	gone := `{"id": "9", "title": "x", "video": "v", "state": "CA", "date": "2018-06-02"}`
	expect(t, s.editor("/bodycams/ajax/edit", bodycamForm(gone)), http.StatusBadRequest, services.BodycamGoneMessage)

	link := url.Values{"bodycam_id": {"1"}, "shooting_id": {"1"}}
	expect(t, s.editor("/bodycams/ajax/link", link), http.StatusOK, "")

	link = url.Values{"bodycam_id": {"5"}, "shooting_id": {"1"}}
	expect(t, s.editor("/bodycams/ajax/link", link), http.StatusInternalServerError,
		"Bodycam matching query does not exist.")

	detail := s.get("/killing/1/")
	expect(t, detail, http.StatusOK, "")
	if !strings.Contains(detail.Body.String(), "Footage 2") {
		t.Error("linked bodycam missing from the detail page")
	}
}

func TestDashboardDeleteFlash(t *testing.T) {
	s := newTestServer(t)
	doc := `{"title": "Footage", "video": "<iframe></iframe>", "state": "CA", "date": "2018-06-02"}`
	expect(t, s.editor("/bodycams/ajax/submit", bodycamForm(doc)), http.StatusOK, "1")

	tests := []struct {
		pk   string
		want string
	}{
		{"1", "Article deleted successfully"},
		{"1", "find that article in the database."},
		{"nope", "find that article in the database."},
	}
	for _, tt := range tests {
		rec := s.editor("/bodycams/dashboard", url.Values{"pk": {tt.pk}})
		expect(t, rec, http.StatusFound, "")
		if loc := rec.Header().Get("Location"); loc != "/bodycams/dashboard" {
			t.Errorf("location = %q", loc)
		}

		cookies := append(rec.Result().Cookies(), s.session)
		page := s.get("/bodycams/dashboard", cookies...)
		expect(t, page, http.StatusOK, "")
		if !strings.Contains(page.Body.String(), tt.want) {
			t.Errorf("pk %s: flash %q missing", tt.pk, tt.want)
		}

		// the flash is shown once
		again := s.get("/bodycams/dashboard", s.session)
		if strings.Contains(again.Body.String(), tt.want) {
			t.Errorf("pk %s: flash shown twice", tt.pk)
		}
	}
}

func TestPublicPages(t *testing.T) {
	s := newTestServer(t)
	expect(t, s.editor("/ajax/submit-killing", shootingForm(janeDoe)), http.StatusOK, "1")

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/", http.StatusOK, "Jane Doe"},
		{"/2018", http.StatusOK, "1 people killed by police in 2018"},
		{"/2018?tag=unarmed", http.StatusOK, "Jane Doe"},
		{"/2017", http.StatusOK, "No shootings recorded for 2017."},
		{"/killing/1/", http.StatusOK, "Jane Doe"},
		{"/killing/99/", http.StatusNotFound, ""},
		{"/graphs/2018", http.StatusOK, "By month"},
		{"/graphs", http.StatusOK, "2018"},
		{"/bodycams/", http.StatusOK, "0 bodycam videos from 2018"},
		{"/login?next=/bodycams/dashboard", http.StatusOK, `value="/bodycams/dashboard"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := s.get(tt.path)
			expect(t, rec, tt.status, "")
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body lacks %q", tt.contains)
			}
		})
	}
}

func TestJSONFeeds(t *testing.T) {
	s := newTestServer(t)
	expect(t, s.editor("/ajax/submit-killing", shootingForm(janeDoe)), http.StatusOK, "1")

	rec := s.get("/api/killings?year=2018&state=CA")
	expect(t, rec, http.StatusOK, "")
	var list IncidentCollection
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || len(list.States) == 0 || len(list.AllTags) != 1 {
		t.Errorf("list = %+v", list)
	}

	rec = s.get("/api/tags")
	var tags TagCollection
	if err := json.Unmarshal(rec.Body.Bytes(), &tags); err != nil {
		t.Fatal(err)
	}
	if tags.Kind != "incident" || len(tags.Tags) != 1 || tags.Tags[0] != "unarmed" {
		t.Errorf("tags = %+v", tags)
	}

	rec = s.get("/ajax/ajax-killings?q=jane")
	var search struct {
		Results []services.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &search); err != nil {
		t.Fatal(err)
	}
	if len(search.Results) != 1 || search.Results[0].Text != "Jane Doe (2018-06-01, Oakland, CA)" {
		t.Errorf("search = %+v", search)
	}

	expect(t, s.get("/api/tags?kind=user"), http.StatusBadRequest, "")
	expect(t, s.get("/api/killings?year=abc"), http.StatusBadRequest, "")
}

func TestLoginLogout(t *testing.T) {
	s := newTestServer(t)

	rec := s.postForm("/login", url.Values{"username": {"editor"}, "password": {"wrong"}})
	expect(t, rec, http.StatusUnauthorized, "")
	if !strings.Contains(rec.Body.String(), "Please enter a correct username and password.") {
		t.Error("login error missing")
	}

	rec = s.postForm("/login", url.Values{
		"username": {"editor"},
		"password": {"hunter2"},
		"next":     {"https://evil.example"},
	})
	expect(t, rec, http.StatusSeeOther, "")
	if loc := rec.Header().Get("Location"); loc != defaultLoginRedirect {
		t.Errorf("location = %q", loc)
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	if session == nil || !session.HttpOnly {
		t.Fatalf("session cookie = %+v", session)
	}
	expect(t, s.get("/bodycams/dashboard", session), http.StatusOK, "")

	rec = s.postForm("/logout", url.Values{}, session)
	expect(t, rec, http.StatusSeeOther, "")
	if c := rec.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("logout cookies = %+v", c)
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	s := newTestServer(t)
	rec := s.editor("/ajax/upload-image", url.Values{})
	expect(t, rec, http.StatusServiceUnavailable, "")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	expect(t, s.get("/healthz"), http.StatusOK, "ok")

	s.editor("/ajax/delete-killing", url.Values{"id": {"3"}})
	rec := s.get("/metrics")
	expect(t, rec, http.StatusOK, "")
	body := rec.Body.String()
	for _, want := range []string{
		`roster_writes_total{entity="shooting",op="delete",outcome="error"} 1`,
		`roster_http_request_duration_seconds_count{method="GET",route="/healthz",status="200"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics lack %s", want)
		}
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                    defaultLoginRedirect,
		"/bodycams/dashboard": "/bodycams/dashboard",
		"//evil.example":      defaultLoginRedirect,
		`/\evil.example`:      defaultLoginRedirect,
		"http://evil.example": defaultLoginRedirect,
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
