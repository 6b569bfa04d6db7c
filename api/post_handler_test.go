package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// sendJSON makes a signed-in JSON request.
func (s *testServer) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, s.session)
}

func decodePost(t *testing.T, rec *httptest.ResponseRecorder) PostView {
	t.Helper()
	var view PostView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	return view
}

func TestBlogPostAPI(t *testing.T) {
	s := newTestServer(t)

	expect(t, s.get("/api/blog-posts"), http.StatusUnauthorized, "")

	rec := s.sendJSON(http.MethodPost, "/api/blog-post",
		`{"title": "Midyear", "content": "<p>Half a year</p>", "authors": "Ann Lee, Bo Park",
		"publish_date": "2018-06-30", "tags": ["data", "data"]}`)
	expect(t, rec, http.StatusCreated, "")
	created := decodePost(t, rec)
	if created.ID != 1 || !created.Published || len(created.Tags) != 1 || len(created.Authors) != 2 {
		t.Errorf("created = %+v", created)
	}

	expect(t, s.sendJSON(http.MethodPost, "/api/blog-post", `{"title": "Midyear", "content": "again"}`), http.StatusConflict, "")
	expect(t, s.sendJSON(http.MethodPost, "/api/blog-post", `{"title": ""}`), http.StatusBadRequest, "")
	expect(t, s.sendJSON(http.MethodPost, "/api/blog-post", `{"title":`), http.StatusBadRequest, "")

	rec = s.sendJSON(http.MethodPut, "/api/blog-post/1", `{"title": "Midyear report", "content": "draft again", "tags": ["methods"]}`)
	expect(t, rec, http.StatusOK, "")
	updated := decodePost(t, rec)
	if updated.Title != "Midyear report" || updated.Published || updated.DateEdited == nil {
		t.Errorf("updated = %+v", updated)
	}
	expect(t, s.sendJSON(http.MethodPut, "/api/blog-post/9", `{"title": "x", "content": "y"}`), http.StatusNotFound, "")

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/blog-posts", nil), s.session)
	expect(t, rec, http.StatusOK, "")
	var list PostCollection
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || list.Posts[0].Tags[0] != "methods" {
		t.Errorf("list = %+v", list)
	}

	rec = s.get("/api/tags?kind=post")
	var tags TagCollection
	if err := json.Unmarshal(rec.Body.Bytes(), &tags); err != nil {
		t.Fatal(err)
	}
	if tags.Kind != "post" || len(tags.Tags) != 1 || tags.Tags[0] != "methods" {
		t.Errorf("tags = %+v", tags)
	}

	expect(t, s.do(httptest.NewRequest(http.MethodGet, "/api/blog-post/abc", nil), s.session), http.StatusBadRequest, "")
	expect(t, s.sendJSON(http.MethodDelete, "/api/blog-post/1", ""), http.StatusOK, "")
	expect(t, s.sendJSON(http.MethodDelete, "/api/blog-post/1", ""), http.StatusNotFound, "")
	expect(t, s.do(httptest.NewRequest(http.MethodGet, "/api/blog-post/1", nil), s.session), http.StatusNotFound, "")
}

func TestBlogPages(t *testing.T) {
	s := newTestServer(t)
	for _, doc := range []string{
		`{"title": "Published", "summary": "Out now", "content": "<p>Body <em>text</em></p>", "publish_date": "2018-07-01T11:00:00Z"}`,
		`{"title": "Draft", "content": "unfinished"}`,
		`{"title": "Scheduled", "content": "tomorrow", "publish_date": "2018-07-02"}`,
	} {
		expect(t, s.sendJSON(http.MethodPost, "/api/blog-post", doc), http.StatusCreated, "")
	}

	index := s.get("/blog/")
	expect(t, index, http.StatusOK, "")
	body := index.Body.String()
	if !strings.Contains(body, "Published") || !strings.Contains(body, "Out now") {
		t.Error("published post missing from the index")
	}
	if strings.Contains(body, "Draft") || strings.Contains(body, "Scheduled") {
		t.Error("unpublished post listed")
	}

	detail := s.get("/blog/1/")
	expect(t, detail, http.StatusOK, "")
	if !strings.Contains(detail.Body.String(), "<p>Body <em>text</em></p>") {
		t.Error("post body not rendered as markup")
	}
	expect(t, s.get("/blog/2/"), http.StatusNotFound, "")
	expect(t, s.get("/blog/3/"), http.StatusNotFound, "")
	expect(t, s.get("/blog/99/"), http.StatusNotFound, "")
}
