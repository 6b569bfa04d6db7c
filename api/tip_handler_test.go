package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestTipFormFlow(t *testing.T) {
	s := newTestServer(t)

	expect(t, s.get("/tip"), http.StatusOK, "")

	rec := s.postForm("/tip", url.Values{
		"name":        {"John Roe"},
		"date":        {"2018-06-02"},
		"state":       {"CA"},
		"description": {"Shot at a bus stop"},
		"link":        {"https://news.example.com/roe"},
	})
	expect(t, rec, http.StatusSeeOther, "")
	if loc := rec.Header().Get("Location"); loc != "/tip" {
		t.Errorf("location = %q", loc)
	}
	page := s.get("/tip", rec.Result().Cookies()...)
	if !strings.Contains(page.Body.String(), "We received your tip.") {
		t.Error("tip flash missing")
	}

	inbox := s.get("/tips", s.session)
	expect(t, inbox, http.StatusOK, "")
	body := inbox.Body.String()
	for _, want := range []string{"John Roe", "2018-06-02", "California", "Shot at a bus stop"} {
		if !strings.Contains(body, want) {
			t.Errorf("inbox lacks %q", want)
		}
	}
}

func TestTipFormRedisplaysErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.postForm("/tip", url.Values{
		"state":       {"<b>"},
		"description": {""},
		"city":        {"Reno"},
	})
	expect(t, rec, http.StatusBadRequest, "")
	body := rec.Body.String()
	if !strings.Contains(body, "description: This field is required.") {
		t.Error("description error missing")
	}
	if !strings.Contains(body, "&lt;b&gt; is not one of the available choices.") {
		t.Error("state error missing or unescaped")
	}
	if strings.Contains(body, "<b>") {
		t.Error("submitted markup reflected unescaped")
	}
	if !strings.Contains(body, `value="Reno"`) {
		t.Error("submitted city not kept")
	}

	inbox := s.get("/tips", s.session)
	if !strings.Contains(inbox.Body.String(), "No tips.") {
		t.Error("invalid tip was stored")
	}
}

func TestFeedbackFormFlow(t *testing.T) {
	s := newTestServer(t)

	expect(t, s.postForm("/feedback", url.Values{"message": {"  "}}), http.StatusBadRequest, "")

	rec := s.postForm("/feedback", url.Values{"name": {"Ann"}, "message": {"Love the graphs"}})
	expect(t, rec, http.StatusSeeOther, "")
	if loc := rec.Header().Get("Location"); loc != "/feedback" {
		t.Errorf("location = %q", loc)
	}
	page := s.get("/feedback", rec.Result().Cookies()...)
	if !strings.Contains(page.Body.String(), "Thanks for your feedback.") {
		t.Error("feedback flash missing")
	}

	inbox := s.get("/tips", s.session)
	if !strings.Contains(inbox.Body.String(), "Love the graphs") {
		t.Error("feedback missing from the inbox")
	}
}

func TestInboxRequiresSession(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/tips")
	expect(t, rec, http.StatusSeeOther, "")
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Ftips" {
		t.Errorf("location = %q", loc)
	}
	expect(t, s.postForm("/tips", url.Values{"kind": {"tip"}, "pk": {"1"}}), http.StatusSeeOther, "")
}

func TestInboxDeleteFlash(t *testing.T) {
	s := newTestServer(t)
	expect(t, s.postForm("/tip", url.Values{"description": {"lead"}}), http.StatusSeeOther, "")
	expect(t, s.postForm("/feedback", url.Values{"message": {"note"}}), http.StatusSeeOther, "")

	tests := []struct {
		kind string
		pk   string
		want string
	}{
		{"tip", "1", "Message deleted."},
		{"tip", "1", "find that message in the database."},
		{"feedback", "1", "Message deleted."},
		{"feedback", "nope", "find that message in the database."},
	}
	for _, tt := range tests {
		rec := s.editor("/tips", url.Values{"kind": {tt.kind}, "pk": {tt.pk}})
		expect(t, rec, http.StatusFound, "")
		if loc := rec.Header().Get("Location"); loc != "/tips" {
			t.Errorf("location = %q", loc)
		}

		cookies := append(rec.Result().Cookies(), s.session)
		page := s.get("/tips", cookies...)
		if !strings.Contains(page.Body.String(), tt.want) {
			t.Errorf("%s %s: flash %q missing", tt.kind, tt.pk, tt.want)
		}
	}

	body := s.get("/tips", s.session).Body.String()
	if !strings.Contains(body, "No tips.") || !strings.Contains(body, "No feedback.") {
		t.Error("inbox not empty after deletes")
	}
}
