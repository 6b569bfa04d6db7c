package api

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookie = "roster_flash"

type flashLevel string

const (
	flashSuccess flashLevel = "success"
	flashError   flashLevel = "error"
)

// Flash is a one-shot message shown on the next page load.
type Flash struct {
	Level   string
	Message string
}

func setFlash(w http.ResponseWriter, level flashLevel, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(string(level) + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	level, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	return &Flash{Level: level, Message: message}
}
