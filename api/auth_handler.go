package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/shooting-roster/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLoginRedirect = "/bodycams/dashboard"

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	sessions     *services.SessionManager
	secureCookie bool
}

func newAuthHandler(sessions *services.SessionManager, p *pages, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger).withPages(p),
		logger:       logger,
		sessions:     sessions,
		secureCookie: secureCookie,
	}
}

type loginView struct {
	Next     string
	Username string
	Error    string
}

func (h authHandler) loginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WritePage(w, http.StatusOK, "login.html", loginView{Next: safeNext(r.URL.Query().Get("next"))})
	}
}

func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.FormValue("username")
		next := safeNext(r.FormValue("next"))

		token, err := h.sessions.Login(username, r.FormValue("password"))
		if err != nil {
			h.logger.Warn().Str("username", username).Msg("login rejected")
			h.responder.WritePage(w, http.StatusUnauthorized, "login.html", loginView{
				Next:     next,
				Username: username,
				Error:    "Please enter a correct username and password.",
			})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(h.sessions.TTL().Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		h.logger.Info().Str("username", username).Msg("logged in")
		http.Redirect(w, r, next, http.StatusSeeOther)
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultLoginRedirect
	}
	return next
}
