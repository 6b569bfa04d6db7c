package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers every route. Editor writes sit behind the session
// cookie; everything else is public.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, m *metrics) {
	r.Get("/metrics", m.handler().ServeHTTP)
	r.Get("/healthz", handlers.viewHandler.healthz())

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public JSON feeds
		r.Get("/api/killings", handlers.incidentHandler.listIncidents())
		r.Get("/api/tags", handlers.incidentHandler.listTags())
		r.Get("/ajax/ajax-killings", handlers.incidentHandler.searchIncidents())
		r.Get("/ajax/shootings", handlers.incidentHandler.yearIncidents())

		// Public pages
		r.Get("/", handlers.viewHandler.rosterList())
		r.Get("/{year:[0-9]+}", handlers.viewHandler.rosterList())
		r.Get("/killing/{pk}/", handlers.viewHandler.incidentDetail())
		r.Get("/graphs", handlers.viewHandler.graphs())
		r.Get("/graphs/{year:[0-9]+}", handlers.viewHandler.graphs())
		r.Get("/graphs/{year:[0-9]+}/", handlers.viewHandler.graphs())
		r.Get("/bodycams", handlers.viewHandler.bodycamIndex())
		r.Get("/bodycams/", handlers.viewHandler.bodycamIndex())
		r.Get("/bodycams/{year:[0-9]+}", handlers.viewHandler.bodycamIndex())
		r.Get("/blog", handlers.postHandler.blogIndex())
		r.Get("/blog/", handlers.postHandler.blogIndex())
		r.Get("/blog/{pk}/", handlers.postHandler.blogDetail())

		// Reader submissions
		r.Get("/tip", handlers.tipHandler.tipForm())
		r.Post("/tip", handlers.tipHandler.submitTip())
		r.Get("/feedback", handlers.tipHandler.feedbackForm())
		r.Post("/feedback", handlers.tipHandler.submitFeedback())

		// Login
		r.Get("/login", handlers.authHandler.loginForm())
		r.Post("/login", handlers.authHandler.login())
		r.Post("/logout", handlers.authHandler.logout())

		// Editor AJAX endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.authenticateAJAX)

			r.Post("/ajax/submit-killing", handlers.incidentHandler.submitIncident())
			r.Post("/ajax/edit-killing", handlers.incidentHandler.editIncident())
			r.Post("/ajax/delete-killing", handlers.incidentHandler.deleteIncident())
			r.Post("/ajax/upload-image", handlers.incidentHandler.uploadImage())

			r.Post("/bodycams/ajax/submit", handlers.bodycamHandler.submitBodycam())
			r.Post("/bodycams/ajax/edit", handlers.bodycamHandler.editBodycam())
			r.Post("/bodycams/ajax/link", handlers.bodycamHandler.linkBodycam())

			r.Get("/api/blog-posts", handlers.postHandler.getAllPosts())
			r.Post("/api/blog-post", handlers.postHandler.createPost())
			r.Get("/api/blog-post/{postID}", handlers.postHandler.getPost())
			r.Put("/api/blog-post/{postID}", handlers.postHandler.updatePost())
			r.Delete("/api/blog-post/{postID}", handlers.postHandler.deletePost())
		})

		// Editor pages
		r.Group(func(r chi.Router) {
			r.Use(auth.authenticatePage)

			r.Get("/bodycams/dashboard", handlers.bodycamHandler.dashboard())
			r.Post("/bodycams/dashboard", handlers.bodycamHandler.deleteFromDashboard())
			r.Get("/tips", handlers.tipHandler.inbox())
			r.Post("/tips", handlers.tipHandler.deleteFromInbox())
		})
	})
}
