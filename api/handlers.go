package api

import (
	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, rt router, sessions *services.SessionManager, p *pages, m *metrics) *routeHandlers {
	cache := services.NewFacetCache(rt.redis, rt.config.Redis.TTL)
	linker := services.NewLinker(database.TagRepo(), database.SourceRepo(), cache)
	composer := services.NewComposer(database, cache)

	incidents := services.NewIncidentService(database.IncidentRepo(), linker)
	bodycams := services.NewBodycamService(database.BodycamRepo(), database.IncidentRepo(), linker)
	tips := services.NewTipService(database.TipRepo(), database.FeedbackRepo())
	posts := services.NewPostService(database.PostRepo(), linker, rt.now)

	return &routeHandlers{
		incidentHandler: newIncidentHandler(incidents, composer, rt.images, m, rt.now),
		bodycamHandler:  newBodycamHandler(bodycams, composer, p, m, rt.now),
		viewHandler:     newViewHandler(composer, database, p, rt.now),
		authHandler:     newAuthHandler(sessions, p, rt.config.Session.SecureCookie),
		tipHandler:      newTipHandler(tips, p, m),
		postHandler:     newPostHandler(posts, p, m, rt.now),
	}
}
