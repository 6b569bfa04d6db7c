package api

import (
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     *services.PostService
	metrics   *metrics
	now       func() time.Time
}

func newPostHandler(posts *services.PostService, p *pages, m *metrics, now func() time.Time) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger).withPages(p),
		logger:    logger,
		posts:     posts,
		metrics:   m,
		now:       now,
	}
}

// getAllPosts retrieves every blog post, drafts included
// @Summary Get all blog posts
// @Tags Blog Posts
// @Produce json
// @Success 200 {object} PostCollection "List of blog posts with tags"
// @Failure 401 {string} string "authentication required"
// @Router /api/blog-posts [get]
func (h postHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.posts.All(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "posts", err))
			return
		}
		views := newPostViews(posts, h.now())
		h.responder.WriteJSON(w, PostCollection{Posts: views, Total: len(views)})
	}
}

// getPost retrieves a specific blog post by ID with its tags
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param postID path int true "Blog post ID"
// @Success 200 {object} PostView
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid postID"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /api/blog-post/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		post, err := h.posts.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}
		h.responder.WriteJSON(w, newPostView(post, h.now()))
	}
}

// createPost creates a new blog post
// @Summary Create blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param post body services.PostPayload true "Blog post data"
// @Success 201 {object} PostView "Created blog post with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 409 {object} ErrorResponse "Conflict - Title already used"
// @Router /api/blog-post [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.decode(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Create(r.Context(), payload)
		h.metrics.recordWrite("post", "create", err)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, newPostView(post, h.now()))
	}
}

// updatePost replaces an existing blog post and its tags
// @Summary Update blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param postID path int true "Blog post ID"
// @Param post body services.PostPayload true "Updated blog post data"
// @Success 200 {object} PostView "Updated blog post with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /api/blog-post/{postID} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		payload, err := h.decode(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.posts.Update(r.Context(), id, payload)
		h.metrics.recordWrite("post", "update", err)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newPostView(post, h.now()))
	}
}

// deletePost deletes a blog post by ID
// @Summary Delete blog post
// @Tags Blog Posts
// @Produce json
// @Param postID path int true "Blog post ID"
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /api/blog-post/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		err = h.posts.Delete(r.Context(), id)
		h.metrics.recordWrite("post", "delete", err)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}

type blogView struct {
	Posts []PostView
}

func (h postHandler) blogIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.posts.Published(r.Context())
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		h.responder.WritePage(w, http.StatusOK, "blog_index.html", blogView{Posts: newPostViews(posts, h.now())})
	}
}

func (h postHandler) blogDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		post, err := h.posts.PublishedPost(r.Context(), id)
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		h.responder.WritePage(w, http.StatusOK, "blog_detail.html", newPostView(post, h.now()))
	}
}

func (h postHandler) decode(r *http.Request) (services.PostPayload, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		return services.PostPayload{}, errs.NewMalformedPayloadError("post", err)
	}
	payload, err := services.DecodePostPayload(data)
	if err != nil {
		h.logger.Debug().Err(err).Msg("failed to decode post request body")
		return services.PostPayload{}, errs.NewInvalidJSONError(err)
	}
	return payload, nil
}
