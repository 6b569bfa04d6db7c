package services

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PostService runs the blog write flows and resolves what readers may see.
type PostService struct {
	posts  *database.PostRepo
	linker *Linker
	now    func() time.Time
	logger zerolog.Logger
}

func NewPostService(posts *database.PostRepo, linker *Linker, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{
		posts:  posts,
		linker: linker,
		now:    now,
		logger: log.With().Str("service", "posts").Logger(),
	}
}

type postFlow struct {
	id      uint
	payload PostPayload
	post    *models.Post
}

// Create validates and stores a post with its tags and returns it reloaded.
func (s *PostService) Create(ctx context.Context, payload PostPayload) (*models.Post, error) {
	flow := &postFlow{payload: payload, post: &models.Post{}}
	err := runSteps(ctx, flow,
		s.validate,
		s.save(s.posts.Add),
		s.replaceTags,
		s.reload,
	)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Uint("postID", flow.post.ID).Msg("post created")
	return flow.post, nil
}

// Update replaces every field and tag of an existing post.
func (s *PostService) Update(ctx context.Context, id uint, payload PostPayload) (*models.Post, error) {
	flow := &postFlow{id: id, payload: payload}
	err := runSteps(ctx, flow,
		s.lookup,
		s.validate,
		s.stampEdited,
		s.save(s.posts.Update),
		s.replaceTags,
		s.reload,
	)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Uint("postID", id).Msg("post updated")
	return flow.post, nil
}

// Delete removes a post and its tags.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.linker.cache.Invalidate(ctx, models.OwnerPost)
	s.logger.Info().Uint("postID", id).Msg("post deleted")
	return nil
}

// Get returns any post, drafts included.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// All returns every post for the editors.
func (s *PostService) All(ctx context.Context) ([]*models.Post, error) {
	return s.posts.FindAll(ctx)
}

// Published returns the posts readers can see now.
func (s *PostService) Published(ctx context.Context) ([]*models.Post, error) {
	return s.posts.FindPublished(ctx, s.now())
}

// PublishedPost returns a post readers can see. Drafts and scheduled posts
// read as missing.
func (s *PostService) PublishedPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.Published(s.now()) {
		return nil, errs.NewNotFound("post")
	}
	return post, nil
}

func (s *PostService) lookup(ctx context.Context, f *postFlow) error {
	post, err := s.posts.FindByID(ctx, f.id)
	if err != nil {
		return err
	}
	f.post = post
	return nil
}

func (s *PostService) validate(_ context.Context, f *postFlow) error {
	form, err := ValidatePost(f.payload)
	if err != nil {
		return err
	}
	f.post.Title = form.Title
	f.post.Summary = form.Summary
	f.post.Content = form.Content
	f.post.Authors = form.Authors
	f.post.CoverImage = form.CoverImage
	f.post.PublishDate = form.PublishDate
	f.post.Length = utf8.RuneCountInString(form.Content)
	return nil
}

func (s *PostService) stampEdited(_ context.Context, f *postFlow) error {
	edited := s.now().UTC()
	f.post.DateEdited = &edited
	return nil
}

func (s *PostService) save(write func(context.Context, *models.Post) error) step[postFlow] {
	return func(ctx context.Context, f *postFlow) error {
		if err := write(ctx, f.post); err != nil {
			return errs.NewDatabaseError("save", "post", err)
		}
		return nil
	}
}

func (s *PostService) replaceTags(ctx context.Context, f *postFlow) error {
	if err := s.linker.ReplaceTags(ctx, f.post.Owner(), f.payload.Tags); err != nil {
		return errs.NewDatabaseError("replace", "tags", err)
	}
	return nil
}

func (s *PostService) reload(ctx context.Context, f *postFlow) error {
	post, err := s.posts.FindByID(ctx, f.post.ID)
	if err != nil {
		return err
	}
	f.post = post
	return nil
}
