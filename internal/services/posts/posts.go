package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	svc "github.com/Jidetireni/adyc-membership/internal/services"
	"github.com/Jidetireni/adyc-membership/internal/services/activity"
	"github.com/Jidetireni/adyc-membership/pkg/cache"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const postCacheTTL = 5 * time.Minute

var (
	_ PostRepository   = (*repository.PostRepository)(nil)
	_ Cache            = (*cache.Redis)(nil)
	_ ActivityRecorder = (*activity.Log)(nil)
)

type PostRepository interface {
	Get(ctx context.Context, filter repository.PostRepositoryFilter) (*repository.Post, error)
	List(ctx context.Context, filter repository.PostRepositoryFilter, opts repository.QueryOptions) (*repository.ListResult[repository.Post], error)
	Create(ctx context.Context, post *repository.Post) (*repository.Post, error)
	Update(ctx context.Context, post *repository.Post) (*repository.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry)
}

type Post struct {
	PostRepo PostRepository
	Cache    Cache
	Activity ActivityRecorder
	Logger   *logger.Logger
}

func New(postRepo PostRepository, c Cache, recorder ActivityRecorder, log *logger.Logger) *Post {
	return &Post{
		PostRepo: postRepo,
		Cache:    c,
		Activity: recorder,
		Logger:   log,
	}
}

func cacheKey(id uuid.UUID) string {
	return "post:" + id.String()
}

// Get serves a post from cache when possible. Drafts are visible only when
// includeDrafts is set.
func (p *Post) Get(ctx context.Context, id uuid.UUID, includeDrafts bool) (*dto.Post, error) {
	var post dto.Post
	err := p.Cache.Get(ctx, cacheKey(id), &post)
	switch {
	case err == nil:
	case errors.Is(err, cache.ErrCacheMiss):
		fetched, err := p.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		post = *fetched
		if err := p.Cache.Set(ctx, cacheKey(id), post, postCacheTTL); err != nil {
			p.Logger.Warn().Err(err).Str("post_id", id.String()).Msg("failed to cache post")
		}
	default:
		p.Logger.Warn().Err(err).Str("post_id", id.String()).Msg("post cache unavailable")
		fetched, err := p.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		post = *fetched
	}

	if !post.Published && !includeDrafts {
		return nil, svc.ErrPostNotFound
	}
	return &post, nil
}

func (p *Post) fetch(ctx context.Context, id uuid.UUID) (*dto.Post, error) {
	post, err := p.PostRepo.Get(ctx, repository.PostRepositoryFilter{ID: &id})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, svc.ErrPostNotFound
		}
		return nil, err
	}
	return toDTO(post), nil
}

func (p *Post) List(ctx context.Context, includeDrafts bool, opts dto.QueryOptions) (*dto.ListResponse[dto.Post], error) {
	filter := repository.PostRepositoryFilter{}
	if !includeDrafts {
		filter.Published = lo.ToPtr(true)
	}

	result, err := p.PostRepo.List(ctx, filter, repository.QueryOptions{
		Limit:  opts.Limit,
		Cursor: opts.Cursor,
	})
	if err != nil {
		return nil, err
	}

	return &dto.ListResponse[dto.Post]{
		Items: lo.Map(result.Items, func(post *repository.Post, _ int) dto.Post {
			return *toDTO(post)
		}),
		NextCursor: result.NextCursor,
	}, nil
}

func (p *Post) Create(ctx context.Context, input dto.CreatePostInput, authorEmail string) (*dto.Post, error) {
	authorName := strings.TrimSpace(input.AuthorName)
	if authorName == "" {
		authorName, _, _ = strings.Cut(authorEmail, "@")
	}

	created, err := p.PostRepo.Create(ctx, &repository.Post{
		Title:       input.Title,
		Content:     input.Content,
		Summary:     repository.ToNullString(&input.Summary),
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		VideoURL:    repository.ToNullString(&input.VideoURL),
		Published:   input.Published,
	})
	if err != nil {
		return nil, err
	}

	p.record(ctx, constants.ActivityBlogPostCreated, authorEmail, created)
	return toDTO(created), nil
}

func (p *Post) Update(ctx context.Context, id uuid.UUID, input dto.UpdatePostInput, actorEmail string) (*dto.Post, error) {
	existing, err := p.PostRepo.Get(ctx, repository.PostRepositoryFilter{ID: &id})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, svc.ErrPostNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		existing.Title = *input.Title
	}
	if input.Content != nil {
		existing.Content = *input.Content
	}
	if input.Summary != nil {
		existing.Summary = repository.ToNullString(input.Summary)
	}
	if input.VideoURL != nil {
		existing.VideoURL = repository.ToNullString(input.VideoURL)
	}
	if input.Published != nil {
		existing.Published = *input.Published
	}

	updated, err := p.PostRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, svc.ErrPostNotFound
		}
		return nil, err
	}
	p.invalidate(ctx, id)

	p.record(ctx, constants.ActivityBlogPostUpdated, actorEmail, updated)
	return toDTO(updated), nil
}

func (p *Post) Delete(ctx context.Context, id uuid.UUID, actorEmail string) error {
	if err := p.PostRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return svc.ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	p.invalidate(ctx, id)

	p.Activity.Record(ctx, activity.Entry{
		ActorEmail:   actorEmail,
		Action:       constants.ActivityBlogPostDeleted,
		ResourceType: constants.ResourceBlogPost,
		ResourceID:   id.String(),
	})
	return nil
}

func (p *Post) invalidate(ctx context.Context, id uuid.UUID) {
	if err := p.Cache.Delete(ctx, cacheKey(id)); err != nil {
		p.Logger.Warn().Err(err).Str("post_id", id.String()).Msg("failed to invalidate cached post")
	}
}

func (p *Post) record(ctx context.Context, action constants.ActivityAction, actorEmail string, post *repository.Post) {
	p.Activity.Record(ctx, activity.Entry{
		ActorEmail:   actorEmail,
		Action:       action,
		ResourceType: constants.ResourceBlogPost,
		ResourceID:   post.ID.String(),
		Details: map[string]any{
			"title":     post.Title,
			"published": post.Published,
		},
	})
}

func toDTO(post *repository.Post) *dto.Post {
	return &dto.Post{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		Summary:     post.Summary.String,
		AuthorName:  post.AuthorName,
		AuthorEmail: post.AuthorEmail,
		VideoURL:    post.VideoURL.String,
		Published:   post.Published,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}
