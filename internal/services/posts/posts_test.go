package posts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
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
	"github.com/stretchr/testify/suite"
)

type memCache struct {
	items map[string][]byte
	err   error
}

func (c *memCache) Get(_ context.Context, key string, dest any) error {
	if c.err != nil {
		return c.err
	}
	raw, ok := c.items[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.err != nil {
		return c.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.items, key)
	return nil
}

type memPosts struct {
	posts map[uuid.UUID]*repository.Post
	gets  int
}

func (m *memPosts) Get(_ context.Context, f repository.PostRepositoryFilter) (*repository.Post, error) {
	m.gets++
	p, ok := m.posts[*f.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) List(_ context.Context, f repository.PostRepositoryFilter, _ repository.QueryOptions) (*repository.ListResult[repository.Post], error) {
	var items []*repository.Post
	for _, p := range m.posts {
		if f.Published != nil && p.Published != *f.Published {
			continue
		}
		cp := *p
		items = append(items, &cp)
	}
	return &repository.ListResult[repository.Post]{Items: items}, nil
}

func (m *memPosts) Create(_ context.Context, p *repository.Post) (*repository.Post, error) {
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.posts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memPosts) Update(_ context.Context, p *repository.Post) (*repository.Post, error) {
	if _, ok := m.posts[p.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	m.posts[p.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memPosts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

type recorder struct {
	entries []activity.Entry
}

func (r *recorder) Record(_ context.Context, e activity.Entry) {
	r.entries = append(r.entries, e)
}

type PostSuite struct {
	suite.Suite
	repo     *memPosts
	cache    *memCache
	recorder *recorder
	service  *Post
}

func (s *PostSuite) SetupTest() {
	s.repo = &memPosts{posts: map[uuid.UUID]*repository.Post{}}
	s.cache = &memCache{items: map[string][]byte{}}
	s.recorder = &recorder{}
	s.service = New(s.repo, s.cache, s.recorder, logger.Nop())
}

func TestPostSuite(t *testing.T) {
	suite.Run(t, new(PostSuite))
}

func (s *PostSuite) create(published bool) *dto.Post {
	post, err := s.service.Create(context.Background(), dto.CreatePostInput{
		Title:     "Town hall",
		Content:   "Join us",
		Published: published,
	}, "editor@adyc.org")
	s.Require().NoError(err)
	return post
}

func (s *PostSuite) TestCreateDefaultsAuthorName() {
	post := s.create(true)
	s.Equal("editor", post.AuthorName)
	s.Equal(constants.ActivityBlogPostCreated, s.recorder.entries[0].Action)
}

func (s *PostSuite) TestGetIsCached() {
	post := s.create(true)

	for range 3 {
		got, err := s.service.Get(context.Background(), post.ID, false)
		s.Require().NoError(err)
		s.Equal("Town hall", got.Title)
	}
	s.Equal(1, s.repo.gets)
}

func (s *PostSuite) TestGetFallsBackWhenCacheIsDown() {
	post := s.create(true)
	s.cache.err = errors.New("redis: connection refused")

	got, err := s.service.Get(context.Background(), post.ID, false)
	s.Require().NoError(err)
	s.Equal(post.ID, got.ID)
}

func (s *PostSuite) TestDraftsAreHiddenFromPublic() {
	post := s.create(false)

	_, err := s.service.Get(context.Background(), post.ID, false)
	s.ErrorIs(err, svc.ErrPostNotFound)

	got, err := s.service.Get(context.Background(), post.ID, true)
	s.Require().NoError(err)
	s.False(got.Published)

	s.create(true)
	list, err := s.service.List(context.Background(), false, dto.QueryOptions{})
	s.Require().NoError(err)
	s.Len(list.Items, 1)
}

func (s *PostSuite) TestUpdateInvalidatesCache() {
	post := s.create(true)
	_, err := s.service.Get(context.Background(), post.ID, false)
	s.Require().NoError(err)

	_, err = s.service.Update(context.Background(), post.ID, dto.UpdatePostInput{Title: lo.ToPtr("Rally")}, "editor@adyc.org")
	s.Require().NoError(err)

	got, err := s.service.Get(context.Background(), post.ID, false)
	s.Require().NoError(err)
	s.Equal("Rally", got.Title)
	s.Equal("Join us", got.Content)
}

func (s *PostSuite) TestDelete() {
	post := s.create(true)

	s.Require().NoError(s.service.Delete(context.Background(), post.ID, "editor@adyc.org"))
	s.ErrorIs(s.service.Delete(context.Background(), post.ID, "editor@adyc.org"), svc.ErrPostNotFound)

	_, err := s.service.Get(context.Background(), post.ID, true)
	s.ErrorIs(err, svc.ErrPostNotFound)
	s.Equal(constants.ActivityBlogPostDeleted, s.recorder.entries[len(s.recorder.entries)-1].Action)
}

func (s *PostSuite) TestUpdateMissing() {
	_, err := s.service.Update(context.Background(), uuid.New(), dto.UpdatePostInput{}, "editor@adyc.org")
	s.ErrorIs(err, svc.ErrPostNotFound)
}
