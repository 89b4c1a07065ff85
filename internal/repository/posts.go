package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

type PostRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type PostRepositoryFilter struct {
	ID        *uuid.UUID
	Published *bool
}

func (pr *PostRepository) buildQuery(filter PostRepositoryFilter) sq.SelectBuilder {
	builder := pr.psql.Select("*").From("posts")

	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.Published != nil {
		builder = builder.Where(sq.Eq{"published": *filter.Published})
	}

	return builder
}

func (pr *PostRepository) Get(ctx context.Context, filter PostRepositoryFilter) (*Post, error) {
	query, args, err := pr.buildQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}

	var post Post
	if err := pr.db.GetContext(ctx, &post, query, args...); err != nil {
		return nil, mapError(err)
	}
	return &post, nil
}

func (pr *PostRepository) List(ctx context.Context, filter PostRepositoryFilter, opts QueryOptions) (*ListResult[Post], error) {
	if opts.Sort == nil {
		opts.Sort = lo.ToPtr("created_at:desc")
	}

	builder, err := ApplyPagination(pr.buildQuery(filter), opts)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var posts []Post
	if err := pr.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, err
	}

	return buildListResult(posts, opts.Limit, func(p *Post) (time.Time, uuid.UUID) {
		return p.CreatedAt, p.ID
	}), nil
}

func (pr *PostRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	builder := pr.psql.Insert("posts").
		Columns("title", "content", "summary", "author_name", "author_email", "video_url", "published").
		Values(post.Title, post.Content, post.Summary, post.AuthorName, post.AuthorEmail, post.VideoURL, post.Published).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var created Post
	if err := pr.db.GetContext(ctx, &created, query, args...); err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (pr *PostRepository) Update(ctx context.Context, post *Post) (*Post, error) {
	builder := pr.psql.Update("posts").
		Set("title", post.Title).
		Set("content", post.Content).
		Set("summary", post.Summary).
		Set("video_url", post.VideoURL).
		Set("published", post.Published).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": post.ID}).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var updated Post
	if err := pr.db.GetContext(ctx, &updated, query, args...); err != nil {
		return nil, mapError(err)
	}
	return &updated, nil
}

func (pr *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := pr.psql.Delete("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	res, err := pr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
