package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

// ActivityLogRepository is append-only: there is no update or delete.
type ActivityLogRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewActivityLogRepository(db *sqlx.DB) *ActivityLogRepository {
	return &ActivityLogRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type ActivityLogRepositoryFilter struct {
	Action       *string
	ActorEmail   *string
	ResourceType *string
	ResourceID   *string
}

func (ar *ActivityLogRepository) Create(ctx context.Context, entry *ActivityLog) error {
	// lib/pq sends []byte as bytea, so jsonb gets the text form
	details := entry.Details.String()
	if len(entry.Details) == 0 {
		details = "{}"
	}

	builder := ar.psql.Insert("activity_logs").
		Columns("actor_email", "action", "resource_type", "resource_id", "details").
		Values(entry.ActorEmail, entry.Action, entry.ResourceType, entry.ResourceID, details)

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = ar.db.ExecContext(ctx, query, args...)
	return err
}

func (ar *ActivityLogRepository) List(ctx context.Context, filter ActivityLogRepositoryFilter, opts QueryOptions) (*ListResult[ActivityLog], error) {
	builder := ar.psql.Select("*").From("activity_logs")

	if filter.Action != nil {
		builder = builder.Where(sq.Eq{"action": *filter.Action})
	}
	if filter.ActorEmail != nil {
		builder = builder.Where(sq.Eq{"actor_email": *filter.ActorEmail})
	}
	if filter.ResourceType != nil {
		builder = builder.Where(sq.Eq{"resource_type": *filter.ResourceType})
	}
	if filter.ResourceID != nil {
		builder = builder.Where(sq.Eq{"resource_id": *filter.ResourceID})
	}

	opts.Sort = lo.ToPtr("created_at:desc")
	builder, err := ApplyPagination(builder, opts)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var logs []ActivityLog
	if err := ar.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, err
	}

	return buildListResult(logs, opts.Limit, func(l *ActivityLog) (time.Time, uuid.UUID) {
		return l.CreatedAt, l.ID
	}), nil
}
