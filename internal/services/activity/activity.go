package activity

import (
	"context"
	"encoding/json"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/jmoiron/sqlx/types"
	"github.com/samber/lo"
)

var _ ActivityLogRepository = (*repository.ActivityLogRepository)(nil)

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *repository.ActivityLog) error
	List(ctx context.Context, filter repository.ActivityLogRepositoryFilter, opts repository.QueryOptions) (*repository.ListResult[repository.ActivityLog], error)
}

// Entry is one audit event. ActorEmail may be empty for anonymous actions.
type Entry struct {
	ActorEmail   string
	Action       constants.ActivityAction
	ResourceType constants.ResourceType
	ResourceID   string
	Details      map[string]any
}

type Log struct {
	Repo   ActivityLogRepository
	Logger *logger.Logger
}

func New(repo ActivityLogRepository, log *logger.Logger) *Log {
	return &Log{
		Repo:   repo,
		Logger: log,
	}
}

// Record appends an entry. A failed write is logged and never returned.
func (l *Log) Record(ctx context.Context, entry Entry) {
	details := types.JSONText("{}")
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			l.Logger.Error().Err(err).Str("action", string(entry.Action)).Msg("encode activity details")
		} else {
			details = raw
		}
	}

	err := l.Repo.Create(ctx, &repository.ActivityLog{
		ActorEmail:   repository.ToNullString(&entry.ActorEmail),
		Action:       string(entry.Action),
		ResourceType: string(entry.ResourceType),
		ResourceID:   repository.ToNullString(&entry.ResourceID),
		Details:      details,
	})
	if err != nil {
		l.Logger.Error().
			Err(err).
			Str("action", string(entry.Action)).
			Str("resource_type", string(entry.ResourceType)).
			Str("resource_id", entry.ResourceID).
			Msg("failed to write activity log")
	}
}

func (l *Log) List(ctx context.Context, filters dto.ActivityLogFilters, opts dto.QueryOptions) (*dto.ListResponse[dto.ActivityLog], error) {
	result, err := l.Repo.List(ctx, repository.ActivityLogRepositoryFilter{
		Action:     filters.Action,
		ActorEmail: filters.ActorEmail,
	}, repository.QueryOptions{
		Limit:  opts.Limit,
		Cursor: opts.Cursor,
	})
	if err != nil {
		return nil, err
	}

	return &dto.ListResponse[dto.ActivityLog]{
		Items: lo.Map(result.Items, func(entry *repository.ActivityLog, _ int) dto.ActivityLog {
			return toDTO(entry)
		}),
		NextCursor: result.NextCursor,
	}, nil
}

func toDTO(entry *repository.ActivityLog) dto.ActivityLog {
	details := map[string]any{}
	if len(entry.Details) > 0 {
		_ = entry.Details.Unmarshal(&details)
	}

	return dto.ActivityLog{
		ID:           entry.ID,
		ActorEmail:   entry.ActorEmail.String,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID.String,
		Details:      details,
		CreatedAt:    entry.CreatedAt,
	}
}
