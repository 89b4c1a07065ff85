package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

type MemberRepository struct {
	db   *sqlx.DB
	psql sq.StatementBuilderType
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type MemberRepositoryFilter struct {
	ID           *uuid.UUID
	Email        *string
	MemberID     *string
	SerialNumber *string
}

func (mq *MemberRepository) buildQuery(filter MemberRepositoryFilter, queryType QueryType) sq.SelectBuilder {
	var builder sq.SelectBuilder
	switch queryType {
	case QueryTypeSelect:
		builder = mq.psql.Select("*").From("members")
	case QueryTypeCount:
		builder = mq.psql.Select("COUNT(*)").From("members")
	}

	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.Email != nil {
		builder = builder.Where(sq.Eq{"email": *filter.Email})
	}
	if filter.MemberID != nil {
		builder = builder.Where(sq.Eq{"member_id": *filter.MemberID})
	}
	if filter.SerialNumber != nil {
		builder = builder.Where(sq.Eq{"serial_number": *filter.SerialNumber})
	}

	return builder
}

func (mq *MemberRepository) Get(ctx context.Context, filter MemberRepositoryFilter) (*Member, error) {
	query, args, err := mq.buildQuery(filter, QueryTypeSelect).ToSql()
	if err != nil {
		return nil, err
	}

	var member Member
	if err := mq.db.GetContext(ctx, &member, query, args...); err != nil {
		return nil, mapError(err)
	}
	return &member, nil
}

func (mq *MemberRepository) Exists(ctx context.Context, filter MemberRepositoryFilter) (bool, error) {
	query, args, err := mq.buildQuery(filter, QueryTypeCount).ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := mq.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a member. Collisions on email, member_id or serial_number
// come back as *DuplicateKeyError.
func (mq *MemberRepository) Create(ctx context.Context, member *Member) (*Member, error) {
	builder := mq.psql.Insert("members").
		Columns(
			"member_id", "serial_number", "full_name", "email", "photo_url", "photo_store_id",
			"date_of_birth", "gender", "ward", "lga", "state", "country", "address",
			"language", "marital_status",
		).
		Values(
			member.MemberID, member.SerialNumber, member.FullName, member.Email, member.PhotoURL, member.PhotoStoreID,
			member.DateOfBirth, member.Gender, member.Ward, member.LGA, member.State, member.Country, member.Address,
			member.Language, member.MaritalStatus,
		).
		Suffix("RETURNING *")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var createdMember Member
	if err := mq.db.GetContext(ctx, &createdMember, query, args...); err != nil {
		return nil, mapError(err)
	}
	return &createdMember, nil
}

// UpdatePhoto reports false when no member has memberID.
func (mq *MemberRepository) UpdatePhoto(ctx context.Context, memberID, url, photoStoreID string) (bool, error) {
	builder := mq.psql.Update("members").
		Set("photo_url", url).
		Set("photo_store_id", photoStoreID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"member_id": memberID})

	return mq.execAffectsOne(ctx, builder)
}

// MarkCardGenerated flips card_generated from false to true in a single
// conditional update. Exactly one of any number of concurrent callers gets true.
func (mq *MemberRepository) MarkCardGenerated(ctx context.Context, memberID string) (bool, error) {
	builder := mq.psql.Update("members").
		Set("card_generated", true).
		Set("card_generated_at", sq.Expr("NOW()")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"member_id": memberID, "card_generated": false})

	return mq.execAffectsOne(ctx, builder)
}

func (mq *MemberRepository) execAffectsOne(ctx context.Context, builder sq.UpdateBuilder) (bool, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return false, err
	}

	res, err := mq.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// List returns members newest registration first.
func (mq *MemberRepository) List(ctx context.Context, opts QueryOptions) (*ListResult[Member], error) {
	opts.Sort = lo.ToPtr("registered_at:desc")

	builder, err := ApplyPagination(mq.buildQuery(MemberRepositoryFilter{}, QueryTypeSelect), opts)
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var members []Member
	if err := mq.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, err
	}

	return buildListResult(members, opts.Limit, func(m *Member) (time.Time, uuid.UUID) {
		return m.RegisteredAt, m.ID
	}), nil
}
