package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

var memberColumns = []string{"id", "member_id", "serial_number", "full_name", "email", "state", "card_generated", "registered_at"}

type MemberRepositorySuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo *MemberRepository
}

func newMockDB(s *suite.Suite) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)

	xdb := sqlx.NewDb(db, "postgres")
	xdb.Mapper = reflectx.NewMapper("json")
	return xdb, mock
}

func (s *MemberRepositorySuite) SetupTest() {
	db, mock := newMockDB(&s.Suite)
	s.mock = mock
	s.repo = NewMemberRepository(db)
}

func (s *MemberRepositorySuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func TestMemberRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemberRepositorySuite))
}

func (s *MemberRepositorySuite) TestGet() {
	s.Run("returns the member by member id", func() {
		id := uuid.New()
		registered := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		s.mock.ExpectQuery(`SELECT \* FROM members WHERE member_id = \$1`).
			WithArgs("ADYC-2025-ABC123").
			WillReturnRows(sqlmock.NewRows(memberColumns).
				AddRow(id.String(), "ADYC-2025-ABC123", "SN-ABCD1234", "Jane Doe", "a@x.org", "Lagos", false, registered))

		member, err := s.repo.Get(context.Background(), MemberRepositoryFilter{MemberID: lo.ToPtr("ADYC-2025-ABC123")})
		s.Require().NoError(err)
		s.Equal(id, member.ID)
		s.Equal("Jane Doe", member.FullName)
		s.Equal("SN-ABCD1234", member.SerialNumber)
		s.False(member.CardGenerated)
		s.Equal(registered, member.RegisteredAt)
	})

	s.Run("maps no rows to ErrNotFound", func() {
		s.mock.ExpectQuery(`SELECT \* FROM members WHERE email = \$1`).
			WithArgs("missing@x.org").
			WillReturnRows(sqlmock.NewRows(memberColumns))

		_, err := s.repo.Get(context.Background(), MemberRepositoryFilter{Email: lo.ToPtr("missing@x.org")})
		s.Require().ErrorIs(err, ErrNotFound)
		s.ErrorIs(err, sql.ErrNoRows)
	})
}

func (s *MemberRepositorySuite) TestExists() {
	s.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members WHERE email = \$1`).
		WithArgs("a@x.org").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := s.repo.Exists(context.Background(), MemberRepositoryFilter{Email: lo.ToPtr("a@x.org")})
	s.Require().NoError(err)
	s.True(exists)
}

func (s *MemberRepositorySuite) TestCreate() {
	s.Run("returns the stored row", func() {
		id := uuid.New()
		s.mock.ExpectQuery(`INSERT INTO members \(member_id,serial_number,full_name,email,.*\) VALUES .* RETURNING \*`).
			WillReturnRows(sqlmock.NewRows(memberColumns).
				AddRow(id.String(), "ADYC-2025-ABC123", "SN-ABCD1234", "Jane Doe", "a@x.org", "Lagos", false, time.Now()))

		created, err := s.repo.Create(context.Background(), &Member{
			MemberID:     "ADYC-2025-ABC123",
			SerialNumber: "SN-ABCD1234",
			FullName:     "Jane Doe",
			Email:        "a@x.org",
			State:        "Lagos",
		})
		s.Require().NoError(err)
		s.Equal(id, created.ID)
	})

	cases := []struct {
		constraint string
		field      string
	}{
		{"members_email_key", "email"},
		{"members_member_id_key", "member_id"},
		{"members_serial_number_key", "serial_number"},
	}
	for _, tc := range cases {
		s.Run("maps unique violation on "+tc.field, func() {
			s.mock.ExpectQuery(`INSERT INTO members`).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tc.constraint})

			_, err := s.repo.Create(context.Background(), &Member{MemberID: "ADYC-2025-ABC123"})
			s.Require().ErrorIs(err, ErrDuplicateKey)

			field, ok := DuplicateField(err)
			s.True(ok)
			s.Equal(tc.field, field)
		})
	}

	s.Run("passes other errors through", func() {
		boom := errors.New("connection reset")
		s.mock.ExpectQuery(`INSERT INTO members`).WillReturnError(boom)

		_, err := s.repo.Create(context.Background(), &Member{})
		s.Require().ErrorIs(err, boom)
		s.NotErrorIs(err, ErrDuplicateKey)
	})
}

func (s *MemberRepositorySuite) TestMarkCardGenerated() {
	s.Run("first flip succeeds", func() {
		s.mock.ExpectExec(`UPDATE members SET card_generated = \$1, card_generated_at = NOW\(\), updated_at = NOW\(\) WHERE card_generated = \$2 AND member_id = \$3`).
			WithArgs(true, false, "ADYC-2025-ABC123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := s.repo.MarkCardGenerated(context.Background(), "ADYC-2025-ABC123")
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("already flipped affects no rows", func() {
		s.mock.ExpectExec(`UPDATE members SET card_generated`).
			WithArgs(true, false, "ADYC-2025-ABC123").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := s.repo.MarkCardGenerated(context.Background(), "ADYC-2025-ABC123")
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *MemberRepositorySuite) TestUpdatePhoto() {
	s.mock.ExpectExec(`UPDATE members SET photo_url = \$1, photo_store_id = \$2, updated_at = NOW\(\) WHERE member_id = \$3`).
		WithArgs("https://cdn/x.jpg", "members/k/x.jpg", "ADYC-2025-ABC123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := s.repo.UpdatePhoto(context.Background(), "ADYC-2025-ABC123", "https://cdn/x.jpg", "members/k/x.jpg")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *MemberRepositorySuite) TestList() {
	now := time.Now().UTC()
	rows := sqlmock.NewRows(memberColumns)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i, id := range ids {
		rows.AddRow(id.String(), "ADYC-2025-00000"+string(rune('1'+i)), "SN-0000000"+string(rune('1'+i)), "M", "m@x.org", "Lagos", false, now.Add(-time.Duration(i)*time.Hour))
	}

	s.mock.ExpectQuery(`SELECT \* FROM members ORDER BY registered_at DESC, id DESC LIMIT 3`).
		WillReturnRows(rows)

	result, err := s.repo.List(context.Background(), QueryOptions{Limit: 2})
	s.Require().NoError(err)
	s.Len(result.Items, 2)
	s.Equal(ids[0], result.Items[0].ID)
	s.Require().NotNil(result.NextCursor)

	at, id, err := decodeCursor(*result.NextCursor)
	s.Require().NoError(err)
	s.Equal(ids[2], id)
	s.True(at.Equal(now.Add(-2 * time.Hour)))
}
