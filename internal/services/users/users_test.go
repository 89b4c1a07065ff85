package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jidetireni/adyc-membership/internal/config"
	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	svc "github.com/Jidetireni/adyc-membership/internal/services"
	"github.com/Jidetireni/adyc-membership/internal/services/activity"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/Jidetireni/adyc-membership/pkg/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	users   map[string]*repository.User
	touched []uuid.UUID
}

func (f *fakeUsers) Get(_ context.Context, filter repository.UserRepositoryFilter) (*repository.User, error) {
	u, ok := f.users[*filter.Email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Exists(_ context.Context, filter repository.UserRepositoryFilter) (bool, error) {
	_, ok := f.users[*filter.Email]
	return ok, nil
}

func (f *fakeUsers) Create(_ context.Context, user *repository.User) (*repository.User, error) {
	user.ID = uuid.New()
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	f.touched = append(f.touched, id)
	return nil
}

type recorder struct {
	entries []activity.Entry
}

func (r *recorder) Record(_ context.Context, e activity.Entry) {
	r.entries = append(r.entries, e)
}

type UserSuite struct {
	suite.Suite
	repo     *fakeUsers
	recorder *recorder
	jwt      *token.Jwt
	service  *User
}

func (s *UserSuite) SetupTest() {
	s.repo = &fakeUsers{users: map[string]*repository.User{}}
	s.recorder = &recorder{}
	s.jwt = token.NewJwt("secret")
	s.service = New(&config.Config{}, s.jwt, s.repo, s.recorder, logger.Nop())

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.repo.users["admin@adyc.org"] = &repository.User{
		ID:           uuid.New(),
		Email:        "admin@adyc.org",
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
	}
}

func TestUserSuite(t *testing.T) {
	suite.Run(t, new(UserSuite))
}

func (s *UserSuite) TestLogin() {
	rec := httptest.NewRecorder()
	res, err := s.service.Login(context.Background(), rec, &dto.LoginInput{Email: "Admin@ADYC.org", Password: "correct horse"})
	s.Require().NoError(err)

	s.Equal("Bearer", res.TokenType)
	s.Equal(constants.RoleAdmin, res.User.Role)
	s.Equal(int64(token.AccessTokenExpirationTime.Seconds()), res.ExpiresIn)

	claims, err := s.jwt.ValidateToken(res.AccessToken)
	s.Require().NoError(err)
	s.Equal("admin@adyc.org", claims.Email)

	s.Len(s.repo.touched, 1)
	s.Require().Len(s.recorder.entries, 1)
	s.Equal(constants.ActivityAdminLogin, s.recorder.entries[0].Action)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(AccessTokenCookieName, cookies[0].Name)
	s.True(cookies[0].HttpOnly)
}

func (s *UserSuite) TestLoginRejectsBadCredentials() {
	for _, input := range []dto.LoginInput{
		{Email: "admin@adyc.org", Password: "wrong"},
		{Email: "nobody@adyc.org", Password: "correct horse"},
	} {
		_, err := s.service.Login(context.Background(), nil, &input)
		var apiErr *svc.APIError
		s.Require().ErrorAs(err, &apiErr)
		s.Equal(http.StatusUnauthorized, apiErr.Status)
		s.Equal("invalid email or password", apiErr.Message)
	}
	s.Empty(s.recorder.entries)
}

func (s *UserSuite) TestEnsureAdmin() {
	created, err := s.service.EnsureAdmin(context.Background(), "root@adyc.org", "long-enough")
	s.Require().NoError(err)
	s.True(created)
	s.Equal(constants.RoleAdmin, s.repo.users["root@adyc.org"].Role)

	created, err = s.service.EnsureAdmin(context.Background(), "root@adyc.org", "different-pass")
	s.Require().NoError(err)
	s.False(created)

	_, err = s.service.EnsureAdmin(context.Background(), "x@adyc.org", "short")
	s.Error(err)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc")
	if got := TokenFromRequest(r); got != "abc" {
		t.Fatalf("header token = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "def"})
	if got := TokenFromRequest(r); got != "def" {
		t.Fatalf("cookie token = %q", got)
	}
}
