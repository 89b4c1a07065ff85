package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Jidetireni/adyc-membership/internal/config"
	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/Jidetireni/adyc-membership/internal/helpers"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	svc "github.com/Jidetireni/adyc-membership/internal/services"
	"github.com/Jidetireni/adyc-membership/internal/services/activity"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/Jidetireni/adyc-membership/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	_ UserRepository   = (*repository.UserRepository)(nil)
	_ TokenService     = (*token.Jwt)(nil)
	_ ActivityRecorder = (*activity.Log)(nil)
)

type UserRepository interface {
	Get(ctx context.Context, filter repository.UserRepositoryFilter) (*repository.User, error)
	Exists(ctx context.Context, filter repository.UserRepositoryFilter) (bool, error)
	Create(ctx context.Context, user *repository.User) (*repository.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type TokenService interface {
	CreateToken(params *token.CreateTokenParams) (string, *token.UserClaims, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry)
}

type User struct {
	Config       *config.Config
	TokenService TokenService
	UserRepo     UserRepository
	Activity     ActivityRecorder
	Logger       *logger.Logger
}

func New(cfg *config.Config, tokenService TokenService, userRepo UserRepository, recorder ActivityRecorder, log *logger.Logger) *User {
	return &User{
		Config:       cfg,
		TokenService: tokenService,
		UserRepo:     userRepo,
		Activity:     recorder,
		Logger:       log,
	}
}

var errInvalidCredentials = &svc.APIError{
	Status:  http.StatusUnauthorized,
	Message: "invalid email or password",
}

// Login handles admin authentication and token generation.
func (u *User) Login(ctx context.Context, w http.ResponseWriter, input *dto.LoginInput) (*dto.AuthResponse, error) {
	email := helpers.NormalizeEmail(input.Email)

	user, err := u.UserRepo.Get(ctx, repository.UserRepositoryFilter{
		Email: &email,
	})
	if err != nil {
		// Use a generic error message to prevent leaking information about whether a user exists.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	accessToken, claims, err := u.TokenService.CreateToken(&token.CreateTokenParams{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return nil, err
	}

	if err := u.UserRepo.TouchLastLogin(ctx, user.ID); err != nil {
		u.Logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record last login")
	}

	u.Activity.Record(ctx, activity.Entry{
		ActorEmail:   user.Email,
		Action:       constants.ActivityAdminLogin,
		ResourceType: constants.ResourceUser,
		ResourceID:   user.ID.String(),
	})

	if w != nil {
		u.SetJWTCookie(w, accessToken, claims.ExpiresAt.Time)
	}

	return &dto.AuthResponse{
		User: &dto.AuthUser{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
		AccessToken: accessToken,
		TokenType:   token.TokenTypeBearer,
		ExpiresIn:   int64(claims.ExpiresAt.Sub(claims.IssuedAt.Time).Seconds()),
	}, nil
}

// EnsureAdmin creates the admin account when it does not exist yet. It never
// changes an existing password.
func (u *User) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = helpers.NormalizeEmail(email)
	if email == "" || len(password) < 8 {
		return false, fmt.Errorf("admin email and a password of at least 8 characters are required")
	}

	exists, err := u.UserRepo.Exists(ctx, repository.UserRepositoryFilter{
		Email: &email,
	})
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	_, err = u.UserRepo.Create(ctx, &repository.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         constants.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
