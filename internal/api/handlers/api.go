package handlers

import (
	"context"
	"net/http"

	"github.com/Jidetireni/adyc-membership/factory"
	"github.com/Jidetireni/adyc-membership/internal/config"
	"github.com/Jidetireni/adyc-membership/internal/dto"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type MemberService interface {
	Register(ctx context.Context, input dto.RegisterMemberInput) (*dto.Member, error)
	GenerateCard(ctx context.Context, memberID string) (*dto.IDCard, error)
	ReissueCard(ctx context.Context, memberID, adminEmail string) (*dto.IDCard, error)
	IssueQR(ctx context.Context, memberID string) (*dto.VerificationQR, error)
	Get(ctx context.Context, memberID string) (*dto.Member, error)
	List(ctx context.Context, opts dto.QueryOptions) (*dto.ListResponse[dto.Member], error)
	ReplacePhoto(ctx context.Context, memberID string, input dto.UpdatePhotoInput, adminEmail string) (*dto.Member, error)
	SendTestEmail(ctx context.Context, memberID string) error
}

type VerificationService interface {
	VerifyPublic(ctx context.Context, memberID, method string) (*dto.PublicMemberView, error)
	VerifyForStaff(ctx context.Context, memberID, principalEmail string) (*dto.StaffMemberView, error)
}

type UserService interface {
	Login(ctx context.Context, w http.ResponseWriter, input *dto.LoginInput) (*dto.AuthResponse, error)
}

type PostService interface {
	Get(ctx context.Context, id uuid.UUID, includeDrafts bool) (*dto.Post, error)
	List(ctx context.Context, includeDrafts bool, opts dto.QueryOptions) (*dto.ListResponse[dto.Post], error)
	Create(ctx context.Context, input dto.CreatePostInput, authorEmail string) (*dto.Post, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdatePostInput, actorEmail string) (*dto.Post, error)
	Delete(ctx context.Context, id uuid.UUID, actorEmail string) error
}

type ActivityService interface {
	List(ctx context.Context, filters dto.ActivityLogFilters, opts dto.QueryOptions) (*dto.ListResponse[dto.ActivityLog], error)
}

type Handlers struct {
	config *config.Config
	logger *logger.Logger

	members      MemberService
	verification VerificationService
	users        UserService
	posts        PostService
	activity     ActivityService

	validate *validator.Validate
	trans    ut.Translator
}

func NewHandlers(factory *factory.Factory, config *config.Config) (*Handlers, error) {
	validate, trans, err := NewValidator()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		config:       config,
		logger:       factory.Logger,
		members:      factory.Services.Member,
		verification: factory.Services.Verification,
		users:        factory.Services.User,
		posts:        factory.Services.Post,
		activity:     factory.Services.Activity,
		validate:     validate,
		trans:        trans,
	}, nil
}
