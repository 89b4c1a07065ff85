package factory

import (
	"github.com/Jidetireni/adyc-membership/internal/config"
	"github.com/Jidetireni/adyc-membership/internal/helpers"
	"github.com/Jidetireni/adyc-membership/internal/middleware"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	"github.com/Jidetireni/adyc-membership/internal/services/activity"
	"github.com/Jidetireni/adyc-membership/internal/services/card"
	"github.com/Jidetireni/adyc-membership/internal/services/identifiers"
	"github.com/Jidetireni/adyc-membership/internal/services/members"
	"github.com/Jidetireni/adyc-membership/internal/services/notifications"
	"github.com/Jidetireni/adyc-membership/internal/services/posts"
	"github.com/Jidetireni/adyc-membership/internal/services/qr"
	"github.com/Jidetireni/adyc-membership/internal/services/users"
	"github.com/Jidetireni/adyc-membership/internal/services/verification"
	"github.com/Jidetireni/adyc-membership/pkg/cache"
	"github.com/Jidetireni/adyc-membership/pkg/database"
	emailpkg "github.com/Jidetireni/adyc-membership/pkg/email"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
	"github.com/Jidetireni/adyc-membership/pkg/metrics"
	"github.com/Jidetireni/adyc-membership/pkg/storage"
	"github.com/Jidetireni/adyc-membership/pkg/token"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type Repositories struct {
	Member      *repository.MemberRepository
	User        *repository.UserRepository
	ActivityLog *repository.ActivityLogRepository
	Post        *repository.PostRepository
}

type Services struct {
	Member        *members.Member
	User          *users.User
	Verification  *verification.Verification
	Post          *posts.Post
	Activity      *activity.Log
	Notifications *notifications.Dispatcher
}

type Factory struct {
	DB           *database.PostgresDB
	Cache        *cache.Redis
	JWTToken     *token.Jwt
	Email        *emailpkg.Email
	Photos       *storage.PhotoStore
	Metrics      *metrics.Metrics
	Logger       *logger.Logger
	Router       *chi.Mux
	Services     *Services
	Repositories *Repositories
	Middleware   *middleware.Middleware
}

func New(cfg *config.Config, log *logger.Logger) (*Factory, func(), error) {
	db, dbCleanup, err := database.New(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}

	redis, redisCleanup := cache.New(cfg, log)

	email, err := emailpkg.New(cfg, log)
	if err != nil {
		redisCleanup()
		dbCleanup()
		return nil, nil, err
	}

	jwtToken := token.NewJwt(cfg.Auth.JWTSecret)
	photos := storage.NewPhotoStore(cfg.Storage)
	m := metrics.New(prometheus.DefaultRegisterer)

	memberRepo := repository.NewMemberRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	activityRepo := repository.NewActivityLogRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)

	activityLog := activity.New(activityRepo, log)
	renderer := card.NewRenderer()
	qrIssuer := qr.NewIssuer(cfg.Server.PublicBaseURL)

	dispatcher := notifications.New(email, renderer, qrIssuer, cfg.Email.AdminAddress, log, m)

	membersService := members.New(
		memberRepo,
		photos,
		identifiers.NewAllocator(helpers.CryptoTokenSource{}),
		renderer,
		dispatcher,
		qrIssuer,
		activityLog,
		log,
		m,
	)

	verificationService := verification.New(memberRepo, activityLog, m)
	usersService := users.New(cfg, jwtToken, userRepo, activityLog, log)
	postsService := posts.New(postRepo, redis, activityLog, log)

	return &Factory{
			DB:       db,
			Cache:    redis,
			JWTToken: jwtToken,
			Email:    email,
			Photos:   photos,
			Metrics:  m,
			Logger:   log,
			Router:   chi.NewRouter(),
			Services: &Services{
				Member:        membersService,
				User:          usersService,
				Verification:  verificationService,
				Post:          postsService,
				Activity:      activityLog,
				Notifications: dispatcher,
			},
			Repositories: &Repositories{
				Member:      memberRepo,
				User:        userRepo,
				ActivityLog: activityRepo,
				Post:        postRepo,
			},
			Middleware: middleware.New(jwtToken, log),
		}, func() {
			// drain detached notification sends first
			dispatcher.Wait()
			redisCleanup()
			dbCleanup()
		}, nil
}
