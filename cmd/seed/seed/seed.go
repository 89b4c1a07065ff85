package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Jidetireni/adyc-membership/factory"
	"github.com/Jidetireni/adyc-membership/internal/config"
	"github.com/Jidetireni/adyc-membership/internal/helpers"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	"github.com/Jidetireni/adyc-membership/internal/services/identifiers"
	"github.com/Jidetireni/adyc-membership/internal/services/users"
	"github.com/Jidetireni/adyc-membership/pkg/database"
	"github.com/Jidetireni/adyc-membership/pkg/logger"
)

type Seed struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Logger     *logger.Logger
	MemberRepo *repository.MemberRepository
	Users      *users.User
	Allocator  *identifiers.Allocator
}

func NewSeeder(cfg *config.Config) (*Seed, func(), error) {
	if !cfg.IsDev {
		return nil, nil, fmt.Errorf("seeding is only allowed in development environment")
	}

	log := logger.New(cfg)
	factory, cleanup, err := factory.New(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize factory: %w", err)
	}

	return &Seed{
		Config:     cfg,
		DB:         factory.DB,
		Logger:     log,
		MemberRepo: factory.Repositories.Member,
		Users:      factory.Services.User,
		Allocator:  identifiers.NewAllocator(helpers.CryptoTokenSource{}),
	}, cleanup, nil
}

func (s *Seed) ResetDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.Logger.Info().Msg("resetting database")
	_, err := s.DB.DB.ExecContext(ctx, `
		TRUNCATE TABLE
			activity_logs,
			posts,
			members,
			users
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		s.Logger.Fatal().Err(err).Msg("failed to reset database")
	}

	s.Logger.Info().Msg("database reset completed")
}

func (s *Seed) CreateRootUser() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := s.Users.EnsureAdmin(ctx, s.Config.Server.RootUserEmail, s.Config.Server.RootUserPassword)
	if err != nil {
		s.Logger.Fatal().Err(err).Msg("failed to create root user")
	}

	s.Logger.Info().Bool("created", created).Str("email", s.Config.Server.RootUserEmail).Msg("root user ready")
}
