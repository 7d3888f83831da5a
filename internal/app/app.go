package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hartetoti/backend/internal/auth"
	"github.com/hartetoti/backend/internal/config"
	"github.com/hartetoti/backend/internal/db"
	"github.com/hartetoti/backend/internal/repository"
	"github.com/hartetoti/backend/internal/service"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	AuthService        *service.AuthService
	EmailService       *service.EmailService
	GameSessionService *service.GameSessionService
	QuestionService    *service.QuestionService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewWithDB(cfg, database), nil
}

// NewWithDB wires the services around an open, migrated database.
func NewWithDB(cfg *config.Config, database *sqlx.DB) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	gameSessionRepository := repository.NewGameSessionRepository(database)
	questionRepository := repository.NewQuestionRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
		cfg.TokenEmailVerifyExpiry,
		cfg.TokenPasswordResetExpiry,
	)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewSessionIssuer(cfg.JWTSecret, cfg.JWTExpiry, nil),
		auth.NewSecretCodec(cfg.TokenEmailVerifyExpiry, nil),
		auth.NewSecretCodec(cfg.TokenPasswordResetExpiry, nil),
	)
	gameSessionService := service.NewGameSessionService(gameSessionRepository, questionRepository, nil)
	questionService := service.NewQuestionService(questionRepository)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		AuthService:        authService,
		EmailService:       emailService,
		GameSessionService: gameSessionService,
		QuestionService:    questionService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
