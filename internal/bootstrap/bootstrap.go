package bootstrap

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/veritasedu/veritas/internal/app/controllers"
	"github.com/veritasedu/veritas/internal/app/exam"
	appRepos "github.com/veritasedu/veritas/internal/app/repositories"
	appRoutes "github.com/veritasedu/veritas/internal/app/routes"
	appServices "github.com/veritasedu/veritas/internal/app/services"
	"github.com/veritasedu/veritas/internal/config"
	appMiddleware "github.com/veritasedu/veritas/internal/middleware"
	pkgAuth "github.com/veritasedu/veritas/internal/pkg/auth"
	"github.com/veritasedu/veritas/internal/pkg/genai"
	"github.com/veritasedu/veritas/internal/pkg/helpers"
	"github.com/veritasedu/veritas/internal/pkg/logger"
	"github.com/veritasedu/veritas/internal/seed"
	"github.com/veritasedu/veritas/internal/storage"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Arbiter     *storage.Arbiter
	LocalStore  *storage.LocalStore
	RemoteStore *storage.RemoteStore // nil in permanent local-only mode
	Repos       *appRepos.Repositories

	AuthService   appServices.AuthService
	ExamService   appServices.ExamService
	BackupService appServices.BackupService
	JWTService    *pkgAuth.JWTService

	AuthController    *appControllers.AuthController
	UserController    *appControllers.UserController
	ConfigController  *appControllers.ConfigController
	ExamController    *appControllers.ExamController
	ResultController  *appControllers.ResultController
	BackupController  *appControllers.BackupController
	StorageController *appControllers.StorageController
	AuthMiddleware    *appMiddleware.AuthMiddleware

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStorage builds the local store, the remote store and the arbiter.
// Only a local store failure is fatal: a broken remote configuration puts
// the arbiter in permanent local-only mode, and an unreachable remote is
// decided by the bounded startup probe.
func SetupStorage(cfg *config.Config, lgr zerolog.Logger) (*storage.Arbiter, *storage.LocalStore, *storage.RemoteStore, error) {
	local, err := storage.NewLocalStore(cfg.LocalStore.Path)
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.LocalStore.Path).Msg("Failed to open local store")
		return nil, nil, nil, err
	}

	var remote *storage.RemoteStore
	var remoteStore storage.EntityStore
	remote, err = storage.NewRemoteStore(cfg)
	if err != nil {
		lgr.Warn().Err(err).Msg("Remote store unavailable at construction, running local-only")
		remote = nil
	} else {
		remoteStore = remote

		// Best effort: if the database is unreachable the probe below
		// demotes anyway.
		schemaCtx, cancel := context.WithTimeout(context.Background(), cfg.ProbeTimeout())
		if schemaErr := remote.EnsureSchema(schemaCtx); schemaErr != nil {
			lgr.Warn().Err(schemaErr).Msg("Could not ensure remote schema")
		}
		cancel()
	}

	arbiter := storage.NewArbiter(context.Background(), remoteStore, local, cfg.ProbeTimeout())
	return arbiter, local, remote, nil
}

// BuildDependencies initializes repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, arbiter *storage.Arbiter, local *storage.LocalStore, remote *storage.RemoteStore, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Arbiter:     arbiter,
		LocalStore:  local,
		RemoteStore: remote,
		Logger:      lgr,
	}

	hasher := pkgAuth.NewHasher(cfg.Auth.PasswordScheme)
	deps.Repos = appRepos.NewRepositories(arbiter, hasher)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 8*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	var generator appServices.QuestionGenerator
	generator, err := genai.NewClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		lgr.Warn().Err(err).Msg("Question generator not configured, exam starts will fail")
		generator = genai.Disabled{}
	}

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService)
	deps.ExamService = appServices.NewExamService(
		deps.Repos.ConfigRepository,
		deps.Repos.ResultRepository,
		generator,
		exam.NewEngine(),
	)
	deps.BackupService = appServices.NewBackupService(deps.Repos, arbiter)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.Repos.UserRepository)
	deps.ConfigController = appControllers.NewConfigController(deps.Repos.ConfigRepository)
	deps.ExamController = appControllers.NewExamController(deps.ExamService)
	deps.ResultController = appControllers.NewResultController(deps.Repos.ResultRepository)
	deps.BackupController = appControllers.NewBackupController(deps.BackupService)
	deps.StorageController = appControllers.NewStorageController(arbiter)

	// Seed before the first login so authentication never races the
	// default-director creation.
	if err := seed.CreateDefaultData(context.Background(), deps.Repos, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	if err := appMiddleware.RegisterCustomValidators(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register custom validators")
	}

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ConfigController,
		deps.ExamController,
		deps.ResultController,
		deps.BackupController,
		deps.StorageController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
