package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/universe/internal/app/controllers"
	appMigrations "github.com/yigit/universe/internal/app/migrations"
	appRepos "github.com/yigit/universe/internal/app/repositories"
	appRoutes "github.com/yigit/universe/internal/app/routes"
	appServices "github.com/yigit/universe/internal/app/services"
	"github.com/yigit/universe/internal/config"
	"github.com/yigit/universe/internal/db"
	appMiddleware "github.com/yigit/universe/internal/middleware"
	"github.com/yigit/universe/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/universe/internal/pkg/auth"
	"github.com/yigit/universe/internal/pkg/email"
	"github.com/yigit/universe/internal/pkg/helpers"
	"github.com/yigit/universe/internal/pkg/logger"
	"github.com/yigit/universe/internal/pkg/workbook"
	"github.com/yigit/universe/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Workbook       workbook.Workbook
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	JWTService     *pkgAuth.JWTService
	EmailService   email.EmailService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})

	lgr := log.Logger
	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SheetNames maps the configured worksheet titles onto the logical worksheets
func SheetNames(cfg *config.Config) workbook.SheetNames {
	w := cfg.Worksheets
	return workbook.SheetNames{
		Courses:       w.Courses,
		Materials:     w.Materials,
		Opportunities: w.Opportunities,
		Jobs:          w.Jobs,
		Events:        w.Events,
		Timetable:     w.Timetable,
		Users:         w.Users,
		Comments:      w.Comments,
	}
}

// NewGoogleWorkbook builds the Google Sheets client from configuration
func NewGoogleWorkbook(cfg *config.Config, lgr zerolog.Logger) *workbook.Google {
	return workbook.NewGoogle(workbook.GoogleConfig{
		SpreadsheetID:   cfg.Google.SheetID,
		CredentialsFile: cfg.Google.CredentialsFile,
		Retry: helpers.RetryConfig{
			MaxAttempts: cfg.Google.RetryAttempts,
			BaseDelay:   cfg.RetryDelay(),
			Logger:      lgr,
		},
	}, lgr)
}

// SetupWorkbook opens the configured backing store. The returned function releases it.
func SetupWorkbook(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (workbook.Workbook, func(), error) {
	names := SheetNames(cfg)
	noop := func() {}

	switch cfg.Storage.Driver {
	case config.DriverSheets:
		sample, err := workbook.NewSampleMemory(names)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load sample data: %w", err)
		}
		if cfg.Google.SheetID == "" {
			lgr.Warn().Msg("GOOGLE_SHEET_ID not set, serving sample data")
		}
		return workbook.NewFallback(NewGoogleWorkbook(cfg, lgr), sample, lgr), noop, nil

	case config.DriverPostgres:
		pool, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return nil, nil, err
		}
		store := workbook.NewPostgres(pool)
		if cfg.Storage.Seed {
			if err := seed.CreateDefaultData(ctx, store, names, lgr); err != nil {
				lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
			}
		}
		return store, pool.Close, nil

	case config.DriverSQLite:
		store, err := workbook.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		lgr.Info().Str("path", cfg.Storage.SQLitePath).Msg("SQLite store opened")
		if cfg.Storage.Seed {
			if err := seed.CreateDefaultData(ctx, store, names, lgr); err != nil {
				lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
			}
		}
		return store, func() { _ = store.Close() }, nil

	case config.DriverMemory:
		sample, err := workbook.NewSampleMemory(names)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load sample data: %w", err)
		}
		return sample, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(pingCtx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateUp(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// NewEmailService builds the notifier from the SMTP settings
func NewEmailService(cfg *config.Config, lgr zerolog.Logger) email.EmailService {
	fromName, fromEmail := cfg.App.SiteName, cfg.SMTP.From
	if addr, err := mail.ParseAddress(cfg.SMTP.From); err == nil {
		fromEmail = addr.Address
		if addr.Name != "" {
			fromName = addr.Name
		}
	}

	return email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  fromName,
		FromEmail: fromEmail,
	}, lgr)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, wb workbook.Workbook, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Workbook: wb, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(wb, SheetNames(cfg))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.App.SecretKey,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.EmailService = NewEmailService(cfg, lgr)

	deps.Services = appServices.NewServices(deps.Repos, appServices.Options{
		VerificationEmail: cfg.App.VerificationEmail,
		JWTService:        deps.JWTService,
		EmailService:      deps.EmailService,
		Logger:            lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Site: appControllers.NewSiteController(appControllers.SiteInfo{
			SiteName:          cfg.App.SiteName,
			GAMeasurementID:   cfg.App.GAMeasurementID,
			AddMaterialURL:    cfg.App.AddMaterialURL,
			AddOpportunityURL: cfg.App.AddOpportunityURL,
		}, wb),
		Course:      appControllers.NewCourseController(svc.CourseService),
		Material:    appControllers.NewMaterialController(svc.MaterialService, lgr),
		Opportunity: appControllers.NewOpportunityController(svc.OpportunityService),
		Timetable:   appControllers.NewTimetableController(svc.TimetableService),
		Auth:        appControllers.NewAuthController(svc.AuthService, appControllers.CookieConfig{Secure: cfg.JWT.CookieSecure}, lgr),
		Profile:     appControllers.NewProfileController(svc.UserService, svc.AuthService),
		Comment:     appControllers.NewCommentController(svc.CommentService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.App.Env == config.EnvTesting:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	if err := appControllers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.NoRoute(func(c *gin.Context) {
		appMiddleware.HandleAPIError(c, apperrors.NewResourceNotFoundError("route not found"))
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
