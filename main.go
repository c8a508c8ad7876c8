package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Amund211/gamelens/internal/adapters/cache"
	"github.com/Amund211/gamelens/internal/adapters/database"
	"github.com/Amund211/gamelens/internal/adapters/libraryrepository"
	"github.com/Amund211/gamelens/internal/adapters/userrepository"
	"github.com/Amund211/gamelens/internal/app"
	"github.com/Amund211/gamelens/internal/config"
	"github.com/Amund211/gamelens/internal/domain"
	"github.com/Amund211/gamelens/internal/logging"
	"github.com/Amund211/gamelens/internal/ports"
	"github.com/Amund211/gamelens/internal/reporting"
	"github.com/Amund211/gamelens/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "gamelens.app"
const STAGING_DOMAIN_SUFFIX = "gamelens-web.pages.dev"

func main() {
	ctx := context.Background()

	config, err := config.ConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load config", "error", err.Error())
		os.Exit(1)
	}

	instanceID := uuid.New().String()
	logger := slog.New(
		logging.NewCloudLoggingHandler(os.Stdout, config.LogLevel(), config.GCPProjectID()),
	).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	logger.Info("Loaded config", "config", config.NonSensitiveString())

	shutdownOTel, err := telemetry.SetupOTelSDK(ctx, telemetry.Service{Name: "gamelens", InstanceID: instanceID})
	if err != nil {
		fail("Failed to initialize OpenTelemetry", "error", err.Error())
	}
	defer func() {
		err := shutdownOTel(context.Background())
		if err != nil {
			logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
		}
	}()
	logger.Info("Initialized OpenTelemetry")

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	var libraryRepo libraryrepository.LibraryRepository
	var userRepo userrepository.UserRepository

	logger.Info("Initializing database connection")
	db, err := database.NewCloudsqlPostgresDatabase(config)
	if err == nil {
		repositorySchemaName := database.GetSchemaName(!config.IsProduction())

		err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, repositorySchemaName)
		if err != nil {
			fail("Failed to migrate database", "error", err.Error())
		}

		libraryRepo = libraryrepository.NewPostgres(db, repositorySchemaName)
		userRepo = userrepository.NewPostgres(db, repositorySchemaName, time.Now)
		logger.Info("Initialized repositories", "schema", repositorySchemaName)
	} else if config.IsDevelopment() {
		logger.Warn("Database unavailable, using in-memory repositories", "error", err.Error())
		libraryRepo = libraryrepository.NewStub()
		userRepo = userrepository.NewStub(time.Now)
	} else {
		fail("Failed to initialize database", "error", err.Error())
	}

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	libraryCache := cache.NewTTLCache[domain.Library](config.LibraryCacheTTL())

	getLibrary := app.BuildGetLibrary(libraryCache, libraryRepo, time.Now)
	getActivity := app.BuildGetActivity(libraryRepo, time.Now)
	registerUserVisit := app.BuildRegisterUserVisit(userRepo)

	registerLibraryVisit := ports.BuildRegisterUserVisitMiddleware(registerUserVisit, domain.VisitKindLibrary)
	registerActivityVisit := ports.BuildRegisterUserVisitMiddleware(registerUserVisit, domain.VisitKindActivity)

	mux := http.NewServeMux()

	mux.HandleFunc(
		"OPTIONS /v1/library",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"POST /v1/library",
		registerLibraryVisit(
			ports.MakeGetLibraryHandler(
				getLibrary,
				allowedOrigins,
				logger.With("port", "library"),
				sentryMiddleware,
			),
		),
	)

	mux.HandleFunc(
		"OPTIONS /v1/activity",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"POST /v1/activity",
		registerActivityVisit(
			ports.MakeGetActivityHandler(
				getActivity,
				allowedOrigins,
				logger.With("port", "activity"),
				sentryMiddleware,
			),
		),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port()),
		Handler:           otelhttp.NewHandler(mux, "gamelens"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Init complete", "addr", server.Addr)
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
