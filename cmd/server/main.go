package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingapp "github.com/bookingops/console/internal/application/booking"
	catalogapp "github.com/bookingops/console/internal/application/catalog"
	"github.com/bookingops/console/internal/application/console"
	financeapp "github.com/bookingops/console/internal/application/finance"
	identityapp "github.com/bookingops/console/internal/application/identity"
	mediaapp "github.com/bookingops/console/internal/application/media"
	partnerapp "github.com/bookingops/console/internal/application/partner"
	promotionapp "github.com/bookingops/console/internal/application/promotion"
	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/infrastructure/auth"
	"github.com/bookingops/console/internal/infrastructure/cache"
	"github.com/bookingops/console/internal/infrastructure/config"
	"github.com/bookingops/console/internal/infrastructure/gateway"
	"github.com/bookingops/console/internal/infrastructure/logger"
	"github.com/bookingops/console/internal/infrastructure/persistence"
	"github.com/bookingops/console/internal/infrastructure/storage"
	"github.com/bookingops/console/internal/infrastructure/telemetry"
	"github.com/bookingops/console/internal/interfaces/http/handler"
	"github.com/bookingops/console/internal/interfaces/http/middleware"
	"github.com/bookingops/console/internal/interfaces/http/router"
)

//	@title			Booking Console API
//	@version		1.0
//	@description	Back-office console over the booking GraphQL API
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token, also accepted from the session cookie. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry first so the bridged logger is used everywhere else
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs exporter", zap.Error(err))
	}
	log = logsProvider.Bridge(log)
	zap.ReplaceGlobals(log)

	log.Info("Starting booking console",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("gateway", cfg.Gateway.Endpoint),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		SpanProfiles:      cfg.Telemetry.Profiling.Enabled && cfg.Telemetry.Profiling.SpanProfiles,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiling.Enabled,
		ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}

	metrics, err := telemetry.NewConsoleMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create console metrics", zap.Error(err))
	}

	// Drafts, edit sessions, lookups, sessions and the token blacklist
	stores, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to create state store", zap.Error(err))
	}

	// Activity log
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log, cfg.Log.Level),
		persistence.WithTracing(cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate activity log", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	recorder := console.NewRecorder(activityRepo)

	// Booking API
	client := gateway.NewClient(cfg.Gateway.Endpoint,
		gateway.WithLogger(log),
		gateway.WithMetrics(metrics),
		gateway.WithTimeout(cfg.Gateway.Timeout),
		gateway.WithDebug(cfg.Gateway.Debug),
	)
	categoryRepo := gateway.NewCategoryRepository(client)
	itemRepo := gateway.NewItemRepository(client)
	optionRepo := gateway.NewOptionRepository(client)
	campaignRepo := gateway.NewCampaignRepository(client)
	workerRepo := gateway.NewWorkerRepository(client)
	customerRepo := gateway.NewCustomerRepository(client)
	transactionRepo := gateway.NewTransactionRepository(client)
	jobRepo := gateway.NewJobRepository(client)

	lookups := console.NewLookups(console.LookupSources{
		Categories: categoryRepo,
		Items:      itemRepo,
		Options:    optionRepo,
		Workers:    workerRepo,
	}, stores.State, cfg.Console.LookupTTL)

	pageSize := cfg.Console.PageSize
	screens := console.NewRegistry(
		catalogapp.NewCategoryScreen(categoryRepo, lookups, pageSize),
		catalogapp.NewItemScreen(itemRepo, lookups, pageSize),
		catalogapp.NewOptionScreen(optionRepo, lookups, pageSize),
		promotionapp.NewCampaignScreen(campaignRepo, lookups, pageSize),
		partnerapp.NewWorkerScreen(workerRepo, lookups, pageSize),
		partnerapp.NewCustomerScreen(customerRepo, pageSize),
		financeapp.NewTransactionScreen(transactionRepo, pageSize),
		bookingapp.NewJobScreen(jobRepo, lookups, pageSize),
	)
	log.Info("Screens registered", zap.Strings("entities", screens.Entities()))

	// Uploads
	grants, err := grantSource(ctx, cfg, client, log)
	if err != nil {
		log.Fatal("Failed to create upload grant source", zap.Error(err))
	}
	poster := storage.NewPresignedPoster(
		storage.WithPosterLogger(log),
		storage.WithMaxSize(cfg.Storage.MaxUploadSize),
		storage.WithHTTPClient(&http.Client{Timeout: cfg.Storage.UploadTimeout}),
	)
	uploads := mediaapp.NewUploadService(grants, poster, metrics, recorder)

	// Application services
	drafts := console.NewDraftService(screens, stores.State, cfg.Console.DraftTTL,
		console.WithRecorder(recorder),
		console.WithMetrics(metrics),
		console.WithUploader(uploads),
		console.WithLookups(lookups),
	)
	editor := bookingapp.NewJobEditor(jobRepo, lookups, stores.State, cfg.Console.EditSessionTTL,
		bookingapp.WithRecorder(recorder),
		bookingapp.WithMetrics(metrics),
		bookingapp.WithUploader(uploads),
	)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(
		gateway.NewLoginGateway(client),
		cache.NewSessionStore(stores.State),
		jwtService,
		auth.NewStateTokenBlacklist(stores.State),
		recorder,
		log,
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	if err := handler.LoadTemplates(engine, cfg.HTTP.TemplatesGlob); err != nil {
		log.Fatal("Failed to load page templates", zap.Error(err))
	}

	// Middleware order:
	// 1. RequestID so every later log line and span carries it
	// 2. Recovery and request logging
	// 3. Security headers, CORS and the body limit
	// 4. Tracing, then span enrichment inside the server span
	// 5. HTTP metrics and profile labels
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.Cookie.Secure
	engine.Use(middleware.Secure(security))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanAttributes(), middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meter, log))
	engine.Use(middleware.Profiling(profiler.IsEnabled()))

	var loginLimit gin.HandlerFunc
	if cfg.HTTP.LoginRateLimit > 0 {
		loginLimit = middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateBurst))
		log.Info("Login rate limiting enabled",
			zap.Float64("per_second", cfg.HTTP.LoginRateLimit),
			zap.Int("burst", cfg.HTTP.LoginRateBurst),
		)
	}

	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if stores.Client != nil {
		checks["redis"] = func(ctx context.Context) error { return stores.Client.Ping(ctx).Err() }
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.SetupConsole(router.Handlers{
		System:   handler.NewSystemHandler(cfg.App.Name, version, checks),
		Auth:     handler.NewAuthHandler(authService, cfg.Cookie),
		Screens:  handler.NewScreenHandler(screens, drafts, cfg.Console.GetAll),
		Drafts:   handler.NewDraftHandler(drafts),
		Jobs:     handler.NewJobHandler(editor),
		Uploads:  handler.NewUploadHandler(uploads),
		Activity: handler.NewActivityHandler(activityRepo),
		Pages:    handler.NewPageHandler(screens, authService, cfg.Cookie, cfg.Console.GetAll),
	}, router.Guards{
		Session:     middleware.RequireSession(authService, cfg.Cookie.Name),
		PageSession: middleware.RequirePageSession(authService, cfg.Cookie.Name, "/login"),
		LoginLimit:  loginLimit,
	})
	for _, route := range r.Routes() {
		log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := stores.Close(); err != nil {
		log.Error("Error closing state store", zap.Error(err))
	}
	_ = profiler.Stop()
	_ = meterProvider.Shutdown(shutdownCtx)
	_ = tracerProvider.Shutdown(shutdownCtx)
	_ = logsProvider.Shutdown(shutdownCtx)

	log.Info("Server exited gracefully")
}

// grantSource picks where upload grants come from: the booking API, or
// local S3 credentials presigning the POST directly
func grantSource(ctx context.Context, cfg *config.Config, client *gateway.Client, log *zap.Logger) (media.GrantSource, error) {
	if cfg.Storage.GrantSource != "s3" {
		return gateway.NewGrantSource(client), nil
	}
	s3, err := storage.NewS3GrantSource(ctx, &cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Upload bucket check failed", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	}
	log.Info("Presigning uploads locally", zap.String("bucket", cfg.Storage.Bucket))
	return s3, nil
}
