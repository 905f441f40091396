package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hookforge/hookforge/config"
	"github.com/hookforge/hookforge/internal/database"
	"github.com/hookforge/hookforge/internal/domain"
	httpHandler "github.com/hookforge/hookforge/internal/http"
	"github.com/hookforge/hookforge/internal/http/middleware"
	"github.com/hookforge/hookforge/internal/migrations"
	"github.com/hookforge/hookforge/internal/repository"
	"github.com/hookforge/hookforge/internal/service"
	"github.com/hookforge/hookforge/internal/service/autofix"
	"github.com/hookforge/hookforge/internal/service/queue"
	"github.com/hookforge/hookforge/pkg/apperror"
	"github.com/hookforge/hookforge/pkg/logger"
	"github.com/hookforge/hookforge/pkg/tracing"

	"contrib.go.opencensus.io/integrations/ocsql"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB

	// Repository getters for testing
	GetWebhookRepository() domain.WebhookRepository
	GetQueueJobRepository() domain.QueueJobRepository
	GetDeliveryLogRepository() domain.DeliveryLogRepository

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitTracing() error
	InitDB() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config     *config.Config
	logger     logger.Logger
	db         *sql.DB
	sessionBus domain.SessionBus

	// Repositories
	webhookRepo     domain.WebhookRepository
	queueJobRepo    domain.QueueJobRepository
	deliveryLogRepo domain.DeliveryLogRepository

	// Services
	deliveryClient domain.DeliveryClient
	notifier       *service.WorkflowNotifier
	queueManager   *queue.Manager
	eventRouter    *service.EventRouter
	webhookService *service.WebhookServiceImpl

	// Error auto-fix pipeline, wired only when a fixer is supplied
	fixer   autofix.Fixer
	autofix *autofix.Pipeline

	// HTTP handlers
	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithFixer installs an error auto-fix strategy. Without one the pipeline is
// not created and classified errors go straight to the notifier.
func WithFixer(fixer autofix.Fixer) AppOption {
	return func(a *App) {
		a.fixer = fixer
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing
func (a *App) InitTracing() error {
	tracingConfig := &a.config.Tracing

	if err := tracing.InitTracing(tracingConfig); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if tracingConfig.Enabled {
		exporter := tracingConfig.TraceExporter
		if exporter == "" {
			exporter = "jaeger"
		}

		a.logger.WithField("trace_exporter", exporter).
			WithField("sampling_rate", tracingConfig.SamplingProbability).
			Info("Tracing initialized successfully")
	}

	return nil
}

// InitDB initializes the database connection
func (a *App) InitDB() error {
	// Skip if a database was already injected (e.g. by WithMockDB)
	if a.db != nil {
		return nil
	}

	a.logger.WithField("host", a.config.Database.Host).
		WithField("port", a.config.Database.Port).
		WithField("dbname", a.config.Database.DBName).
		WithField("sslmode", a.config.Database.SSLMode).
		Info("Connecting to database")

	if err := database.EnsureSystemDatabaseExists(database.GetPostgresDSN(&a.config.Database), a.config.Database.DBName); err != nil {
		a.logger.Error(err.Error())
		return fmt.Errorf("failed to ensure system database exists: %w", err)
	}

	// If tracing is enabled, wrap the postgres driver
	driverName := "postgres"
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	db, err := sql.Open(driverName, database.GetSystemDSN(&a.config.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to system database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping system database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	// Run migrations separately
	migrationManager := migrations.NewManager(a.logger)
	if err := migrationManager.RunMigrations(context.Background(), a.config, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	maxOpen, maxIdle, maxLifetime := database.GetConnectionPoolSettings()
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	a.db = db
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.webhookRepo = repository.NewWebhookRepository(a.db, a.config.Security.SecretKey)
	a.queueJobRepo = repository.NewQueueJobRepository(a.db)
	a.deliveryLogRepo = repository.NewDeliveryLogRepository(a.db)

	return nil
}

// InitServices initializes all application services
func (a *App) InitServices() error {
	// Session bus and notifier first; everything downstream publishes to them
	a.sessionBus = domain.NewInMemorySessionBus()
	a.notifier = service.NewWorkflowNotifier(a.sessionBus)

	// No client-level timeout: the delivery client deadlines each attempt
	// from the webhook's own configuration
	httpClient := &http.Client{}
	if a.config.Tracing.Enabled {
		httpClient = tracing.WrapHTTPClient(httpClient)
		a.logger.Info("HTTP client wrapped with OpenCensus tracing")
	}

	a.deliveryClient = service.NewDeliveryClient(
		httpClient,
		a.logger,
		a.config.Webhook.DefaultTimeout(),
		a.config.Webhook.ResponseBodyCapBytes,
	)

	queueConfig := queue.DefaultConfig()
	queueConfig.DefaultTimeout = a.config.Webhook.DefaultTimeout()
	queueConfig.RetryDelaysMs = a.config.Webhook.RetryDelaysMs
	queueConfig.JobRetention = a.config.Webhook.JobRetention()
	queueConfig.LogRetention = a.config.Webhook.LogRetention()

	a.queueManager = queue.NewManager(
		a.queueJobRepo,
		a.webhookRepo,
		a.deliveryLogRepo,
		a.deliveryClient,
		a.notifier,
		a.logger,
		queueConfig,
	)

	a.eventRouter = service.NewEventRouter(
		a.webhookRepo,
		a.queueManager,
		a.notifier,
		a.logger,
		a.config.Webhook.PayloadSizeCapBytes,
	)

	a.webhookService = service.NewWebhookService(
		a.webhookRepo,
		a.deliveryLogRepo,
		a.queueManager,
		a.eventRouter,
		a.logger,
		a.config.Webhook.MaxRetries,
	)

	// Platform code emits through the package-level default
	service.SetDefaultEmitter(a.eventRouter)

	if a.fixer != nil {
		autofixConfig := autofix.DefaultConfig()
		autofixConfig.DedupTTL = a.config.Webhook.DedupWindow()
		a.autofix = autofix.NewPipeline(a.fixer, a.onUnfixableError, a.logger, autofixConfig)
	}

	return nil
}

// onUnfixableError surfaces errors the pipeline gave up on as app.error
// events, so the owner's subscriptions hear about them
func (a *App) onUnfixableError(ctx context.Context, ownerID string, cerr *apperror.ClassifiedError) {
	payload := map[string]interface{}{
		"error":    cerr.Original,
		"kind":     string(cerr.Kind),
		"severity": string(cerr.Severity),
		"strategy": string(cerr.Strategy),
	}
	if err := service.Emit(ctx, ownerID, domain.EventAppError, payload); err != nil {
		a.logger.WithField("owner_id", ownerID).
			WithField("error", err.Error()).
			Error("Failed to emit app.error event")
	}
}

// InitHandlers initializes all HTTP handlers and routes
func (a *App) InitHandlers() error {
	// Create a new ServeMux to avoid route conflicts on restart
	a.mux = http.NewServeMux()

	getJWTSecret := func() ([]byte, error) {
		if a.config.Security.JWTSecret == "" {
			return nil, fmt.Errorf("JWT secret is not configured")
		}
		return []byte(a.config.Security.JWTSecret), nil
	}

	webhookHandler := httpHandler.NewWebhookHandler(a.webhookService, getJWTSecret, a.logger)
	eventHandler := httpHandler.NewEventHandler(a.eventRouter, getJWTSecret, a.logger)
	workflowHandler := httpHandler.NewWorkflowHandler(a.queueManager, a.queueJobRepo, a.webhookService, getJWTSecret, a.logger)

	webhookHandler.RegisterRoutes(a.mux)
	eventHandler.RegisterRoutes(a.mux)
	workflowHandler.RegisterRoutes(a.mux)

	return nil
}

// Start starts the queue manager and the HTTP server
func (a *App) Start() error {
	if err := a.queueManager.Start(a.shutdownCtx); err != nil {
		return fmt.Errorf("failed to start queue manager: %w", err)
	}
	a.logger.Info("Queue manager started")

	if a.autofix != nil {
		if err := a.autofix.Start(a.shutdownCtx); err != nil {
			return fmt.Errorf("failed to start autofix pipeline: %w", err)
		}
		a.logger.Info("Autofix pipeline started")
	}

	var handler http.Handler = a.mux

	// Graceful shutdown middleware first (outermost)
	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
		a.logger.Info("OpenCensus tracing middleware enabled")
	}

	handler = middleware.CORSMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info(fmt.Sprintf("Server starting on %s", addr))

	// Create a fresh notification channel and update the server
	a.serverMu.Lock()
	if a.serverStarted != nil {
		close(a.serverStarted)
	}
	a.serverStarted = make(chan struct{})

	a.server = &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	if a.config.Server.SSL.Enabled {
		a.logger.WithField("cert_file", a.config.Server.SSL.CertFile).Info("SSL enabled")
		return a.server.ListenAndServeTLS(a.config.Server.SSL.CertFile, a.config.Server.SSL.KeyFile)
	}

	return a.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and the queue
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	// Signal shutdown to all components
	a.shutdownCancel()

	// Stop accepting work before draining: the queue finishes in-flight
	// deliveries, the pipeline abandons queued fixes
	if a.queueManager != nil {
		a.queueManager.Stop()
	}
	if a.autofix != nil {
		a.autofix.Abort()
		a.logger.Info("Autofix pipeline aborted")
	}
	service.ResetDefaultEmitter()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources()
	}

	activeCount := a.getActiveRequestCount()
	a.logger.WithField("active_requests", activeCount).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining - time.Second
			if shutdownTimeout < 0 {
				shutdownTimeout = 0
			}
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	serverShutdownDone := make(chan error, 1)
	go func() {
		serverShutdownDone <- server.Shutdown(shutdownCtx)
	}()

	requestsDone := make(chan struct{})
	go func() {
		defer close(requestsDone)
		a.requestWg.Wait()
	}()

	var shutdownErr error
	select {
	case err := <-serverShutdownDone:
		shutdownErr = err
		a.logger.Info("HTTP server shutdown completed")
	case <-shutdownCtx.Done():
		a.logger.Warn("Shutdown timeout reached")
		shutdownErr = fmt.Errorf("shutdown timeout exceeded")
	}

	if shutdownErr == nil {
		select {
		case <-requestsDone:
		case <-time.After(2 * time.Second):
			if activeCount := a.getActiveRequestCount(); activeCount > 0 {
				a.logger.WithField("active_requests", activeCount).Warn("Some requests still active, proceeding with shutdown")
			}
		}
	}

	if cleanupErr := a.cleanupResources(); cleanupErr != nil {
		a.logger.WithField("error", cleanupErr).Error("Error during resource cleanup")
		if shutdownErr == nil {
			shutdownErr = cleanupErr
		}
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}

	return shutdownErr
}

// cleanupResources closes the database and other held resources
func (a *App) cleanupResources() error {
	if a.db != nil {
		if a.config.Tracing.Enabled {
			if err := ocsql.RecordStats(a.db, 5*time.Second); err != nil {
				a.logger.WithField("error", err).Error("Failed to record final database stats for tracing")
			}
		}

		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err).Error("Error closing database connection")
			return err
		}
	}

	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created and initialized.
// Returns true if the server started successfully, false if context expired
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	if started == nil {
		a.logger.Error("serverStarted channel is nil - server initialization error")
		<-ctx.Done()
		return false
	}

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting Hookforge")

	if err := a.InitTracing(); err != nil {
		return err
	}

	if err := a.InitDB(); err != nil {
		return err
	}

	if err := a.InitRepositories(); err != nil {
		return err
	}

	if err := a.InitServices(); err != nil {
		return err
	}

	if err := a.InitHandlers(); err != nil {
		return err
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

// GetConfig returns the app's configuration
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetLogger returns the app's logger
func (a *App) GetLogger() logger.Logger {
	return a.logger
}

// GetMux returns the app's HTTP multiplexer
func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

// GetDB returns the app's database connection
func (a *App) GetDB() *sql.DB {
	return a.db
}

// Repository getters for testing
func (a *App) GetWebhookRepository() domain.WebhookRepository {
	return a.webhookRepo
}

func (a *App) GetQueueJobRepository() domain.QueueJobRepository {
	return a.queueJobRepo
}

func (a *App) GetDeliveryLogRepository() domain.DeliveryLogRepository {
	return a.deliveryLogRepo
}

// incrementActiveRequests atomically increments the active request counter
func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

// decrementActiveRequests atomically decrements the active request counter
func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

// getActiveRequestCount returns the current number of active requests
func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

// GetShutdownContext returns the shutdown context for components that need to
// watch for shutdown
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

// isShuttingDown returns true if the application is in shutdown mode
func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware wraps HTTP handlers to track active requests
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		next.ServeHTTP(w, r)
	})
}

// Ensure App implements AppInterface
var _ AppInterface = (*App)(nil)
