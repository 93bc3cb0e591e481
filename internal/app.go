// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"

	router "github.com/Colourfuljobs/colourful-jobs-sub003/internal/api"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/api/handler"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/config"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/idempotency"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/notify"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/repository/postgres"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/service"
	"github.com/Colourfuljobs/colourful-jobs-sub003/internal/util"
	"github.com/Colourfuljobs/colourful-jobs-sub003/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	EmployerRepository    repository.EmployerRepository
	WalletRepository      repository.WalletRepository
	BatchRepository       repository.BatchRepository
	TransactionRepository repository.TransactionRepository
	VacancyRepository     repository.VacancyRepository
	ProductRepository     repository.ProductRepository

	// Services
	LedgerService  service.LedgerService
	PricingService service.PricingService
	SweeperService service.SweeperService
	VacancyService service.VacancyService

	// HTTP API
	HTTPHandler http.Handler

	natsConn   *nats.Conn
	redisStore *idempotency.RedisStore
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.EmployerRepository = postgres.NewEmployerRepository()
	app.WalletRepository = postgres.NewWalletRepository()
	app.BatchRepository = postgres.NewBatchRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()
	app.VacancyRepository = postgres.NewVacancyRepository()
	app.ProductRepository = postgres.NewProductRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Sync notifier: NATS when configured, webhook as the fallback, and
	// a no-op for local development without either.
	notifier, err := app.buildNotifier()
	if err != nil {
		return err
	}

	// 6. Idempotency store: Redis when configured, process-local otherwise.
	var idemStore idempotency.Store
	if app.Config.RedisAddr != "" {
		redisStore, err := idempotency.NewRedisStore(ctx, app.Config.RedisAddr)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redisStore = redisStore
		idemStore = redisStore
		app.Logger.Info("Redis idempotency store initialized.", "addr", app.Config.RedisAddr)
	} else {
		idemStore = idempotency.NewMemoryStore()
	}

	// 7. Initialize Services. All services share one WalletLocker so ledger
	// and vacancy operations on the same wallet serialize in-process.
	locks := service.NewWalletLocker()

	app.LedgerService = service.NewLedgerService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.EmployerRepository,
		app.WalletRepository,
		app.BatchRepository,
		app.TransactionRepository,
		locks,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.PricingService = service.NewPricingService(app.DB, app.ProductRepository)
	app.SweeperService = service.NewSweeperService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.BatchRepository,
		app.TransactionRepository,
		locks,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.VacancyService = service.NewVacancyService(
		app.DB,
		app.DB,
		app.VacancyRepository,
		app.WalletRepository,
		app.ProductRepository,
		app.TransactionRepository,
		app.LedgerService,
		app.PricingService,
		notifier,
		locks,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 8. Initialize HTTP Handlers and Router
	walletHandler := handler.NewWalletHandler(app.LedgerService, idemStore, app.Logger)
	vacancyHandler := handler.NewVacancyHandler(app.VacancyService, idemStore, app.Logger)
	catalogHandler := handler.NewCatalogHandler(app.PricingService, app.Logger)
	adminHandler := handler.NewAdminHandler(app.SweeperService, app.VacancyService, app.Logger)
	app.HTTPHandler = router.NewRouter(walletHandler, vacancyHandler, catalogHandler, adminHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) buildNotifier() (notify.Notifier, error) {
	switch {
	case app.Config.NATSURL != "":
		conn, err := nats.Connect(app.Config.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		app.natsConn = conn
		app.Logger.Info("NATS sync notifier initialized.", "url", app.Config.NATSURL)
		return notify.NewNATSNotifier(conn), nil
	case app.Config.SyncWebhookURL != "":
		app.Logger.Info("Webhook sync notifier initialized.", "url", app.Config.SyncWebhookURL)
		return notify.NewWebhookNotifier(app.Config.SyncWebhookURL), nil
	default:
		app.Logger.Warn("No sync notifier configured; vacancy changes are not pushed.")
		return notify.NoopNotifier{}, nil
	}
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.natsConn != nil {
		app.natsConn.Close()
		app.Logger.Info("NATS connection closed.")
	}
	if app.redisStore != nil {
		if err := app.redisStore.Close(); err != nil {
			app.Logger.Error("Failed to close redis connection", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
