// Package bootstrap assembles the process: infrastructure, repositories,
// application services and background workers. The HTTP server and erpctl
// share it so both run against the same wiring.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	companyapp "github.com/bizledger/backend/internal/application/company"
	catalogapp "github.com/bizledger/backend/internal/application/catalog"
	financeapp "github.com/bizledger/backend/internal/application/finance"
	identityapp "github.com/bizledger/backend/internal/application/identity"
	notificationapp "github.com/bizledger/backend/internal/application/notification"
	partnerapp "github.com/bizledger/backend/internal/application/partner"
	reportapp "github.com/bizledger/backend/internal/application/report"
	salesapp "github.com/bizledger/backend/internal/application/sales"
	"github.com/bizledger/backend/internal/infrastructure/auth"
	"github.com/bizledger/backend/internal/infrastructure/cache"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/infrastructure/event"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/bizledger/backend/internal/infrastructure/printing"
	"github.com/bizledger/backend/internal/infrastructure/scheduler"
	"github.com/bizledger/backend/internal/infrastructure/storage"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Services are the application use cases
type Services struct {
	Auth          *identityapp.AuthService
	Users         *identityapp.UserService
	Company       *companyapp.CompanyService
	Customers     *partnerapp.CustomerService
	Items         *catalogapp.ItemService
	Invoices      *salesapp.InvoiceService
	SalesReceipts *salesapp.SalesReceiptService
	Expenses      *financeapp.ExpenseService
	Reports       *reportapp.ReportService
	Notifications *notificationapp.NotificationService
	Overdue       *salesapp.OverdueReconciler
	Warmer        *reportapp.DashboardWarmer
}

// App holds everything a process needs. Close releases it in reverse order.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *persistence.Database
	Cache     cache.Cache
	Telemetry *telemetry.Telemetry
	Events    *event.InMemoryEventBus
	Scheduler *scheduler.Scheduler
	Storage   storage.ObjectStorage
	Printer   printing.Printer
	JWT       *auth.JWTService
	Blacklist *auth.TokenBlacklist
	Services  Services

	triggers []*scheduler.IntervalTrigger
	closers  []func(context.Context) error
}

// NewLogger builds the process logger from configuration
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		Output:     cfg.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

// New connects every dependency and builds the services. On error whatever was
// already opened is closed again.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *App, err error) {
	app := &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			err = errors.Join(err, app.Close(context.Background()))
		}
	}()

	if app.Telemetry, err = telemetry.Setup(ctx, cfg.Telemetry, log); err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	app.onClose(app.Telemetry.Shutdown)
	app.Logger = app.Telemetry.Logs.Bridge(log)
	log = app.Logger

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowQuery))
	if app.DB, err = persistence.NewDatabase(&cfg.Database, gormLog); err != nil {
		return nil, err
	}
	app.onClose(func(context.Context) error { return app.DB.Close() })
	log.Info("Database connected", zap.String("driver", app.DB.Driver()))

	if err = telemetry.RegisterDBTracing(app.DB.DB, cfg.Telemetry, log); err != nil {
		return nil, fmt.Errorf("database tracing: %w", err)
	}
	if sqlDB, dbErr := app.DB.DB.DB(); dbErr == nil {
		reg, regErr := telemetry.RegisterDBPoolMetrics(app.Telemetry.Meter.Meter(telemetry.TracerName), sqlDB)
		if regErr != nil {
			log.Warn("Database pool metrics unavailable", zap.Error(regErr))
		} else {
			app.onClose(func(context.Context) error { return reg.Unregister() })
		}
	}

	if app.Cache, err = cache.NewFromConfig(ctx, cfg, cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction())); err != nil {
		return nil, err
	}
	if closer, ok := app.Cache.(interface{ Close() error }); ok {
		app.onClose(func(context.Context) error { return closer.Close() })
	}

	if app.Storage, err = storage.New(ctx, cfg.Storage, log); err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	if app.Printer, err = printing.New(cfg.Printing, log); err != nil {
		return nil, fmt.Errorf("printing: %w", err)
	}
	app.onClose(func(context.Context) error { return app.Printer.Close() })

	app.JWT = auth.NewJWTService(cfg.JWT)
	app.Blacklist = auth.NewTokenBlacklist(app.Cache)

	app.Events = event.NewInMemoryEventBus(log,
		event.WithObserver(app.Telemetry.Business.ObserveEventHandler),
		event.WithHandlerTimeout(30*time.Second))
	app.Scheduler = scheduler.NewScheduler(scheduler.ConfigFrom(cfg.Scheduler), log)

	app.buildServices()
	return app, nil
}

func (a *App) buildServices() {
	db, cfg, log := a.DB.DB, a.Config, a.Logger

	companyRepo := persistence.NewGormCompanyRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	itemRepo := persistence.NewGormItemRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	receiptRepo := persistence.NewGormSalesReceiptRepository(db)
	expenseRepo := persistence.NewGormExpenseRepository(db)
	notificationRepo := persistence.NewGormNotificationRepository(db)

	numbers := salesapp.NewNumberAllocator(cfg.Numbering.MaxRetries, log)

	s := &a.Services
	s.Auth = identityapp.NewAuthService(userRepo, companyRepo, a.JWT, a.Blacklist, log)
	s.Users = identityapp.NewUserService(userRepo, a.Blacklist, cfg.JWT.AccessTokenExpiration, log)
	s.Company = companyapp.NewCompanyService(companyRepo, userRepo, log)
	s.Customers = partnerapp.NewCustomerService(customerRepo)
	s.Items = catalogapp.NewItemService(itemRepo)
	s.Notifications = notificationapp.NewNotificationService(notificationRepo, log)
	s.Reports = reportapp.NewReportService(invoiceRepo, receiptRepo, expenseRepo, a.Cache, cfg.Report.CacheTTL, log)

	s.Invoices = salesapp.NewInvoiceService(invoiceRepo, customerRepo, itemRepo, companyRepo, numbers, log)
	s.Invoices.SetEventPublisher(a.Events)
	s.Invoices.SetPrinter(a.Printer)
	s.Invoices.SetReportInvalidator(s.Reports)

	s.SalesReceipts = salesapp.NewSalesReceiptService(receiptRepo, customerRepo, itemRepo, companyRepo,
		persistence.NewGormSalesTransactionScope(db), numbers, log)
	s.SalesReceipts.SetEventPublisher(a.Events)
	s.SalesReceipts.SetPrinter(a.Printer)
	s.SalesReceipts.SetReportInvalidator(s.Reports)

	s.Expenses = financeapp.NewExpenseService(expenseRepo, numbers, a.Storage, cfg.Storage.PresignExpiration, log)
	s.Expenses.SetReportInvalidator(s.Reports)

	s.Overdue = salesapp.NewOverdueReconciler(invoiceRepo, s.Company, log)
	s.Overdue.SetEventPublisher(a.Events)
	s.Overdue.SetReportInvalidator(s.Reports)
	s.Warmer = reportapp.NewDashboardWarmer(s.Reports, s.Company, log)

	a.Events.Subscribe(notificationapp.NewInvoiceEventHandler(notificationRepo, log))
	a.Events.Subscribe(a.Telemetry.Business)

	a.Scheduler.Register(salesapp.JobKindOverdueReconcile, a.observed(salesapp.JobKindOverdueReconcile, s.Overdue))
	a.Scheduler.Register(reportapp.JobKindDashboardWarm, a.observed(reportapp.JobKindDashboardWarm, s.Warmer))
}

// observed records duration and outcome of every run of exec
func (a *App) observed(kind string, exec scheduler.JobExecutor) scheduler.JobExecutor {
	return scheduler.JobFunc(func(ctx context.Context, job *scheduler.Job) error {
		start := time.Now()
		err := exec.Execute(ctx, job)
		a.Telemetry.Business.RecordJob(ctx, kind, time.Since(start), err)
		return err
	})
}

// StartWorkers starts the event bus, the scheduler pool and, when enabled, the
// periodic triggers
func (a *App) StartWorkers(ctx context.Context) error {
	if err := a.Events.Start(ctx); err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	a.onClose(a.Events.Stop)

	if !a.Config.Scheduler.Enabled {
		a.Logger.Info("Scheduler disabled")
		return nil
	}
	if err := a.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	a.onClose(a.Scheduler.Stop)

	a.triggers = []*scheduler.IntervalTrigger{
		scheduler.NewIntervalTrigger(salesapp.JobKindOverdueReconcile, a.Config.Scheduler.OverdueInterval, true,
			a.Scheduler, a.Services.Company, a.Logger),
		scheduler.NewIntervalTrigger(reportapp.JobKindDashboardWarm, a.Config.Scheduler.DashboardInterval, false,
			a.Scheduler, a.Services.Company, a.Logger),
	}
	for _, t := range a.triggers {
		if err := t.Start(ctx); err != nil {
			return err
		}
		a.onClose(t.Stop)
	}
	return nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse acquisition order
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
