package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/booking"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/calendar"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/catalog"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/notify"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/payment"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/reports"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/middleware"
	appoutbox "github.com/KarlGo0815/cbvgoodwill/internal/app/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/uow"
	domainrental "github.com/KarlGo0815/cbvgoodwill/internal/domain/rental"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/broker/kafka"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/config"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/db/mongo"
	ginserver "github.com/KarlGo0815/cbvgoodwill/internal/infra/http/gin"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/mailer"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/obs"
	infraoutbox "github.com/KarlGo0815/cbvgoodwill/internal/infra/outbox"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)
	domainrental.SetWholePropertyName(cfg.WholePropertyName)

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("wiring failed", "error", err)
		os.Exit(1)
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker failed", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	ready    func() error
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		factory    uow.UoWFactory
		outboxPort appoutbox.Outbox
		eventStore infraoutbox.EventStore
		ready      = func() error { return nil }
	)
	switch cfg.StorageMode {
	case "mongo":
		client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		lenders := mongo.NewLenderRepository(client.DB)
		store := infraoutbox.NewStore(client.DB)
		factory = mongo.Factory{
			DB:               client.DB,
			LenderRepo:       lenders,
			PaymentRepo:      mongo.NewPaymentRepository(client.DB, lenders),
			LoanRepo:         mongo.NewLoanRepository(client.DB),
			ApartmentRepo:    mongo.NewApartmentRepository(client.DB),
			SeasonalRateRepo: mongo.NewSeasonalRateRepository(client.DB),
			BookingRepo:      mongo.NewBookingRepository(client.DB),
			ConfirmationRepo: mongo.NewConfirmationRepository(client.DB),
		}
		outboxPort = store
		eventStore = store
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		store := memory.NewStore()
		box := memory.NewOutbox()
		factory = store
		outboxPort = box
		eventStore = box
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, booking.CreateBookingCommand{}.Key(), &booking.CreateBookingHandler{
		UoWFactory: factory, Outbox: outboxPort, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, booking.UpdateBookingCommand{}.Key(), &booking.UpdateBookingHandler{
		UoWFactory: factory,
	})
	commands.RegisterHandler(commandBus, payment.RecordPaymentCommand{}.Key(), &payment.RecordPaymentHandler{
		UoWFactory: factory, Outbox: outboxPort, Encoder: encoder, Balance: booking.BalanceFor,
	})
	commands.RegisterHandler(commandBus, notify.ResendCommand{}.Key(), &notify.ResendHandler{
		UoWFactory: factory, Outbox: outboxPort, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, catalog.SaveLenderCommand{}.Key(), &catalog.SaveLenderHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, catalog.SaveApartmentCommand{}.Key(), &catalog.SaveApartmentHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, catalog.SaveSeasonalRateCommand{}.Key(), &catalog.SaveSeasonalRateHandler{UoWFactory: factory})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, booking.CheckBookingQuery{}.Key(), &booking.CheckBookingHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, booking.ListBookingsQuery{}.Key(), &booking.ListBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, calendar.FeedQuery{}.Key(), &calendar.FeedHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reports.PaymentListQuery{}.Key(), &reports.PaymentListHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reports.LenderUsageQuery{}.Key(), &reports.LenderUsageHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reports.PriceListQuery{}.Key(), &reports.PriceListHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, notify.SentListQuery{}.Key(), &notify.SentListHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, catalog.ListLendersQuery{}.Key(), &catalog.ListLendersHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, catalog.ListApartmentsQuery{}.Key(), &catalog.ListApartmentsHandler{UoWFactory: factory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Transaction(factory),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.ReadOnlyTransaction(factory),
	)

	worker, err := buildWorker(cfg, logger, factory, eventStore)
	if err != nil {
		return application{}, err
	}

	return application{
		handlers: ginserver.Handlers{
			Booking:  ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Payment:  ginserver.PaymentHandler{Commands: commandBusWithMiddleware},
			Calendar: ginserver.CalendarHandler{Queries: queryBusWithMiddleware},
			Reports:  ginserver.ReportsHandler{Queries: queryBusWithMiddleware},
			Notify:   ginserver.NotifyHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Catalog:  ginserver.CatalogHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		},
		worker: worker,
		ready:  ready,
	}, nil
}

// buildWorker assembles the outbox poller. Mail dispatch needs SMTP
// settings, the broker publish needs brokers; with neither there is nothing
// to deliver and no worker runs.
func buildWorker(cfg config.Config, logger *slog.Logger, factory uow.UoWFactory, store infraoutbox.EventStore) (*infraoutbox.Worker, error) {
	var dispatcher infraoutbox.Dispatcher
	if cfg.SMTPHost != "" {
		dispatcher = &mailer.Dispatcher{
			Mailer:     mailer.NewGomailMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom),
			UoWFactory: factory,
			Logger:     logger,
		}
	}
	var producer infraoutbox.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, err
		}
		producer = p
	}
	if dispatcher == nil && producer == nil {
		logger.Warn("no SMTP or Kafka configured, outbox events stay queued")
		return nil, nil
	}
	return &infraoutbox.Worker{
		Store:       store,
		Producer:    producer,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}, nil
}
