package bootstrap

import (
	"log"

	"evcharge-be/internal/config"
	"evcharge-be/internal/controller"
	"evcharge-be/internal/pkg/idempotency"
	"evcharge-be/internal/pkg/logger"
	"evcharge-be/internal/pkg/mailer"
	"evcharge-be/internal/pkg/ratelimit"
	"evcharge-be/internal/pkg/serverutils"
	"evcharge-be/internal/repository/memory"
	"evcharge-be/internal/repository/unitofwork"
	"evcharge-be/internal/service"
	"evcharge-be/internal/worker"
	"evcharge-be/pkg/admin/dashboard"
	adminEvents "evcharge-be/pkg/admin/events"
	"evcharge-be/pkg/admin/onboarding"
	"evcharge-be/pkg/admin/refund"
	"evcharge-be/pkg/admin/settlement"
	"evcharge-be/pkg/admin/subscription"
	"evcharge-be/pkg/events"
	pktNats "evcharge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AdminController     controller.IAdminController
	LicensingController controller.ILicensingController

	// Background work (started by main.go)
	ExpiryMonitor          *worker.ExpiryMonitor
	NotificationDispatcher service.INotificationDispatcher // nil when SMTP is not configured

	Logger  logger.ILogger
	closers []func()
}

// NewContainer wires the application. A nil db selects the in-memory store,
// which is what STORAGE_DRIVER=memory and the controller tests use.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Println("[WARN] Using in-memory storage, data is lost on restart")
		uowFactory = memory.NewStore().RepositoryFactory()
	}

	// 2. Event Bus & Cache
	bus, subscriber := c.eventBus(cfg)
	publisher := adminEvents.NewBusPublisher(bus, sysLogger)
	rdb := c.redisClient(cfg)

	// 3. Domain Components
	vendorManager := onboarding.NewManager(sysLogger, publisher)
	subscriptionManager := subscription.NewManager(sysLogger, publisher)
	settlementProcessor := settlement.NewProcessor(sysLogger, publisher)
	refundProcessor := refund.NewProcessor(sysLogger, publisher)
	dashboardAggregator := dashboard.NewAggregator(sysLogger, cfg.Ledger.ExpiringSoonDays)

	// 4. Services
	adminService := service.NewAdminService(
		uowFactory,
		sysLogger,
		vendorManager,
		subscriptionManager,
		settlementProcessor,
		refundProcessor,
		dashboardAggregator,
	)
	licensingService := service.NewLicensingService(uowFactory, subscriptionManager, settlementProcessor)

	if cfg.SMTP.Host != "" {
		emailService := mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
		c.NotificationDispatcher = service.NewNotificationDispatcher(subscriber, uowFactory, emailService, sysLogger)
	} else {
		log.Println("[INFO] SMTP_HOST not set, vendor e-mails disabled")
	}

	c.ExpiryMonitor = worker.NewExpiryMonitor(
		uowFactory,
		subscriptionManager,
		sysLogger,
		cfg.Ledger.ExpirySweepInterval,
		cfg.Ledger.ExpiringSoonDays,
	)

	// 5. Guards
	limiter := ratelimit.New(cfg.RateLimit.AdminPerSecond, cfg.RateLimit.AdminBurst)
	var idemStore idempotency.Store = idempotency.NewMemoryStore(cfg.Idempotency.TTL)
	if rdb != nil {
		idemStore = idempotency.NewRedisStore(rdb, cfg.Idempotency.TTL)
	}
	replay := idempotency.Middleware(idemStore, sysLogger)

	// 6. Controllers
	c.AdminController = controller.NewAdminController(adminService,
		serverutils.JwtMiddleware(cfg.Auth.JwtSecret, serverutils.RoleAdmin),
		limiter.Middleware(),
		replay,
	)
	c.LicensingController = controller.NewLicensingController(licensingService,
		serverutils.JwtMiddleware(cfg.Auth.JwtSecret, serverutils.RoleAdmin, serverutils.RoleVendor),
		replay,
	)

	return c
}

// eventBus prefers NATS JetStream and falls back to the in-process
// gochannel bus when NATS_URL is unset or unreachable.
func (c *Container) eventBus(cfg *config.Config) (events.Bus, events.Subscriber) {
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, subErr := pktNats.NewSubscriber(cfg.App.NatsURL)
		if subErr != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", subErr)
		}
		if err == nil && subErr == nil {
			c.closers = append(c.closers, natsPub.Close, natsSub.Close)
			return natsPub, natsSub
		}
		if natsPub != nil {
			natsPub.Close()
		}
		if natsSub != nil {
			natsSub.Close()
		}
	}

	bus := events.NewGoChannelBus(watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = bus.Close() })
	return bus, bus
}

// redisClient backs idempotency keys shared between instances. Nil means
// keys stay in process.
func (c *Container) redisClient(cfg *config.Config) *redis.Client {
	if cfg.App.RedisURL == "" {
		return nil
	}
	client, err := idempotency.NewRedisClient(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Idempotency keys stay in process.", err)
		return nil
	}
	c.closers = append(c.closers, func() { _ = client.Close() })
	return client
}

// Close releases bus and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
