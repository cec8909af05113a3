package bootstrap

import (
	"context"
	"log"
	"time"

	"learnpulse-be/internal/config"
	"learnpulse-be/internal/controller"
	"learnpulse-be/internal/handler"
	"learnpulse-be/internal/pkg/logger"
	"learnpulse-be/internal/pkg/mailer"
	"learnpulse-be/internal/repository/implementation"
	"learnpulse-be/internal/repository/unitofwork"
	"learnpulse-be/internal/service"
	"learnpulse-be/internal/websocket"
	pktNats "learnpulse-be/pkg/nats"
	"learnpulse-be/pkg/prefstore"
	"learnpulse-be/pkg/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	UserController       controller.IUserController
	PreferenceController controller.IPreferenceController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Session sync core (exposed for main.go to start/stop)
	SessionStore       *session.Store
	SessionCoordinator *session.Coordinator
	IdentityBus        *session.BusSource
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Buses
	// In-process identity bus (auth -> session coordinator)
	pubSub := session.NewIdentityBus(watermill.NewStdLogger(false, false))
	identityBus := session.NewBusSource(pubSub)

	// NATS for cross-service events
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 3. Preference store backend selection
	var prefStore prefstore.Store
	switch cfg.Sync.PreferenceBackend {
	case "redis":
		prefStore = prefstore.NewRedisStore(rdb)
		log.Printf("[INFO] Using Preference Backend: REDIS")
	default:
		prefStore = prefstore.NewGormStore(db)
		log.Printf("[INFO] Using Preference Backend: POSTGRES")
	}
	if cfg.Sync.PreferenceCacheSeconds > 0 {
		prefStore = prefstore.NewCachedStore(prefStore, time.Duration(cfg.Sync.PreferenceCacheSeconds)*time.Second)
		log.Printf("[INFO] Preference read-through cache enabled (%ds)", cfg.Sync.PreferenceCacheSeconds)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	statsService := service.NewStatsService(uowFactory, rdb)
	authService := service.NewAuthService(uowFactory, emailService, natsPub, identityBus)
	userService := service.NewUserService(uowFactory, natsPub)
	prefService := service.NewPreferenceService(prefStore, natsPub)

	// 5. Session sync core
	identityTimeout := time.Duration(cfg.Sync.IdentityTimeoutSeconds) * time.Second
	sessionStore := session.NewStore()
	listener := session.NewListener(identityBus, identityTimeout, sysLogger)
	coordinator := session.NewCoordinator(sessionStore, prefStore, statsService, listener, sysLogger)

	// 6. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		NotificationHandler:  notifHandler,
		WebSocketHub:         wsHub,
		AuthController:       controller.NewAuthController(authService),
		UserController:       controller.NewUserController(userService),
		PreferenceController: controller.NewPreferenceController(prefService, statsService),

		SessionStore:       sessionStore,
		SessionCoordinator: coordinator,
		IdentityBus:        identityBus,
	}
}
