package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"growwithme/internal/adapter/api"
	"growwithme/internal/adapter/api/handler"
	apimiddleware "growwithme/internal/adapter/api/middleware"
	"growwithme/internal/adapter/api/router"
	"growwithme/internal/adapter/repository"
	"growwithme/internal/adapter/repository/memory"
	domainrepo "growwithme/internal/domain/repository"
	"growwithme/internal/infrastructure/firebase"
	"growwithme/internal/infrastructure/ratelimit"
	"growwithme/internal/infrastructure/storage"
	"growwithme/internal/infrastructure/websocket"
	"growwithme/internal/usecase"
	"growwithme/pkg/config"
	"growwithme/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users         domainrepo.UserRepository
	ideas         domainrepo.IdeaRepository
	joinRequests  domainrepo.JoinRequestRepository
	connections   domainrepo.ConnectionRepository
	negotiations  domainrepo.NegotiationRepository
	notifications domainrepo.NotificationRepository
	alerts        domainrepo.MatchAlertRepository
	chats         domainrepo.ChatRepository
}

// chatRelay lets the websocket manager exist before the chat use case that
// pushes through it.
type chatRelay struct {
	*usecase.ChatUseCase
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repos       repositories
		authClient  usecase.AuthClient
		avatarStore usecase.ObjectStorage
	)

	switch cfg.StoreDriver {
	case config.StoreFirestore:
		clients, err := firebase.NewClients(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to initialize Firebase: %v", err)
		}
		defer clients.Close()

		authClient = clients.Auth
		repos = firestoreRepositories(clients)

		if cfg.StorageBucket != "" {
			gcs, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, clients.Options...)
			if err != nil {
				logger.Fatal("Failed to initialize Cloud Storage: %v", err)
			}
			defer gcs.Close()
			avatarStore = gcs
		}

	case config.StoreMemory:
		logger.Warn("Using the in-memory store; data is lost on restart")
		repos = memoryRepositories(memory.New())

		if cfg.FirebaseProject != "" {
			clients, err := firebase.NewClients(ctx, cfg)
			if err != nil {
				logger.Fatal("Failed to initialize Firebase: %v", err)
			}
			defer clients.Close()
			authClient = clients.Auth
		} else {
			if !cfg.IsDevelopment() {
				logger.Fatal("FIREBASE_PROJECT_ID is required outside development")
			}
			logger.Warn("Accepting development tokens of the form %s<uid>", firebase.DevTokenPrefix)
			authClient = firebase.NewDevAuthClient()
		}
	}

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(ctx, 10*time.Minute)

	notificationUseCase := usecase.NewNotificationUseCase(repos.notifications)
	userUseCase := usecase.NewUserUseCase(repos.users, authClient, avatarStore)
	ideaUseCase := usecase.NewIdeaUseCase(repos.ideas, repos.users, limiter)
	joinRequestUseCase := usecase.NewJoinRequestUseCase(repos.joinRequests, repos.ideas, repos.users, notificationUseCase, limiter)
	connectionUseCase := usecase.NewConnectionUseCase(repos.connections, repos.users, notificationUseCase, limiter)
	negotiationUseCase := usecase.NewNegotiationUseCase(repos.negotiations, repos.ideas, repos.users, notificationUseCase, limiter)
	matchAlertUseCase := usecase.NewMatchAlertUseCase(repos.alerts)

	relay := &chatRelay{}
	wsManager := websocket.NewManager(relay)
	wsManager.Start(ctx)
	chatUseCase := usecase.NewChatUseCase(repos.chats, repos.users, notificationUseCase, wsManager, limiter)
	relay.ChatUseCase = chatUseCase

	if cfg.MatchWatcherEnabled {
		watcher := usecase.NewMatchWatcher(repos.users, repos.alerts, repos.ideas, notificationUseCase)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("Match watcher exited: %v", err)
			}
		}()
	}

	handlers := &handler.Handlers{
		Health:       handler.NewHealthHandler(),
		User:         handler.NewUserHandler(userUseCase),
		Idea:         handler.NewIdeaHandler(ideaUseCase, cfg.PageSizeMax),
		JoinRequest:  handler.NewJoinRequestHandler(joinRequestUseCase),
		Connection:   handler.NewConnectionHandler(connectionUseCase),
		Negotiation:  handler.NewNegotiationHandler(negotiationUseCase),
		Notification: handler.NewNotificationHandler(notificationUseCase),
		MatchAlert:   handler.NewMatchAlertHandler(matchAlertUseCase),
		Chat:         handler.NewChatHandler(chatUseCase),
		WebSocket:    handler.NewWebSocketHandler(wsManager, notificationUseCase, cfg.CORSOrigins),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()

	e.Use(middleware.Recover())
	e.Use(apimiddleware.RequestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient, userUseCase)
	router.Setup(e, handlers, authMiddleware, limiter)

	go func() {
		logger.Info("Starting server on port %s (store: %s)", cfg.ServerPort, cfg.StoreDriver)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

func firestoreRepositories(clients *firebase.Clients) repositories {
	db := clients.Firestore
	return repositories{
		users:         repository.NewFirestoreUserRepository(db),
		ideas:         repository.NewFirestoreIdeaRepository(db),
		joinRequests:  repository.NewFirestoreJoinRequestRepository(db),
		connections:   repository.NewFirestoreConnectionRepository(db),
		negotiations:  repository.NewFirestoreNegotiationRepository(db),
		notifications: repository.NewFirestoreNotificationRepository(db),
		alerts:        repository.NewFirestoreMatchAlertRepository(db),
		chats:         repository.NewFirestoreChatRepository(db),
	}
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		users:         store.Users(),
		ideas:         store.Ideas(),
		joinRequests:  store.JoinRequests(),
		connections:   store.Connections(),
		negotiations:  store.Negotiations(),
		notifications: store.Notifications(),
		alerts:        store.MatchAlerts(),
		chats:         store.Chats(),
	}
}
