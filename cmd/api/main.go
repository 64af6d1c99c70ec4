package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"naafe/internal/adapter/api"
	"naafe/internal/adapter/api/handler"
	apimiddleware "naafe/internal/adapter/api/middleware"
	"naafe/internal/adapter/api/router"
	"naafe/internal/adapter/repository"
	"naafe/internal/infrastructure/firebase"
	"naafe/internal/infrastructure/presence"
	"naafe/internal/infrastructure/ratelimit"
	ws "naafe/internal/infrastructure/websocket"
	"naafe/internal/usecase"
	"naafe/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from env (production) or file (local development)
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	presenceStore := presence.NewStore(redisClient, time.Duration(cfg.PresenceTTL)*time.Second)

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	jobRequestRepo := repository.NewFirestoreJobRequestRepository(firestoreClient)
	offerRepo := repository.NewFirestoreOfferRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	wsManager := ws.NewManager(presenceStore)
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, wsManager)
	jobRequestUseCase := usecase.NewJobRequestUseCase(jobRequestRepo, userRepo)
	offerUseCase := usecase.NewOfferUseCase(offerRepo, jobRequestRepo, userRepo, conversationRepo, notificationUseCase, rateLimiter)
	conversationUseCase := usecase.NewConversationUseCase(conversationRepo, offerRepo, jobRequestRepo, wsManager, rateLimiter)
	messageUseCase := usecase.NewMessageUseCase(conversationRepo, conversationUseCase, notificationUseCase, wsManager, rateLimiter)

	// Inbound socket events flow into the message usecase.
	wsManager.SetEventHandler(messageUseCase)

	handler.Setup(userUseCase, jobRequestUseCase, offerUseCase, conversationUseCase, messageUseCase, notificationUseCase)
	handler.SetupHealthHandler(firestoreClient)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(apimiddleware.GeneralRateLimit())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	roleMiddleware := apimiddleware.NewRoleMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware, userUseCase)

	router.Setup(e, authMiddleware, roleMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
