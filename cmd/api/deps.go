package main

import (
	"context"
	"log"

	"github.com/TronCM143/ISTAK/internal/domain/item"
	"github.com/TronCM143/ISTAK/internal/domain/lending"
	"github.com/TronCM143/ISTAK/internal/domain/notification"
	"github.com/TronCM143/ISTAK/internal/infrastructure/firebase"
	"github.com/TronCM143/ISTAK/internal/infrastructure/postgres"
	httphandlers "github.com/TronCM143/ISTAK/internal/interfaces/http"
	"github.com/TronCM143/ISTAK/internal/shared/auth"
	"github.com/TronCM143/ISTAK/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	ItemHandler        *httphandlers.ItemHandler
	BorrowHandler      *httphandlers.BorrowHandler
	TransactionHandler *httphandlers.TransactionHandler

	// Auth
	JWT *auth.JWT

	// Batch service (for scheduler)
	OverdueService *lending.OverdueService
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	itemRepo := postgres.NewItemRepository(db)
	borrowerRepo := postgres.NewBorrowerRepository(db)
	lendingRepo := postgres.NewLendingRepository(db)

	// Push transport, optional: without credentials the engine runs with
	// notifications disabled.
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, userRepo.ClearFCMToken)
		if err != nil {
			log.Printf("Warning: Failed to initialize Firebase, notifications disabled: %v", err)
		} else {
			messenger = fcmClient
			log.Println("Firebase messaging initialized")
		}
	} else {
		log.Println("No Firebase credentials configured, notifications disabled")
	}

	// Domain services
	notificationService := notification.NewService(userRepo, messenger)
	itemService := item.NewService(itemRepo)
	lendingService := lending.NewService(itemRepo, borrowerRepo, lendingRepo, notificationService)
	overdueService := lending.NewOverdueService(lendingRepo, messenger)

	// Auth components
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	// Handlers
	scopes := httphandlers.NewScopeResolver(userRepo)
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt, notificationService)
	itemHandler := httphandlers.NewItemHandler(itemService, scopes)
	borrowHandler := httphandlers.NewBorrowHandler(lendingService, scopes)
	transactionHandler := httphandlers.NewTransactionHandler(lendingService, scopes)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		ItemHandler:        itemHandler,
		BorrowHandler:      borrowHandler,
		TransactionHandler: transactionHandler,
		JWT:                jwt,
		OverdueService:     overdueService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
