package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roomledger/internal/database"
	"roomledger/internal/middleware"
	"roomledger/internal/modules/auth"
	"roomledger/internal/modules/events"
	"roomledger/internal/modules/ledger"
	"roomledger/internal/modules/wallet"
	jwtsvc "roomledger/internal/pkg/jwt"
	"roomledger/internal/repository"
)

// Config carries everything the service reads from the environment.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	// AdminAddress is the ledger's initial administrator.
	AdminAddress string
	// TreasuryAddress is the house wallet that retains booking
	// payments.
	TreasuryAddress string
	TokenTTL        time.Duration
}

// App wires the ledger, its collaborators and the HTTP router.
type App struct {
	Config Config
	DB     *gorm.DB
	Router *gin.Engine
	Ledger *ledger.Ledger
	Hub    *events.Hub
}

func New(cfg Config) (*App, error) {
	if cfg.AdminAddress == "" {
		return nil, fmt.Errorf("admin address is empty")
	}
	if cfg.TreasuryAddress == "" {
		return nil, fmt.Errorf("treasury address is empty")
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	if err := userRepo.Migrate(); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&wallet.Wallet{}, &wallet.Transaction{}); err != nil {
		return nil, err
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.TokenTTL)

	roomLedger := ledger.New(ledger.Address(cfg.AdminAddress))
	hub := events.NewHub()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	walletService := wallet.NewService(db, cfg.TreasuryAddress)
	walletHandler := wallet.NewHandler(walletService)

	ledgerService := ledger.NewService(roomLedger, settlerAdapter{wallets: walletService}, events.NewPublisher(hub))
	ledgerHandler := ledger.NewHandler(ledgerService)

	eventsHandler := events.NewHandler(hub)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		ledgerHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			ledgerHandler.RegisterProtectedRoutes(protected)
			walletHandler.RegisterRoutes(protected)
		}
	}

	return &App{
		Config: cfg,
		DB:     db,
		Router: r,
		Ledger: roomLedger,
		Hub:    hub,
	}, nil
}

func (a *App) Close() {
	a.Hub.Close()
}

// settlerAdapter translates wallet errors into the sentinel the
// ledger module owns, keeping the module dependency one-directional.
type settlerAdapter struct {
	wallets *wallet.Service
}

func (a settlerAdapter) SettleBooking(ctx context.Context, payer string, payment, required int64) error {
	err := a.wallets.SettleBooking(ctx, payer, payment, required)
	if errors.Is(err, wallet.ErrInsufficientFunds) {
		return ledger.ErrInsufficientFunds
	}
	return err
}
