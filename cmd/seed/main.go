package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"roomledger/internal/database"
	"roomledger/internal/domain"
	"roomledger/internal/modules/wallet"
	"roomledger/internal/repository"
)

// Seeds the administrator and a funded demo client, then prints the
// administrator address to start the API with (LEDGER_ADMIN).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found; continuing with environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "roomledger.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	userRepo := repository.NewUserRepository(db)
	if err := userRepo.Migrate(); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}
	if err := db.AutoMigrate(&wallet.Wallet{}, &wallet.Transaction{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	adminAddress := os.Getenv("LEDGER_ADMIN")
	if adminAddress == "" {
		adminAddress = uuid.NewString()
	}

	ctx := context.Background()

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := &domain.User{
		Email:        "admin@roomledger.local",
		PasswordHash: string(adminHash),
		Address:      adminAddress,
		Role:         domain.RoleAdmin,
		Name:         "Administrator",
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal("seed admin failed:", err)
	}

	clientHash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	client := &domain.User{
		Email:        "client@roomledger.local",
		PasswordHash: string(clientHash),
		Address:      uuid.NewString(),
		Role:         domain.RoleClient,
		Name:         "Demo Client",
	}
	if err := userRepo.Create(ctx, client); err != nil {
		log.Fatal("seed client failed:", err)
	}

	wallets := wallet.NewService(db, adminAddress)
	if _, _, err := wallets.Add(ctx, client.Address, 1_000_000); err != nil {
		log.Fatal("fund client wallet failed:", err)
	}

	log.Println("Seed complete.")
	log.Println("  LEDGER_ADMIN:", adminAddress)
	log.Println("  admin login:  admin@roomledger.local / admin123")
	log.Println("  client login: client@roomledger.local / client123")
}
