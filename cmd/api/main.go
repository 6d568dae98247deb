package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"roomledger/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found; continuing with environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	admin := os.Getenv("LEDGER_ADMIN")
	if admin == "" {
		log.Fatal("LEDGER_ADMIN is empty")
	}
	treasury := os.Getenv("TREASURY_ADDRESS")
	if treasury == "" {
		treasury = admin
	}

	a, err := app.New(app.Config{
		DatabaseURL:     dsn,
		JWTSecret:       secret,
		AdminAddress:    admin,
		TreasuryAddress: treasury,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	log.Printf("room ledger up administrator=%s rooms=%d", a.Ledger.Administrator(), a.Ledger.RoomCount())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := a.Router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
