package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/portfolio-dev/portfolio/db"
	"github.com/portfolio-dev/portfolio/internal/auth"
	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logging.Logger.Warnf("No .env file loaded: %v", err)
	}

	logging.InitLogger()

	if err := auth.InitJWTSecret(); err != nil {
		logging.Logger.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		logging.Logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		logging.Logger.Fatalf("Failed to migrate database: %v", err)
	}

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		logging.Logger.Info("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		logging.Logger.Fatalf("Failed to start server: %v", err)
	}
}
