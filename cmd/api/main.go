package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookshelf-backend/pkg/logger"
)

func main() {
	// .env is for development; production relies on real environment
	// variables.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment", nil)
	}

	env := getEnv("APP_ENV", "development")
	logger.Init(env)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
