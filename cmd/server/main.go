package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/relieflink/relief-api-go/pkg/auth"
	"github.com/relieflink/relief-api-go/pkg/database"
	"github.com/relieflink/relief-api-go/pkg/handlers"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := handlers.New(db)

	r := gin.Default()
	handlers.Routes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	logrus.Infof("server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		logrus.Fatalf("could not run server: %v", err)
	}
}
