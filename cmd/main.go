package main

import (
	"log"
	"os"

	"github.com/plantmetric/plantmetric-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalf("failed to start application: %v", err)
	}
	defer application.Close()

	application.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := application.Run(":" + port); err != nil {
		application.Log.Fatal("Server exited", "error", err)
	}
}
