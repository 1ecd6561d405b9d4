package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"insights/cmd"
	"insights/internal/config"
	"insights/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// On invalid configuration the logger uses its defaults; commands report the error.
	cfg, err := config.Load()
	if err != nil {
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting Insights CLI")

	cmd.Execute()

	log.Debug().Msg("Insights CLI shutdown")
	os.Exit(0)
}
