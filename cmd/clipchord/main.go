package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/clipchord/clipchord/internal/api"
	"github.com/clipchord/clipchord/internal/config"
	"github.com/clipchord/clipchord/logging"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	switch cfg.LogLevel {
	case "debug":
		logging.SetLevel(logging.DebugLevel)
	case "warn":
		logging.SetLevel(logging.WarnLevel)
	case "error":
		logging.SetLevel(logging.ErrorLevel)
	default:
		logging.SetLevel(logging.InfoLevel)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(cfg, releaseVersion)

	logging.Info("starting server", logging.Fields{
		"address":     cfg.Server.Address,
		"sample_rate": cfg.Audio.TargetSampleRate,
		"clip_cap_s":  cfg.Audio.MaxClipSeconds,
		"version":     releaseVersion,
	})

	if err := router.Run(cfg.Server.Address); err != nil {
		logging.Fatal(err, "server exited")
	}
}
