package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-dashboard/analytics"
	"github.com/yeremiapane/restaurant-dashboard/config"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/notifications"
	"github.com/yeremiapane/restaurant-dashboard/realtime"
	"github.com/yeremiapane/restaurant-dashboard/router"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

func init() {
	// Load .env before anything reads the environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	// The bearer token doubles as the owner identity for the push room.
	userID, err := utils.IdentityFromToken(cfg.APIToken)
	if err != nil {
		utils.ErrorLogger.Fatalf("API_TOKEN carries no usable identity: %v", err)
	}

	cache, err := notifications.OpenCache(cfg.CachePath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open notification cache: %v", err)
	}

	alerter := &notifications.BellAlerter{Log: utils.InfoLogger}
	store := notifications.NewStore(cache, alerter, utils.ErrorLogger)
	utils.InfoLogger.Printf("Notification feed rehydrated: %d entries, %d unread",
		len(store.All()), store.UnreadCount())

	channel := realtime.NewChannel(cfg.PushURL, userID, store, utils.InfoLogger)
	if err := channel.Start(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start push channel: %v", err)
	}
	defer channel.Stop()

	client := analytics.NewClient(cfg.APIBaseURL, cfg.APIToken)
	refresher := analytics.NewRefresher(client, models.PeriodToday, cfg.RefreshInterval, utils.InfoLogger)
	refresher.Start()
	defer refresher.Stop()

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(client, refresher, store)

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
