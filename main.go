package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"lg/nutrition-tracker-api/analysis"
	"lg/nutrition-tracker-api/realtime"
	"lg/nutrition-tracker-api/storage"
	"lg/nutrition-tracker-api/tracker"
)

func main() {
	log.SetPrefix("lg/nutrition-tracker-api: ")
	log.SetFlags(log.LstdFlags)

	cfg := loadConfig()
	ctx := context.Background()

	store, err := storage.Open(ctx, storage.Config{DBURL: cfg.DBURL, SQLitePath: cfg.SQLitePath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	hub := realtime.NewHub(cfg.CORSOrigins)
	svc, err := tracker.NewService(ctx, store,
		tracker.WithAnalyzer(analysis.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)),
		tracker.WithEvents(hub),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load tracker state: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Starting gin app...")
	router := gin.Default()
	router.SetTrustedProxies(nil)
	h := &Handler{svc: svc, hub: hub}
	h.registerRoutes(router, cfg.CORSOrigins)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
