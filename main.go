package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/penielchurch/site-backend/config"
	live "github.com/penielchurch/site-backend/live"
	routes "github.com/penielchurch/site-backend/routes"
	utils "github.com/penielchurch/site-backend/utils"
	wizardpkg "github.com/penielchurch/site-backend/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cfg.MongoClient.Disconnect(ctx)
	}()

	host, err := utils.NewImageHost(cfg)
	if err != nil {
		log.Fatalf("image host error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := live.NewHub(cfg, nil)
	hub.Watch(ctx)

	go utils.NewCleanupWorker(cfg, host).Run(ctx)

	wizards := wizardpkg.NewStore(30 * time.Minute)

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	routes.SetupRoutes(r, cfg, hub, host, wizards)

	log.Printf("site backend listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
