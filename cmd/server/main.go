package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/alerts"
	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/database"
	"github.com/propcover/insurance-master/internal/handler"
	"github.com/propcover/insurance-master/internal/ingest"
	"github.com/propcover/insurance-master/internal/queue"
	"github.com/propcover/insurance-master/internal/repository"
	"github.com/propcover/insurance-master/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if os.Getenv("SEED_SAMPLE_DATA") == "true" {
		if err := database.Seed(context.Background(), db); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	agentRepo := repository.NewAgentRepo(db)
	buildingRepo := repository.NewBuildingRepo(db)
	policyRepo := repository.NewPolicyRepo(db)
	claimRepo := repository.NewClaimRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	fileRepo := repository.NewFileRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	alertCfg := config.LoadAlertConfig()
	scanner := alerts.NewService(alertCfg, policyRepo, buildingRepo, agentRepo, alertRepo, alerts.NewMailer(alertCfg))
	ingestSvc := ingest.NewService(cfg.UploadDir, fileRepo, historyRepo)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Agents:    handler.NewAgentHandler(agentRepo),
		Buildings: handler.NewBuildingHandler(cfg, buildingRepo, agentRepo, policyRepo),
		Policies:  handler.NewPolicyHandler(cfg, policyRepo, buildingRepo, agentRepo, historyRepo),
		Claims:    handler.NewClaimHandler(claimRepo, policyRepo, historyRepo),
		Alerts:    handler.NewAlertHandler(alertRepo, scanner),
		Documents: handler.NewDocumentHandler(ingestSvc, fileRepo, policyRepo),
		Search:    handler.NewSearchHandler(cfg, policyRepo),
		Stats:     handler.NewStatsHandler(cfg, agentRepo, buildingRepo, policyRepo, alertRepo),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, h, rdb)

	// Background workers: the renewal scanner and the event consumer.
	go scanner.Run(context.Background())
	go func() {
		if err := queue.StartPortfolioConsumer(); err != nil {
			log.Printf("portfolio consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
