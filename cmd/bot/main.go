package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fishfarm-bot/config"
	"fishfarm-bot/internal/api"
	"fishfarm-bot/internal/bot"
	"fishfarm-bot/internal/broker"
	"fishfarm-bot/internal/flows"
	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/redisclient"
	"fishfarm-bot/internal/sheets"
	"fishfarm-bot/internal/store"
	"fishfarm-bot/internal/util"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting fish farm bot")

	tp, err := util.InitTracer("fishfarm-bot", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	ctx := context.Background()

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to connect to Google Sheets: %v", err)
	}
	if err := sheetsClient.Ping(ctx); err != nil {
		log.Fatalf("Spreadsheet not reachable: %v", err)
	}
	log.Println("Google Sheets connected")

	// Redis is an optimization, not a dependency: without it every read
	// goes straight to the spreadsheet.
	var cache store.Cache
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
	} else {
		defer redisClient.Close()
		cache = redisClient
		log.Println("Redis connected")
	}

	var producer *broker.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		log.Println("Kafka producer initialized")
	}
	eventPublisher := broker.NewEventPublisher(producer)

	refStore := store.NewReferenceStore(sheetsClient, cache, cfg.Limits.CacheTTL)
	logWriter := store.NewLogWriter(sheetsClient, eventPublisher)

	b, err := bot.New(cfg.Bot.Token)
	if err != nil {
		log.Fatalf("Failed to start Telegram bot: %v", err)
	}

	sender := bot.NewSender(b)
	notifier := bot.NewNotifier(sender, refStore)

	engine := flows.NewEngine(refStore, sender, flows.NewManager())
	engine.RegisterRegistration(flows.NewRegistrationFlow(refStore, sender, notifier))
	engine.Register(flows.NewWaterFlow(refStore, logWriter, sender, notifier, cfg.Limits), keyboard.BtnWater)
	engine.Register(flows.NewFeedingFlow(refStore, logWriter, sender, cfg.Limits), keyboard.BtnFeeding)
	engine.Register(flows.NewWeighingFlow(refStore, logWriter, sender, cfg.Limits), keyboard.BtnWeighing)
	engine.Register(flows.NewFishMoveFlow(refStore, logWriter, sender, cfg.Limits), keyboard.BtnFishMove)
	engine.Register(flows.NewStockFlow(refStore, logWriter, sender, cfg.Limits), keyboard.BtnStock)
	order := flows.NewOrderFlow(refStore, logWriter, sender, notifier)
	engine.Register(order, keyboard.BtnOrder)
	engine.RegisterCommand("/catalog", order.Catalog)

	settings := flows.NewSettingsFlow(refStore, sender)
	engine.Register(settings, keyboard.BtnSettings)
	engine.RegisterCommand("/notifications", settings.Toggle)

	engine.Register(flows.NewAdminFlow(refStore, sender, notifier, engine, cfg.Limits), keyboard.BtnAdmin)
	engine.Register(flows.NewRefFlow(flows.NewManagePondsAdapter(refStore), sender, engine, cfg.Limits), "")
	engine.Register(flows.NewRefFlow(flows.NewManageProductsAdapter(refStore), sender, engine, cfg.Limits), "")
	engine.Register(flows.NewRefFlow(flows.NewManageFeedTypesAdapter(refStore), sender, engine, cfg.Limits), "")

	router := bot.NewRouter(b, engine)
	router.Setup(bot.NewGuard(refStore))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	opsRouter := gin.Default()
	backends := map[string]api.Pinger{"sheets": sheetsClient}
	if redisClient != nil {
		backends["redis"] = redisClient
	}
	handler := api.NewHandler(backends)
	handler.SetupRoutes(opsRouter)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: opsRouter,
	}

	go func() {
		log.Printf("Starting ops server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start ops server: %v", err)
		}
	}()

	go func() {
		log.Println("Starting long polling")
		b.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	b.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ops server forced to shutdown: %v", err)
	}

	log.Println("Bot exited")
}
