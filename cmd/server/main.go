package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tradesphere/internal/api"
	"tradesphere/internal/config"
	"tradesphere/internal/db"
	"tradesphere/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	database, err := db.InitDB(cfg)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer database.Close()

	st := store.New(database, cfg.TradePolicy)
	server := api.NewServer(st, logger, []byte(cfg.JWTSecret))

	logger.Info("server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("trade_policy", cfg.TradePolicy.String()))
	if err := server.Start(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
