package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/fulfillment/internal/config"
	"github.com/vietanh2810/fulfillment/internal/db"
	"github.com/vietanh2810/fulfillment/internal/events"
	"github.com/vietanh2810/fulfillment/internal/inventory/api"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository/dao"
	"github.com/vietanh2810/fulfillment/internal/inventory/repository/memory"
	"github.com/vietanh2810/fulfillment/internal/inventory/service"
	"github.com/vietanh2810/fulfillment/internal/logger"
)

// StartInventory boots the inventory reservation engine. With a postgres
// config (or DATABASE_URL) the ledger and journal are gorm-backed; without
// one they fall back to the in-memory store for local runs.
func StartInventory(configPath string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	stockRepo, journalRepo, err := buildRepositories(conf)
	if err != nil {
		return err
	}

	var publisher service.EventPublisher
	if conf.Kafka != nil && len(conf.Kafka.Brokers) > 0 {
		producer := events.NewProducer(conf.Kafka.Brokers, "inventory-service", 256)
		defer producer.Close()
		publisher = producer
	}

	s := api.NewServer(conf, stockRepo, journalRepo, publisher)

	addr := ":" + conf.API.Port
	zap.L().Info(fmt.Sprintf("starting inventory service at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func buildRepositories(conf *config.AppConfig) (service.StockRepository, service.ReservationRepository, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && conf.Postgres == nil {
		zap.L().Warn("no postgres configured, using in-memory stores")

		return memory.NewStockRepository(), memory.NewReservationRepository(), nil
	}

	var postgresDB *gorm.DB
	var err error
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate tables -> %w", err)
	}

	stockRepo := repository.NewStockRepository(dao.NewStockDAO(postgresDB))
	journalRepo := repository.NewReservationRepository(dao.NewReservationDAO(postgresDB))

	return stockRepo, journalRepo, nil
}
