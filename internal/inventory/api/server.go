package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietanh2810/fulfillment/internal/api/middleware"
	"github.com/vietanh2810/fulfillment/internal/config"
	v1 "github.com/vietanh2810/fulfillment/internal/inventory/api/handler/v1"
	"github.com/vietanh2810/fulfillment/internal/inventory/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// NewServer wires the inventory HTTP surface on top of already-constructed
// repositories, so the caller decides whether postgres or the in-memory
// store backs the ledger.
func NewServer(conf *config.AppConfig, stockRepo service.StockRepository, journalRepo service.ReservationRepository, publisher service.EventPublisher) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	stockHandler := v1.NewStockHandler(service.NewStockService(stockRepo))
	reservationHandler := v1.NewReservationHandler(service.NewReservationService(stockRepo, journalRepo, publisher))
	s.MountHandlers(stockHandler, reservationHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(stockHandler *v1.StockHandler, reservationHandler *v1.ReservationHandler) {
	const basePath = "/api/v1"

	stock := s.Router.Group(basePath)
	{
		stock.GET("/stock", stockHandler.HandleListStock)
		stock.GET("/stock/:productID", stockHandler.HandleGetStock)
		stock.POST("/stock", stockHandler.HandleUpsertStock)
		stock.POST("/reserve", reservationHandler.HandleReserve)
		stock.POST("/release", reservationHandler.HandleRelease)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
