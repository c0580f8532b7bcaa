package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sharedmiddleware "github.com/vietanh2810/fulfillment/internal/api/middleware"
	"github.com/vietanh2810/fulfillment/internal/config"
	v1 "github.com/vietanh2810/fulfillment/internal/gateway/api/handler/v1"
	"github.com/vietanh2810/fulfillment/internal/gateway/api/middleware"
	"github.com/vietanh2810/fulfillment/internal/gateway/proxy"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// NewServer wires the gateway: every protected route goes through the
// delegating authenticator, then forwards to the collaborator that owns it.
func NewServer(conf *config.AppConfig, verifier middleware.TokenVerifier, fwd *proxy.Forwarder, invoker v1.InvoiceInvoker) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := v1.NewAuthHandler(fwd, conf.Services.AuthURL)
	ordersHandler := v1.NewOrdersHandler(fwd, conf.Services.OrdersURL)
	stockHandler := v1.NewStockHandler(fwd, conf.Services.InventoryURL)
	invoiceHandler := v1.NewInvoiceHandler(invoker)
	s.MountHandlers(verifier, authHandler, ordersHandler, stockHandler, invoiceHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(sharedmiddleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	verifier middleware.TokenVerifier,
	authHandler *v1.AuthHandler,
	ordersHandler *v1.OrdersHandler,
	stockHandler *v1.StockHandler,
	invoiceHandler *v1.InvoiceHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/register", authHandler.HandleRegister)
		auth.POST("/auth/login", authHandler.HandleLogin)
		auth.POST("/auth/refresh", authHandler.HandleRefresh)
	}

	protected := s.Router.Group(basePath, middleware.NewAuthenticator(verifier).VerifyToken())
	{
		protected.GET("/orders", ordersHandler.HandleListOrders)
		protected.POST("/orders", ordersHandler.HandleCreateOrder)
		protected.GET("/orders/:orderID", ordersHandler.HandleGetOrder)
		protected.PATCH("/orders/:orderID", ordersHandler.HandleUpdateOrder)
		protected.POST("/orders/:orderID/invoice", invoiceHandler.HandleGenerateInvoice)

		protected.GET("/stock", stockHandler.HandleListStock)
		protected.GET("/stock/:productID", stockHandler.HandleGetStock)
		protected.POST("/stock", stockHandler.HandleUpsertStock)
		protected.POST("/reserve", stockHandler.HandleReserve)
		protected.POST("/release", stockHandler.HandleRelease)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
