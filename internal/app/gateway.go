package app

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vietanh2810/fulfillment/internal/config"
	"github.com/vietanh2810/fulfillment/internal/gateway/api"
	"github.com/vietanh2810/fulfillment/internal/gateway/authclient"
	"github.com/vietanh2810/fulfillment/internal/gateway/compute"
	"github.com/vietanh2810/fulfillment/internal/gateway/proxy"
	"github.com/vietanh2810/fulfillment/internal/logger"
)

const (
	defaultVerifyTimeout  = 5 * time.Second
	defaultForwardTimeout = 30 * time.Second
	defaultInvoiceTimeout = 60 * time.Second
	defaultVerifyCacheTTL = time.Minute
)

// StartGateway boots the mediation layer. It owns no state: token
// verification is delegated to the auth collaborator, everything else is
// forwarded.
func StartGateway(configPath string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	if conf.Services == nil {
		return fmt.Errorf("services config is required for the gateway")
	}

	var cache *redis.Client
	cacheTTL := defaultVerifyCacheTTL
	if conf.Redis != nil && conf.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{Addr: conf.Redis.Addr})
		if conf.Redis.VerifyCacheTTL > 0 {
			cacheTTL = conf.Redis.VerifyCacheTTL
		}
	}

	verifier := authclient.NewClient(
		conf.Services.AuthURL,
		timeoutOr(conf.Services.VerifyTimeout, defaultVerifyTimeout),
		cache,
		cacheTTL,
	)
	fwd := proxy.NewForwarder(timeoutOr(conf.Services.ForwardTimeout, defaultForwardTimeout))
	invoker := compute.NewClient(
		conf.Services.InvoiceURL,
		timeoutOr(conf.Services.InvoiceTimeout, defaultInvoiceTimeout),
	)

	s := api.NewServer(conf, verifier, fwd, invoker)

	addr := ":" + conf.API.Port
	zap.L().Info(fmt.Sprintf("starting gateway at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func timeoutOr(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}

	return fallback
}
