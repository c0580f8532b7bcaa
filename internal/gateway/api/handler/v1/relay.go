package v1

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/fulfillment/internal/api/response"
	"github.com/vietanh2810/fulfillment/internal/gateway/proxy"
	"github.com/vietanh2810/fulfillment/internal/metrics"
)

// relay writes an upstream response back verbatim, or a 502 when the
// collaborator was unreachable. Upstream 4xx/5xx pass through untouched.
func relay(ctx *gin.Context, target string, up *proxy.Upstream, err error) {
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues(target).Inc()
		zap.L().Warn("upstream forwarding failed",
			zap.String("target", target),
			zap.Error(err),
		)
		response.RenderErr(ctx, response.ErrUpstreamUnavailable(err))

		return
	}

	ctx.Data(up.StatusCode, up.ContentType, up.Body)
}

func readBody(ctx *gin.Context) []byte {
	if ctx.Request.Body == nil {
		return nil
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return nil
	}

	return body
}
