package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/fulfillment/internal/gateway/proxy"
)

// AuthHandler passes credential operations straight through to the auth
// collaborator. The gateway never sees or stores user credentials beyond
// relaying these calls.
type AuthHandler struct {
	fwd     *proxy.Forwarder
	authURL string
}

func NewAuthHandler(fwd *proxy.Forwarder, authURL string) *AuthHandler {
	return &AuthHandler{
		fwd:     fwd,
		authURL: authURL,
	}
}

// HandleRegister godoc
// @Summary      Register a new user via the auth collaborator
// @Tags         auth
// @Produce      json
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	h.passthrough(ctx, "/register")
}

// HandleLogin godoc
// @Summary      Login via the auth collaborator
// @Tags         auth
// @Produce      json
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	h.passthrough(ctx, "/login")
}

// HandleRefresh godoc
// @Summary      Refresh an access token via the auth collaborator
// @Tags         auth
// @Produce      json
// @Router       /auth/refresh [post]
func (h *AuthHandler) HandleRefresh(ctx *gin.Context) {
	h.passthrough(ctx, "/refresh")
}

func (h *AuthHandler) passthrough(ctx *gin.Context, path string) {
	up, err := h.fwd.Do(ctx.Request.Context(), http.MethodPost, h.authURL, path,
		ctx.Request.URL.Query(), readBody(ctx), ctx.Request.Header)
	relay(ctx, "auth", up, err)
}
