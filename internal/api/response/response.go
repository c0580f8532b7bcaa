package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the JSON error body every handler in both services renders.
// StatusCode mirrors the failure taxonomy: 401 credential/token failures,
// 404 unknown resources, 409 insufficient stock, 502 unreachable upstream.
type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"error"`
}

func (e *Err) Error() string {
	return e.Msg
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		Msg:        err.Error(),
	}
}

func ErrInvalidToken() *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Msg:        "invalid or expired token",
	}
}

func ErrNotFound(err error) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		Msg:        err.Error(),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Msg:        err.Error(),
	}
}

func ErrUpstreamUnavailable(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadGateway,
		Msg:        "upstream unavailable: " + err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		StatusCode: http.StatusInternalServerError,
		Msg:        "internal server error",
	}
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
