package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleHealthcheck(ctx *gin.Context) {
	ctx.String(http.StatusOK, "Hello, World!")
}
