package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/fulfillment/internal/api/response"
)

const ctxKeyUserID = "authenticated_user_id"

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (int64, error)
}

// Authenticator guards protected routes. It delegates every token to the
// verifier and keeps no credential material of its own.
type Authenticator struct {
	verifier TokenVerifier
}

func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{
		verifier: verifier,
	}
}

func (a *Authenticator) VerifyToken() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			response.RenderErr(ctx, response.ErrInvalidToken())

			return
		}

		userID, err := a.verifier.Verify(ctx.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			response.RenderErr(ctx, response.ErrInvalidToken())

			return
		}

		ctx.Set(ctxKeyUserID, userID)
		ctx.Next()
	}
}

// UserID reads the authenticated user id a VerifyToken middleware stored for
// this request.
func UserID(ctx *gin.Context) (int64, bool) {
	val, exists := ctx.Get(ctxKeyUserID)
	if !exists {
		return 0, false
	}

	userID, ok := val.(int64)

	return userID, ok
}
