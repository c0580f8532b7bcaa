// Package authclient verifies bearer tokens by delegation. The gateway holds
// no signing secret and never decodes a token itself; every assertion comes
// from the auth collaborator's verify endpoint.
package authclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const keyVerify = "verify:%s"

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *redis.Client
	cacheTTL   time.Duration
}

// NewClient builds a verifier client with a hard timeout, so a slow or
// unreachable auth collaborator degrades to fast rejection instead of
// hanging the gateway. cache may be nil; when set, successful assertions are
// kept under a short TTL.
func NewClient(baseURL string, timeout time.Duration, cache *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

type verifyRequest struct {
	Access string `json:"access"`
}

type verifyResponse struct {
	UserID *int64 `json:"user_id"`
}

// Verify turns a bearer token into a user id. Malformed token, expired
// token, unknown subject, unreachable verifier and non-200 all collapse to
// ErrInvalidToken.
func (c *Client) Verify(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	if userID, ok := c.cachedUserID(ctx, token); ok {
		return userID, nil
	}

	body, err := json.Marshal(verifyRequest{Access: token})
	if err != nil {
		return 0, fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/verify", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("auth verify request failed", zap.Error(err))

		return 0, ErrInvalidToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("auth verify rejected token", zap.Int("status", resp.StatusCode))

		return 0, ErrInvalidToken
	}

	var parsed verifyResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.UserID == nil {
		return 0, ErrInvalidToken
	}

	c.cacheUserID(ctx, token, *parsed.UserID)

	return *parsed.UserID, nil
}

func (c *Client) cachedUserID(ctx context.Context, token string) (int64, bool) {
	if c.cache == nil {
		return 0, false
	}

	val, err := c.cache.Get(ctx, cacheKey(token)).Result()
	if err != nil {
		return 0, false
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}

	return userID, true
}

func (c *Client) cacheUserID(ctx context.Context, token string, userID int64) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}

	if err := c.cache.Set(ctx, cacheKey(token), strconv.FormatInt(userID, 10), c.cacheTTL).Err(); err != nil {
		zap.L().Warn("failed to cache token verification", zap.Error(err))
	}
}

// Tokens are credentials; only their hash is used as a cache key.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))

	return fmt.Sprintf(keyVerify, hex.EncodeToString(sum[:]))
}
