package authclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/verify", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user_id": 42}`))
		}))
		defer verifier.Close()

		client := NewClient(verifier.URL, time.Second, nil, 0)

		userID, err := client.Verify(ctx, "good-token")
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("non-200 from verifier", func(t *testing.T) {
		verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer verifier.Close()

		client := NewClient(verifier.URL, time.Second, nil, 0)

		_, err := client.Verify(ctx, "expired-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user id in body", func(t *testing.T) {
		verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer verifier.Close()

		client := NewClient(verifier.URL, time.Second, nil, 0)

		_, err := client.Verify(ctx, "odd-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unreachable verifier", func(t *testing.T) {
		verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		verifier.Close()

		client := NewClient(verifier.URL, time.Second, nil, 0)

		_, err := client.Verify(ctx, "any-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("slow verifier degrades to rejection", func(t *testing.T) {
		verifier := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"user_id": 42}`))
		}))
		defer verifier.Close()

		client := NewClient(verifier.URL, 50*time.Millisecond, nil, 0)

		start := time.Now()
		_, err := client.Verify(ctx, "any-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Less(t, time.Since(start), 250*time.Millisecond)
	})

	t.Run("empty token rejected locally", func(t *testing.T) {
		client := NewClient("http://localhost:1", time.Second, nil, 0)

		_, err := client.Verify(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
