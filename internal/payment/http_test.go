package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_Authorize(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/holds", r.URL.Path)

		var req authorizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int32(1000), req.AmountCents)
		assert.Equal(t, "CHF", req.Currency)
		assert.NotEmpty(t, req.IdempotencyKey)

		json.NewEncoder(w).Encode(authorizeResponse{HoldRef: "hold_abc"})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "secret-key", 5*time.Second)
	ref, err := p.Authorize(context.Background(), 1000, "CHF", "idem-1")
	require.NoError(t, err)
	assert.Equal(t, "hold_abc", ref)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestHTTPProvider_AuthorizeDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "k", 5*time.Second)
	_, err := p.Authorize(context.Background(), 1000, "CHF", "idem-1")
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestHTTPProvider_CaptureUnknownHold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/holds/hold_missing/capture", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "k", 5*time.Second)
	err := p.Capture(context.Background(), "hold_missing", 500)
	assert.ErrorIs(t, err, ErrHoldUnknown)
}

func TestMockProvider_Lifecycle(t *testing.T) {
	p := NewMockProvider()
	ctx := context.Background()

	ref, err := p.Authorize(ctx, 1000, "CHF", "idem-1")
	require.NoError(t, err)

	// Same idempotency key returns the same hold.
	ref2, err := p.Authorize(ctx, 1000, "CHF", "idem-1")
	require.NoError(t, err)
	assert.Equal(t, ref, ref2)

	// Capture below the held amount succeeds, above fails.
	assert.Error(t, p.Capture(ctx, ref, 1200))
	require.NoError(t, p.Capture(ctx, ref, 800))
	captured, ok := p.CapturedAmount(ref)
	assert.True(t, ok)
	assert.Equal(t, int32(800), captured)

	// Double capture and release of a settled hold fail.
	assert.Error(t, p.Capture(ctx, ref, 100))
	assert.Error(t, p.Release(ctx, ref))
}
