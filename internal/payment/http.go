package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"powerloop-backend/internal/logger"
)

// HTTPProvider talks to the payment gateway's REST API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type authorizeRequest struct {
	AmountCents    int32  `json:"amount_cents"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

type authorizeResponse struct {
	HoldRef string `json:"hold_ref"`
}

type captureRequest struct {
	AmountCents int32 `json:"amount_cents"`
}

func (p *HTTPProvider) Authorize(ctx context.Context, amountCents int32, currency, idempotencyKey string) (string, error) {
	logger.ExternalServiceCall("payment", "authorize", "amount_cents", amountCents)

	body := authorizeRequest{AmountCents: amountCents, Currency: currency, IdempotencyKey: idempotencyKey}
	var resp authorizeResponse
	err := p.do(ctx, http.MethodPost, "/v1/holds", body, &resp)
	logger.ExternalServiceResult("payment", "authorize", err)
	if err != nil {
		return "", err
	}
	if resp.HoldRef == "" {
		return "", fmt.Errorf("payment provider returned empty hold reference")
	}
	return resp.HoldRef, nil
}

func (p *HTTPProvider) Capture(ctx context.Context, ref string, amountCents int32) error {
	logger.ExternalServiceCall("payment", "capture", "ref", ref, "amount_cents", amountCents)

	err := p.do(ctx, http.MethodPost, "/v1/holds/"+ref+"/capture", captureRequest{AmountCents: amountCents}, nil)
	logger.ExternalServiceResult("payment", "capture", err)
	return err
}

func (p *HTTPProvider) Release(ctx context.Context, ref string) error {
	logger.ExternalServiceCall("payment", "release", "ref", ref)

	err := p.do(ctx, http.MethodPost, "/v1/holds/"+ref+"/release", nil, nil)
	logger.ExternalServiceResult("payment", "release", err)
	return err
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrDeclined
	case resp.StatusCode == http.StatusNotFound:
		return ErrHoldUnknown
	case resp.StatusCode >= 400:
		return fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode payment provider response: %w", err)
		}
	}
	return nil
}
