package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type holdState string

const (
	holdStateOpen     holdState = "OPEN"
	holdStateCaptured holdState = "CAPTURED"
	holdStateReleased holdState = "RELEASED"
)

type mockHold struct {
	amountCents   int32
	capturedCents int32
	state         holdState
}

// MockProvider is an in-memory gateway for tests and local development.
// Idempotency keys are honored: re-authorizing with a seen key returns the
// original hold reference.
type MockProvider struct {
	mu      sync.Mutex
	holds   map[string]*mockHold
	idemRef map[string]string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		holds:   make(map[string]*mockHold),
		idemRef: make(map[string]string),
	}
}

func (p *MockProvider) Authorize(_ context.Context, amountCents int32, _, idempotencyKey string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if amountCents <= 0 {
		return "", ErrDeclined
	}
	if ref, ok := p.idemRef[idempotencyKey]; ok {
		return ref, nil
	}

	ref := "hold_" + uuid.NewString()
	p.holds[ref] = &mockHold{amountCents: amountCents, state: holdStateOpen}
	if idempotencyKey != "" {
		p.idemRef[idempotencyKey] = ref
	}
	return ref, nil
}

func (p *MockProvider) Capture(_ context.Context, ref string, amountCents int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	hold, ok := p.holds[ref]
	if !ok {
		return ErrHoldUnknown
	}
	if hold.state != holdStateOpen {
		return fmt.Errorf("hold %s already %s", ref, hold.state)
	}
	if amountCents > hold.amountCents {
		return fmt.Errorf("capture amount %d exceeds held amount %d", amountCents, hold.amountCents)
	}
	hold.state = holdStateCaptured
	hold.capturedCents = amountCents
	return nil
}

func (p *MockProvider) Release(_ context.Context, ref string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	hold, ok := p.holds[ref]
	if !ok {
		return ErrHoldUnknown
	}
	if hold.state != holdStateOpen {
		return fmt.Errorf("hold %s already %s", ref, hold.state)
	}
	hold.state = holdStateReleased
	return nil
}

// CapturedAmount reports what was settled on a hold. Test helper.
func (p *MockProvider) CapturedAmount(ref string) (int32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	hold, ok := p.holds[ref]
	if !ok || hold.state != holdStateCaptured {
		return 0, false
	}
	return hold.capturedCents, true
}
