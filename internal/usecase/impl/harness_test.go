package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/domain/service"
	"storefront/internal/infra/persistence/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore() *memory.Store {
	return memory.NewStore()
}

// fakeHasher keeps user service tests fast and deterministic.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenService issues fixed tokens and records the last request.
type fakeTokenService struct {
	lastUserID   string
	lastCategory string
}

func (f *fakeTokenService) GenerateTokens(userID string, category string) (string, string, error) {
	f.lastUserID = userID
	f.lastCategory = category

	return "access-token", "refresh-token", nil
}

func (f *fakeTokenService) ValidateToken(tokenString string, secret string) (*jwt.Token, error) {
	return nil, errors.New("not used in tests")
}

func (f *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}

// capturePublisher records every published order event.
type capturePublisher struct {
	mu     sync.Mutex
	events []*service.OrderEvent
}

func (p *capturePublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *capturePublisher) Close() error {
	return nil
}

func (p *capturePublisher) published() []*service.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*service.OrderEvent, len(p.events))
	copy(out, p.events)

	return out
}
