package ingest_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/burphub/burphub/internal/adapters/sqlstore"
	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/ingest"
	"github.com/burphub/burphub/internal/migrate"
	"github.com/burphub/burphub/internal/ratelimit"
)

const testKey = "s3cret"

type fakeRepo struct {
	mu      sync.Mutex
	batches []*domain.SyncBatch
	err     error
}

func (r *fakeRepo) ApplyBatch(ctx context.Context, batch *domain.SyncBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, batch)
	return nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	syncs      int
	days       int
	rejections map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{rejections: make(map[string]int)}
}

func (m *fakeMetrics) RecordSync(ctx context.Context, days int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs++
	m.days += days
}

func (m *fakeMetrics) RecordRejection(ctx context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections[reason]++
}

func (m *fakeMetrics) Close(ctx context.Context) error { return nil }

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

func syncRequest(key, body string) ingest.Request {
	return ingest.Request{ClientAddr: "203.0.113.7", APIKey: key, Body: []byte(body)}
}

func TestSync_Success(t *testing.T) {
	repo := &fakeRepo{}
	metrics := newFakeMetrics()
	svc := ingest.NewService(repo, allowAll{}, testKey, metrics, nil)

	res, err := svc.Sync(context.Background(), syncRequest(testKey,
		`{"daily_stats":{"2024-01-01":{"intercepted_requests":5},"2024-01-02":{}}}`))
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if res.Synced != 2 {
		t.Errorf("expected 2 synced, got %d", res.Synced)
	}
	if res.BatchID == "" {
		t.Error("expected a batch id")
	}
	if len(repo.batches) != 1 {
		t.Fatalf("expected 1 batch applied, got %d", len(repo.batches))
	}
	if metrics.syncs != 1 || metrics.days != 2 {
		t.Errorf("unexpected metrics: syncs=%d days=%d", metrics.syncs, metrics.days)
	}
}

func TestSync_BadKeyDoesNotTouchStore(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
	}{
		{"wrong key", testKey, "nope"},
		{"missing key", testKey, ""},
		{"prefix of key", testKey, "s3c"},
		{"server without key", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			metrics := newFakeMetrics()
			svc := ingest.NewService(repo, allowAll{}, tt.configured, metrics, nil)

			_, err := svc.Sync(context.Background(), syncRequest(tt.sent,
				`{"daily_stats":{"2024-01-01":{"intercepted_requests":5}}}`))
			if !errors.Is(err, ingest.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if len(repo.batches) != 0 {
				t.Error("expected store to be untouched")
			}
			if metrics.rejections[ingest.ReasonUnauthorized] != 1 {
				t.Errorf("expected unauthorized rejection to be recorded, got %v", metrics.rejections)
			}
		})
	}
}

func TestSync_RateLimitRunsBeforeAuth(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := ratelimit.New(10, time.Minute, func() time.Time { return now })
	repo := &fakeRepo{}
	metrics := newFakeMetrics()
	svc := ingest.NewService(repo, limiter, testKey, metrics, nil)
	ctx := context.Background()

	// Bad keys still consume the budget.
	for i := 0; i < 10; i++ {
		if _, err := svc.Sync(ctx, syncRequest("wrong", `{}`)); !errors.Is(err, ingest.ErrUnauthorized) {
			t.Fatalf("request %d: expected ErrUnauthorized, got %v", i+1, err)
		}
	}

	// A valid key cannot bypass the limiter.
	if _, err := svc.Sync(ctx, syncRequest(testKey, `{}`)); !errors.Is(err, ingest.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if metrics.rejections[ingest.ReasonRateLimited] != 1 {
		t.Errorf("expected rate limit rejection to be recorded, got %v", metrics.rejections)
	}

	now = now.Add(time.Minute)
	if _, err := svc.Sync(ctx, syncRequest(testKey, `{}`)); err != nil {
		t.Fatalf("expected success after the window reset, got %v", err)
	}
}

func TestSync_InvalidPayload(t *testing.T) {
	repo := &fakeRepo{}
	metrics := newFakeMetrics()
	svc := ingest.NewService(repo, allowAll{}, testKey, metrics, nil)

	_, err := svc.Sync(context.Background(), syncRequest(testKey, `{"daily_stats":{"not-a-date":{}}}`))
	var verr *ingest.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.batches) != 0 {
		t.Error("expected store to be untouched")
	}
	if metrics.rejections[ingest.ReasonInvalid] != 1 {
		t.Errorf("expected invalid rejection to be recorded, got %v", metrics.rejections)
	}
}

func TestSync_StorageErrorIsWrapped(t *testing.T) {
	boom := errors.New("disk full")
	repo := &fakeRepo{err: boom}
	metrics := newFakeMetrics()
	svc := ingest.NewService(repo, allowAll{}, testKey, metrics, nil)

	_, err := svc.Sync(context.Background(), syncRequest(testKey, `{"daily_stats":{"2024-01-01":{}}}`))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	if metrics.rejections[ingest.ReasonStorage] != 1 {
		t.Errorf("expected storage rejection to be recorded, got %v", metrics.rejections)
	}
	if metrics.syncs != 0 {
		t.Errorf("expected no successful sync recorded, got %d", metrics.syncs)
	}
}

func TestSync_IdempotentAgainstStore(t *testing.T) {
	db, err := sqlstore.Open(filepath.Join(t.TempDir(), "ingest.db"), "")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	repos := sqlstore.NewRepositories(db)
	svc := ingest.NewService(repos.Sync, allowAll{}, testKey, nil, nil)
	body := `{"daily_stats":{"2024-01-01":{"intercepted_requests":5,"repeater_requests":2}}}`

	for i := 0; i < 2; i++ {
		if _, err := svc.Sync(ctx, syncRequest(testKey, body)); err != nil {
			t.Fatalf("sync %d failed: %v", i+1, err)
		}
	}

	got, err := repos.DailyStats.Get(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := domain.DailyStat{Date: "2024-01-01", InterceptedRequests: 5, RepeaterRequests: 2}
	if got == nil || *got != want {
		t.Errorf("expected %+v after two syncs, got %+v", want, got)
	}
}
