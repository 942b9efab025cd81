package ingest

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/burphub/burphub/internal/domain"
	"github.com/burphub/burphub/internal/ports"
)

// Rejection reasons reported to the metrics exporter.
const (
	ReasonRateLimited  = "rate_limited"
	ReasonUnauthorized = "unauthorized"
	ReasonInvalid      = "invalid"
	ReasonStorage      = "storage"
)

// Limiter decides whether a client address may sync now.
type Limiter interface {
	Allow(key string) bool
}

// Request is one inbound sync call.
type Request struct {
	ClientAddr string
	APIKey     string
	Body       []byte
}

// Result describes a committed batch.
type Result struct {
	BatchID string
	Synced  int
}

type Service struct {
	repo    ports.SyncRepository
	limiter Limiter
	apiKey  string
	metrics ports.MetricsExporter
	logger  *slog.Logger
}

// NewService wires the ingest pipeline. An empty apiKey rejects every request.
func NewService(repo ports.SyncRepository, limiter Limiter, apiKey string, metrics ports.MetricsExporter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		limiter: limiter,
		apiKey:  apiKey,
		metrics: metrics,
		logger:  logger,
	}
}

// Sync rate limits, authenticates, decodes and stores one upload.
// The limiter runs first and counts the attempt whatever the key.
func (s *Service) Sync(ctx context.Context, req Request) (*Result, error) {
	if !s.limiter.Allow(req.ClientAddr) {
		s.logger.Warn("sync rate limit exceeded", "client", req.ClientAddr)
		s.reject(ctx, ReasonRateLimited)
		return nil, ErrRateLimited
	}

	if !s.authorized(req.APIKey) {
		s.logger.Warn("sync rejected: invalid API key", "client", req.ClientAddr)
		s.reject(ctx, ReasonUnauthorized)
		return nil, ErrUnauthorized
	}

	batch, err := DecodeBatch(req.Body)
	if err != nil {
		s.logger.Warn("sync rejected: invalid payload", "client", req.ClientAddr, "error", err)
		s.reject(ctx, ReasonInvalid)
		return nil, err
	}

	return s.Apply(ctx, batch)
}

// Apply stores an already decoded batch in one transaction.
func (s *Service) Apply(ctx context.Context, batch *domain.SyncBatch) (*Result, error) {
	batchID := uuid.NewString()

	if err := s.repo.ApplyBatch(ctx, batch); err != nil {
		s.logger.Error("sync failed", "batch_id", batchID, "error", err)
		s.reject(ctx, ReasonStorage)
		return nil, fmt.Errorf("failed to apply sync batch: %w", err)
	}

	s.logger.Info("sync applied",
		"batch_id", batchID,
		"days", len(batch.DailyStats),
		"streak", batch.Streak != nil,
		"profile", batch.Profile != nil,
	)
	if s.metrics != nil {
		s.metrics.RecordSync(ctx, len(batch.DailyStats))
	}

	return &Result{BatchID: batchID, Synced: len(batch.DailyStats)}, nil
}

func (s *Service) authorized(key string) bool {
	if s.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) == 1
}

func (s *Service) reject(ctx context.Context, reason string) {
	if s.metrics != nil {
		s.metrics.RecordRejection(ctx, reason)
	}
}
