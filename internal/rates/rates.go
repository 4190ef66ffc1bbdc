// Package rates provides exchange rates for currency migration and display
// conversion, cached in the local store.
package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/store"
	"github.com/shopspring/decimal"
)

var ErrUnavailable = errors.New("exchange rates unavailable")

// Fetcher retrieves fresh rates for a base currency.
type Fetcher interface {
	Latest(ctx context.Context, base string) (*model.RateRecord, error)
}

// Cache is the subset of store.Repository the rate service persists to.
type Cache interface {
	GetRates(base string) (*model.RateRecord, error)
	PutRates(r *model.RateRecord) error
}

// Quote is a rate record and whether it came from a stale cache because
// fetching failed.
type Quote struct {
	Record   *model.RateRecord
	Stale    bool
	FetchErr error
}

type Service struct {
	cache   Cache
	fetcher Fetcher
	maxAge  time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(cache Cache, fetcher Fetcher, maxAge time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{cache: cache, fetcher: fetcher, maxAge: maxAge, logger: logger, now: time.Now}
}

// MaxAge is the configured cache lifetime.
func (s *Service) MaxAge() time.Duration { return s.maxAge }

// Ensure returns rates for base no older than maxAge, fetching when the cache
// is missing or too old. A failed fetch falls back to any cached record.
// maxAge <= 0 always fetches.
func (s *Service) Ensure(ctx context.Context, base string, maxAge time.Duration) (*Quote, error) {
	cached, err := s.cache.GetRates(base)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read cached rates: %w", err)
	}

	if cached != nil && maxAge > 0 {
		age := s.now().Sub(time.UnixMilli(cached.FetchedAt))
		if age < maxAge {
			return &Quote{Record: cached}, nil
		}
	}

	fresh, fetchErr := s.fetcher.Latest(ctx, base)
	if fetchErr == nil {
		if err := s.cache.PutRates(fresh); err != nil {
			return nil, fmt.Errorf("failed to cache rates: %w", err)
		}
		s.logger.Debug("rates refreshed", "base", base, "date", fresh.Date)
		return &Quote{Record: fresh}, nil
	}

	if cached != nil {
		s.logger.Warn("using cached exchange rates", "base", base, "fetched_at", time.UnixMilli(cached.FetchedAt), "error", fetchErr)
		return &Quote{Record: cached, Stale: true, FetchErr: fetchErr}, nil
	}
	return nil, fmt.Errorf("%w for %s: %v", ErrUnavailable, base, fetchErr)
}

// Refresh forces a fetch for base, with the same stale-cache fallback.
func (s *Service) Refresh(ctx context.Context, base string) (*Quote, error) {
	return s.Ensure(ctx, base, 0)
}

// Rate returns the factor that converts one unit of from into to.
func (s *Service) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	q, err := s.Refresh(ctx, from)
	if err != nil {
		return decimal.Decimal{}, err
	}
	rate, ok := q.Record.Rate(to)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no %s→%s rate", ErrUnavailable, from, to)
	}
	return rate, nil
}

// Convert expresses amount (in record.Base) in to.
func Convert(amount decimal.Decimal, record *model.RateRecord, to string) (decimal.Decimal, error) {
	rate, ok := record.Rate(to)
	if !ok {
		base := ""
		if record != nil {
			base = record.Base
		}
		return decimal.Decimal{}, fmt.Errorf("%w: no %s→%s rate", ErrUnavailable, base, to)
	}
	return amount.Mul(rate), nil
}
