package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/alexanderramin/cadence/internal/domain"
)

type cachedSignals struct {
	since   time.Time
	signals []domain.ActivitySignal
}

// CachedSignalRepo keeps signal reads in memory for ttl. Appends evict the
// user's entries. A non-positive ttl disables caching, since go-cache would
// never expire the entries.
type CachedSignalRepo struct {
	inner SignalRepo
	cache *cache.Cache
}

func NewCachedSignalRepo(inner SignalRepo, ttl time.Duration) *CachedSignalRepo {
	r := &CachedSignalRepo{inner: inner}
	if ttl > 0 {
		r.cache = cache.New(ttl, 2*ttl)
	}
	return r
}

func (r *CachedSignalRepo) Append(ctx context.Context, s *domain.ActivitySignal) error {
	if err := r.inner.Append(ctx, s); err != nil {
		return err
	}
	if r.cache != nil {
		r.evictUser(s.UserID)
	}
	return nil
}

// FetchRecentSignals serves from a cached window when it started at or before
// since. The cached slice holds the newest signals, so filtering it is exact.
func (r *CachedSignalRepo) FetchRecentSignals(ctx context.Context, userID string, since time.Time, limit int) ([]domain.ActivitySignal, error) {
	if r.cache == nil {
		return r.inner.FetchRecentSignals(ctx, userID, since, limit)
	}
	key := fmt.Sprintf("%s|recent|%d", userID, limit)
	if v, found := r.cache.Get(key); found {
		entry := v.(cachedSignals)
		if !entry.since.After(since) {
			return filterSince(entry.signals, since), nil
		}
	}

	signals, err := r.inner.FetchRecentSignals(ctx, userID, since, limit)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, cachedSignals{since: since, signals: signals}, cache.DefaultExpiration)
	return signals, nil
}

// FetchUpcomingDeadlines caches whole UTC days and trims to [from, to].
func (r *CachedSignalRepo) FetchUpcomingDeadlines(ctx context.Context, userID string, from, to time.Time) ([]domain.Deadline, error) {
	if r.cache == nil {
		return r.inner.FetchUpcomingDeadlines(ctx, userID, from, to)
	}
	dayFrom := from.UTC().Truncate(24 * time.Hour)
	dayTo := to.UTC().Truncate(24 * time.Hour).Add(24*time.Hour - time.Millisecond)
	key := fmt.Sprintf("%s|deadlines|%s|%s", userID, dayFrom.Format(time.DateOnly), dayTo.Format(time.DateOnly))

	var deadlines []domain.Deadline
	if v, found := r.cache.Get(key); found {
		deadlines = v.([]domain.Deadline)
	} else {
		var err error
		deadlines, err = r.inner.FetchUpcomingDeadlines(ctx, userID, dayFrom, dayTo)
		if err != nil {
			return nil, err
		}
		r.cache.Set(key, deadlines, cache.DefaultExpiration)
	}

	var out []domain.Deadline
	for _, d := range deadlines {
		if !d.DueDate.Before(from) && !d.DueDate.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *CachedSignalRepo) evictUser(userID string) {
	prefix := userID + "|"
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
}

func filterSince(signals []domain.ActivitySignal, since time.Time) []domain.ActivitySignal {
	var out []domain.ActivitySignal
	for _, s := range signals {
		if !s.ObservedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out
}
