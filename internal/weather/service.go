package weather

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend-travelplanner/internal/cache"
	"backend-travelplanner/internal/logging"
	"backend-travelplanner/internal/shared/dates"

	"go.uber.org/zap"
)

var ErrNoData = errors.New("weather provider returned no data")

type Provider interface {
	Fetch(ctx context.Context, endpoint dates.Endpoint, city string) ([]Observation, error)
}

type Service struct {
	provider Provider
	cache    *cache.Cache
	log      *zap.Logger
	now      func() time.Time
}

func NewService(provider Provider, c *cache.Cache, log *zap.Logger) *Service {
	return &Service{provider: provider, cache: c, log: logging.OrNop(log), now: time.Now}
}

// Lookup resolves the weather for destination on date. Within a week
// (or in the past) current conditions are used, otherwise the first day of the
// daily forecast.
func (s *Service) Lookup(ctx context.Context, destination, date string) (Summary, error) {
	endpoint := dates.SelectEndpoint(dates.ElapsedDays(s.now(), date))
	key := endpoint.String() + ":" + strings.ToLower(strings.TrimSpace(destination))

	var cached Summary
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("weather cache read failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	data, err := s.provider.Fetch(ctx, endpoint, destination)
	if err != nil {
		return Summary{}, err
	}
	if len(data) == 0 {
		return Summary{}, ErrNoData
	}

	summary := data[0].Summary()
	if err := s.cache.Set(ctx, key, summary); err != nil {
		s.log.Warn("weather cache write failed", zap.Error(err))
	}
	return summary, nil
}
