package image

import (
	"context"
	"strings"

	"backend-travelplanner/internal/apperr"
	"backend-travelplanner/internal/cache"
	"backend-travelplanner/internal/logging"

	"go.uber.org/zap"
)

// DefaultImageURL is served when a search has no hits.
const DefaultImageURL = "https://via.placeholder.com/300x200?text=Travel+Image"

type Searcher interface {
	Search(ctx context.Context, query string) ([]Hit, error)
}

type Service struct {
	searcher Searcher
	cache    *cache.Cache
	log      *zap.Logger
}

func NewService(searcher Searcher, c *cache.Cache, log *zap.Logger) *Service {
	return &Service{searcher: searcher, cache: c, log: logging.OrNop(log)}
}

// Lookup returns the first photo hit for query, or DefaultImageURL.
func (s *Service) Lookup(ctx context.Context, query string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return "", apperr.ValidationError{Field: "q", Msg: "Search term is required"}
	}

	var cached string
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("image cache read failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	hits, err := s.searcher.Search(ctx, query)
	if err != nil {
		return "", err
	}
	imageURL := DefaultImageURL
	if len(hits) > 0 && hits[0].WebformatURL != "" {
		imageURL = hits[0].WebformatURL
	}

	if err := s.cache.Set(ctx, key, imageURL); err != nil {
		s.log.Warn("image cache write failed", zap.Error(err))
	}
	return imageURL, nil
}
