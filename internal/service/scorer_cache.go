package service

import (
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/phenoage-mcp-server/internal/domain"
)

// CacheStats reports hit counters for a CachedScorer.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// CachedScorer memoizes ComputeAge results in an LRU cache. Rankers and
// simulators recompute the same baseline repeatedly, so the cache pays off
// on any multi-intervention workload.
type CachedScorer struct {
	inner  domain.AgeScorer
	cache  *lru.Cache[string, *domain.AgeMetrics]
	logger *logrus.Logger

	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// NewCachedScorer wraps an AgeScorer with an LRU cache of maxItems entries.
func NewCachedScorer(inner domain.AgeScorer, maxItems int, logger *logrus.Logger) (*CachedScorer, error) {
	cache, err := lru.New[string, *domain.AgeMetrics](maxItems)
	if err != nil {
		return nil, err
	}
	return &CachedScorer{inner: inner, cache: cache, logger: logger}, nil
}

// ComputeAge returns the cached metrics for the set if present, computing and
// storing them otherwise. Callers always receive a private clone, so mutating
// a returned bundle cannot poison the cache.
func (s *CachedScorer) ComputeAge(set domain.BiomarkerSet) (*domain.AgeMetrics, error) {
	key, ok := cacheKey(set)
	if !ok {
		// Incomplete sets never reach the cache; let the inner scorer
		// produce the validation error.
		return s.inner.ComputeAge(set)
	}

	if metrics, found := s.cache.Get(key); found {
		s.mu.Lock()
		s.hits++
		s.mu.Unlock()
		return metrics.Clone(), nil
	}

	metrics, err := s.inner.ComputeAge(set)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, metrics.Clone())

	s.mu.Lock()
	s.misses++
	s.mu.Unlock()
	return metrics, nil
}

// Stats returns a snapshot of the cache counters.
func (s *CachedScorer) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CacheStats{Hits: s.hits, Misses: s.misses, Size: s.cache.Len()}
}

// Purge drops every cached entry and resets the counters.
func (s *CachedScorer) Purge() {
	s.cache.Purge()
	s.mu.Lock()
	s.hits = 0
	s.misses = 0
	s.mu.Unlock()
}

// cacheKey builds a canonical key over the ordered biomarkers. ok is false
// when the set is missing any required biomarker.
func cacheKey(set domain.BiomarkerSet) (string, bool) {
	var sb strings.Builder
	for i, b := range domain.BiomarkerOrder {
		v, present := set[b]
		if !present {
			return "", false
		}
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return sb.String(), true
}
