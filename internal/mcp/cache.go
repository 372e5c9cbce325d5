package mcp

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

// ToolCacheStats reports hit counters for a ToolResultCache.
type ToolCacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// cachedResponse is the stored form of one successful tool response: the
// human-readable summary line and the JSON payload of the typed result.
type cachedResponse struct {
	Text    string          `json:"text"`
	Payload json.RawMessage `json:"payload"`
}

// ToolResultCache memoizes complete tool responses keyed by tool name and the
// JSON rendering of the call parameters. Every tool is a pure function of its
// parameters, so a hit can replay the original response verbatim. Entries
// expire after the configured TTL.
type ToolResultCache struct {
	cache  *expirable.LRU[string, string]
	logger *logrus.Logger

	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// NewToolResultCache builds a cache holding up to maxItems responses for ttl.
func NewToolResultCache(maxItems int, ttl time.Duration, logger *logrus.Logger) *ToolResultCache {
	return &ToolResultCache{
		cache:  expirable.NewLRU[string, string](maxItems, nil, ttl),
		logger: logger,
	}
}

// Key derives the cache key for a tool invocation. Parameter structs are
// plain data, so the marshal error is impossible in practice; an empty byte
// slice still yields a deterministic key.
func (c *ToolResultCache) Key(tool string, params any) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(append([]byte(tool+"::"), data...))
	return hex.EncodeToString(hash[:])
}

// Lookup returns the stored response for key.
func (c *ToolResultCache) Lookup(key string) (cachedResponse, bool) {
	raw, found := c.cache.Get(key)

	c.mu.Lock()
	if found {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if !found {
		return cachedResponse{}, false
	}

	var resp cachedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.logger.WithError(err).Warn("Dropping undecodable cached tool response")
		c.cache.Remove(key)
		return cachedResponse{}, false
	}
	return resp, true
}

// Store records a tool response under key. Serialization failures are logged
// and the response is simply not cached.
func (c *ToolResultCache) Store(key, text string, result any) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to serialize tool result for caching")
		return
	}
	raw, err := json.Marshal(cachedResponse{Text: text, Payload: payload})
	if err != nil {
		c.logger.WithError(err).Warn("Failed to serialize tool response for caching")
		return
	}
	c.cache.Add(key, string(raw))
}

// Stats returns a snapshot of the cache counters.
func (c *ToolResultCache) Stats() ToolCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ToolCacheStats{Hits: c.hits, Misses: c.misses, Size: c.cache.Len()}
}

// Purge drops every cached response and resets the counters.
func (c *ToolResultCache) Purge() {
	c.cache.Purge()
	c.mu.Lock()
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()
}
