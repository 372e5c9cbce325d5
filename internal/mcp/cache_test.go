package mcp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress logs during testing
	return logger
}

func TestToolResultCache_KeyDeterminism(t *testing.T) {
	c := NewToolResultCache(10, time.Minute, testCacheLogger())

	params := BiomarkerParams{Albumin: 4.47, ChronologicalAge: 46.0}
	key := c.Key(toolCalculatePhenoAge, params)

	assert.Equal(t, key, c.Key(toolCalculatePhenoAge, params))
	assert.Len(t, key, 64)

	// Same parameters under a different tool, or different parameters under
	// the same tool, must never collide.
	assert.NotEqual(t, key, c.Key(toolGetAssessment, params))

	other := params
	other.Albumin = 4.5
	assert.NotEqual(t, key, c.Key(toolCalculatePhenoAge, other))
}

func TestToolResultCache_StoreAndLookup(t *testing.T) {
	c := NewToolResultCache(10, time.Minute, testCacheLogger())
	key := c.Key(toolListInterventions, ListInterventionsParams{})

	_, found := c.Lookup(key)
	assert.False(t, found)

	c.Store(key, "2 interventions available", ListInterventionsResult{Count: 2})

	resp, found := c.Lookup(key)
	require.True(t, found)
	assert.Equal(t, "2 interventions available", resp.Text)

	var decoded ListInterventionsResult
	require.NoError(t, json.Unmarshal(resp.Payload, &decoded))
	assert.Equal(t, 2, decoded.Count)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestToolResultCache_Eviction(t *testing.T) {
	c := NewToolResultCache(2, time.Minute, testCacheLogger())

	c.Store("a", "a", 1)
	c.Store("b", "b", 2)
	c.Store("c", "c", 3)

	assert.Equal(t, 2, c.Stats().Size)

	// The oldest entry is gone, the two newest survive.
	_, found := c.Lookup("a")
	assert.False(t, found)
	_, found = c.Lookup("b")
	assert.True(t, found)
	_, found = c.Lookup("c")
	assert.True(t, found)
}

func TestToolResultCache_TTLExpiry(t *testing.T) {
	c := NewToolResultCache(10, time.Millisecond, testCacheLogger())

	c.Store("k", "v", 1)
	time.Sleep(20 * time.Millisecond)

	_, found := c.Lookup("k")
	assert.False(t, found)
}

func TestToolResultCache_Purge(t *testing.T) {
	c := NewToolResultCache(10, time.Minute, testCacheLogger())

	key := c.Key(toolGetReferenceValues, GetReferenceValuesParams{ChronologicalAge: 40})
	c.Store(key, "landmarks", GetReferenceValuesResult{ChronologicalAge: 40})
	_, found := c.Lookup(key)
	require.True(t, found)

	c.Purge()

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, 0, stats.Size)

	_, found = c.Lookup(key)
	assert.False(t, found)
}
