package services

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"vocaresume/api/internal/models"
)

// CacheKey memoizes generated analyses per (task, model) pair. Entries are
// never reused across model ids.
type CacheKey struct {
	Task  models.TaskLabel
	Model string
}

type CacheEntry struct {
	Markdown  string
	CreatedAt time.Time
}

// ResponseCache is scoped to one session. Besides the key, every entry is
// bound to a fingerprint of the inputs it was computed from: when the resume
// or job description changes the whole cache is invalidated, so stale
// analysis is never served against new inputs.
type ResponseCache interface {
	GetOrCompute(key CacheKey, fingerprint string, compute func() (string, error)) (string, error)
	Clear()
	Len() int
}

type responseCache struct {
	mu          sync.Mutex
	entries     map[CacheKey]CacheEntry
	fingerprint string
}

func NewResponseCache() ResponseCache {
	return &responseCache{
		entries: make(map[CacheKey]CacheEntry),
	}
}

// GetOrCompute implements ResponseCache. On a hit the stored markdown is
// returned without invoking compute; on a miss compute runs exactly once and
// its result is stored. A fingerprint change drops every entry first.
func (c *responseCache) GetOrCompute(key CacheKey, fingerprint string, compute func() (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fingerprint != c.fingerprint {
		c.entries = make(map[CacheKey]CacheEntry)
		c.fingerprint = fingerprint
	}

	if entry, ok := c.entries[key]; ok {
		return entry.Markdown, nil
	}

	markdown, err := compute()
	if err != nil {
		return "", err
	}

	c.entries[key] = CacheEntry{
		Markdown:  markdown,
		CreatedAt: time.Now(),
	}

	return markdown, nil
}

// Clear implements ResponseCache.
func (c *responseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[CacheKey]CacheEntry)
	c.fingerprint = ""
}

// Len implements ResponseCache.
func (c *responseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// InputFingerprint derives the cache invalidation key from the session's
// resume and job description text.
func InputFingerprint(resumeText, jobDescText string) string {
	h := sha256.New()
	h.Write([]byte(resumeText))
	h.Write([]byte{0})
	h.Write([]byte(jobDescText))
	return hex.EncodeToString(h.Sum(nil))
}
