package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocaresume/api/internal/models"
)

func TestResponseCache_ComputesOncePerKey(t *testing.T) {
	cache := NewResponseCache()
	key := CacheKey{Task: models.TaskAnalysis, Model: "gemini-2.5-flash"}
	fingerprint := InputFingerprint("resume", "jd")

	calls := 0
	compute := func() (string, error) {
		calls++
		return "analysis markdown", nil
	}

	first, err := cache.GetOrCompute(key, fingerprint, compute)
	require.NoError(t, err)
	second, err := cache.GetOrCompute(key, fingerprint, compute)
	require.NoError(t, err)

	assert.Equal(t, "analysis markdown", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestResponseCache_DistinctModelsDistinctEntries(t *testing.T) {
	cache := NewResponseCache()
	fingerprint := InputFingerprint("resume", "jd")

	calls := 0
	compute := func() (string, error) {
		calls++
		return "result", nil
	}

	_, err := cache.GetOrCompute(CacheKey{Task: models.TaskAnalysis, Model: "gemini-2.5-flash"}, fingerprint, compute)
	require.NoError(t, err)
	_, err = cache.GetOrCompute(CacheKey{Task: models.TaskAnalysis, Model: "llama-3.3-70b"}, fingerprint, compute)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, cache.Len())
}

func TestResponseCache_FingerprintChangeInvalidatesAll(t *testing.T) {
	cache := NewResponseCache()
	key := CacheKey{Task: models.TaskJobFit, Model: "gemini-2.5-flash"}

	calls := 0
	compute := func() (string, error) {
		calls++
		return "result", nil
	}

	_, err := cache.GetOrCompute(key, InputFingerprint("resume v1", "jd"), compute)
	require.NoError(t, err)
	_, err = cache.GetOrCompute(CacheKey{Task: models.TaskAnalysis, Model: "gemini-2.5-flash"}, InputFingerprint("resume v1", "jd"), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	// New resume text drops every entry, not just the matching key.
	_, err = cache.GetOrCompute(key, InputFingerprint("resume v2", "jd"), compute)
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestResponseCache_ComputeErrorNotCached(t *testing.T) {
	cache := NewResponseCache()
	key := CacheKey{Task: models.TaskAnalysis, Model: "gemini-2.5-flash"}
	fingerprint := InputFingerprint("resume", "jd")

	_, err := cache.GetOrCompute(key, fingerprint, func() (string, error) {
		return "", errors.New("provider down")
	})
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	result, err := cache.GetOrCompute(key, fingerprint, func() (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
}

func TestResponseCache_Clear(t *testing.T) {
	cache := NewResponseCache()
	fingerprint := InputFingerprint("resume", "jd")

	_, err := cache.GetOrCompute(CacheKey{Task: models.TaskAnalysis, Model: "m"}, fingerprint, func() (string, error) {
		return "result", nil
	})
	require.NoError(t, err)

	cache.Clear()

	assert.Equal(t, 0, cache.Len())
}

func TestInputFingerprint_SeparatesFields(t *testing.T) {
	// Moving text across the resume/JD boundary must change the fingerprint.
	assert.NotEqual(t, InputFingerprint("ab", "c"), InputFingerprint("a", "bc"))
	assert.Equal(t, InputFingerprint("a", "b"), InputFingerprint("a", "b"))
}
