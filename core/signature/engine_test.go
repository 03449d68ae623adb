package signature

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_PatternMatching(t *testing.T) {
	e := New()
	require.NoError(t, e.AddPattern([]byte("test")))

	matches := e.Scan([]byte("this is a test"))
	assert.NotEmpty(t, matches)
}

func TestEngine_NoMatch(t *testing.T) {
	e := New()
	require.NoError(t, e.AddPattern([]byte("test")))

	matches := e.Scan([]byte("no hit here"))
	assert.Empty(t, matches)
}

func TestEngine_MultiplePatterns(t *testing.T) {
	e := New()
	require.NoError(t, e.AddPattern([]byte("test")))
	require.NoError(t, e.AddPattern([]byte("example")))

	matches := e.Scan([]byte("this is a test with an example"))
	require.Len(t, matches, 2)
	assert.Contains(t, matches, 0)
	assert.Contains(t, matches, 1)
}

func TestEngine_EmptyEngineScansClean(t *testing.T) {
	e := New()
	assert.Empty(t, e.Scan([]byte("anything")))
}

func TestEngine_RejectsEmptyPattern(t *testing.T) {
	e := New()
	assert.ErrorIs(t, e.AddPattern(nil), ErrEmptyPattern)
	assert.Equal(t, 0, e.PatternCount())
}

func TestEngine_AddNeverShrinksMatchSet(t *testing.T) {
	// GIVEN an engine that already matches "abc" in a buffer
	e := New()
	require.NoError(t, e.AddPattern([]byte("abc")))
	buf := []byte("xx abc yy def zz")
	before := e.Scan(buf)
	require.Len(t, before, 1)

	// WHEN another pattern is added
	require.NoError(t, e.AddPattern([]byte("def")))

	// THEN the previous match is still reported plus the new one
	after := e.Scan(buf)
	assert.Contains(t, after, 0)
	assert.Contains(t, after, 1)
}

func TestEngine_ConcurrentScansDuringUpdates(t *testing.T) {
	e := New()
	require.NoError(t, e.AddPattern([]byte("alpha")))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				// Scans must always see a complete automaton: "alpha" was
				// installed before the readers started, so it must match in
				// every observed state.
				matches := e.Scan([]byte("the alpha payload"))
				assert.Contains(t, matches, 0)
			}
		}()
	}

	for i := 0; i < 50; i++ {
		require.NoError(t, e.AddPattern([]byte{byte('a' + i%26), byte('0' + i%10)}))
	}
	close(stop)
	wg.Wait()
	assert.Equal(t, 51, e.PatternCount())
}
