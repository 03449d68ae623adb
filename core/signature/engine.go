// Package signature implements the multi-pattern payload matcher the
// detection worker scans every parsed packet with. Patterns are plain byte
// substrings; matching uses an Aho-Corasick automaton that is rebuilt
// atomically on every pattern change, so concurrent scans always observe
// either the previous automaton or the new one, never a partial build.
package signature

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// ErrEmptyPattern is returned by AddPattern for a zero-length pattern; an
// empty substring would match every buffer and is always a caller bug.
var ErrEmptyPattern = errors.New("signature: empty pattern")

// Engine is a thread-safe multi-pattern matcher. Many concurrent readers
// (Scan), rare writers (AddPattern). The write path holds the lock for the
// full O(sum of pattern lengths) rebuild; scans hold only a read lock and
// are O(len(input)).
type Engine struct {
	mu       sync.RWMutex
	patterns [][]byte
	matcher  *ahocorasick.Matcher
}

// New returns an Engine with no patterns installed. Scan on an empty
// engine returns no matches.
func New() *Engine {
	return &Engine{}
}

// AddPattern appends pattern to the set and rebuilds the automaton. The
// pattern bytes are copied, so the caller may reuse its buffer. On error
// the pattern set and the previously installed automaton are unchanged.
func (e *Engine) AddPattern(pattern []byte) error {
	if len(pattern) == 0 {
		return ErrEmptyPattern
	}
	p := make([]byte, len(pattern))
	copy(p, pattern)

	e.mu.Lock()
	defer e.mu.Unlock()
	rebuilt, err := buildMatcher(append(e.patterns, p))
	if err != nil {
		return err
	}
	e.patterns = append(e.patterns, p)
	e.matcher = rebuilt
	return nil
}

// buildMatcher constructs the automaton, converting the library's panic on
// a malformed trie into an error so a bad pattern set never takes down the
// consumer task.
func buildMatcher(patterns [][]byte) (m *ahocorasick.Matcher, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("signature: automaton rebuild: %v", r)
		}
	}()
	return ahocorasick.NewMatcher(patterns), nil
}

// Scan returns the indices (in insertion order) of every pattern that
// occurs in data, including patterns whose occurrences overlap. Returns an
// empty result when no automaton is installed or no patterns exist.
func (e *Engine) Scan(data []byte) []int {
	e.mu.RLock()
	matcher := e.matcher
	e.mu.RUnlock()
	if matcher == nil {
		return nil
	}
	return matcher.MatchThreadSafe(data)
}

// PatternCount returns the number of installed patterns.
func (e *Engine) PatternCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.patterns)
}
