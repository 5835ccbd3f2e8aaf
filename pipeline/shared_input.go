// Package pipeline fans a single ordered pair stream across N
// assembler goroutines, spec.md §5's parallelism model: each worker
// processes its assigned pairs strictly in delivery order, while the
// order pairs are handed out to (and results return from) different
// workers is unspecified.
package pipeline

import (
	"sync"

	"github.com/ngseq/pastitch/assemble"
)

// PairSource is the minimal iterator pipeline.Run needs; pairio.PairIterator
// satisfies it.
type PairSource interface {
	Next() (id assemble.Id, forward, reverse assemble.QRead, ok bool)
	Err() error
}

// SharedInput guards a PairSource with a mutex so multiple goroutines can
// pull the next pair without racing, mirroring markduplicates' single
// shared shard cursor doled out one unit at a time to worker goroutines.
type SharedInput struct {
	mu  sync.Mutex
	src PairSource
}

// NewSharedInput wraps src for concurrent use.
func NewSharedInput(src PairSource) *SharedInput {
	return &SharedInput{src: src}
}

// Next returns the next pair, or ok=false once src is exhausted (check Err
// to distinguish a clean end from a stream error).
func (s *SharedInput) Next() (id assemble.Id, forward, reverse assemble.QRead, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Next()
}

// Err returns the underlying source's error, if any.
func (s *SharedInput) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Err()
}
