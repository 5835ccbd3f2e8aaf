package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngseq/pastitch/algorithm"
	"github.com/ngseq/pastitch/assemble"
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/seq"
)

func mkRead(bases string, phred uint8) seq.QRead {
	r := make(seq.QRead, len(bases))
	for i := range bases {
		r[i] = seq.QBase{Nt: nt.FromASCII(bases[i]), Phred: phred}
	}
	return r
}

// fakeSource hands out a fixed number of identical pairs, then ends.
type fakeSource struct {
	mu        sync.Mutex
	remaining int
	n         int
}

func newFakeSource(count int) *fakeSource { return &fakeSource{remaining: count} }

func (f *fakeSource) Next() (assemble.Id, assemble.QRead, assemble.QRead, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remaining <= 0 {
		return assemble.Id{}, nil, nil, false
	}
	f.remaining--
	f.n++
	id := assemble.Id{Instrument: "fake", Tag: "t"}
	return id, mkRead("ACGTACGT", 40), mkRead("TGCATGCA", 40), true
}

func (f *fakeSource) Err() error { return nil }

type collectingSink struct {
	mu         sync.Mutex
	results    []assemble.Result
	rejections []assemble.Rejection
}

func (s *collectingSink) EmitResult(r assemble.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *collectingSink) EmitRejection(id assemble.Id, forward, reverse assemble.QRead, rej assemble.Rejection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections = append(s.rejections, rej)
	return nil
}

func TestRunFansOutAndMergesCounters(t *testing.T) {
	const nPairs = 50
	input := NewSharedInput(newFakeSource(nPairs))
	sink := &collectingSink{}
	newAssembler := func() *assemble.Assembler {
		a, err := assemble.NewAssembler(assemble.Opts{
			MinOverlap: 4,
			Threshold:  0.6,
			Algorithm:  algorithm.NewSimpleBayes(0.36),
		})
		require.NoError(t, err)
		return a
	}

	counters, err := Run(context.Background(), 4, input, newAssembler, sink)
	require.NoError(t, err)
	require.Len(t, sink.results, nPairs)
	require.Equal(t, nPairs, counters.OKCount)
}

func TestRunSurfacesSinkError(t *testing.T) {
	input := NewSharedInput(newFakeSource(10))
	boom := &erroringSink{failAfter: 2}
	newAssembler := func() *assemble.Assembler {
		a, _ := assemble.NewAssembler(assemble.Opts{
			MinOverlap: 4,
			Threshold:  0.6,
			Algorithm:  algorithm.NewSimpleBayes(0.36),
		})
		return a
	}
	_, err := Run(context.Background(), 1, input, newAssembler, boom)
	require.Error(t, err, "expected the sink's error to propagate")
}

type erroringSink struct {
	mu        sync.Mutex
	n         int
	failAfter int
}

func (s *erroringSink) EmitResult(assemble.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	if s.n > s.failAfter {
		return errBoom
	}
	return nil
}

func (s *erroringSink) EmitRejection(assemble.Id, assemble.QRead, assemble.QRead, assemble.Rejection) error {
	return nil
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }
