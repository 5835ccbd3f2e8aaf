package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ngseq/pastitch/assemble"
)

// OutputSink receives every outcome, success or rejection, for one pair.
// pairout's FASTAWriter/FailedWriter/LogWriter compose to satisfy this.
type OutputSink interface {
	EmitResult(assemble.Result) error
	EmitRejection(id assemble.Id, forward, reverse assemble.QRead, rej assemble.Rejection) error
}

// Run fans n goroutines, each owning one *assemble.Assembler built by
// newAssembler, across input. Each worker pulls pairs from input (and so
// processes its assigned pairs strictly in the order SharedInput hands
// them out) and writes every outcome to sink; cross-worker output order is
// unspecified, matching spec.md §5. Run returns the first error any worker
// or the sink produced, and the Counters merged across every worker.
func Run(ctx context.Context, n int, input *SharedInput, newAssembler func() *assemble.Assembler, sink OutputSink) (assemble.Counters, error) {
	eg, ctx := errgroup.WithContext(ctx)
	totals := make([]assemble.Counters, n)
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			a := newAssembler()
			defer func() { totals[i] = a.Stats }()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				id, forward, reverse, ok := input.Next()
				if !ok {
					return input.Err()
				}
				result, rej, assembled := a.Assemble(id, forward, reverse)
				if assembled {
					if err := sink.EmitResult(result); err != nil {
						return err
					}
				} else {
					if err := sink.EmitRejection(id, forward, reverse, rej); err != nil {
						return err
					}
				}
			}
		})
	}
	err := eg.Wait()

	merged := assemble.Counters{}
	for i := 0; i < n; i++ {
		merged = merged.Merge(totals[i])
	}
	return merged, err
}
