// Command pastitch assembles paired-end reads into consensus sequences,
// spec.md's end-to-end harness: flags configure assemble.Opts, pairio
// decodes the input FASTQ pair, pipeline fans the work across workers, and
// pairout serializes results and rejections.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"runtime"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/pkg/errors"

	"github.com/ngseq/pastitch/algorithm"
	"github.com/ngseq/pastitch/assemble"
	"github.com/ngseq/pastitch/module"
	"github.com/ngseq/pastitch/nt"
	"github.com/ngseq/pastitch/pairio"
	"github.com/ngseq/pastitch/pairout"
	"github.com/ngseq/pastitch/pipeline"
)

type sink struct {
	fasta  *pairout.FASTAWriter
	failed *pairout.FailedWriter
	logger pairout.LogWriter
}

func (s *sink) EmitResult(r assemble.Result) error {
	return s.fasta.Emit(r)
}

func (s *sink) EmitRejection(id assemble.Id, forward, reverse assemble.QRead, rej assemble.Rejection) error {
	s.logger.LogRejection(id, rej)
	return s.failed.EmitFailed(id, forward, reverse, rej)
}

func parsePrimer(s string) []nt.Base {
	if s == "" {
		return nil
	}
	p := make([]nt.Base, len(s))
	for i := 0; i < len(s); i++ {
		p[i] = nt.FromASCII(s[i])
	}
	return p
}

// run wires forward/reverse FASTQ streams through assemble/pipeline/pairout
// and reports the merged run-level Counters. Split out from main so the
// wiring can be exercised directly in tests without flags or os.Exit.
func run(ctx context.Context, opts assemble.Opts, parallelism int, r1, r2 io.Reader, out, failed io.Writer) (assemble.Counters, error) {
	s := &sink{
		fasta:  pairout.NewFASTAWriter(out, 0),
		failed: pairout.NewFailedWriter(failed),
	}
	input := pipeline.NewSharedInput(pairio.NewPairIterator(r1, r2))
	newAssembler := func() *assemble.Assembler {
		a, err := assemble.NewAssembler(opts)
		if err != nil {
			log.Fatal(errors.Wrap(err, "NewAssembler"))
		}
		return a
	}
	return pipeline.Run(ctx, parallelism, input, newAssembler, s)
}

func main() {
	opts := assemble.DefaultOpts

	r1Path := flag.String("f", "", "forward FASTQ file (.gz/.bz2 decompressed transparently)")
	r2Path := flag.String("r", "", "reverse FASTQ file (.gz/.bz2 decompressed transparently)")
	outPath := flag.String("w", "", "output FASTA path (default stdout)")
	failedPath := flag.String("C", "", "rejected-pair log path (default stderr)")
	minOverlap := flag.Int("o", opts.MinOverlap, "minimum overlap length")
	threshold := flag.Float64("t", opts.Threshold, "minimum consensus quality to accept")
	forwardPrimer := flag.String("p", "", "forward primer sequence")
	reversePrimer := flag.String("q", "", "reverse primer sequence")
	primerPenalty := flag.Float64("T", opts.PrimerPenalty, "per-position primer scan penalty")
	primerThreshold := flag.Float64("L", opts.PrimerThreshold, "minimum primer match probability")
	minQuality := flag.Float64("Q", 0, "if nonzero, an additional post-assembly min-quality gate (log-probability)")
	parallelism := flag.Int("j", runtime.NumCPU(), "number of assembler workers")
	flag.Parse()

	shutdown := grail.Init()
	defer shutdown()
	ctx := vcontext.Background()

	if *r1Path == "" || *r2Path == "" {
		log.Fatal("both -f and -r are required")
	}

	opts.MinOverlap = *minOverlap
	opts.Threshold = *threshold
	opts.ForwardPrimer = parsePrimer(*forwardPrimer)
	opts.ReversePrimer = parsePrimer(*reversePrimer)
	opts.PrimerPenalty = *primerPenalty
	opts.PrimerThreshold = *primerThreshold
	opts.Algorithm = algorithm.NewSimpleBayes(0.36)
	if *minQuality != 0 {
		opts.Checkers = append(opts.Checkers, module.MinQualityChecker{Threshold: *minQuality})
	}

	f1, err := file.Open(ctx, *r1Path)
	if err != nil {
		log.Fatal(errors.Wrapf(err, "open %s", *r1Path))
	}
	defer file.CloseAndReport(ctx, f1, &err)
	f2, err := file.Open(ctx, *r2Path)
	if err != nil {
		log.Fatal(errors.Wrapf(err, "open %s", *r2Path))
	}
	defer file.CloseAndReport(ctx, f2, &err)
	in1, err := pairio.Open(*r1Path, f1.Reader(ctx))
	if err != nil {
		log.Fatal(errors.Wrapf(err, "decompress %s", *r1Path))
	}
	in2, err := pairio.Open(*r2Path, f2.Reader(ctx))
	if err != nil {
		log.Fatal(errors.Wrapf(err, "decompress %s", *r2Path))
	}

	outW := io.Writer(os.Stdout)
	if *outPath != "" {
		w, err := os.Create(*outPath)
		if err != nil {
			log.Fatal(errors.Wrapf(err, "create %s", *outPath))
		}
		defer w.Close()
		outW = w
	}
	failedW := io.Writer(os.Stderr)
	if *failedPath != "" {
		w, err := os.Create(*failedPath)
		if err != nil {
			log.Fatal(errors.Wrapf(err, "create %s", *failedPath))
		}
		defer w.Close()
		failedW = w
	}

	counters, err := run(context.Background(), opts, *parallelism, in1, in2, outW, failedW)
	if err != nil {
		log.Fatal(errors.Wrap(err, "run"))
	}
	var logger pairout.LogWriter
	logger.LogCounters(counters)
}
