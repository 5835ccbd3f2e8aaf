package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngseq/pastitch/algorithm"
	"github.com/ngseq/pastitch/assemble"
)

func TestRunAssemblesAndWritesFASTA(t *testing.T) {
	r1 := strings.NewReader("@pair1 1:N:0:ACGT\nACGTACGT\n+\nIIIIIIII\n")
	r2 := strings.NewReader("@pair1 2:N:0:ACGT\nACGTACGT\n+\nIIIIIIII\n") // decodes to TGCATGCA, reverse("ACGTACGT")

	opts := assemble.DefaultOpts
	opts.MinOverlap = 4
	opts.Algorithm = algorithm.NewSimpleBayes(0.36)

	var out, failed bytes.Buffer
	counters, err := run(context.Background(), opts, 1, r1, r2, &out, &failed)
	require.NoError(t, err)
	require.Equal(t, 1, counters.OKCount)
	require.True(t, strings.HasPrefix(out.String(), ">"), "expected FASTA output, got %q", out.String())
	require.Contains(t, out.String(), "ACGTACGT")
	require.Zero(t, failed.Len(), "expected no rejections, got %q", failed.String())
}

func TestRunLogsRejections(t *testing.T) {
	r1 := strings.NewReader("@pair1 1:N:0:ACGT\nAAAAAAAA\n+\nIIIIIIII\n")
	r2 := strings.NewReader("@pair1 2:N:0:ACGT\nAAAAAAAA\n+\nIIIIIIII\n") // decodes to TTTTTTTT

	opts := assemble.DefaultOpts
	opts.MinOverlap = 2
	opts.Algorithm = algorithm.NewSimpleBayes(0.36)

	var out, failed bytes.Buffer
	counters, err := run(context.Background(), opts, 1, r1, r2, &out, &failed)
	require.NoError(t, err)
	require.Equal(t, 1, counters.NoAlignmentCount)
	require.Contains(t, failed.String(), "failed_alignment")
}
