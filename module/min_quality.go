package module

import "github.com/ngseq/pastitch/assemble"

// MinQualityChecker rejects an otherwise-accepted Result whose mean
// log-probability falls below Threshold, a post-assembly quality gate
// distinct from (and typically stricter than) assemble.Opts.Threshold —
// ported from original_source/module.c's idea of a pluggable post-filter
// module that can be tightened without re-tuning the assembler itself.
type MinQualityChecker struct {
	// Threshold is the minimum acceptable Result.Quality (a natural-log
	// mean probability, so always <= 0; more negative is worse).
	Threshold float64
}

// Name identifies this checker for Counters.ModuleRejectedCount bookkeeping.
func (MinQualityChecker) Name() string { return "min_quality" }

// Pre always accepts; this checker only screens finished results.
func (MinQualityChecker) Pre(assemble.Id, assemble.QRead, assemble.QRead) bool { return true }

// Post vetoes r if its Quality is below Threshold.
func (c MinQualityChecker) Post(r *assemble.Result) bool {
	return r.Quality >= c.Threshold
}
