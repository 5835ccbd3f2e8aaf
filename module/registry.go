// Package module implements assemble.Checker's pre/post veto hook,
// spec.md §6's "module" concept (module.c's module_checkseq), plus a
// Registry that runs a fixed, ordered set of them around every assembly
// attempt.
package module

import "github.com/ngseq/pastitch/assemble"

// Registry runs a fixed list of assemble.Checker values in registration
// order, stopping at the first veto. It implements assemble.Checker itself,
// so a single Registry can be dropped into Opts.Checkers as one entry when
// callers want to group several checkers under one named, orderable unit.
type Registry struct {
	checkers []assemble.Checker
	lastVeto string
}

// NewRegistry builds a Registry that runs checkers in the given order.
func NewRegistry(checkers ...assemble.Checker) *Registry {
	return &Registry{checkers: checkers}
}

// Name identifies the Registry as a single pseudo-checker; individual
// member vetoes are attributed to their own Name() via Vetoed().
func (*Registry) Name() string { return "registry" }

// Pre runs every member's Pre hook in order, short-circuiting (and
// recording which member vetoed) at the first false.
func (r *Registry) Pre(id assemble.Id, forward, reverse assemble.QRead) bool {
	r.lastVeto = ""
	for _, c := range r.checkers {
		if !c.Pre(id, forward, reverse) {
			r.lastVeto = c.Name()
			return false
		}
	}
	return true
}

// Post runs every member's Post hook in order, short-circuiting at the
// first false.
func (r *Registry) Post(res *assemble.Result) bool {
	r.lastVeto = ""
	for _, c := range r.checkers {
		if !c.Post(res) {
			r.lastVeto = c.Name()
			return false
		}
	}
	return true
}

// Vetoed returns the Name() of the Checker that produced the most recent
// false return from Pre or Post, or "" if the most recent call succeeded.
func (r *Registry) Vetoed() string {
	return r.lastVeto
}
