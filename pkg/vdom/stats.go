package vdom

import "time"

// FlushStats describes one flush.
type FlushStats struct {
	// Skipped is set when Flush was called while another flush was running.
	Skipped bool

	// Elements is the number of queued elements the flush processed,
	// including descendants discovered during materialization.
	Elements int

	// Created is the number of rendered nodes created.
	Created int

	// OffTree and Live count content applications per pass.
	OffTree int
	Live    int

	// Structural operations applied to the rendered tree.
	Inserts  int
	Deletes  int
	Replaces int

	// Skips counts deletes dropped because the expected node had already
	// moved. Downgrades counts replaces turned into inserts for the same
	// reason.
	Skips      int
	Downgrades int

	// Repairs counts moves issued by the final ordering check.
	Repairs int

	// Deferred counts child lists postponed within the flush because a
	// node to insert still contained the parent.
	Deferred int

	// Pending is the queue length left for the next flush.
	Pending int

	Duration time.Duration
}

// Operations returns the number of structural operations applied.
func (s FlushStats) Operations() int {
	return s.Inserts + s.Deletes + s.Replaces + s.Repairs
}

// add accumulates child-list counters.
func (s *FlushStats) add(o childStats) {
	s.Inserts += o.inserts
	s.Deletes += o.deletes
	s.Replaces += o.replaces
	s.Skips += o.skips
	s.Downgrades += o.downgrades
	s.Repairs += o.repairs
}
