// Package reconcile provides the inventory reconciliation engine: it turns
// one collection cycle's record set into durable, idempotent state changes
// and detects items that disappeared since the previous cycle.
//
// # Architecture
//
// The engine consists of four parts:
//
// 1. Reconciler: runs one cycle. It snapshots the active identifiers, fetches
//    every page through a Source, applies each record with insert-if-absent
//    writes and finally marks every active-but-unseen item as removed.
//
// 2. Plan: the pure set arithmetic of a cycle (removed = active − found,
//    new = found − active). It is used by the Reconciler and by dry runs.
//
// 3. MetadataPolicy: the single decision point for how re-observed metadata
//    is written (first write wins by default, last write wins on request).
//
// 4. Runner: the sequential driving loop. Cycles never overlap; a fixed
//    interval separates them and a failed cycle never stops the loop.
//
// # Failure Semantics
//
// Fetch-stage errors abort the cycle before any write. Apply-stage errors
// (unknown location, store failures) are logged against the failing item and
// stage, counted in the Report, and never stop the remaining records.
//
// Every write is conditioned on absence or monotonicity, so re-running an
// identical cycle after a crash produces no additional side effects.
//
// # Usage Example
//
//	rec := reconcile.New(store, paginator, reconcile.Config{
//	    Query:     cfg.Collector.Query,
//	    Locations: cfg.Collector.Locations,
//	    Policy:    reconcile.FirstWriteWins,
//	}, logger)
//
//	report, err := rec.RunCycle(ctx)
//
//	// Or drive it periodically:
//	runner := reconcile.NewRunner(rec, reconcile.RunnerConfig{Interval: time.Hour}, logger)
//	runner.Run(ctx)
package reconcile
