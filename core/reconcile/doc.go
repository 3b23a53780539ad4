// Package reconcile holds the shared machinery of catalog reconciliation runs.
//
// A reconciliation run mirrors a remote dataset that has no delete signal. Rows are stamped
// with the run watermark as they are written, and any row left with an older watermark
// afterwards is a stray that the remote side no longer lists.
//
// # Components
//
//   - Run: per-invocation state (run id, watermark, progress observer). Nothing about a run
//     is kept in package state.
//   - SweepStrays / CleanupOrphans: dialect agnostic GORM deletes used by the
//     catalog engines for stray removal and referential cleanup.
//   - Result / Report: counters returned to the CLI and HTTP callers.
//   - ViewCache: a TTL cache with singleflight stampede protection for views derived from
//     the mirror; callers drop it when a run completes.
//
// # Usage Example
//
//	run := reconcile.NewRun(nil)
//	// ... upsert rows with last_modified = run.Watermark ...
//	deleted, err := reconcile.SweepStrays(ctx, db, "items", "last_modified", run.Watermark,
//	    reconcile.SweepFilter{Column: "artist_id", Include: []int64{artistID}})
package reconcile
