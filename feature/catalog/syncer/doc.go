// Package syncer mirrors the remote catalog into the local database.
//
// A Syncer runs three steps: artists (table rebuilt with tag vocabularies), items (watermark
// upsert with stray sweeping and tag/image child rows) and orders (plain upserts). Runs are
// serialized per Syncer; a second request while one is active fails with ErrSyncInProgress.
//
// SnapshotSource can wrap the remote client to read artist and offer pages from storage
// snapshots and to write fresh snapshots after a successful run.
package syncer
