// Package txn implements the two transaction managers of spec.md §4.6:
// Manager2PL, which buffers a writer's operations and commits them under
// a sorted two-phase lock acquisition, and ManagerCow, which serializes
// writers behind a single spinlock bit and lets readers observe the
// current persistent root without waiting on the writer (spec.md §5). Both
// managers own a background reclaimer goroutine that periodically trims
// version chains no live reader can still observe.
package txn
