// Package edgeindex implements the five interchangeable neighbor-list
// containers named in spec.md §4.2: Sorted Array, Packed Memory Array,
// Skip List of edge blocks, Log Block, and a PAM-style copy-on-write
// ordered map. Each is a distinct concrete type satisfying the Index
// capability — there is no shared base class and no virtual dispatch on
// the hot iteration path, per spec.md §9 ("the edge-index family is a
// capability, not a class hierarchy").
//
// Every variant stores its entries in destination order (Log Block is
// the one exception: it is append-ordered; its Iterator returns entries
// in that append order and its Edges in reverse append order). All five support MVCC version
// chains when Config.EnableTimestamp is set; with it cleared, every
// entry is always visible and UpdateVersion/GC become no-ops, giving the
// non-versioned fast path the design notes ask for without a second copy
// of each algorithm.
package edgeindex
