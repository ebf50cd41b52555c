// File: operation.go
// Role: the decoded form of spec.md §6's packed Operation wire record
// (struct Operation { u8 type; u8 _pad[7]; u64 source; u64 destination;
// f64 weight; }) and the stream-type vocabulary naming the files that
// carry them. Decoding the on-disk layout itself is out of scope (spec.md
// §1 Non-goals); Execute consumes an already-decoded []Operation.
package driver

import "github.com/katalvlaran/txgraph/core"

// OpType enumerates spec.md §6's operation-stream record kinds.
type OpType uint8

const (
	OpInsert       OpType = 1
	OpDelete       OpType = 2
	OpInsertVertex OpType = 3
	OpGetVertex    OpType = 4
	OpGetEdge      OpType = 5
	OpGetWeight    OpType = 6
	OpGetNeighbor  OpType = 7
	OpScanNeighbor OpType = 8
	OpBFS          OpType = 9
	OpSSSP         OpType = 10
	OpPageRank     OpType = 11
	OpWCC          OpType = 12
	OpTC           OpType = 13
	OpTCOp         OpType = 14
	OpUpdate       OpType = 15
	OpBatchInsert  OpType = 16
	OpMixed        OpType = 17
	OpQoS          OpType = 18
	OpConcurrent   OpType = 19
	OpQuery        OpType = 20
)

// Operation is the decoded form of one wire record.
type Operation struct {
	Type        OpType
	Source      core.DestID
	Destination core.DestID
	Weight      float64
}

// StreamType names a target_stream_type / initial_stream_type suffix
// (spec.md §6 "<TS> in {full, general, uniform, high_degree, low_degree,
// based_on_degree}").
type StreamType string

const (
	StreamFull           StreamType = "full"
	StreamGeneral        StreamType = "general"
	StreamUniform        StreamType = "uniform"
	StreamHighDegree     StreamType = "high_degree"
	StreamLowDegree      StreamType = "low_degree"
	StreamBasedOnDegree  StreamType = "based_on_degree"
)

// StreamKey identifies one decoded operation stream by its operation
// kind and distribution suffix, mirroring the
// <TYPE>[_<TS>].stream filename shape (spec.md §6).
type StreamKey struct {
	Type   OpType
	Stream StreamType
}
