// File: config.go
// Role: the benchmark harness's configuration record (spec.md §6
// "Configuration record"), built through the teacher's functional-options
// idiom (see bfs.Option/DefaultOptions in the example pack) rather than a
// struct literal, since several fields only make sense together
// (concurrent_workloads entries, the ENABLE_* feature flags).
package driver

// ConcurrentWorkloadSpec names one reader/writer group inside a
// Concurrent workload (spec.md §6 "concurrent_workloads[]").
type ConcurrentWorkloadSpec struct {
	WorkloadType   OpType
	TargetStream   StreamType
	NumThreads     int
}

// Config is the decoded configuration record driving Execute. Paths
// (workload_dir, output_dir) are intentionally absent: Execute never
// touches the filesystem (spec.md §1 Non-goals), so stream decoding and
// result persistence are the caller's responsibility.
type Config struct {
	WorkloadType     OpType
	TargetStreamType StreamType

	InsertDeleteNumThreads  int
	UpdateNumThreads        int
	WriterThreads           int
	ReaderThreads           int
	NumThreadsSearch        int
	NumThreadsScan          int
	MicrobenchmarkThreads   []int
	QueryNumThreads         []int

	InsertDeleteCheckpointSize int
	UpdateCheckpointSize       int
	MbCheckpointSize           int

	InsertBatchSize   int
	UpdateRepeatTimes int
	RepeatTimes       int

	Alpha           float64
	Beta            float64
	Delta           float64
	NumIterations   int
	DampingFactor   float64
	BFSSource       uint64
	SSSPSource      uint64

	ConcurrentWorkloads []ConcurrentWorkloadSpec
	MbOperationTypes    []OpType
	MbTSTypes           []StreamType
	QueryOperationTypes []OpType

	BlockSize         int
	DefaultVectorSize int

	EnableTimestamp    bool
	EnableLock         bool
	EnableGC           bool
	EnableAdaptive     bool
	EnableFlatSnapshot bool
}

// Option configures a Config via functional arguments.
type Option func(*Config)

// DefaultConfig returns a Config with the harness's baseline thread
// counts, checkpoint sizes, and kernel parameters.
func DefaultConfig() Config {
	return Config{
		InsertDeleteNumThreads: 1,
		UpdateNumThreads:       1,
		WriterThreads:          1,
		ReaderThreads:          1,
		NumThreadsSearch:       1,
		NumThreadsScan:         1,

		InsertDeleteCheckpointSize: 1 << 16,
		UpdateCheckpointSize:       1 << 16,
		MbCheckpointSize:           1 << 16,

		InsertBatchSize:   64,
		UpdateRepeatTimes: 1,
		RepeatTimes:       1,

		Alpha:         14.0,
		Beta:          24.0,
		Delta:         1.0,
		NumIterations: 20,
		DampingFactor: 0.85,

		BlockSize:         64,
		DefaultVectorSize: 1024,

		EnableTimestamp:    true,
		EnableLock:         true,
		EnableGC:           true,
		EnableAdaptive:     true,
		EnableFlatSnapshot: false,
	}
}

// WithWorkload sets the workload kind and the target stream it reads.
func WithWorkload(op OpType, stream StreamType) Option {
	return func(c *Config) {
		c.WorkloadType = op
		c.TargetStreamType = stream
	}
}

// WithInsertDeleteThreads sets insert_delete_num_threads.
func WithInsertDeleteThreads(n int) Option {
	return func(c *Config) { c.InsertDeleteNumThreads = n }
}

// WithUpdateThreads sets update_num_threads and update_repeat_times.
func WithUpdateThreads(n, repeatTimes int) Option {
	return func(c *Config) {
		c.UpdateNumThreads = n
		c.UpdateRepeatTimes = repeatTimes
	}
}

// WithReaderWriterThreads sets writer_threads/reader_threads for the
// Concurrent and MixedReaderWriter workloads.
func WithReaderWriterThreads(writers, readers int) Option {
	return func(c *Config) {
		c.WriterThreads = writers
		c.ReaderThreads = readers
	}
}

// WithQoSThreads sets num_threads_search/num_threads_scan.
func WithQoSThreads(search, scan int) Option {
	return func(c *Config) {
		c.NumThreadsSearch = search
		c.NumThreadsScan = scan
	}
}

// WithBatchSize sets insert_batch_size.
func WithBatchSize(n int) Option {
	return func(c *Config) { c.InsertBatchSize = n }
}

// WithCheckpointSizes sets the three per-workload checkpoint sizes.
func WithCheckpointSizes(insertDelete, update, mb int) Option {
	return func(c *Config) {
		c.InsertDeleteCheckpointSize = insertDelete
		c.UpdateCheckpointSize = update
		c.MbCheckpointSize = mb
	}
}

// WithKernelParams sets the BFS direction-switch thresholds, SSSP bucket
// width, PageRank iteration count and damping factor, and the BFS/SSSP
// source vertices.
func WithKernelParams(alpha, beta, delta float64, numIterations int, damping float64, bfsSource, ssspSource uint64) Option {
	return func(c *Config) {
		c.Alpha = alpha
		c.Beta = beta
		c.Delta = delta
		c.NumIterations = numIterations
		c.DampingFactor = damping
		c.BFSSource = bfsSource
		c.SSSPSource = ssspSource
	}
}

// WithConcurrentWorkloads sets concurrent_workloads[].
func WithConcurrentWorkloads(specs ...ConcurrentWorkloadSpec) Option {
	return func(c *Config) { c.ConcurrentWorkloads = specs }
}

// WithMicrobenchmark sets microbenchmark_num_threads[], mb_operation_types[]
// and mb_ts_types[].
func WithMicrobenchmark(threads []int, ops []OpType, tsTypes []StreamType) Option {
	return func(c *Config) {
		c.MicrobenchmarkThreads = threads
		c.MbOperationTypes = ops
		c.MbTSTypes = tsTypes
	}
}

// WithQuery sets query_num_threads[] and query_operation_types[].
func WithQuery(threads []int, ops []OpType) Option {
	return func(c *Config) {
		c.QueryNumThreads = threads
		c.QueryOperationTypes = ops
	}
}

// WithStorageParams sets block_size/default_vector_size, the
// vertexindex/edgeindex tuning knobs.
func WithStorageParams(blockSize, defaultVectorSize int) Option {
	return func(c *Config) {
		c.BlockSize = blockSize
		c.DefaultVectorSize = defaultVectorSize
	}
}

// WithFeatureFlags sets the ENABLE_* build-time features spec.md §9
// carries over as runtime fields.
func WithFeatureFlags(timestamp, lock, gc, adaptive, flatSnapshot bool) Option {
	return func(c *Config) {
		c.EnableTimestamp = timestamp
		c.EnableLock = lock
		c.EnableGC = gc
		c.EnableAdaptive = adaptive
		c.EnableFlatSnapshot = flatSnapshot
	}
}

// NewConfig builds a Config from DefaultConfig plus the supplied options.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
