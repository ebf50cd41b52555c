// File: output.go
// Role: the in-memory shape of spec.md §6's output log ("one log per
// workload, a text file named output_<threads>_<TYPE>_<TS>.out containing
// lines key: value"). Execute returns a Results value; writing it to
// output_dir is the caller's responsibility (spec.md §1 Non-goals).
package driver

import (
	"fmt"
	"strings"
	"time"
)

// ThreadResult is one worker's contribution to a workload's Results.
type ThreadResult struct {
	ThreadIndex int
	Duration    time.Duration
	OpsDone     uint64
	Checkpoints []time.Duration // elapsed time at each k-th processed op
}

// Speed returns ops-per-second for this thread, or 0 if it ran for no
// measurable time.
func (r ThreadResult) Speed() float64 {
	secs := r.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.OpsDone) / secs
}

// Results is the outcome of one Execute call: global duration (the
// wall-clock span across all workers), plus per-thread durations,
// speeds, and checkpoints (spec.md §6).
type Results struct {
	WorkloadType     OpType
	TargetStreamType StreamType
	NumThreads       int

	GlobalDuration time.Duration
	Threads        []ThreadResult
}

// GlobalSpeed is total ops across all threads divided by GlobalDuration.
func (r Results) GlobalSpeed() float64 {
	secs := r.GlobalDuration.Seconds()
	if secs <= 0 {
		return 0
	}
	var total uint64
	for _, th := range r.Threads {
		total += th.OpsDone
	}
	return float64(total) / secs
}

// AverageSpeed is the mean of each thread's individual Speed(), distinct
// from GlobalSpeed's aggregate-then-divide (spec.md §6 lists both
// "global speed" and "average speed" as separate lines).
func (r Results) AverageSpeed() float64 {
	if len(r.Threads) == 0 {
		return 0
	}
	var sum float64
	for _, th := range r.Threads {
		sum += th.Speed()
	}
	return sum / float64(len(r.Threads))
}

// FormatLines renders the key: value lines spec.md §6 names for an
// output_<threads>_<TYPE>_<TS>.out file, in the order: global duration,
// global speed, average speed, then per-thread durations, speeds, and
// checkpoints. Persisting the result under output_dir is left to the
// caller.
func (r Results) FormatLines() []string {
	lines := make([]string, 0, 3+3*len(r.Threads))
	lines = append(lines,
		fmt.Sprintf("global duration: %s", r.GlobalDuration),
		fmt.Sprintf("global speed: %.2f", r.GlobalSpeed()),
		fmt.Sprintf("average speed: %.2f", r.AverageSpeed()),
	)
	for _, th := range r.Threads {
		lines = append(lines,
			fmt.Sprintf("thread %d duration: %s", th.ThreadIndex, th.Duration),
			fmt.Sprintf("thread %d speed: %.2f", th.ThreadIndex, th.Speed()),
		)
		cps := make([]string, len(th.Checkpoints))
		for i, cp := range th.Checkpoints {
			cps[i] = cp.String()
		}
		lines = append(lines, fmt.Sprintf("thread %d checkpoints: [%s]", th.ThreadIndex, strings.Join(cps, ", ")))
	}
	return lines
}

// OutputFilename builds the output_<threads>_<TYPE>_<TS>.out name
// spec.md §6 specifies, leaving the join with output_dir to the caller.
func OutputFilename(numThreads int, opType OpType, stream StreamType) string {
	return fmt.Sprintf("output_%d_%d_%s.out", numThreads, opType, stream)
}
