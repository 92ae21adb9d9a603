package dataset

import "time"

// Progress is reported after each batch is written.
type Progress struct {
	Batch   int // 1-based index of the batch just written
	Batches int
	Rows    int // rows written so far
	Total   int
	Elapsed time.Duration
}

// Percent returns rows written as a percentage of the total.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Rows) / float64(p.Total) * 100
}

// ProgressFunc receives progress updates. It runs on the generating goroutine.
type ProgressFunc func(Progress)

// Summary describes a completed run.
type Summary struct {
	Path    string
	Rows    int
	Batches int
	Bytes   int64 // bytes written to the destination
	Elapsed time.Duration
}

// RowsPerSecond returns the average throughput. ok is false when no time
// elapsed and the rate is undefined.
func (s Summary) RowsPerSecond() (rate float64, ok bool) {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0, false
	}
	return float64(s.Rows) / secs, true
}
