package bus

import (
	"fmt"
	"log/slog"
	"time"
)

// Statistics is a snapshot of the router's counters. Safe to take while the
// router is running.
type Statistics struct {
	RunTime       time.Duration
	PostCount     uint64
	PostFails     uint64
	DispatchCount uint64
	DispatchFails uint64
}

// Throughput reports posted events per second of run time. Zero when the
// router has not run yet.
func (s Statistics) Throughput() float64 {
	if s.RunTime <= 0 {
		return 0
	}
	return float64(s.PostCount) / s.RunTime.Seconds()
}

func (s Statistics) Print() {
	slog.Info("router statistics",
		"run_time", fmt.Sprintf("%.2fs", s.RunTime.Seconds()),
		"post_count", s.PostCount,
		"post_fails", s.PostFails,
		"dispatch_count", s.DispatchCount,
		"dispatch_fails", s.DispatchFails,
		"throughput", fmt.Sprintf("%.2f", s.Throughput()))
}
