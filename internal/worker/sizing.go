package worker

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"

	"pagefetch/internal/config"
)

// AvailableParallelism returns the number of logical CPUs, falling back to
// runtime.NumCPU when the host cannot be queried.
func AvailableParallelism() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Size returns the worker count for a batch of total tasks:
// total/TasksPerWorker capped at ParallelismFactor*parallelism, and never
// below MinWorkers. When the cap is below the minimum, the minimum wins.
func Size(total, parallelism int, cfg config.PoolConfig) int {
	perWorker := cfg.TasksPerWorker
	if perWorker < 1 {
		perWorker = 1
	}
	if parallelism < 1 {
		parallelism = 1
	}

	workers := total / perWorker
	if ceiling := cfg.ParallelismFactor * parallelism; workers > ceiling {
		workers = ceiling
	}
	if workers < cfg.MinWorkers {
		workers = cfg.MinWorkers
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
