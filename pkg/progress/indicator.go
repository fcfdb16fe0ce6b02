// Package progress renders terminal progress for batch optimization runs.
package progress

import (
	"fmt"
	"sync"
	"time"
)

// workerState tracks one worker's current job and completion count.
type workerState struct {
	WorkerID      int
	JobsCompleted int
	CurrentJob    string
	LastUpdate    time.Time
}

// Tracker aggregates progress across a worker pool and redraws the
// terminal at a bounded rate.
type Tracker struct {
	mu            sync.RWMutex
	workers       map[int]*workerState
	totalJobs     int
	completedJobs int
	startTime     time.Time
	lastDisplay   time.Time
	displayRate   time.Duration
}

// NewTracker creates a tracker for workerCount workers and totalJobs jobs.
func NewTracker(workerCount, totalJobs int) *Tracker {
	tracker := &Tracker{
		workers:     make(map[int]*workerState),
		totalJobs:   totalJobs,
		startTime:   time.Now(),
		displayRate: 500 * time.Millisecond,
	}

	for i := 0; i < workerCount; i++ {
		tracker.workers[i] = &workerState{
			WorkerID:   i,
			LastUpdate: time.Now(),
		}
	}

	return tracker
}

// UpdateWorker records that a worker started or completed a job.
func (t *Tracker) UpdateWorker(workerID int, jobDescription string, completed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	worker := t.workers[workerID]
	if worker == nil {
		return
	}

	worker.CurrentJob = jobDescription
	worker.LastUpdate = time.Now()

	if completed {
		worker.JobsCompleted++
		t.completedJobs++
	}

	if time.Since(t.lastDisplay) >= t.displayRate {
		t.display()
		t.lastDisplay = time.Now()
	}
}

// display redraws the progress block in place.
func (t *Tracker) display() {
	elapsed := time.Since(t.startTime)
	percentage := float64(t.completedJobs) / float64(t.totalJobs) * 100

	var eta time.Duration
	if t.completedJobs > 0 {
		avgPerJob := elapsed / time.Duration(t.completedJobs)
		eta = avgPerJob * time.Duration(t.totalJobs-t.completedJobs)
	}

	fmt.Print("\033[2K\r")
	fmt.Printf("Progress: %d/%d (%.1f%%) | Elapsed: %v | ETA: %v\n",
		t.completedJobs, t.totalJobs, percentage,
		elapsed.Round(time.Second), eta.Round(time.Second))

	activeWorkers := 0
	for _, worker := range t.workers {
		if worker.CurrentJob == "" {
			continue
		}
		activeWorkers++

		status := "ACTIVE"
		if time.Since(worker.LastUpdate) > 2*time.Second {
			status = "STALLED"
		}

		jobDesc := worker.CurrentJob
		if len(jobDesc) > 30 {
			jobDesc = jobDesc[:27] + "..."
		}

		fmt.Printf("  Worker %d [%s] %s (completed: %d)\n",
			worker.WorkerID, status, jobDesc, worker.JobsCompleted)
	}

	if activeWorkers == 0 {
		fmt.Printf("  All workers idle\n")
	}

	// Move back up so the next redraw overwrites this block.
	fmt.Printf("\033[%dA", activeWorkers+2)
}

// Finish clears the progress block and prints final per-worker stats.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := len(t.workers) + 3
	for i := 0; i < rows; i++ {
		fmt.Print("\033[2K\n")
	}
	fmt.Printf("\033[%dA", rows)

	elapsed := time.Since(t.startTime)
	fmt.Printf("Completed %d jobs in %v\n", t.completedJobs, elapsed.Round(time.Millisecond))

	fmt.Printf("Worker Statistics:\n")
	for workerID, worker := range t.workers {
		rate := float64(worker.JobsCompleted) / elapsed.Seconds()
		fmt.Printf("  Worker %d: %d jobs (%.1f jobs/sec)\n", workerID, worker.JobsCompleted, rate)
	}
	fmt.Println()
}

// Stats is a point-in-time progress snapshot.
type Stats struct {
	TotalJobs     int
	CompletedJobs int
	WorkerCount   int
	Elapsed       time.Duration
	Rate          float64
	Percentage    float64
}

// GetStats returns the current progress snapshot.
func (t *Tracker) GetStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	elapsed := time.Since(t.startTime)
	rate := 0.0
	if elapsed.Seconds() > 0 {
		rate = float64(t.completedJobs) / elapsed.Seconds()
	}

	return Stats{
		TotalJobs:     t.totalJobs,
		CompletedJobs: t.completedJobs,
		WorkerCount:   len(t.workers),
		Elapsed:       elapsed,
		Rate:          rate,
		Percentage:    float64(t.completedJobs) / float64(t.totalJobs) * 100,
	}
}
