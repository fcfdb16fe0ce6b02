package optimize

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/alde/pixelwise/pkg/pixelwise"
)

// Memory monitor defaults.
const (
	defaultMemoryCeiling   = 512 * 1024 * 1024
	defaultMonitorInterval = 5 * time.Second
	pressureThreshold      = 0.9
)

// CleanupFunc frees cached memory and reports how many entries it dropped.
type CleanupFunc func() int

// MemoryMonitor guards the optimization pipeline's memory budget. It
// checks requested budgets up front and periodically sheds cache weight
// when usage crosses the pressure threshold.
type MemoryMonitor struct {
	ceiling  uint64
	interval time.Duration
	logger   *slog.Logger
	usage    func() uint64

	mu       sync.Mutex
	cleanups []CleanupFunc
}

// NewMemoryMonitor creates a monitor with the given ceiling in bytes.
// Zero selects the default ceiling.
func NewMemoryMonitor(ceilingBytes uint64, logger *slog.Logger) *MemoryMonitor {
	if ceilingBytes == 0 {
		ceilingBytes = defaultMemoryCeiling
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryMonitor{
		ceiling:  ceilingBytes,
		interval: defaultMonitorInterval,
		logger:   logger,
		usage:    heapUsage,
	}
}

// RegisterCleanup adds a cache-shedding hook run under memory pressure.
func (m *MemoryMonitor) RegisterCleanup(cleanup CleanupFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups = append(m.cleanups, cleanup)
}

// Ensure verifies that requiredBytes fit under the ceiling. On pressure it
// runs every cleanup hook and re-checks once before failing.
func (m *MemoryMonitor) Ensure(requiredBytes uint64) error {
	if m.fits(requiredBytes) {
		return nil
	}

	dropped := m.runCleanups()
	runtime.GC()
	m.logger.Warn("memory pressure before optimization, cleaned caches",
		"required", requiredBytes, "dropped", dropped)

	if m.fits(requiredBytes) {
		return nil
	}

	used := m.usage()
	var available uint64
	if used < m.ceiling {
		available = m.ceiling - used
	}
	return &pixelwise.InsufficientMemoryError{
		RequiredBytes:  requiredBytes,
		AvailableBytes: available,
	}
}

// Start launches the periodic pressure check. It runs until the context
// is cancelled.
func (m *MemoryMonitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				used := m.usage()
				if float64(used) > float64(m.ceiling)*pressureThreshold {
					dropped := m.runCleanups()
					m.logger.Warn("memory pressure detected, cleaned caches",
						"used", used, "ceiling", m.ceiling, "dropped", dropped)
				}
			}
		}
	}()
}

// fits reports whether requiredBytes fit under the ceiling right now.
func (m *MemoryMonitor) fits(requiredBytes uint64) bool {
	return m.usage()+requiredBytes <= m.ceiling
}

// runCleanups invokes every registered hook.
func (m *MemoryMonitor) runCleanups() int {
	m.mu.Lock()
	hooks := make([]CleanupFunc, len(m.cleanups))
	copy(hooks, m.cleanups)
	m.mu.Unlock()

	total := 0
	for _, hook := range hooks {
		total += hook()
	}
	return total
}

// heapUsage reads the live heap size.
func heapUsage() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}
