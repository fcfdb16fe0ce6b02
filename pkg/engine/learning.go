package engine

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alde/pixelwise/pkg/pixelwise"
	"github.com/alde/pixelwise/pkg/store"
)

// Learning store limits: capped record count and the DPI distance within
// which a past choice counts toward a candidate.
const (
	maxLearningRecords  = 1000
	learningDPIDistance = 50
	learningStoreKey    = "pixelwise/learning-records"
)

// ChosenSettings is the resolution/DPI pair a user actually exported with.
type ChosenSettings struct {
	DPI    int `json:"dpi"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ActualMetrics are optional measured outcomes supplied with a choice.
type ActualMetrics struct {
	FileSizeBytes int64   `json:"fileSizeBytes,omitempty"`
	RenderTimeMs  float64 `json:"renderTimeMs,omitempty"`
	Quality       float64 `json:"quality,omitempty"`
}

// LearningRecord is one recorded (context, choice, satisfaction) tuple.
// Records are append-only and the store keeps only the newest 1000.
type LearningRecord struct {
	ID           string               `json:"id"`
	Purpose      pixelwise.Purpose    `json:"purpose"`
	DeviceType   pixelwise.DeviceType `json:"deviceType"`
	Chosen       ChosenSettings       `json:"chosen"`
	Satisfaction float64              `json:"satisfaction"`
	Actual       *ActualMetrics       `json:"actual,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

// LearningStore records user choices and answers satisfaction queries for
// the scorer. Persistence failures are downgraded to warnings; the store
// keeps working from memory.
type LearningStore struct {
	kv     store.KeyValueStore
	logger *slog.Logger

	mu      sync.RWMutex
	records []LearningRecord
}

// NewLearningStore creates a store backed by the given key-value store and
// loads any previously persisted records.
func NewLearningStore(kv store.KeyValueStore, logger *slog.Logger) *LearningStore {
	if logger == nil {
		logger = slog.Default()
	}

	s := &LearningStore{kv: kv, logger: logger}
	s.load()
	return s
}

// load restores persisted records, falling back to an empty store on any
// read or decode failure.
func (s *LearningStore) load() {
	if s.kv == nil {
		return
	}

	data, err := s.kv.Get(learningStoreKey)
	if err != nil {
		s.logger.Warn("learning store unavailable, starting empty",
			"error", &pixelwise.StoreUnavailableError{Op: "get", Key: learningStoreKey, Err: err})
		return
	}
	if data == nil {
		return
	}

	var records []LearningRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("discarding corrupt learning records", "error", err)
		return
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
}

// RecordChoice appends a learning record, truncates the store to the most
// recent entries and persists it. This is the only mutation path.
func (s *LearningStore) RecordChoice(ctx pixelwise.RecommendationContext, chosen ChosenSettings, satisfaction float64, actual *ActualMetrics) {
	if satisfaction < 0 {
		satisfaction = 0
	}
	if satisfaction > 1 {
		satisfaction = 1
	}

	record := LearningRecord{
		ID:           uuid.NewString(),
		Purpose:      ctx.Purpose,
		DeviceType:   ctx.DeviceType,
		Chosen:       chosen,
		Satisfaction: satisfaction,
		Actual:       actual,
		Timestamp:    time.Now(),
	}

	s.mu.Lock()
	s.records = append(s.records, record)
	if len(s.records) > maxLearningRecords {
		s.records = s.records[len(s.records)-maxLearningRecords:]
	}
	snapshot := make([]LearningRecord, len(s.records))
	copy(snapshot, s.records)
	s.mu.Unlock()

	s.persist(snapshot)
}

// persist writes the record snapshot through the key-value store, warning
// instead of failing when the backend is unavailable.
func (s *LearningStore) persist(records []LearningRecord) {
	if s.kv == nil {
		return
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.logger.Warn("failed to encode learning records", "error", err)
		return
	}
	if err := s.kv.Set(learningStoreKey, data); err != nil {
		s.logger.Warn("learning store write failed, keeping records in memory",
			"error", &pixelwise.StoreUnavailableError{Op: "set", Key: learningStoreKey, Err: err})
	}
}

// AverageSatisfaction returns the mean satisfaction of records for the
// same purpose whose chosen DPI lies within 50 of the given DPI. The
// second return is false when no records match.
func (s *LearningStore) AverageSatisfaction(purpose pixelwise.Purpose, dpi int) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	count := 0
	for _, record := range s.records {
		if record.Purpose != purpose {
			continue
		}
		distance := record.Chosen.DPI - dpi
		if distance < 0 {
			distance = -distance
		}
		if distance <= learningDPIDistance {
			sum += record.Satisfaction
			count++
		}
	}

	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// Len returns the number of records currently held.
func (s *LearningStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear drops every record and removes the persisted blob. Used by tests
// and by an explicit user reset.
func (s *LearningStore) Clear() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()

	if s.kv == nil {
		return
	}
	if err := s.kv.Remove(learningStoreKey); err != nil {
		s.logger.Warn("failed to clear persisted learning records", "error", err)
	}
}
