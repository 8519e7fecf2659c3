package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opscart/vm-advisor/pkg/models"
)

// MemoryStore implements Store in memory. Records are kept in insertion order
// and duplicates are allowed, mirroring a raw health-scan feed.
type MemoryStore struct {
	mu        sync.RWMutex
	records   []models.RecommendationRecord
	refresher Refresher
}

// NewMemoryStore creates a store pre-loaded with records
func NewMemoryStore(records ...models.RecommendationRecord) *MemoryStore {
	s := &MemoryStore{}
	for _, rec := range records {
		s.records = append(s.records, copyRecord(rec))
	}
	return s
}

// SetRefresher installs the hook called for fetches carrying the Refresh flag
func (s *MemoryStore) SetRefresher(r Refresher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresher = r
}

func (s *MemoryStore) SaveRecommendation(ctx context.Context, rec *models.RecommendationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, copyRecord(*rec))
	return nil
}

func (s *MemoryStore) GetRecommendation(ctx context.Context, id string) (*models.RecommendationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.ID == id {
			out := copyRecord(rec)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListRecommendations returns a VM's matching records in feed order, so
// duplicate IDs reach the caller in the order they were saved. A limit keeps
// the newest records without reordering them.
func (s *MemoryStore) ListRecommendations(ctx context.Context, machineID string, filter models.RecommendationFilter) ([]models.RecommendationRecord, error) {
	s.mu.RLock()
	refresher := s.refresher
	s.mu.RUnlock()

	if filter.Refresh && refresher != nil {
		if err := refresher.RequestRefresh(ctx, machineID); err != nil {
			return nil, fmt.Errorf("failed to refresh recommendations for %s: %w", machineID, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []models.RecommendationRecord{}
	for _, rec := range s.records {
		if rec.MachineID == machineID && filter.Matches(rec) {
			matched = append(matched, rec)
		}
	}

	keep := newestIndexes(matched, filter.Limit)

	result := make([]models.RecommendationRecord, 0, len(keep))
	for _, i := range keep {
		result = append(result, copyRecord(matched[i]))
	}
	return result, nil
}

// newestIndexes picks the indexes of the limit newest records, returned in
// ascending index order. Equal timestamps prefer the earlier record. A limit
// of zero keeps everything.
func newestIndexes(records []models.RecommendationRecord, limit int) []int {
	indexes := make([]int, len(records))
	for i := range indexes {
		indexes[i] = i
	}
	if limit <= 0 || len(records) <= limit {
		return indexes
	}

	sort.SliceStable(indexes, func(a, b int) bool {
		return records[indexes[a]].CreatedAt.After(records[indexes[b]].CreatedAt)
	})
	indexes = indexes[:limit]
	sort.Ints(indexes)
	return indexes
}

// MachineIDs returns the distinct machine IDs held by the store, sorted
func (s *MemoryStore) MachineIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	var ids []string
	for _, rec := range s.records {
		if !seen[rec.MachineID] {
			seen[rec.MachineID] = true
			ids = append(ids, rec.MachineID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func copyRecord(rec models.RecommendationRecord) models.RecommendationRecord {
	if rec.Metadata != nil {
		rec.Metadata = append([]byte(nil), rec.Metadata...)
	}
	return rec
}
