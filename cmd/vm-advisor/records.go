package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opscart/vm-advisor/pkg/models"
	"github.com/opscart/vm-advisor/pkg/storage"
)

// yamlRecord mirrors RecommendationRecord with metadata as a free-form map,
// since the record keeps metadata as raw JSON
type yamlRecord struct {
	ID        string                 `yaml:"id"`
	Type      string                 `yaml:"type"`
	MachineID string                 `yaml:"machineId"`
	CreatedAt time.Time              `yaml:"createdAt"`
	Metadata  map[string]interface{} `yaml:"metadata"`
}

// loadRecords reads a JSON or YAML list of recommendation records. The format
// is chosen by file extension.
func loadRecords(path string) ([]models.RecommendationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLRecords(data)
	default:
		return parseJSONRecords(data)
	}
}

func parseJSONRecords(data []byte) ([]models.RecommendationRecord, error) {
	var records []models.RecommendationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	return records, nil
}

func parseYAMLRecords(data []byte) ([]models.RecommendationRecord, error) {
	var raw []yamlRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}

	records := make([]models.RecommendationRecord, 0, len(raw))
	for _, r := range raw {
		rec := models.RecommendationRecord{
			ID:        r.ID,
			Type:      models.RecommendationType(r.Type),
			MachineID: r.MachineID,
			CreatedAt: r.CreatedAt,
		}
		if r.Metadata != nil {
			metadata, err := json.Marshal(r.Metadata)
			if err != nil {
				return nil, fmt.Errorf("failed to convert metadata of %s: %w", r.ID, err)
			}
			rec.Metadata = metadata
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseFilter builds a fetch filter from the advise flags
func parseFilter(types string, limit int, after, before string, refresh bool) (models.RecommendationFilter, error) {
	if limit < 0 {
		return models.RecommendationFilter{}, fmt.Errorf("invalid --limit %d: must not be negative", limit)
	}
	filter := models.RecommendationFilter{Limit: limit, Refresh: refresh}

	for _, t := range strings.Split(types, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter.Types = append(filter.Types, models.RecommendationType(strings.ToUpper(t)))
		}
	}

	if after != "" {
		ts, err := time.Parse(time.RFC3339, after)
		if err != nil {
			return filter, fmt.Errorf("invalid --created-after: %w", err)
		}
		filter.CreatedAfter = &ts
	}
	if before != "" {
		ts, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return filter, fmt.Errorf("invalid --created-before: %w", err)
		}
		filter.CreatedBefore = &ts
	}

	return filter, nil
}

// importRecords saves records one by one and counts those the store skipped
// because their ID was already stored
func importRecords(ctx context.Context, store storage.Store, records []models.RecommendationRecord) (imported, skipped int, err error) {
	for i := range records {
		saveErr := store.SaveRecommendation(ctx, &records[i])
		switch {
		case errors.Is(saveErr, storage.ErrAlreadyExists):
			skipped++
		case saveErr != nil:
			return imported, skipped, saveErr
		default:
			imported++
		}
	}
	return imported, skipped, nil
}
