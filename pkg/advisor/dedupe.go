package advisor

import "github.com/opscart/vm-advisor/pkg/models"

// Dedupe drops records whose ID was already seen, keeping the first occurrence
// and the original relative order. The input slice is not modified.
func Dedupe(records []models.RecommendationRecord) []models.RecommendationRecord {
	seen := make(map[string]struct{}, len(records))
	result := make([]models.RecommendationRecord, 0, len(records))

	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		result = append(result, rec)
	}

	return result
}
