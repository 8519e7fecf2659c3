package advisor

import (
	"sort"

	"github.com/opscart/vm-advisor/pkg/models"
)

// Advise derives category, priority, urgency and metadata for one record.
// The record is copied into the result, never modified.
func Advise(rec models.RecommendationRecord) models.AdvisedRecommendation {
	config := GetTypeConfig(rec.Type)
	meta := Normalize(rec)
	urgency := UrgencyOf(rec, meta, config.Priority)

	return models.AdvisedRecommendation{
		Record:                     rec,
		Category:                   config.Category,
		Priority:                   config.Priority,
		Urgency:                    urgency,
		Metadata:                   meta,
		RequiresImmediateAttention: RequiresImmediateAttention(rec, meta, urgency),
	}
}

// Rank advises every record and orders the results by urgency, then
// priority, then newest first, then ID ascending. The key is a total order,
// so the output does not depend on the input order.
func Rank(records []models.RecommendationRecord) []models.AdvisedRecommendation {
	ranked := make([]models.AdvisedRecommendation, 0, len(records))
	for _, rec := range records {
		ranked = append(ranked, Advise(rec))
	}

	sortRanked(ranked)
	return ranked
}

func sortRanked(ranked []models.AdvisedRecommendation) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
}

func less(a, b models.AdvisedRecommendation) bool {
	if ua, ub := a.Urgency.Value(), b.Urgency.Value(); ua != ub {
		return ua > ub
	}
	if pa, pb := a.Priority.Value(), b.Priority.Value(); pa != pb {
		return pa > pb
	}
	if !a.Record.CreatedAt.Equal(b.Record.CreatedAt) {
		return a.Record.CreatedAt.After(b.Record.CreatedAt)
	}
	return a.Record.ID < b.Record.ID
}
