package advisor

import "github.com/opscart/vm-advisor/pkg/models"

// Summarize counts a ranked list by category, urgency and dashboard bucket.
// ByCategory and ByUrgency always carry every key, zero-filled.
func Summarize(ranked []models.AdvisedRecommendation) models.Summary {
	summary := models.Summary{
		Total:      len(ranked),
		ByCategory: make(map[models.Category]int, len(models.Categories)),
		ByUrgency:  make(map[models.UrgencyLevel]int, len(models.UrgencyLevels)),
	}
	for _, c := range models.Categories {
		summary.ByCategory[c] = 0
	}
	for _, u := range models.UrgencyLevels {
		summary.ByUrgency[u] = 0
	}

	for _, r := range ranked {
		summary.ByCategory[r.Category]++
		summary.ByUrgency[r.Urgency]++

		if r.Urgency == models.UrgencyImmediate || r.Urgency == models.UrgencyUrgent {
			summary.Urgent++
		}
		if r.Priority == models.PriorityCritical || r.Priority == models.PriorityHigh {
			summary.HighPriority++
		}
		if r.Priority == models.PriorityCritical {
			summary.Critical++
		}

		switch {
		case isRebootType(r.Record.Type):
			if r.Metadata != nil && r.Metadata.RebootDays != nil && *r.Metadata.RebootDays > 0 {
				summary.RebootPending++
			}
		case HasPendingSecurityUpdates(r.Record, r.Metadata):
			summary.SecurityUpdates++
		case HasActiveThreats(r.Record, r.Metadata):
			summary.ActiveThreats++
		case r.Record.Type == models.RecommendationPortBlocked:
			summary.BlockedPorts++
		}
	}

	return summary
}
