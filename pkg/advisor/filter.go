package advisor

import "github.com/opscart/vm-advisor/pkg/models"

func filter(ranked []models.AdvisedRecommendation, keep func(models.AdvisedRecommendation) bool) []models.AdvisedRecommendation {
	result := make([]models.AdvisedRecommendation, 0, len(ranked))
	for _, r := range ranked {
		if keep(r) {
			result = append(result, r)
		}
	}
	return result
}

// ByCategory returns the recommendations in category c, order preserved
func ByCategory(ranked []models.AdvisedRecommendation, c models.Category) []models.AdvisedRecommendation {
	return filter(ranked, func(r models.AdvisedRecommendation) bool { return r.Category == c })
}

// ByType returns the recommendations of type t, order preserved
func ByType(ranked []models.AdvisedRecommendation, t models.RecommendationType) []models.AdvisedRecommendation {
	return filter(ranked, func(r models.AdvisedRecommendation) bool { return r.Record.Type == t })
}

// ByUrgency returns the recommendations at urgency level u, order preserved
func ByUrgency(ranked []models.AdvisedRecommendation, u models.UrgencyLevel) []models.AdvisedRecommendation {
	return filter(ranked, func(r models.AdvisedRecommendation) bool { return r.Urgency == u })
}

// RequiringImmediateAttention returns the recommendations in the
// immediate-attention set, order preserved
func RequiringImmediateAttention(ranked []models.AdvisedRecommendation) []models.AdvisedRecommendation {
	return filter(ranked, func(r models.AdvisedRecommendation) bool { return r.RequiresImmediateAttention })
}
