package advisor

import "github.com/opscart/vm-advisor/pkg/models"

const (
	// Days a reboot may stay pending before it becomes IMMEDIATE
	rebootOverdueDays = 7
	// Days a reboot may stay pending before it becomes URGENT
	rebootDueDays = 3
)

func isRebootType(t models.RecommendationType) bool {
	return t == models.RecommendationOSUpdateAvailable || t == models.RecommendationSystemUpdateAvailable
}

func rebootDaysAtLeast(rec models.RecommendationRecord, meta *models.NormalizedMetadata, days int) bool {
	return isRebootType(rec.Type) && meta != nil && meta.RebootDays != nil && *meta.RebootDays >= days
}

// IsRebootOverdue reports whether an OS or system update has waited at least
// seven days for a reboot
func IsRebootOverdue(rec models.RecommendationRecord, meta *models.NormalizedMetadata) bool {
	return rebootDaysAtLeast(rec, meta, rebootOverdueDays)
}

// HasActiveThreats reports whether an antivirus threat record carries at
// least one active threat
func HasActiveThreats(rec models.RecommendationRecord, meta *models.NormalizedMetadata) bool {
	return rec.Type == models.RecommendationDefenderThreat &&
		meta != nil && meta.ActiveThreats != nil && *meta.ActiveThreats > 0
}

// HasPendingSecurityUpdates reports whether an application update record
// includes security updates
func HasPendingSecurityUpdates(rec models.RecommendationRecord, meta *models.NormalizedMetadata) bool {
	return rec.Type == models.RecommendationAppUpdateAvailable &&
		meta != nil && meta.SecurityUpdateCount != nil && *meta.SecurityUpdateCount > 0
}

// urgencyRule yields an urgency level when it applies to a record
type urgencyRule struct {
	level   models.UrgencyLevel
	applies func(rec models.RecommendationRecord, meta *models.NormalizedMetadata) bool
}

// urgencyRules are evaluated in order; the first match wins
var urgencyRules = []urgencyRule{
	{level: models.UrgencyImmediate, applies: IsRebootOverdue},
	{level: models.UrgencyImmediate, applies: HasActiveThreats},
	{level: models.UrgencyUrgent, applies: HasPendingSecurityUpdates},
	{
		level: models.UrgencyUrgent,
		applies: func(rec models.RecommendationRecord, meta *models.NormalizedMetadata) bool {
			return rebootDaysAtLeast(rec, meta, rebootDueDays)
		},
	},
	{
		level: models.UrgencySoon,
		applies: func(rec models.RecommendationRecord, _ *models.NormalizedMetadata) bool {
			return rec.Type == models.RecommendationPortBlocked
		},
	},
}

// UrgencyOf computes how soon rec needs action. Metadata-driven rules are
// tried first; otherwise urgency follows the intrinsic priority.
func UrgencyOf(rec models.RecommendationRecord, meta *models.NormalizedMetadata, priority models.PriorityLevel) models.UrgencyLevel {
	for _, rule := range urgencyRules {
		if rule.applies(rec, meta) {
			return rule.level
		}
	}

	switch priority {
	case models.PriorityCritical, models.PriorityHigh:
		return models.UrgencyUrgent
	case models.PriorityMedium:
		return models.UrgencySoon
	default:
		return models.UrgencyNormal
	}
}

// RequiresImmediateAttention reports whether rec belongs in the
// immediate-attention set: IMMEDIATE urgency, an overdue reboot, active
// threats, or pending security updates.
func RequiresImmediateAttention(rec models.RecommendationRecord, meta *models.NormalizedMetadata, urgency models.UrgencyLevel) bool {
	return urgency == models.UrgencyImmediate ||
		IsRebootOverdue(rec, meta) ||
		HasActiveThreats(rec, meta) ||
		HasPendingSecurityUpdates(rec, meta)
}
