package advisor

import "github.com/opscart/vm-advisor/pkg/models"

// TypeConfig holds the static facts known about a recommendation type
type TypeConfig struct {
	Category    models.Category
	Priority    models.PriorityLevel
	Description string
}

// catalog is the single source of truth for type → category and type → priority
var catalog = map[models.RecommendationType]TypeConfig{
	models.RecommendationDefenderDisabled: {
		Category:    models.CategorySecurity,
		Priority:    models.PriorityCritical,
		Description: "Antivirus protection is disabled",
	},
	models.RecommendationDefenderThreat: {
		Category:    models.CategorySecurity,
		Priority:    models.PriorityCritical,
		Description: "Antivirus reported threats",
	},
	models.RecommendationPortBlocked: {
		Category:    models.CategorySecurity,
		Priority:    models.PriorityMedium,
		Description: "A port used by an application is blocked by the firewall",
	},
	models.RecommendationOSUpdateAvailable: {
		Category:    models.CategoryUpdates,
		Priority:    models.PriorityHigh,
		Description: "Operating system updates are pending",
	},
	models.RecommendationAppUpdateAvailable: {
		Category:    models.CategoryUpdates,
		Priority:    models.PriorityMedium,
		Description: "Application updates are available",
	},
	models.RecommendationSystemUpdateAvailable: {
		Category:    models.CategoryMaintenance,
		Priority:    models.PriorityHigh,
		Description: "System component updates are pending",
	},
	models.RecommendationDiskSpaceLow: {
		Category:    models.CategoryStorage,
		Priority:    models.PriorityHigh,
		Description: "A disk is running out of free space",
	},
	models.RecommendationDiskIOBottleneck: {
		Category:    models.CategoryStorage,
		Priority:    models.PriorityMedium,
		Description: "Disk I/O is saturated",
	},
	models.RecommendationHighCPUApp: {
		Category:    models.CategoryPerformance,
		Priority:    models.PriorityMedium,
		Description: "An application is using excessive CPU",
	},
	models.RecommendationHighRAMApp: {
		Category:    models.CategoryPerformance,
		Priority:    models.PriorityMedium,
		Description: "An application is using excessive memory",
	},
	models.RecommendationUnderProvisioned: {
		Category:    models.CategoryPerformance,
		Priority:    models.PriorityHigh,
		Description: "The VM needs more resources than it has",
	},
	models.RecommendationOverProvisioned: {
		Category:    models.CategoryPerformance,
		Priority:    models.PriorityLow,
		Description: "The VM has more resources than it uses",
	},
	models.RecommendationOther: {
		Category:    models.CategoryGeneral,
		Priority:    models.PriorityLow,
		Description: "General recommendation",
	},
}

// fallbackConfig applies to any type absent from the catalog
var fallbackConfig = TypeConfig{
	Category:    models.CategoryGeneral,
	Priority:    models.PriorityLow,
	Description: "Unrecognized recommendation",
}

// GetTypeConfig returns the configuration for t, or the GENERAL/LOW fallback
func GetTypeConfig(t models.RecommendationType) TypeConfig {
	if config, exists := catalog[t]; exists {
		return config
	}
	return fallbackConfig
}

// CategoryOf returns the display category of t
func CategoryOf(t models.RecommendationType) models.Category {
	return GetTypeConfig(t).Category
}

// PriorityOf returns the intrinsic priority of t
func PriorityOf(t models.RecommendationType) models.PriorityLevel {
	return GetTypeConfig(t).Priority
}

// KnownTypes returns every catalogued recommendation type in a stable order
func KnownTypes() []models.RecommendationType {
	return []models.RecommendationType{
		models.RecommendationDefenderDisabled,
		models.RecommendationDefenderThreat,
		models.RecommendationPortBlocked,
		models.RecommendationOSUpdateAvailable,
		models.RecommendationAppUpdateAvailable,
		models.RecommendationSystemUpdateAvailable,
		models.RecommendationDiskSpaceLow,
		models.RecommendationDiskIOBottleneck,
		models.RecommendationHighCPUApp,
		models.RecommendationHighRAMApp,
		models.RecommendationUnderProvisioned,
		models.RecommendationOverProvisioned,
		models.RecommendationOther,
	}
}
