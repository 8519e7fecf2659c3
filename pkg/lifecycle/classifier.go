package lifecycle

import (
	"go.uber.org/zap"

	"github.com/opscart/vm-advisor/pkg/metrics"
	"github.com/opscart/vm-advisor/pkg/models"
)

// statusCategories partitions the recognized status codes into lifecycle categories
var statusCategories = map[models.StatusCode]models.StatusCategory{
	models.StatusRunning: models.StatusCategoryActive,

	models.StatusPaused:    models.StatusCategorySuspended,
	models.StatusSuspended: models.StatusCategorySuspended,

	models.StatusShutdown: models.StatusCategoryOff,
	models.StatusOff:      models.StatusCategoryOff,
	models.StatusStopped:  models.StatusCategoryOff,

	models.StatusInMigrate:         models.StatusCategoryTransitional,
	models.StatusPostMigrate:       models.StatusCategoryTransitional,
	models.StatusPrelaunch:         models.StatusCategoryTransitional,
	models.StatusFinishMigrate:     models.StatusCategoryTransitional,
	models.StatusRestoreVM:         models.StatusCategoryTransitional,
	models.StatusColo:              models.StatusCategoryTransitional,
	models.StatusStarting:          models.StatusCategoryTransitional,
	models.StatusBuilding:          models.StatusCategoryTransitional,
	models.StatusUpdatingHardware:  models.StatusCategoryTransitional,
	models.StatusPoweringOffUpdate: models.StatusCategoryTransitional,

	models.StatusWatchdog:      models.StatusCategoryError,
	models.StatusGuestPanicked: models.StatusCategoryError,
	models.StatusIOError:       models.StatusCategoryError,
	models.StatusError:         models.StatusCategoryError,
}

// categoryActions lists the actions permitted in each category.
// TRANSITIONAL permits no actions.
var categoryActions = map[models.StatusCategory][]models.Action{
	models.StatusCategoryActive:       {models.ActionConnect, models.ActionPause, models.ActionStop, models.ActionReset},
	models.StatusCategoryOff:          {models.ActionStart, models.ActionDelete},
	models.StatusCategoryError:        {models.ActionStart, models.ActionDelete},
	models.StatusCategorySuspended:    {models.ActionResume, models.ActionStop},
	models.StatusCategoryTransitional: {},
}

// KnownStatusCodes returns every recognized status code
func KnownStatusCodes() []models.StatusCode {
	return []models.StatusCode{
		models.StatusRunning, models.StatusPaused, models.StatusShutdown, models.StatusSuspended,
		models.StatusInMigrate, models.StatusPostMigrate, models.StatusPrelaunch, models.StatusFinishMigrate,
		models.StatusRestoreVM, models.StatusWatchdog, models.StatusGuestPanicked, models.StatusIOError,
		models.StatusColo, models.StatusStarting, models.StatusBuilding, models.StatusUpdatingHardware,
		models.StatusPoweringOffUpdate, models.StatusError, models.StatusOff, models.StatusStopped,
	}
}

// CategoryOf returns the lifecycle category of code. Unrecognized codes map to
// OFF and the second return value is false.
func CategoryOf(code models.StatusCode) (models.StatusCategory, bool) {
	if category, exists := statusCategories[code]; exists {
		return category, true
	}
	return models.StatusCategoryOff, false
}

// ActionsFor returns the actions permitted in category. The result is a fresh
// slice; an unknown category yields no actions.
func ActionsFor(category models.StatusCategory) []models.Action {
	actions := categoryActions[category]
	out := make([]models.Action, len(actions))
	copy(out, actions)
	return out
}

// CanPerform reports whether action is permitted in category
func CanPerform(category models.StatusCategory, action models.Action) bool {
	for _, a := range categoryActions[category] {
		if a == action {
			return true
		}
	}
	return false
}

// Classify maps a raw status code to its category and permitted actions.
// It is total: unrecognized codes classify as OFF with Recognized=false.
func Classify(code models.StatusCode) models.Classification {
	category, recognized := CategoryOf(code)
	return models.Classification{
		Code:       code,
		Category:   category,
		Actions:    ActionsFor(category),
		Recognized: recognized,
	}
}

// Classifier wraps Classify and reports unrecognized codes through the logger
// and metrics. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewClassifier creates a classifier. A nil logger is replaced with a no-op
// logger; m may be nil.
func NewClassifier(logger *zap.Logger, m *metrics.Metrics) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger, metrics: m}
}

// Classify classifies code and emits a diagnostic when it is not recognized
func (c *Classifier) Classify(code models.StatusCode) models.Classification {
	result := Classify(code)
	if !result.Recognized {
		c.logger.Warn("unrecognized VM status, defaulting to OFF",
			zap.String("status", string(code)))
	}
	c.metrics.ObserveClassification(result)
	return result
}

// ClassifyAll classifies each code, preserving input order
func (c *Classifier) ClassifyAll(codes []models.StatusCode) []models.Classification {
	results := make([]models.Classification, 0, len(codes))
	for _, code := range codes {
		results = append(results, c.Classify(code))
	}
	return results
}
