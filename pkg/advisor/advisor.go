// Package advisor turns raw health recommendation records into deduplicated,
// categorized, urgency-ranked advisories. Everything here is a pure function
// of its input except the optional logging and metrics on Advisor.
package advisor

import (
	"go.uber.org/zap"

	"github.com/opscart/vm-advisor/pkg/metrics"
	"github.com/opscart/vm-advisor/pkg/models"
)

// Process runs the full pipeline for one VM: dedupe, rank, summarize
func Process(machineID string, records []models.RecommendationRecord) models.Advisory {
	unique := Dedupe(records)
	ranked := Rank(unique)

	return models.Advisory{
		MachineID:         machineID,
		Recommendations:   ranked,
		Summary:           Summarize(ranked),
		DuplicatesDropped: len(records) - len(unique),
	}
}

// Advisor runs Process and reports what it derived
type Advisor struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates an Advisor. A nil logger is replaced with a no-op logger; m may be nil.
func New(logger *zap.Logger, m *metrics.Metrics) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{logger: logger, metrics: m}
}

// Process runs the pipeline for one VM
func (a *Advisor) Process(machineID string, records []models.RecommendationRecord) models.Advisory {
	advisory := Process(machineID, records)

	if advisory.DuplicatesDropped > 0 {
		a.logger.Debug("dropped duplicate recommendations",
			zap.String("machine_id", machineID),
			zap.Int("dropped", advisory.DuplicatesDropped))
	}
	a.logger.Debug("advisory derived",
		zap.String("machine_id", machineID),
		zap.Int("total", advisory.Summary.Total),
		zap.Int("urgent", advisory.Summary.Urgent),
		zap.Int("critical", advisory.Summary.Critical))

	a.metrics.ObserveAdvisory(advisory)
	return advisory
}
