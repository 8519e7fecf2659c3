package metrics

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/opscart/vm-advisor/pkg/models"
)

const namespace = "vm_advisor"

const (
	// maxStatusLabels bounds the distinct status label values on
	// unrecognized_status_total; later codes share overflowStatusLabel
	maxStatusLabels = 32
	// maxStatusLabelLen is the longest raw status kept as a label value
	maxStatusLabelLen   = 64
	overflowStatusLabel = "other"
)

// Metrics holds the collectors updated by the classifier and advisory pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UnrecognizedStatus *prometheus.CounterVec
	Classifications    *prometheus.CounterVec
	Recommendations    *prometheus.CounterVec
	DuplicatesDropped  prometheus.Counter

	mu           sync.Mutex
	statusLabels map[string]struct{}
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		UnrecognizedStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unrecognized_status_total",
			Help:      "Status codes that were not recognized and defaulted to OFF.",
		}, []string{"status"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Status classifications by resulting category.",
		}, []string{"category"}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Ranked recommendations by category and urgency.",
		}, []string{"category", "urgency"}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_dropped_total",
			Help:      "Recommendation records dropped because their ID was already seen.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.UnrecognizedStatus, m.Classifications, m.Recommendations, m.DuplicatesDropped,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// ObserveClassification records one classification result
func (m *Metrics) ObserveClassification(c models.Classification) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(string(c.Category)).Inc()
	if !c.Recognized {
		m.UnrecognizedStatus.WithLabelValues(m.statusLabel(string(c.Code))).Inc()
	}
}

// statusLabel returns code while the label set has room, and
// overflowStatusLabel once it is full or for overlong codes
func (m *Metrics) statusLabel(code string) string {
	if len(code) > maxStatusLabelLen {
		return overflowStatusLabel
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, seen := m.statusLabels[code]; seen {
		return code
	}
	if len(m.statusLabels) >= maxStatusLabels {
		return overflowStatusLabel
	}
	if m.statusLabels == nil {
		m.statusLabels = make(map[string]struct{}, maxStatusLabels)
	}
	m.statusLabels[code] = struct{}{}
	return code
}

// ObserveAdvisory records the ranked recommendations of one advisory
func (m *Metrics) ObserveAdvisory(a models.Advisory) {
	if m == nil {
		return
	}
	for _, r := range a.Recommendations {
		m.Recommendations.WithLabelValues(string(r.Category), string(r.Urgency)).Inc()
	}
	m.DuplicatesDropped.Add(float64(a.DuplicatesDropped))
}

// WriteText writes every metric family from g in the Prometheus text format
func WriteText(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
