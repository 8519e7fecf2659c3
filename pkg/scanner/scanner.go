package scanner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opscart/vm-advisor/pkg/advisor"
	"github.com/opscart/vm-advisor/pkg/datasource"
	"github.com/opscart/vm-advisor/pkg/lifecycle"
	"github.com/opscart/vm-advisor/pkg/models"
	"github.com/opscart/vm-advisor/pkg/storage"
)

// Scanner fetches raw inputs from the collaborators and runs them through
// the classifier and advisory pipeline
type Scanner struct {
	store       storage.Store
	statuses    datasource.StatusSource
	advisor     *advisor.Advisor
	classifier  *lifecycle.Classifier
	concurrency int
	logger      *zap.Logger
}

// Options configures a Scanner. Store and Statuses are each optional, but the
// operations that need them fail without them.
type Options struct {
	Store       storage.Store
	Statuses    datasource.StatusSource
	Advisor     *advisor.Advisor
	Classifier  *lifecycle.Classifier
	Concurrency int
	Logger      *zap.Logger
}

func New(opts Options) *Scanner {
	s := &Scanner{
		store:       opts.Store,
		statuses:    opts.Statuses,
		advisor:     opts.Advisor,
		classifier:  opts.Classifier,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.advisor == nil {
		s.advisor = advisor.New(s.logger, nil)
	}
	if s.classifier == nil {
		s.classifier = lifecycle.NewClassifier(s.logger, nil)
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	return s
}

// ScanMachine fetches one VM's recommendations and derives its advisory
func (s *Scanner) ScanMachine(ctx context.Context, machineID string, filter models.RecommendationFilter) (models.Advisory, error) {
	if s.store == nil {
		return models.Advisory{}, fmt.Errorf("no recommendation store configured")
	}

	records, err := s.store.ListRecommendations(ctx, machineID, filter)
	if err != nil {
		return models.Advisory{}, fmt.Errorf("failed to fetch recommendations for %s: %w", machineID, err)
	}

	s.logger.Debug("fetched recommendations",
		zap.String("machine_id", machineID),
		zap.Int("records", len(records)),
		zap.Bool("refresh", filter.Refresh))

	return s.advisor.Process(machineID, records), nil
}

// ScanMachines scans every machine concurrently and returns the advisories in
// the order of machineIDs. The first fetch error cancels the remaining scans.
func (s *Scanner) ScanMachines(ctx context.Context, machineIDs []string, filter models.RecommendationFilter) ([]models.Advisory, error) {
	advisories := make([]models.Advisory, len(machineIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, id := range machineIDs {
		i, id := i, id
		g.Go(func() error {
			advisory, err := s.ScanMachine(gctx, id, filter)
			if err != nil {
				return err
			}
			advisories[i] = advisory
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("scan complete", zap.Int("machines", len(machineIDs)))
	return advisories, nil
}

// ClassifyNamespace reads every VM status in namespace and classifies it
func (s *Scanner) ClassifyNamespace(ctx context.Context, namespace string) ([]models.MachineClassification, error) {
	if s.statuses == nil {
		return nil, fmt.Errorf("no status source configured")
	}

	statuses, err := s.statuses.ListStatuses(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to read statuses from %s: %w", s.statuses.Name(), err)
	}

	results := make([]models.MachineClassification, 0, len(statuses))
	for _, st := range statuses {
		results = append(results, models.MachineClassification{
			MachineStatus:  st,
			Classification: s.classifier.Classify(st.Status),
		})
	}
	return results, nil
}
