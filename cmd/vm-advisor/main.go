package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opscart/vm-advisor/pkg/advisor"
	"github.com/opscart/vm-advisor/pkg/config"
	"github.com/opscart/vm-advisor/pkg/datasource"
	"github.com/opscart/vm-advisor/pkg/lifecycle"
	"github.com/opscart/vm-advisor/pkg/metrics"
	"github.com/opscart/vm-advisor/pkg/models"
	"github.com/opscart/vm-advisor/pkg/output"
	"github.com/opscart/vm-advisor/pkg/scanner"
	"github.com/opscart/vm-advisor/pkg/storage"
)

var (
	// Global flags
	outputFormat string
	verbose      bool
	metricsOut   string

	// Advise flags
	recordsFile   string
	types         string
	limit         int
	createdAfter  string
	createdBefore string
	refresh       bool
	immediateOnly bool

	// Kube-status flags
	namespace  string
	kubeconfig string

	// Global state
	cfg        *config.Config
	logger     *zap.Logger
	registry   *prometheus.Registry
	appMetrics *metrics.Metrics
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "vm-advisor",
		Short:             "VM lifecycle and health advisory tool",
		Long:              `Classify VM lifecycle states and turn raw health recommendations into ranked, summarized advisories.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync() //nolint:errcheck
			return writeMetrics()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json, yaml, csv (default from OUTPUT_FORMAT or text)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this file on exit")

	statusCmd := &cobra.Command{
		Use:   "status <code>...",
		Short: "Classify VM status codes",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStatus,
	}

	adviseCmd := &cobra.Command{
		Use:   "advise [machine-id]...",
		Short: "Rank and summarize health recommendations",
		Long: `Fetch raw health recommendations for each VM from PostgreSQL (or a --file of records),
drop duplicates, rank them by urgency and priority, and print the advisory.`,
		RunE: runAdvise,
	}
	adviseCmd.Flags().StringVarP(&recordsFile, "file", "f", "", "Read records from a JSON or YAML file instead of the database")
	adviseCmd.Flags().StringVar(&types, "types", "", "Comma-separated recommendation types to include")
	adviseCmd.Flags().IntVar(&limit, "limit", 0, "Maximum records fetched per VM (default from RECOMMENDATION_LIMIT)")
	adviseCmd.Flags().StringVar(&createdAfter, "created-after", "", "Only records created after this RFC3339 time")
	adviseCmd.Flags().StringVar(&createdBefore, "created-before", "", "Only records created before this RFC3339 time")
	adviseCmd.Flags().BoolVar(&refresh, "refresh", false, "Forward a recompute request to the health scanner before fetching (no-op unless a refresh hook is configured)")
	adviseCmd.Flags().BoolVar(&immediateOnly, "immediate-only", false, "Only show recommendations requiring immediate attention")

	kubeStatusCmd := &cobra.Command{
		Use:   "kube-status",
		Short: "Classify every KubeVirt VM in a namespace",
		RunE:  runKubeStatus,
	}
	kubeStatusCmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace to read (all namespaces if empty)")
	kubeStatusCmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "Path to kubeconfig (default from KUBECONFIG or ~/.kube/config)")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Import raw recommendation records into the database",
		RunE:  runRecord,
	}
	recordCmd.Flags().StringVarP(&recordsFile, "file", "f", "", "JSON or YAML file of records")
	recordCmd.MarkFlagRequired("file") //nolint:errcheck

	rootCmd.AddCommand(statusCmd, adviseCmd, kubeStatusCmd, recordCmd)
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	cfg = config.NewConfig()
	if outputFormat != "" {
		cfg.OutputFormat = outputFormat
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var err error
	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if cfg.MetricsEnabled || metricsOut != "" {
		registry = prometheus.NewRegistry()
		appMetrics, err = metrics.New(registry)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeMetrics() error {
	if metricsOut == "" || registry == nil {
		return nil
	}

	f, err := os.Create(metricsOut)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()

	if err := metrics.WriteText(registry, f); err != nil {
		return err
	}
	logger.Debug("metrics written", zap.String("path", metricsOut))
	return nil
}

func newHandler() (output.Handler, error) {
	return output.NewHandler(cfg.OutputFormat, os.Stdout)
}

func openStore() (*storage.PostgresStore, error) {
	if !cfg.StorageEnabled {
		return nil, fmt.Errorf("storage is disabled (set STORAGE_ENABLED=true or use --file)")
	}
	store, err := storage.NewPostgresStore(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	classifier := lifecycle.NewClassifier(logger, appMetrics)

	results := make([]models.MachineClassification, 0, len(args))
	for _, arg := range args {
		code := models.StatusCode(strings.TrimSpace(arg))
		results = append(results, models.MachineClassification{
			MachineStatus:  models.MachineStatus{Status: code},
			Classification: classifier.Classify(code),
		})
	}

	handler, err := newHandler()
	if err != nil {
		return err
	}
	return handler.DisplayClassifications(cmd.Context(), results)
}

func runAdvise(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if limit == 0 {
		limit = cfg.RecommendationLimit
	}
	filter, err := parseFilter(types, limit, createdAfter, createdBefore, refresh)
	if err != nil {
		return err
	}

	var store storage.Store
	machineIDs := args

	if recordsFile != "" {
		records, err := loadRecords(recordsFile)
		if err != nil {
			return err
		}
		memStore := storage.NewMemoryStore(records...)
		if len(machineIDs) == 0 {
			machineIDs = memStore.MachineIDs()
		}
		store = memStore
		logger.Debug("loaded records from file",
			zap.String("path", recordsFile),
			zap.Int("records", len(records)))
	} else {
		if len(machineIDs) == 0 {
			return fmt.Errorf("at least one machine ID is required when reading from the database")
		}
		pgStore, err := openStore()
		if err != nil {
			return err
		}
		defer pgStore.Close()
		store = pgStore
	}

	scan := scanner.New(scanner.Options{
		Store:       store,
		Advisor:     advisor.New(logger, appMetrics),
		Concurrency: cfg.ScanConcurrency,
		Logger:      logger,
	})

	advisories, err := scan.ScanMachines(ctx, machineIDs, filter)
	if err != nil {
		return err
	}

	if immediateOnly {
		for i := range advisories {
			advisories[i].Recommendations = advisor.RequiringImmediateAttention(advisories[i].Recommendations)
		}
	}

	handler, err := newHandler()
	if err != nil {
		return err
	}
	return handler.DisplayAdvisories(ctx, advisories)
}

func runKubeStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if kubeconfig == "" {
		kubeconfig = cfg.Kubeconfig
	}
	source, err := datasource.NewKubeVirtSourceFromKubeconfig(kubeconfig)
	if err != nil {
		return err
	}

	scan := scanner.New(scanner.Options{
		Statuses:   source,
		Classifier: lifecycle.NewClassifier(logger, appMetrics),
		Logger:     logger,
	})

	results, err := scan.ClassifyNamespace(ctx, namespace)
	if err != nil {
		return err
	}

	handler, err := newHandler()
	if err != nil {
		return err
	}
	return handler.DisplayClassifications(ctx, results)
}

func runRecord(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	records, err := loadRecords(recordsFile)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	imported, skipped, err := importRecords(ctx, store, records)
	if err != nil {
		return err
	}
	logger.Debug("import finished",
		zap.String("path", recordsFile),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped))

	fmt.Printf("Imported %d recommendation(s) from %s\n", imported, recordsFile)
	if skipped > 0 {
		fmt.Printf("Skipped %d recommendation(s) already stored\n", skipped)
	}
	return nil
}
