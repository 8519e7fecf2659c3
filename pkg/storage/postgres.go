package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/opscart/vm-advisor/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store interface using PostgreSQL
type PostgresStore struct {
	db        *sql.DB
	logger    *zap.Logger
	refresher Refresher
}

// NewPostgresStore creates a new PostgreSQL store and applies the schema
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db, logger: logger}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// SetRefresher installs the hook called for fetches carrying the Refresh flag
func (s *PostgresStore) SetRefresher(r Refresher) {
	s.refresher = r
}

// migrate runs database migrations
func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveRecommendation saves a raw recommendation record, assigning an ID and
// creation time when they are empty. A record whose ID is already stored is
// skipped and ErrAlreadyExists is returned.
func (s *PostgresStore) SaveRecommendation(ctx context.Context, rec *models.RecommendationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO vm_recommendations (id, machine_id, type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.MachineID, string(rec.Type), jsonbArg(rec.Metadata), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendation %s: %w", rec.ID, err)
	}
	return checkInserted(result, rec.ID)
}

// checkInserted maps a zero-row insert to ErrAlreadyExists
func checkInserted(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, id)
	}
	return nil
}

// GetRecommendation retrieves a recommendation by ID
func (s *PostgresStore) GetRecommendation(ctx context.Context, id string) (*models.RecommendationRecord, error) {
	query := `
		SELECT id, machine_id, type, metadata, created_at
		FROM vm_recommendations
		WHERE id = $1
	`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecommendations retrieves a VM's recommendations, newest first
func (s *PostgresStore) ListRecommendations(ctx context.Context, machineID string, filter models.RecommendationFilter) ([]models.RecommendationRecord, error) {
	if filter.Refresh {
		if s.refresher != nil {
			if err := s.refresher.RequestRefresh(ctx, machineID); err != nil {
				return nil, fmt.Errorf("failed to refresh recommendations for %s: %w", machineID, err)
			}
		} else {
			s.logger.Debug("refresh requested but no refresher configured", zap.String("machine_id", machineID))
		}
	}

	query, args := buildListQuery(machineID, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	records := []models.RecommendationRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// buildListQuery renders the filtered list query and its positional arguments
func buildListQuery(machineID string, filter models.RecommendationFilter) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT id, machine_id, type, metadata, created_at FROM vm_recommendations WHERE machine_id = $1")
	args := []interface{}{machineID}

	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		args = append(args, pq.Array(types))
		fmt.Fprintf(&b, " AND type = ANY($%d)", len(args))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		fmt.Fprintf(&b, " AND created_at > $%d", len(args))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		fmt.Fprintf(&b, " AND created_at < $%d", len(args))
	}

	b.WriteString(" ORDER BY created_at DESC, id ASC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	return b.String(), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (models.RecommendationRecord, error) {
	var rec models.RecommendationRecord
	var recType string
	var metadata []byte

	if err := row.Scan(&rec.ID, &rec.MachineID, &recType, &metadata, &rec.CreatedAt); err != nil {
		return rec, err
	}

	rec.Type = models.RecommendationType(recType)
	if len(metadata) > 0 {
		rec.Metadata = append([]byte(nil), metadata...)
	}
	return rec, nil
}

// jsonbArg passes metadata as text so the driver does not encode it as bytea
func jsonbArg(metadata []byte) interface{} {
	if len(metadata) == 0 {
		return nil
	}
	return string(metadata)
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
