package storage

import (
	"context"
	"errors"

	"github.com/opscart/vm-advisor/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("recommendation not found")

// ErrAlreadyExists is returned by stores that keep one row per ID when a save
// was skipped because the ID is already stored
var ErrAlreadyExists = errors.New("recommendation already exists")

// Store defines the interface for raw recommendation storage. Derived
// advisories are never stored. List order carries no ranking meaning; when a
// store keeps duplicate IDs they are returned in the order they were saved.
type Store interface {
	SaveRecommendation(ctx context.Context, rec *models.RecommendationRecord) error
	GetRecommendation(ctx context.Context, id string) (*models.RecommendationRecord, error)
	ListRecommendations(ctx context.Context, machineID string, filter models.RecommendationFilter) ([]models.RecommendationRecord, error)

	Ping(ctx context.Context) error
	Close() error
}

// Refresher asks the health scanner to recompute a VM's recommendations.
// Stores call it when a fetch carries the Refresh flag.
type Refresher interface {
	RequestRefresh(ctx context.Context, machineID string) error
}
