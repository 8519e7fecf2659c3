package datasource

import (
	"context"

	"github.com/opscart/vm-advisor/pkg/models"
)

// StatusSource defines the interface for reading raw VM lifecycle status
type StatusSource interface {
	GetStatus(ctx context.Context, namespace, name string) (models.StatusCode, error)
	ListStatuses(ctx context.Context, namespace string) ([]models.MachineStatus, error)
	Name() string
}
