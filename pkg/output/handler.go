package output

import (
	"context"
	"fmt"
	"io"

	"github.com/opscart/vm-advisor/pkg/models"
)

// Handler defines the interface for output formatting
type Handler interface {
	DisplayAdvisories(ctx context.Context, advisories []models.Advisory) error
	DisplayClassifications(ctx context.Context, classifications []models.MachineClassification) error
	Format() string
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "yaml", "csv"}

// NewHandler returns the handler for format, writing to w
func NewHandler(format string, w io.Writer) (Handler, error) {
	switch format {
	case "", "text":
		return &TextHandler{w: w}, nil
	case "json":
		return &JSONHandler{w: w}, nil
	case "yaml":
		return &YAMLHandler{w: w}, nil
	case "csv":
		return &CSVHandler{w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
