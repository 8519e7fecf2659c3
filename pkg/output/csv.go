package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/opscart/vm-advisor/pkg/models"
)

// CSVHandler writes one row per recommendation or classification
type CSVHandler struct {
	w io.Writer
}

func (h *CSVHandler) Format() string { return "csv" }

func (h *CSVHandler) DisplayAdvisories(ctx context.Context, advisories []models.Advisory) error {
	w := csv.NewWriter(h.w)

	header := []string{
		"Machine",
		"ID",
		"Type",
		"Category",
		"Priority",
		"Urgency",
		"Immediate",
		"Details",
		"Created",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, advisory := range advisories {
		for _, rec := range advisory.Recommendations {
			row := []string{
				advisory.MachineID,
				rec.Record.ID,
				string(rec.Record.Type),
				string(rec.Category),
				string(rec.Priority),
				string(rec.Urgency),
				fmt.Sprintf("%t", rec.RequiresImmediateAttention),
				metadataDetails(rec.Metadata),
				rec.Record.CreatedAt.Format(time.RFC3339),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}

func (h *CSVHandler) DisplayClassifications(ctx context.Context, classifications []models.MachineClassification) error {
	w := csv.NewWriter(h.w)

	if err := w.Write([]string{"Namespace", "Name", "Status", "Category", "Recognized", "Actions"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range classifications {
		row := []string{
			c.Namespace,
			c.Name,
			string(c.Status),
			string(c.Classification.Category),
			fmt.Sprintf("%t", c.Classification.Recognized),
			joinActions(c.Classification.Actions),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
