package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/opscart/vm-advisor/pkg/models"
)

// TextHandler prints human-readable reports
type TextHandler struct {
	w io.Writer
}

func (h *TextHandler) Format() string { return "text" }

func (h *TextHandler) DisplayAdvisories(ctx context.Context, advisories []models.Advisory) error {
	for i, advisory := range advisories {
		if i > 0 {
			fmt.Fprintln(h.w)
		}
		if err := h.displayAdvisory(advisory); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) displayAdvisory(advisory models.Advisory) error {
	s := advisory.Summary
	fmt.Fprintf(h.w, "Machine: %s\n", advisory.MachineID)
	fmt.Fprintf(h.w, "Recommendations: %d (urgent: %d, critical: %d, high priority: %d)\n",
		s.Total, s.Urgent, s.Critical, s.HighPriority)
	if advisory.DuplicatesDropped > 0 {
		fmt.Fprintf(h.w, "Duplicates dropped: %d\n", advisory.DuplicatesDropped)
	}

	if len(advisory.Recommendations) == 0 {
		fmt.Fprintln(h.w, "No recommendations found")
		return nil
	}

	fmt.Fprintln(h.w)
	for i, rec := range advisory.Recommendations {
		marker := ""
		if rec.RequiresImmediateAttention {
			marker = " [!]"
		}
		fmt.Fprintf(h.w, "%d. %s%s (ID: %s)\n", i+1, rec.Record.Type, marker, rec.Record.ID)
		fmt.Fprintf(h.w, "   Category: %s  Priority: %s  Urgency: %s\n", rec.Category, rec.Priority, rec.Urgency)
		if details := metadataDetails(rec.Metadata); details != "" {
			fmt.Fprintf(h.w, "   Details: %s\n", details)
		}
		fmt.Fprintf(h.w, "   Created: %s\n", rec.Record.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintln(h.w)
	fmt.Fprintln(h.w, "By category:")
	for _, c := range models.Categories {
		if n := s.ByCategory[c]; n > 0 {
			fmt.Fprintf(h.w, "   %-12s %d\n", c, n)
		}
	}
	fmt.Fprintf(h.w, "Reboot pending: %d  Security updates: %d  Active threats: %d  Blocked ports: %d\n",
		s.RebootPending, s.SecurityUpdates, s.ActiveThreats, s.BlockedPorts)
	return nil
}

func (h *TextHandler) DisplayClassifications(ctx context.Context, classifications []models.MachineClassification) error {
	if len(classifications) == 0 {
		fmt.Fprintln(h.w, "No virtual machines found")
		return nil
	}

	for _, c := range classifications {
		name := c.Name
		if c.Namespace != "" {
			name = c.Namespace + "/" + c.Name
		}
		status := string(c.Status)
		if !c.Classification.Recognized {
			status += " (unrecognized)"
		}
		if name == "" {
			fmt.Fprintf(h.w, "%-28s %-13s %s\n",
				status, c.Classification.Category, joinActions(c.Classification.Actions))
			continue
		}
		fmt.Fprintf(h.w, "%-40s %-28s %-13s %s\n",
			name, status, c.Classification.Category, joinActions(c.Classification.Actions))
	}
	return nil
}

func metadataDetails(meta *models.NormalizedMetadata) string {
	if meta == nil {
		return ""
	}
	var parts []string
	if meta.RebootDays != nil {
		parts = append(parts, fmt.Sprintf("reboot pending %d day(s)", *meta.RebootDays))
	}
	if meta.ActiveThreats != nil {
		parts = append(parts, fmt.Sprintf("%d active threat(s)", *meta.ActiveThreats))
	}
	if meta.SecurityUpdateCount != nil {
		parts = append(parts, fmt.Sprintf("%d security update(s)", *meta.SecurityUpdateCount))
	}
	if meta.UpdateCount != nil {
		parts = append(parts, fmt.Sprintf("%d update(s)", *meta.UpdateCount))
	}
	if len(meta.Ports) > 0 {
		ports := make([]string, len(meta.Ports))
		for i, p := range meta.Ports {
			ports[i] = fmt.Sprintf("%d", p)
		}
		parts = append(parts, "ports "+strings.Join(ports, ","))
	}
	return strings.Join(parts, ", ")
}

func joinActions(actions []models.Action) string {
	if len(actions) == 0 {
		return "-"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ",")
}
