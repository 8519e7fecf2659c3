package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/opscart/vm-advisor/pkg/models"
)

// JSONHandler writes indented JSON
type JSONHandler struct {
	w io.Writer
}

func (h *JSONHandler) Format() string { return "json" }

func (h *JSONHandler) DisplayAdvisories(ctx context.Context, advisories []models.Advisory) error {
	return h.encode(advisories)
}

func (h *JSONHandler) DisplayClassifications(ctx context.Context, classifications []models.MachineClassification) error {
	return h.encode(classifications)
}

func (h *JSONHandler) encode(v interface{}) error {
	enc := json.NewEncoder(h.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// YAMLHandler writes YAML documents
type YAMLHandler struct {
	w io.Writer
}

func (h *YAMLHandler) Format() string { return "yaml" }

func (h *YAMLHandler) DisplayAdvisories(ctx context.Context, advisories []models.Advisory) error {
	return h.encode(advisories)
}

func (h *YAMLHandler) DisplayClassifications(ctx context.Context, classifications []models.MachineClassification) error {
	return h.encode(classifications)
}

func (h *YAMLHandler) encode(v interface{}) error {
	enc := yaml.NewEncoder(h.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
