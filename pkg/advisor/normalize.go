package advisor

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/opscart/vm-advisor/pkg/models"
)

// metadataExtractor turns the decoded metadata object of one record type into
// typed fields. It returns nil when a required field is missing or malformed.
type metadataExtractor func(fields map[string]json.RawMessage) *models.NormalizedMetadata

var extractors = map[models.RecommendationType]metadataExtractor{
	models.RecommendationOSUpdateAvailable:     extractRebootMetadata,
	models.RecommendationSystemUpdateAvailable: extractRebootMetadata,
	models.RecommendationDefenderThreat:        extractThreatMetadata,
	models.RecommendationAppUpdateAvailable:    extractAppUpdateMetadata,
	models.RecommendationPortBlocked:           extractPortMetadata,
}

// Normalize extracts the typed metadata of rec. It returns nil for types with
// no declared metadata shape and for missing or malformed metadata.
func Normalize(rec models.RecommendationRecord) *models.NormalizedMetadata {
	extract, exists := extractors[rec.Type]
	if !exists {
		return nil
	}

	raw := bytes.TrimSpace(rec.Metadata)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	return extract(fields)
}

func extractRebootMetadata(fields map[string]json.RawMessage) *models.NormalizedMetadata {
	rebootDays, ok := requiredInt(fields, "rebootDays")
	if !ok {
		return nil
	}
	updateCount, ok := optionalInt(fields, "updateCount")
	if !ok {
		return nil
	}
	return &models.NormalizedMetadata{RebootDays: rebootDays, UpdateCount: updateCount}
}

func extractThreatMetadata(fields map[string]json.RawMessage) *models.NormalizedMetadata {
	threats, ok := requiredInt(fields, "activeThreats")
	if !ok {
		return nil
	}
	return &models.NormalizedMetadata{ActiveThreats: threats}
}

func extractAppUpdateMetadata(fields map[string]json.RawMessage) *models.NormalizedMetadata {
	security, ok := requiredInt(fields, "securityUpdateCount")
	if !ok {
		return nil
	}
	updateCount, ok := optionalInt(fields, "updateCount")
	if !ok {
		return nil
	}
	return &models.NormalizedMetadata{SecurityUpdateCount: security, UpdateCount: updateCount}
}

func extractPortMetadata(fields map[string]json.RawMessage) *models.NormalizedMetadata {
	raw, exists := fields["ports"]
	if !exists {
		return nil
	}

	var values []float64
	if err := json.Unmarshal(raw, &values); err != nil || values == nil {
		return nil
	}

	ports := make([]int, 0, len(values))
	for _, v := range values {
		port, ok := toCount(v)
		if !ok || port > 65535 {
			return nil
		}
		ports = append(ports, port)
	}
	return &models.NormalizedMetadata{Ports: ports}
}

func requiredInt(fields map[string]json.RawMessage, key string) (*int, bool) {
	value, ok := optionalInt(fields, key)
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// optionalInt returns (nil, true) when key is absent or null
func optionalInt(fields map[string]json.RawMessage, key string) (*int, bool) {
	raw, exists := fields[key]
	if !exists || string(bytes.TrimSpace(raw)) == "null" {
		return nil, true
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	n, ok := toCount(v)
	if !ok {
		return nil, false
	}
	return &n, true
}

// toCount accepts non-negative integral values that fit in an int32
func toCount(v float64) (int, bool) {
	if v < 0 || v > math.MaxInt32 || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}
