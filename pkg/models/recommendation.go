package models

import (
	"encoding/json"
	"time"
)

// RecommendationType represents the kind of health issue a recommendation reports
type RecommendationType string

const (
	RecommendationDefenderDisabled      RecommendationType = "DEFENDER_DISABLED"
	RecommendationDefenderThreat        RecommendationType = "DEFENDER_THREAT"
	RecommendationPortBlocked           RecommendationType = "PORT_BLOCKED"
	RecommendationOSUpdateAvailable     RecommendationType = "OS_UPDATE_AVAILABLE"
	RecommendationAppUpdateAvailable    RecommendationType = "APP_UPDATE_AVAILABLE"
	RecommendationSystemUpdateAvailable RecommendationType = "SYSTEM_UPDATE_AVAILABLE"
	RecommendationDiskSpaceLow          RecommendationType = "DISK_SPACE_LOW"
	RecommendationDiskIOBottleneck      RecommendationType = "DISK_IO_BOTTLENECK"
	RecommendationHighCPUApp            RecommendationType = "HIGH_CPU_APP"
	RecommendationHighRAMApp            RecommendationType = "HIGH_RAM_APP"
	RecommendationUnderProvisioned      RecommendationType = "UNDER_PROVISIONED"
	RecommendationOverProvisioned       RecommendationType = "OVER_PROVISIONED"
	RecommendationOther                 RecommendationType = "OTHER"
)

// RecommendationRecord is one detected health issue for one VM, as produced by
// the health scanner. Records are read-only once created.
type RecommendationRecord struct {
	ID        string             `json:"id" yaml:"id"`
	Type      RecommendationType `json:"type" yaml:"type"`
	MachineID string             `json:"machineId" yaml:"machineId"`
	CreatedAt time.Time          `json:"createdAt" yaml:"createdAt"`

	// Metadata shape depends on Type
	Metadata json.RawMessage `json:"metadata,omitempty" yaml:"-"`
}

// NormalizedMetadata holds the typed fields extracted from a record's metadata.
// Only the fields relevant to the record's type are set.
type NormalizedMetadata struct {
	RebootDays          *int  `json:"rebootDays,omitempty" yaml:"rebootDays,omitempty"`
	ActiveThreats       *int  `json:"activeThreats,omitempty" yaml:"activeThreats,omitempty"`
	SecurityUpdateCount *int  `json:"securityUpdateCount,omitempty" yaml:"securityUpdateCount,omitempty"`
	UpdateCount         *int  `json:"updateCount,omitempty" yaml:"updateCount,omitempty"`
	Ports               []int `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// UrgencyLevel represents how soon a recommendation needs action
type UrgencyLevel string

const (
	UrgencyImmediate UrgencyLevel = "IMMEDIATE"
	UrgencyUrgent    UrgencyLevel = "URGENT"
	UrgencySoon      UrgencyLevel = "SOON"
	UrgencyNormal    UrgencyLevel = "NORMAL"
)

// UrgencyLevels lists every urgency level, most pressing first
var UrgencyLevels = []UrgencyLevel{UrgencyImmediate, UrgencyUrgent, UrgencySoon, UrgencyNormal}

// Value returns the ranking weight of the level (IMMEDIATE=4 ... NORMAL=1).
func (u UrgencyLevel) Value() int {
	switch u {
	case UrgencyImmediate:
		return 4
	case UrgencyUrgent:
		return 3
	case UrgencySoon:
		return 2
	default:
		return 1
	}
}

// PriorityLevel represents the intrinsic severity of a recommendation type
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "CRITICAL"
	PriorityHigh     PriorityLevel = "HIGH"
	PriorityMedium   PriorityLevel = "MEDIUM"
	PriorityLow      PriorityLevel = "LOW"
)

// Value returns the ranking weight of the level (CRITICAL=4 ... LOW=1).
func (p PriorityLevel) Value() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Category is the display grouping of a recommendation
type Category string

const (
	CategorySecurity    Category = "SECURITY"
	CategoryPerformance Category = "PERFORMANCE"
	CategoryMaintenance Category = "MAINTENANCE"
	CategoryStorage     Category = "STORAGE"
	CategoryUpdates     Category = "UPDATES"
	CategoryGeneral     Category = "GENERAL"
)

// Categories lists every category in display order
var Categories = []Category{
	CategorySecurity,
	CategoryPerformance,
	CategoryMaintenance,
	CategoryStorage,
	CategoryUpdates,
	CategoryGeneral,
}

// AdvisedRecommendation pairs a record with the fields derived for it.
// The record is held by value and never modified.
type AdvisedRecommendation struct {
	Record   RecommendationRecord `json:"record" yaml:"record"`
	Category Category             `json:"category" yaml:"category"`
	Priority PriorityLevel        `json:"priority" yaml:"priority"`
	Urgency  UrgencyLevel         `json:"urgency" yaml:"urgency"`

	// Nil when the record carried no usable metadata
	Metadata *NormalizedMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	RequiresImmediateAttention bool `json:"requiresImmediateAttention" yaml:"requiresImmediateAttention"`
}

// RecommendationFilter narrows a recommendation fetch
type RecommendationFilter struct {
	Types         []RecommendationType
	Limit         int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	// Refresh asks the health scanner to recompute instead of serving a cached snapshot
	Refresh bool
}

// Matches reports whether rec passes the type and time-window constraints.
// Limit is not considered.
func (f RecommendationFilter) Matches(rec RecommendationRecord) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == rec.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.CreatedAfter != nil && !rec.CreatedAt.After(*f.CreatedAfter) {
		return false
	}
	if f.CreatedBefore != nil && !rec.CreatedAt.Before(*f.CreatedBefore) {
		return false
	}
	return true
}
