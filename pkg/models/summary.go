package models

// Summary represents aggregate counts over a ranked advisory list
type Summary struct {
	Total      int                  `json:"total" yaml:"total"`
	ByCategory map[Category]int     `json:"byCategory" yaml:"byCategory"`
	ByUrgency  map[UrgencyLevel]int `json:"byUrgency" yaml:"byUrgency"`

	// Urgency buckets surfaced by dashboard badges
	Urgent          int `json:"urgent" yaml:"urgent"`
	RebootPending   int `json:"rebootPending" yaml:"rebootPending"`
	SecurityUpdates int `json:"securityUpdates" yaml:"securityUpdates"`
	ActiveThreats   int `json:"activeThreats" yaml:"activeThreats"`
	BlockedPorts    int `json:"blockedPorts" yaml:"blockedPorts"`

	HighPriority int `json:"highPriority" yaml:"highPriority"`
	Critical     int `json:"critical" yaml:"critical"`
}

// Advisory is the derived result for a single VM
type Advisory struct {
	MachineID       string                  `json:"machineId" yaml:"machineId"`
	Recommendations []AdvisedRecommendation `json:"recommendations" yaml:"recommendations"`
	Summary         Summary                 `json:"summary" yaml:"summary"`

	// Duplicate records dropped before ranking
	DuplicatesDropped int `json:"duplicatesDropped" yaml:"duplicatesDropped"`
}
