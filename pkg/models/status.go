package models

// StatusCode is the raw lifecycle state reported by the hypervisor or orchestrator.
// Any string is a valid StatusCode; the constants below are the recognized ones.
type StatusCode string

const (
	StatusRunning           StatusCode = "running"
	StatusPaused            StatusCode = "paused"
	StatusShutdown          StatusCode = "shutdown"
	StatusSuspended         StatusCode = "suspended"
	StatusInMigrate         StatusCode = "inmigrate"
	StatusPostMigrate       StatusCode = "postmigrate"
	StatusPrelaunch         StatusCode = "prelaunch"
	StatusFinishMigrate     StatusCode = "finish-migrate"
	StatusRestoreVM         StatusCode = "restore-vm"
	StatusWatchdog          StatusCode = "watchdog"
	StatusGuestPanicked     StatusCode = "guest-panicked"
	StatusIOError           StatusCode = "io-error"
	StatusColo              StatusCode = "colo"
	StatusStarting          StatusCode = "starting"
	StatusBuilding          StatusCode = "building"
	StatusUpdatingHardware  StatusCode = "updating_hardware"
	StatusPoweringOffUpdate StatusCode = "powering_off_update"
	StatusError             StatusCode = "error"
	StatusOff               StatusCode = "off"
	StatusStopped           StatusCode = "stopped"
)

// StatusCategory is the coarse lifecycle bucket of a VM
type StatusCategory string

const (
	StatusCategoryActive       StatusCategory = "ACTIVE"
	StatusCategoryOff          StatusCategory = "OFF"
	StatusCategorySuspended    StatusCategory = "SUSPENDED"
	StatusCategoryTransitional StatusCategory = "TRANSITIONAL"
	StatusCategoryError        StatusCategory = "ERROR"
)

// Action is a lifecycle operation a client may offer for a VM
type Action string

const (
	ActionStart   Action = "START"
	ActionConnect Action = "CONNECT"
	ActionPause   Action = "PAUSE"
	ActionResume  Action = "RESUME"
	ActionStop    Action = "STOP"
	ActionReset   Action = "RESET"
	ActionDelete  Action = "DELETE"
)

// MachineStatus is the raw status of a single VM as read from the orchestrator
type MachineStatus struct {
	Namespace string     `json:"namespace" yaml:"namespace"`
	Name      string     `json:"name" yaml:"name"`
	Status    StatusCode `json:"status" yaml:"status"`
}

// Classification is the lifecycle category and permitted actions for a status code
type Classification struct {
	Code       StatusCode     `json:"code" yaml:"code"`
	Category   StatusCategory `json:"category" yaml:"category"`
	Actions    []Action       `json:"actions" yaml:"actions"`
	Recognized bool           `json:"recognized" yaml:"recognized"`
}

// MachineClassification pairs a VM's raw status with its classification
type MachineClassification struct {
	MachineStatus  `yaml:",inline"`
	Classification Classification `json:"classification" yaml:"classification"`
}
