package gitops

import "time"

type SyncStatusCode string

const (
	SyncStatusSynced    SyncStatusCode = "Synced"
	SyncStatusOutOfSync SyncStatusCode = "OutOfSync"
	SyncStatusUnknown   SyncStatusCode = "Unknown"
)

type HealthStatusCode string

const (
	HealthStatusHealthy     HealthStatusCode = "Healthy"
	HealthStatusDegraded    HealthStatusCode = "Degraded"
	HealthStatusProgressing HealthStatusCode = "Progressing"
	HealthStatusSuspended   HealthStatusCode = "Suspended"
	HealthStatusMissing     HealthStatusCode = "Missing"
	HealthStatusUnknown     HealthStatusCode = "Unknown"
)

type OperationPhase string

const (
	OperationPhaseRunning     OperationPhase = "Running"
	OperationPhaseTerminating OperationPhase = "Terminating"
	OperationPhaseSucceeded   OperationPhase = "Succeeded"
	OperationPhaseFailed      OperationPhase = "Failed"
	OperationPhaseError       OperationPhase = "Error"
)

// IsTerminal reports whether no further phase transition will occur. Pollers
// must stop once a terminal phase is observed.
func (p OperationPhase) IsTerminal() bool {
	switch p {
	case OperationPhaseSucceeded, OperationPhaseFailed, OperationPhaseError:
		return true
	}
	return false
}

type DetectionMethod string

const (
	// DetectionMethodOperator means the in-cluster operator's status object
	// reported the result.
	DetectionMethodOperator DetectionMethod = "operator"
	// DetectionMethodCRD means the result came from querying for the Argo CD
	// application CRD directly.
	DetectionMethodCRD DetectionMethod = "crd"
)

type InstallationStatus struct {
	Installed       bool            `json:"installed"`
	Namespace       string          `json:"namespace,omitempty"`
	Version         string          `json:"version,omitempty"`
	DetectionMethod DetectionMethod `json:"detectionMethod"`
	LastChecked     time.Time       `json:"lastChecked"`
}

type SourceRef struct {
	RepoURL        string `json:"repoURL"`
	Path           string `json:"path,omitempty"`
	TargetRevision string `json:"targetRevision,omitempty"`
}

type SyncStatus struct {
	Status   SyncStatusCode `json:"status"`
	Revision string         `json:"revision,omitempty"`
	Target   SourceRef      `json:"target,omitempty"`
}

type HealthStatus struct {
	Status  HealthStatusCode `json:"status"`
	Message string           `json:"message,omitempty"`
}

// ResourceStatus is the observed state of one child resource of an
// application. It is recomputed on every fetch and never patched in place.
type ResourceStatus struct {
	Kind         string           `json:"kind"`
	Name         string           `json:"name"`
	Namespace    string           `json:"namespace,omitempty"`
	SyncStatus   string           `json:"syncStatus,omitempty"`
	HealthStatus HealthStatusCode `json:"healthStatus,omitempty"`
	Message      string           `json:"message,omitempty"`
}

type OperationState struct {
	Phase      OperationPhase `json:"phase"`
	Message    string         `json:"message,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt *time.Time     `json:"finishedAt,omitempty"`
}

// Application is the observed state of one Argo CD managed application.
// Instances carry no identity across fetches; (Name, Namespace) is the
// equality key for list diffing.
type Application struct {
	Name          string           `json:"name"`
	Namespace     string           `json:"namespace"`
	Project       string           `json:"project,omitempty"`
	SyncStatus    SyncStatus       `json:"syncStatus"`
	HealthStatus  HealthStatus     `json:"healthStatus"`
	Resources     []ResourceStatus `json:"resources,omitempty"`
	LastOperation *OperationState  `json:"lastOperation,omitempty"`
}

type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
