package gitops

// StatusDescriptor tells the UI how to render an application's combined sync
// and health state.
type StatusDescriptor struct {
	Icon  string `json:"icon"`
	Color string `json:"color,omitempty"`
}

const (
	IconCheck    = "check"
	IconError    = "error"
	IconPaused   = "paused"
	IconQuestion = "question"
	IconSync     = "sync"
	IconWarning  = "warning"
)

const (
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorOrange = "orange"
	ColorRed    = "red"
	ColorYellow = "yellow"
)

// MapToIcon resolves every (sync, health) combination to exactly one
// descriptor. Health states that dominate the presentation (Missing,
// Suspended) are handled before sync status is considered.
func MapToIcon(sync SyncStatusCode, health HealthStatusCode) StatusDescriptor {
	switch health {
	case HealthStatusMissing:
		return StatusDescriptor{Icon: IconError, Color: ColorRed}
	case HealthStatusSuspended:
		return StatusDescriptor{Icon: IconPaused}
	}

	switch sync {
	case SyncStatusSynced:
		switch health {
		case HealthStatusHealthy, HealthStatusUnknown:
			return StatusDescriptor{Icon: IconCheck, Color: ColorGreen}
		case HealthStatusProgressing:
			return StatusDescriptor{Icon: IconSync, Color: ColorBlue}
		case HealthStatusDegraded:
			return StatusDescriptor{Icon: IconWarning, Color: ColorOrange}
		}

	case SyncStatusOutOfSync:
		if health == HealthStatusHealthy {
			return StatusDescriptor{Icon: IconWarning, Color: ColorYellow}
		}
		return StatusDescriptor{Icon: IconWarning, Color: ColorOrange}

	case SyncStatusUnknown:
		if health == HealthStatusDegraded {
			return StatusDescriptor{Icon: IconError, Color: ColorRed}
		}
		return StatusDescriptor{Icon: IconQuestion}
	}

	return StatusDescriptor{Icon: IconQuestion}
}
