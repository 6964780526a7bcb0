package gitops

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allSyncStatuses = []SyncStatusCode{SyncStatusSynced, SyncStatusOutOfSync, SyncStatusUnknown}

var allHealthStatuses = []HealthStatusCode{
	HealthStatusHealthy,
	HealthStatusDegraded,
	HealthStatusProgressing,
	HealthStatusSuspended,
	HealthStatusMissing,
	HealthStatusUnknown,
}

func TestMapToIcon(t *testing.T) {
	tests := []struct {
		sync   SyncStatusCode
		health HealthStatusCode
		want   StatusDescriptor
	}{
		// missing always wins
		{SyncStatusSynced, HealthStatusMissing, StatusDescriptor{Icon: IconError, Color: ColorRed}},
		{SyncStatusOutOfSync, HealthStatusMissing, StatusDescriptor{Icon: IconError, Color: ColorRed}},
		{SyncStatusUnknown, HealthStatusMissing, StatusDescriptor{Icon: IconError, Color: ColorRed}},

		// suspended always wins, with no color
		{SyncStatusSynced, HealthStatusSuspended, StatusDescriptor{Icon: IconPaused}},
		{SyncStatusOutOfSync, HealthStatusSuspended, StatusDescriptor{Icon: IconPaused}},
		{SyncStatusUnknown, HealthStatusSuspended, StatusDescriptor{Icon: IconPaused}},

		// unknown sync
		{SyncStatusUnknown, HealthStatusUnknown, StatusDescriptor{Icon: IconQuestion}},
		{SyncStatusUnknown, HealthStatusHealthy, StatusDescriptor{Icon: IconQuestion}},
		{SyncStatusUnknown, HealthStatusProgressing, StatusDescriptor{Icon: IconQuestion}},
		{SyncStatusUnknown, HealthStatusDegraded, StatusDescriptor{Icon: IconError, Color: ColorRed}},

		// synced
		{SyncStatusSynced, HealthStatusHealthy, StatusDescriptor{Icon: IconCheck, Color: ColorGreen}},
		{SyncStatusSynced, HealthStatusUnknown, StatusDescriptor{Icon: IconCheck, Color: ColorGreen}},
		{SyncStatusSynced, HealthStatusProgressing, StatusDescriptor{Icon: IconSync, Color: ColorBlue}},
		{SyncStatusSynced, HealthStatusDegraded, StatusDescriptor{Icon: IconWarning, Color: ColorOrange}},

		// out of sync distinguishes severity by health
		{SyncStatusOutOfSync, HealthStatusHealthy, StatusDescriptor{Icon: IconWarning, Color: ColorYellow}},
		{SyncStatusOutOfSync, HealthStatusDegraded, StatusDescriptor{Icon: IconWarning, Color: ColorOrange}},
		{SyncStatusOutOfSync, HealthStatusProgressing, StatusDescriptor{Icon: IconWarning, Color: ColorOrange}},
		{SyncStatusOutOfSync, HealthStatusUnknown, StatusDescriptor{Icon: IconWarning, Color: ColorOrange}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.sync, tt.health), func(t *testing.T) {
			assert.Equal(t, tt.want, MapToIcon(tt.sync, tt.health))
		})
	}
}

func TestMapToIcon_Total(t *testing.T) {
	for _, sync := range allSyncStatuses {
		for _, health := range allHealthStatuses {
			descriptor := MapToIcon(sync, health)
			assert.NotEmpty(t, descriptor.Icon, "no descriptor for (%s, %s)", sync, health)
		}
	}
}

func TestMapToIcon_UnrecognizedInputs(t *testing.T) {
	descriptor := MapToIcon(SyncStatusCode("Bogus"), HealthStatusCode("Bogus"))
	assert.Equal(t, StatusDescriptor{Icon: IconQuestion}, descriptor)
}
