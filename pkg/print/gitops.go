package print

import (
	"encoding/json"
	"fmt"

	"github.com/kubepilot/kubepilot/pkg/gitops"
)

func InstallationStatus(status *gitops.InstallationStatus, format string) {
	switch format {
	case "json":
		str, _ := json.MarshalIndent(status, "", "    ")
		fmt.Println(string(str))
	default:
		printInstallationStatusTable(status)
	}
}

func printInstallationStatusTable(status *gitops.InstallationStatus) {
	w := NewTabWriter()
	defer w.Flush()

	fmtColumns := "%s\t%s\t%s\t%s\n"
	fmt.Fprintf(w, fmtColumns, "INSTALLED", "NAMESPACE", "VERSION", "DETECTED VIA")
	fmt.Fprintf(w, fmtColumns, fmt.Sprintf("%t", status.Installed), valueOrDash(status.Namespace), valueOrDash(status.Version), string(status.DetectionMethod))
}

func Applications(apps []gitops.Application, format string) {
	switch format {
	case "json":
		str, _ := json.MarshalIndent(apps, "", "    ")
		fmt.Println(string(str))
	default:
		printApplicationsTable(apps)
	}
}

func printApplicationsTable(apps []gitops.Application) {
	w := NewTabWriter()
	defer w.Flush()

	fmtColumns := "%s\t%s\t%s\t%s\t%s\t%s\n"
	fmt.Fprintf(w, fmtColumns, "NAME", "NAMESPACE", "PROJECT", "SYNC", "HEALTH", "STATE")
	for _, app := range apps {
		descriptor := gitops.MapToIcon(app.SyncStatus.Status, app.HealthStatus.Status)
		state := descriptor.Icon
		if descriptor.Color != "" {
			state = fmt.Sprintf("%s (%s)", descriptor.Icon, descriptor.Color)
		}
		fmt.Fprintf(w, fmtColumns, app.Name, app.Namespace, valueOrDash(app.Project), string(app.SyncStatus.Status), string(app.HealthStatus.Status), state)
	}
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
