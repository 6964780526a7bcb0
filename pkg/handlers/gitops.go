package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/kubepilot/kubepilot/pkg/gitops"
)

type GetGitOpsStatusResponse struct {
	Installation *gitops.InstallationStatus `json:"installation"`
}

func (h *Handler) GetGitOpsStatus(w http.ResponseWriter, r *http.Request) {
	contextID := mux.Vars(r)["context"]
	bypassCache := r.URL.Query().Get("refresh") == "true"

	installation, err := h.Detection.IsInstalled(r.Context(), contextID, bypassCache)
	if err != nil {
		Error(w, errors.Wrap(err, "failed to detect gitops installation"))
		return
	}

	JSON(w, http.StatusOK, GetGitOpsStatusResponse{
		Installation: installation,
	})
}

type ApplicationResponse struct {
	gitops.Application
	Display gitops.StatusDescriptor `json:"display"`
}

type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	contextID := mux.Vars(r)["context"]
	bypassCache := r.URL.Query().Get("refresh") == "true"

	apps, err := h.Query.ListApplications(r.Context(), contextID, bypassCache)
	if err != nil {
		Error(w, errors.Wrap(err, "failed to list applications"))
		return
	}

	response := ListApplicationsResponse{
		Applications: []ApplicationResponse{},
	}
	for _, app := range apps {
		response.Applications = append(response.Applications, ApplicationResponse{
			Application: app,
			Display:     gitops.MapToIcon(app.SyncStatus.Status, app.HealthStatus.Status),
		})
	}

	JSON(w, http.StatusOK, response)
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	app, err := h.Query.GetApplication(r.Context(), vars["name"], vars["namespace"], vars["context"])
	if err != nil {
		Error(w, errors.Wrapf(err, "failed to get application %s", vars["name"]))
		return
	}

	JSON(w, http.StatusOK, ApplicationResponse{
		Application: *app,
		Display:     gitops.MapToIcon(app.SyncStatus.Status, app.HealthStatus.Status),
	})
}

type TriggerOperationRequest struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

type TriggerOperationResponse struct {
	Result *gitops.OperationResult `json:"result"`
}

func (h *Handler) SyncApplication(w http.ResponseWriter, r *http.Request) {
	h.triggerOperation(w, r, h.Syncer.SyncApplication)
}

func (h *Handler) RefreshApplication(w http.ResponseWriter, r *http.Request) {
	h.triggerOperation(w, r, h.Syncer.HardRefreshApplication)
}

func (h *Handler) triggerOperation(w http.ResponseWriter, r *http.Request, trigger func(ctx context.Context, name string, namespace string, contextID string, timeout time.Duration) (*gitops.OperationResult, error)) {
	vars := mux.Vars(r)

	request := TriggerOperationRequest{}
	if r.Body != nil {
		// an empty body means default timeout
		_ = json.NewDecoder(r.Body).Decode(&request)
	}

	result, err := trigger(r.Context(), vars["name"], vars["namespace"], vars["context"], time.Duration(request.TimeoutSeconds)*time.Second)
	if err != nil {
		Error(w, errors.Wrapf(err, "failed to run operation on application %s", vars["name"]))
		return
	}

	JSON(w, http.StatusOK, TriggerOperationResponse{
		Result: result,
	})
}
