package handlers

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, handler *Handler) {
	r.Use(LoggingMiddleware)

	r.Name("GetGitOpsStatus").Path("/api/v1/gitops/{context}/status").Methods("GET").
		HandlerFunc(handler.GetGitOpsStatus)
	r.Name("ListApplications").Path("/api/v1/gitops/{context}/apps").Methods("GET").
		HandlerFunc(handler.ListApplications)
	r.Name("GetApplication").Path("/api/v1/gitops/{context}/apps/{namespace}/{name}").Methods("GET").
		HandlerFunc(handler.GetApplication)
	r.Name("SyncApplication").Path("/api/v1/gitops/{context}/apps/{namespace}/{name}/sync").Methods("POST").
		HandlerFunc(handler.SyncApplication)
	r.Name("RefreshApplication").Path("/api/v1/gitops/{context}/apps/{namespace}/{name}/refresh").Methods("POST").
		HandlerFunc(handler.RefreshApplication)
}
