package apiserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kubepilot/kubepilot/pkg/cache"
	"github.com/kubepilot/kubepilot/pkg/cli"
	"github.com/kubepilot/kubepilot/pkg/gitops"
	"github.com/kubepilot/kubepilot/pkg/handlers"
	"github.com/kubepilot/kubepilot/pkg/logger"
	"github.com/kubepilot/kubepilot/pkg/refresher"
)

type APIServerParams struct {
	Version          string
	BindAddr         string
	CLIBinary        string
	ErrorPatternFile string

	// RefreshContexts lists cluster contexts the background refresher keeps
	// warm. Empty disables the refresher.
	RefreshContexts []string
	RefreshSchedule string
}

// Start composes the services and serves the API. The composition root owns
// every service instance; nothing here is package-level state.
func Start(params *APIServerParams) error {
	logger.Infof("kubepilot api version %s", params.Version)

	classifierConfig := cli.DefaultClassifierConfig()
	if params.ErrorPatternFile != "" {
		loaded, err := cli.LoadClassifierConfig(params.ErrorPatternFile)
		if err != nil {
			return err
		}
		classifierConfig = loaded
	}

	runner := cli.NewExecRunner(params.CLIBinary, cli.NewClassifier(classifierConfig))

	c := cache.NewCache()
	detection := gitops.NewDetectionService(runner, c)
	query := gitops.NewResourceQueryService(runner, c, detection)
	tracker := gitops.NewOperationTracker(query)
	syncer := gitops.NewSyncer(runner, c, tracker)

	if len(params.RefreshContexts) > 0 {
		r := refresher.NewRefresher(query, params.RefreshContexts)
		if err := r.Start(params.RefreshSchedule); err != nil {
			return err
		}
		defer r.Stop()
	}

	handler := handlers.NewHandler(detection, query, syncer)

	r := mux.NewRouter()
	handlers.RegisterRoutes(r, handler)

	r.Path("/healthz").Methods("GET").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	})

	srv := &http.Server{
		Handler:      r,
		Addr:         params.BindAddr,
		WriteTimeout: 600 * time.Second,
		ReadTimeout:  600 * time.Second,
	}

	logger.Infof("listening on %s", params.BindAddr)

	return srv.ListenAndServe()
}
