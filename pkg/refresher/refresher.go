package refresher

import (
	"context"
	"time"

	"github.com/pkg/errors"
	cron "github.com/robfig/cron/v3"
	"github.com/kubepilot/kubepilot/pkg/gitops"
	"github.com/kubepilot/kubepilot/pkg/logger"
	"github.com/kubepilot/kubepilot/pkg/util"
)

const defaultSchedule = "@every 1m"

type applicationLister interface {
	ListApplications(ctx context.Context, contextID string, bypassCache bool) ([]gitops.Application, error)
}

// Refresher re-lists applications for the configured contexts on a schedule
// so the cache stays warm for an idle UI. Failures only cost freshness, so
// they are logged with backoff and never stop the schedule.
type Refresher struct {
	lister   applicationLister
	contexts []string
	job      *cron.Cron
	backoff  *util.ErrorBackoff
}

func NewRefresher(lister applicationLister, contexts []string) *Refresher {
	return &Refresher{
		lister:   lister,
		contexts: contexts,
		backoff: &util.ErrorBackoff{
			MinPeriod: 10 * time.Second,
			MaxPeriod: 10 * time.Minute,
		},
	}
}

func (r *Refresher) Start(schedule string) error {
	if r.job != nil {
		return errors.New("refresher already started")
	}
	if schedule == "" {
		schedule = defaultSchedule
	}

	job := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
	))

	if _, err := job.AddFunc(schedule, r.refreshAll); err != nil {
		return errors.Wrap(err, "failed to add refresh job")
	}

	job.Start()
	r.job = job

	logger.Infof("application refresher started with schedule %q for %d contexts", schedule, len(r.contexts))

	return nil
}

func (r *Refresher) Stop() {
	if r.job == nil {
		return
	}
	r.job.Stop()
	r.job = nil
}

func (r *Refresher) refreshAll() {
	for _, contextID := range r.contexts {
		apps, err := r.lister.ListApplications(context.Background(), contextID, true)
		if err != nil {
			err := errors.Wrapf(err, "failed to refresh applications for context %s", contextID)
			r.backoff.OnError(err, func() {
				logger.Error(err)
			})
			continue
		}
		logger.Debugf("refreshed %d applications for context %s", len(apps), contextID)
	}
}
