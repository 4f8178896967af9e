package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultRefreshSchedule re-fetches a chart every thirty seconds.
const DefaultRefreshSchedule = "@every 30s"

const chartErrorMessage = "Failed to load chart data"

// Refresher keeps one chart current on a cron schedule.
type Refresher struct {
	cron     *cron.Cron
	service  *ChartService
	in, out  string
	tf       Timeframe
	schedule string
	timeout  time.Duration
	onUpdate func(ChartData)
	logger   *zap.Logger

	mu     sync.Mutex
	latest *ChartData
	errMsg string
}

func NewRefresher(service *ChartService, in, out string, tf Timeframe, schedule string, onUpdate func(ChartData), logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &Refresher{
		cron:     cron.New(),
		service:  service,
		in:       in,
		out:      out,
		tf:       tf,
		schedule: schedule,
		timeout:  10 * time.Second,
		onUpdate: onUpdate,
		logger:   logger,
	}
}

// Start registers the refresh job and starts the scheduler.
func (r *Refresher) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.RunNow(ctx)
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("chart refresher started",
		zap.String("pair", r.in+"/"+r.out),
		zap.String("schedule", r.schedule),
	)
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("chart refresher stopped")
}

// RunNow fetches the chart immediately. On failure the previous chart is
// kept and Error reports the failure.
func (r *Refresher) RunNow(ctx context.Context) {
	data, err := r.service.Fetch(ctx, r.in, r.out, r.tf)
	if err != nil {
		r.logger.Warn("refresh chart", zap.Error(err))
		r.mu.Lock()
		r.errMsg = chartErrorMessage
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	r.latest = &data
	r.errMsg = ""
	r.mu.Unlock()

	if r.onUpdate != nil {
		r.onUpdate(data)
	}
}

// Latest returns the most recent chart, if any.
func (r *Refresher) Latest() (ChartData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return ChartData{}, false
	}
	return *r.latest, true
}

// Error returns the message of the last failed refresh.
func (r *Refresher) Error() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}
