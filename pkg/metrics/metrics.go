package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const job = "vercel_deployment"

const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Recorder collects per step durations of a single run, to be pushed to a Pushgateway
type Recorder struct {
	registry *prometheus.Registry
	duration *prometheus.GaugeVec
	status   *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vercel_deployment_step_duration_seconds",
			Help: "Duration of the deployment pipeline steps",
		}, []string{"step"}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vercel_deployment_step_status",
			Help: "Set to 1 for the outcome of each deployment pipeline step",
		}, []string{"step", "status"}),
	}
	r.registry.MustRegister(r.duration, r.status)
	return r
}

func (r *Recorder) Observe(step string, start time.Time, err error) {
	r.duration.WithLabelValues(step).Set(time.Since(start).Seconds())

	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	r.status.WithLabelValues(step, status).Set(1)
}

func (r *Recorder) Skipped(step string) {
	r.status.WithLabelValues(step, StatusSkipped).Set(1)
}

// Push sends the collected metrics, grouped by repository and run
func (r *Recorder) Push(url string, repository string, runID string) error {
	if url == "" {
		return nil
	}
	err := push.New(url, job).
		Gatherer(r.registry).
		Grouping("repository", repository).
		Grouping("run", runID).
		Push()
	return errors.Wrap(err, "cannot push metrics")
}
