package telemetry

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "deal_charts"

type Recorder struct {
	reg        *prometheus.Registry
	records    prometheus.Gauge
	duplicates prometheus.Gauge
	rendered   *prometheus.CounterVec
	failures   *prometheus.CounterVec
	stage      *prometheus.GaugeVec
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Deal records read from the dataset.",
		}),
		duplicates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duplicate_deal_ids",
			Help:      "Deal ids that appear on more than one row.",
		}),
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Chart files written.",
		}, []string{"chart"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_failures_total",
			Help:      "Charts that could not be produced.",
		}, []string{"chart"}),
		stage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage in the last run.",
		}, []string{"stage"}),
	}
	r.reg.MustRegister(r.records, r.duplicates, r.rendered, r.failures, r.stage)
	return r
}

func (r *Recorder) SetRecords(n, dupes int) {
	r.records.Set(float64(n))
	r.duplicates.Set(float64(dupes))
}

func (r *Recorder) ObserveStage(stage string, start time.Time) {
	r.stage.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

func (r *Recorder) ChartRendered(chart string) { r.rendered.WithLabelValues(chart).Inc() }
func (r *Recorder) ChartFailed(chart string)   { r.failures.WithLabelValues(chart).Inc() }

// formato del textfile collector de node_exporter
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// claves "name{label=value}"; recorrer con Keys para orden estable
func (r *Recorder) Summary() (map[string]float64, error) {
	mfs, err := r.reg.Gather()
	if err != nil {
		return nil, err
	}
	out := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += fmt.Sprintf("{%s=%s}", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

func Keys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
