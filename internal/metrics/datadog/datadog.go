// Package datadog implements a Datadog backend for the internal/metrics
// package.
//
// The backend buffers metrics in-memory (lock-protected), flushes on a
// ticker so long runs produce a time series instead of a single spike at
// exit, and flushes one final time on Close(). Credentials come from the
// standard DD_API_KEY / DD_APP_KEY environment variables consumed by the
// SDK's default context.
package datadog

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"salesdw/internal/metrics"
)

// Options controls Datadog backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric. Defaults to "salesdw".
	JobName string

	// Tags are extra Datadog tags (e.g. []string{"env:prod"}).
	Tags []string

	// FlushEvery controls how often buffered metrics are submitted.
	// If <= 0, defaults to 60 seconds.
	FlushEvery time.Duration

	// Unexported test seams; production code never sets them.
	now       func() time.Time
	submitter metricsSubmitter
}

// metricsSubmitter is the minimal interface needed to submit metrics. The
// SDK exposes a concrete *datadogV2.MetricsApi; depending on this interface
// instead lets unit tests use a fake without real HTTP.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter

	ctx        context.Context
	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string
	now      func() time.Time

	mu       sync.Mutex
	counters map[string]float64 // series key -> accumulated delta
	gauges   map[string]float64 // series key -> last value
}

// NewBackend constructs the backend and starts its periodic flush loop.
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	job := opts.JobName
	if job == "" {
		job = "salesdw"
	}

	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 2+len(opts.Tags))
	baseTags = append(baseTags, resolveEnvTag(), "job:"+job)
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}

	submitter := opts.submitter
	if submitter == nil {
		client := dd.NewAPIClient(dd.NewConfiguration())
		submitter = datadogV2.NewMetricsApi(client)
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		baseTags:   baseTags,
		now:        nowFn,
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
	}

	go b.loop()
	return b, nil
}

func (b *Backend) loop() {
	defer close(b.doneCh)
	t := time.NewTicker(b.flushEvery)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the periodic flush loop and performs a final Flush.
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	k := seriesKey(name, labels)
	b.mu.Lock()
	b.counters[k] += delta
	b.mu.Unlock()
}

// SetGauge implements metrics.Backend.
func (b *Backend) SetGauge(name string, value float64, labels metrics.Labels) {
	k := seriesKey(name, labels)
	b.mu.Lock()
	b.gauges[k] = value
	b.mu.Unlock()
}

// Flush snapshots and resets the buffers under the lock, then submits
// out-of-lock. Empty snapshots submit nothing.
func (b *Backend) Flush() error {
	b.mu.Lock()
	counters := b.counters
	gauges := b.gauges
	b.counters = make(map[string]float64)
	b.gauges = make(map[string]float64)
	b.mu.Unlock()

	if len(counters) == 0 && len(gauges) == 0 {
		return nil
	}

	nowUnix := b.now().Unix()
	series := make([]datadogV2.MetricSeries, 0, len(counters)+len(gauges))
	for k, v := range counters {
		series = append(series, b.series(k, v, datadogV2.METRICINTAKETYPE_COUNT, nowUnix))
	}
	for k, v := range gauges {
		series = append(series, b.series(k, v, datadogV2.METRICINTAKETYPE_GAUGE, nowUnix))
	}

	payload := datadogV2.MetricPayload{Series: series}
	_, _, err := b.api.SubmitMetrics(b.ctx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	if err != nil {
		return fmt.Errorf("datadog: submit metrics: %w", err)
	}
	return nil
}

func (b *Backend) series(key string, value float64, typ datadogV2.MetricIntakeType, nowUnix int64) datadogV2.MetricSeries {
	name, extraTags := splitSeriesKey(key)
	tags := make([]string, 0, len(b.baseTags)+len(extraTags))
	tags = append(tags, b.baseTags...)
	tags = append(tags, extraTags...)
	return datadogV2.MetricSeries{
		Metric: name,
		Type:   typ.Ptr(),
		Tags:   tags,
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
	}
}

// seriesKey encodes a metric name plus labels as a single stable map key:
// "name|k1:v1|k2:v2" with labels sorted by key.
func seriesKey(name string, labels metrics.Labels) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString(":")
		b.WriteString(labels[k])
	}
	return b.String()
}

func splitSeriesKey(key string) (name string, tags []string) {
	parts := strings.Split(key, "|")
	return parts[0], parts[1:]
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	return "env:dev"
}

// ParseTagsCSV splits a comma-separated tag list ("env:prod,team:data")
// into a slice, dropping empty entries.
func ParseTagsCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
