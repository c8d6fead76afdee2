package prom

import (
	"sync"

	xhttp "github.com/nimasrn/bizledger/pkg/http"
	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemRecords   = "records"
	SystemAuth      = "auth"
	SystemAnalytics = "analytics"
	SystemHTTP      = "http"
)

const (
	MetricRecordMutations = "mutations_total"
	MetricAuthAttempts    = "attempts_total"
	MetricReportDuration  = "report_duration_seconds"
	MetricServerErrors    = "server_errors_total"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

// Create enables metrics and registers the ledger collectors. Until it is
// called every recording helper is a no-op.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemRecords, MetricRecordMutations, []string{"kind", "op"}))
	hasError(createCounterVec(SystemAuth, MetricAuthAttempts, []string{"action", "outcome"}))
	hasError(createHistogramVec(SystemAnalytics, MetricReportDuration, []string{"kind"}))
	hasError(createCounter(SystemHTTP, MetricServerErrors))

	return err
}

// ListenAndServer exposes the default registry on addr at url. It blocks.
func ListenAndServer(addr string, url string) error {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "addr", addr, "url", url)
	return s.ListenAndServe(addr)
}

// register adds c to the default registry, reusing an identical collector
// that is already registered.
func register[T prometheus.Collector](c T) (T, error) {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func createCounter(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	c, err := register(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}))
	MetricCollectionCounters[subsystem+name] = c
	return err
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	c, err := register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}, labels))
	MetricCollectionCounterVec[subsystem+name] = c
	return err
}

func createHistogramVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	h, err := register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}, labels))
	MetricCollectionHistogramVec[subsystem+name] = h
	return err
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func AddCounter(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

// IncRecordMutation counts a create, update, delete or mark_paid on kind.
func IncRecordMutation(kind, op string) {
	IncCounterVec(SystemRecords, MetricRecordMutations, kind, op)
}

func IncAuthAttempt(action, outcome string) {
	IncCounterVec(SystemAuth, MetricAuthAttempts, action, outcome)
}

func ObserveReportDuration(kind string, seconds float64) {
	AddHistogramVec(SystemAnalytics, MetricReportDuration, seconds, kind)
}

// IncServerError counts requests answered with a 500.
func IncServerError() {
	IncCounter(SystemHTTP, MetricServerErrors)
}
