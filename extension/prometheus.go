package extension

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowscan/bitwise"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrAttached is returned when an extension instance is attached to a second repository
var ErrAttached = errors.New("extension is already attached to a repository")

const (
	Success  = "success"
	NotFound = "notfound"
	Error    = "error"
)

// Collection of prometheus metrics
type StoreMetrics struct {
	AdditionalLabels        []string
	LoadTimeHistogram       *prometheus.HistogramVec
	LoadBatchHistogram      *prometheus.HistogramVec
	SetTimeHistogram        *prometheus.HistogramVec
	SetBatchHistogram       *prometheus.HistogramVec
	LayerLoadTimeHistogram  *prometheus.HistogramVec
	LayerLoadBatchHistogram *prometheus.HistogramVec
	LayerSetTimeHistogram   *prometheus.HistogramVec
	MutationCounter         *prometheus.CounterVec
}

// Create a new store metric collector
// additionalLabels is a list of additional labels used for metric partitioning
func NewStoreMetrics(additionalLabels ...string) *StoreMetrics {
	c := &StoreMetrics{}
	c.AdditionalLabels = additionalLabels
	c.LoadTimeHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitwise",
		Name:      "load_time_seconds",
		Help:      "The time it takes to resolve a load request",
	}, labels(additionalLabels, "store", "status"))
	c.LoadBatchHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitwise",
		Name:      "load_batch",
		Help:      "The batch size for each load",
	}, labels(additionalLabels, "store"))
	c.SetTimeHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitwise",
		Name:      "set_time_seconds",
		Help:      "The time it takes to resolve a set request",
	}, labels(additionalLabels, "store", "status"))
	c.SetBatchHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitwise",
		Name:      "set_batch",
		Help:      "The batch size for each set",
	}, labels(additionalLabels, "store"))
	c.LayerLoadTimeHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitwise",
		Subsystem: "layer",
		Name:      "load_time_seconds",
		Help:      "The time a layer takes to resolve a load request",
	}, labels(additionalLabels, "store", "layer", "status"))
	c.LayerLoadBatchHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitwise",
		Subsystem: "layer",
		Name:      "load_batch",
		Help:      "The batch size for each load on to a layer",
	}, labels(additionalLabels, "store", "layer"))
	c.LayerSetTimeHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitwise",
		Subsystem: "layer",
		Name:      "set_time_seconds",
		Help:      "The time a layer takes to resolve a set request",
	}, labels(additionalLabels, "store", "layer", "status"))
	c.MutationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitwise",
		Name:      "mutations_total",
		Help:      "The number of flag group mutations made through attributes",
	}, labels(additionalLabels, "group", "op", "status"))
	return c
}

// Register all of the metrics to the given registerer
func (c *StoreMetrics) Register(registerer prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.LoadTimeHistogram,
		c.LoadBatchHistogram,
		c.SetTimeHistogram,
		c.SetBatchHistogram,
		c.LayerLoadTimeHistogram,
		c.LayerLoadBatchHistogram,
		c.LayerSetTimeHistogram,
		c.MutationCounter,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func labels(additional []string, names ...string) []string {
	result := make([]string, 0, len(additional)+len(names))
	result = append(result, additional...)
	return append(result, names...)
}

// PrometheusMetrics is an extension for repository and attribute instrumentation.
// It keeps the store name and layers of the repository it is attached to, so every
// repository needs its own instance. The StoreMetrics collectors can be shared.
type PrometheusMetrics[TKey comparable] struct {
	attached           atomic.Bool
	storeName          string
	metrics            *StoreMetrics
	labelValues        []string
	layerIdentifiers   []string
	layerLoadStartTime []map[uint64]time.Time
	layerLoadMu        []sync.Mutex
	layerSetStartTime  []map[uint64]time.Time
	layerSetMu         []sync.Mutex
	loadStartTime      map[uint64]time.Time
	setStartTime       map[uint64]time.Time
	loadMu             sync.Mutex
	setMu              sync.Mutex
}

// Create a new prometheus metrics extension with the given metrics collector
// labelValues is an optional parameter to fill the additional labels of the collector
func NewPrometheusMetrics[TKey comparable](metrics *StoreMetrics, labelValues ...string) *PrometheusMetrics[TKey] {
	return &PrometheusMetrics[TKey]{
		labelValues:   labelValues,
		metrics:       metrics,
		loadStartTime: make(map[uint64]time.Time),
		setStartTime:  make(map[uint64]time.Time),
	}
}

func (e *PrometheusMetrics[TKey]) Name() string    { return "PrometheusMetrics" }
func (e *PrometheusMetrics[TKey]) Version() string { return "1.0.0" }

func (e *PrometheusMetrics[TKey]) InitializationHook(identifier string, layers []bitwise.Layer[TKey]) error {
	if !e.attached.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", ErrAttached, identifier)
	}
	e.storeName = identifier
	e.layerLoadStartTime = make([]map[uint64]time.Time, len(layers))
	e.layerSetStartTime = make([]map[uint64]time.Time, len(layers))
	e.layerLoadMu = make([]sync.Mutex, len(layers))
	e.layerSetMu = make([]sync.Mutex, len(layers))
	e.layerIdentifiers = make([]string, len(layers))
	for i, layer := range layers {
		e.layerIdentifiers[i] = layer.Identifier()
		e.layerLoadStartTime[i] = make(map[uint64]time.Time)
		e.layerSetStartTime[i] = make(map[uint64]time.Time)
	}
	return nil
}

func (e *PrometheusMetrics[TKey]) values(values ...string) []string {
	return labels(e.labelValues, values...)
}

func (e *PrometheusMetrics[TKey]) PreLoadHook(traceID uint64, keys []TKey) {
	e.metrics.LoadBatchHistogram.WithLabelValues(e.values(e.storeName)...).Observe(float64(len(keys)))

	e.loadMu.Lock()
	e.loadStartTime[traceID] = time.Now()
	e.loadMu.Unlock()
}

func (e *PrometheusMetrics[TKey]) PostLoadHook(traceID uint64, keys []TKey, values []bitwise.Raw, errors []error) {
	e.loadMu.Lock()
	traceTime := time.Since(e.loadStartTime[traceID]).Seconds()
	delete(e.loadStartTime, traceID)
	e.loadMu.Unlock()

	for i := range keys {
		e.metrics.LoadTimeHistogram.WithLabelValues(e.values(e.storeName, loadStatus[TKey](errors, i))...).Observe(traceTime)
	}
}

func (e *PrometheusMetrics[TKey]) PreSetHook(traceID uint64, keys []TKey, values []bitwise.Raw) {
	e.metrics.SetBatchHistogram.WithLabelValues(e.values(e.storeName)...).Observe(float64(len(keys)))

	e.setMu.Lock()
	e.setStartTime[traceID] = time.Now()
	e.setMu.Unlock()
}

func (e *PrometheusMetrics[TKey]) PostSetHook(traceID uint64, keys []TKey, values []bitwise.Raw, errors [][]error) {
	e.setMu.Lock()
	traceTime := time.Since(e.setStartTime[traceID]).Seconds()
	delete(e.setStartTime, traceID)
	e.setMu.Unlock()

	for i := range keys {
		status := Success
		for _, layerErrors := range errors {
			if len(layerErrors) > i && layerErrors[i] != nil {
				status = Error
				break
			}
		}
		e.metrics.SetTimeHistogram.WithLabelValues(e.values(e.storeName, status)...).Observe(traceTime)
	}
}

func (e *PrometheusMetrics[TKey]) LayerPreLoadHook(traceID uint64, layerIndex int, keys []TKey) {
	e.metrics.LayerLoadBatchHistogram.WithLabelValues(e.values(e.storeName, e.layerIdentifiers[layerIndex])...).Observe(float64(len(keys)))

	e.layerLoadMu[layerIndex].Lock()
	e.layerLoadStartTime[layerIndex][traceID] = time.Now()
	e.layerLoadMu[layerIndex].Unlock()
}

func (e *PrometheusMetrics[TKey]) LayerPostLoadHook(traceID uint64, layerIndex int, keys []TKey, values []bitwise.Raw, errors []error) {
	e.layerLoadMu[layerIndex].Lock()
	traceTime := time.Since(e.layerLoadStartTime[layerIndex][traceID]).Seconds()
	delete(e.layerLoadStartTime[layerIndex], traceID)
	e.layerLoadMu[layerIndex].Unlock()

	for i := range keys {
		e.metrics.LayerLoadTimeHistogram.WithLabelValues(e.values(e.storeName, e.layerIdentifiers[layerIndex], loadStatus[TKey](errors, i))...).Observe(traceTime)
	}
}

func (e *PrometheusMetrics[TKey]) LayerPreSetHook(traceID uint64, layerIndex int, keys []TKey, values []bitwise.Raw) {
	e.layerSetMu[layerIndex].Lock()
	e.layerSetStartTime[layerIndex][traceID] = time.Now()
	e.layerSetMu[layerIndex].Unlock()
}

func (e *PrometheusMetrics[TKey]) LayerPostSetHook(traceID uint64, layerIndex int, keys []TKey, values []bitwise.Raw, errors []error) {
	e.layerSetMu[layerIndex].Lock()
	traceTime := time.Since(e.layerSetStartTime[layerIndex][traceID]).Seconds()
	delete(e.layerSetStartTime[layerIndex], traceID)
	e.layerSetMu[layerIndex].Unlock()

	for i := range keys {
		status := Success
		if len(errors) > i && errors[i] != nil {
			status = Error
		}
		e.metrics.LayerSetTimeHistogram.WithLabelValues(e.values(e.storeName, e.layerIdentifiers[layerIndex], status)...).Observe(traceTime)
	}
}

func (e *PrometheusMetrics[TKey]) MutationHook(mutation bitwise.Mutation) {
	status := Success
	if mutation.Err != nil {
		status = Error
	}
	e.metrics.MutationCounter.WithLabelValues(e.values(mutation.Group, mutation.Op, status)...).Inc()
}

func loadStatus[TKey comparable](errs []error, i int) string {
	if len(errs) <= i || errs[i] == nil {
		return Success
	}
	var notFound bitwise.ErrNotFound[TKey]
	if errors.As(errs[i], &notFound) {
		return NotFound
	}
	return Error
}
