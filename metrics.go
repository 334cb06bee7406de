package sympad

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pipeline activity. Run Init() on it. A nil *Metrics
// counts nothing.
type Metrics struct {
	Registerer prometheus.Registerer // defaults to prometheus.DefaultRegisterer

	requestsTotal     *prometheus.CounterVec // requests served, by mode and outcome
	importOpaqueTotal prometheus.Counter     // engine objects imported as opaque text
	exportErrorsTotal *prometheus.CounterVec // export failures, by error kind
}

// Init creates and registers the collectors.
func (obj *Metrics) Init() error {
	if obj.Registerer == nil {
		obj.Registerer = prometheus.DefaultRegisterer
	}
	obj.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sympad_requests_total",
			Help: "Number of pipeline requests served.",
		},
		// mode: validate or evaluate
		// errorful: did the request end in an error
		[]string{"mode", "errorful"},
	)
	obj.importOpaqueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sympad_import_opaque_total",
			Help: "Number of engine objects imported without a tree form.",
		},
	)
	obj.exportErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sympad_export_errors_total",
			Help: "Number of failed exports.",
		},
		// kind: undefined_function, malformed_node or engine
		[]string{"kind"},
	)

	for _, c := range []prometheus.Collector{obj.requestsTotal, obj.importOpaqueTotal, obj.exportErrorsTotal} {
		if err := obj.Registerer.Register(c); err != nil {
			return errors.Wrap(err, "can't register metric")
		}
	}
	return nil
}

// UpdateRequestsTotal counts one finished request.
func (obj *Metrics) UpdateRequestsTotal(mode string, errorful bool) {
	if obj == nil || obj.requestsTotal == nil {
		return
	}
	labels := prometheus.Labels{"mode": mode, "errorful": strconv.FormatBool(errorful)}
	obj.requestsTotal.With(labels).Inc()
}

// AddImportOpaque counts opaque nodes produced by one import.
func (obj *Metrics) AddImportOpaque(n int) {
	if obj == nil || obj.importOpaqueTotal == nil || n <= 0 {
		return
	}
	obj.importOpaqueTotal.Add(float64(n))
}

// UpdateExportErrors counts one failed export, classified by its cause.
func (obj *Metrics) UpdateExportErrors(err error) {
	if obj == nil || obj.exportErrorsTotal == nil || err == nil {
		return
	}
	obj.exportErrorsTotal.With(prometheus.Labels{"kind": errorKind(err)}).Inc()
}

func errorKind(err error) string {
	switch errors.Cause(err) {
	case ErrUndefinedFunction:
		return "undefined_function"
	case ErrMalformedNode:
		return "malformed_node"
	case ErrNumericAnomaly:
		return "numeric_anomaly"
	}
	return "engine"
}
