// Package exporter publishes Monado client and device state as Prometheus
// metrics.
package exporter

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	libmonado "github.com/technobaboo/libmonado-go"
)

const namespace = "monado"

// Source returns the state to export. It is called once per scrape.
type Source func() (*libmonado.Snapshot, error)

// Exporter is a prometheus.Collector reading a fresh snapshot on every
// scrape. It also carries the HTTP request metrics of the API server.
type Exporter struct {
	source Source
	logger *slog.Logger

	clients       *prometheus.Desc
	clientState   *prometheus.Desc
	devices       *prometheus.Desc
	batteryCharge *prometheus.Desc
	charging      *prometheus.Desc
	brightness    *prometheus.Desc
	apiInfo       *prometheus.Desc
	scrapeErrors  prometheus.Counter

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates an exporter with its own registry.
func New(source Source, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Exporter{
		source: source,
		logger: logger,

		clients: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "clients"),
			"Number of connected OpenXR clients",
			nil, nil,
		),
		clientState: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "client_state"),
			"Client state flags, 1 when the flag is set",
			[]string{"id", "client", "flag"}, nil,
		),
		devices: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "devices"),
			"Number of devices known to the runtime",
			nil, nil,
		),
		batteryCharge: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "device", "battery_charge"),
			"Device battery charge from 0 to 1",
			[]string{"index", "device", "serial"}, nil,
		),
		charging: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "device", "battery_charging"),
			"1 when the device battery is charging",
			[]string{"index", "device", "serial"}, nil,
		),
		brightness: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "device", "brightness"),
			"Device display brightness",
			[]string{"index", "device", "serial"}, nil,
		),
		apiInfo: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "api_info"),
			"libmonado API version, always 1",
			[]string{"version"}, nil,
		),
		scrapeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_errors_total",
			Help:      "Total number of scrapes that failed to read the runtime",
		}),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		registry: prometheus.NewRegistry(),
	}

	e.registry.MustRegister(e, e.httpRequestsTotal, e.httpRequestDuration)
	return e
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.clients
	ch <- e.clientState
	ch <- e.devices
	ch <- e.batteryCharge
	ch <- e.charging
	ch <- e.brightness
	ch <- e.apiInfo
	e.scrapeErrors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	defer e.scrapeErrors.Collect(ch)

	s, err := e.source()
	if err != nil {
		e.scrapeErrors.Inc()
		e.logger.Warn("failed to read monado state", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(e.apiInfo, prometheus.GaugeValue, 1, s.APIVersion.String())
	ch <- prometheus.MustNewConstMetric(e.clients, prometheus.GaugeValue, float64(len(s.Clients)))
	for _, c := range s.Clients {
		if c.Error != "" {
			continue
		}
		id := strconv.FormatUint(uint64(c.ID), 10)
		for _, flag := range libmonado.AllClientStates() {
			ch <- prometheus.MustNewConstMetric(e.clientState, prometheus.GaugeValue, boolValue(c.State.Has(flag)), id, c.Name, flag.String())
		}
	}

	ch <- prometheus.MustNewConstMetric(e.devices, prometheus.GaugeValue, float64(len(s.Devices)))
	for _, d := range s.Devices {
		labels := []string{fmt.Sprint(d.Index), d.Name, d.Serial}
		if d.Battery != nil {
			ch <- prometheus.MustNewConstMetric(e.batteryCharge, prometheus.GaugeValue, float64(d.Battery.Charge), labels...)
			ch <- prometheus.MustNewConstMetric(e.charging, prometheus.GaugeValue, boolValue(d.Battery.Charging), labels...)
		}
		if d.Brightness != nil {
			ch <- prometheus.MustNewConstMetric(e.brightness, prometheus.GaugeValue, float64(*d.Brightness), labels...)
		}
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// RecordHTTPRequest records one API request.
func (e *Exporter) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	e.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	e.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
