// Package metrics provides Prometheus metrics for the launcher.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pointerEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launcher",
		Subsystem: "input",
		Name:      "pointer_events_total",
		Help:      "Pointer events handled, by kind",
	}, []string{"kind"})

	ledWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launcher",
		Subsystem: "led",
		Name:      "writes_total",
		Help:      "LED write attempts, by requested state and result",
	}, []string{"state", "result"})

	ledOn = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "launcher",
		Subsystem: "led",
		Name:      "on",
		Help:      "1 if the LED was last switched on successfully",
	})

	active = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "launcher",
		Name:      "active",
		Help:      "1 while auto-scroll is active",
	})

	shifts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launcher",
		Subsystem: "carousel",
		Name:      "shifts_total",
		Help:      "Carousel shifts, by cause",
	}, []string{"cause"})

	resets = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "launcher",
		Subsystem: "carousel",
		Name:      "resets_total",
		Help:      "Times the carousel wrapped back to the origin",
	})

	start = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "launcher",
		Subsystem: "carousel",
		Name:      "start_offset",
		Help:      "Cumulative carousel scroll offset",
	})

	renderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "launcher",
		Subsystem: "display",
		Name:      "render_errors_total",
		Help:      "Frames that failed to reach the display sink",
	})
)

// RecordPointer counts a handled pointer event.
func RecordPointer(kind string) {
	pointerEvents.WithLabelValues(kind).Inc()
}

// RecordLEDWrite counts an LED write attempt and tracks the resulting state.
func RecordLEDWrite(on bool, err error) {
	state := "off"
	if on {
		state = "on"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	ledWrites.WithLabelValues(state, result).Inc()

	if err == nil {
		ledOn.Set(boolToFloat(on))
	}
}

// SetActive records whether auto-scroll is active.
func SetActive(on bool) {
	active.Set(boolToFloat(on))
}

// RecordShift counts a carousel shift and records the resulting offset.
func RecordShift(cause string, offset int, reset bool) {
	shifts.WithLabelValues(cause).Inc()
	start.Set(float64(offset))
	if reset {
		resets.Inc()
	}
}

// RecordRenderError counts a frame that could not be written.
func RecordRenderError() {
	renderErrors.Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
