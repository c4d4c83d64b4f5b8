package audit

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "multiroom_chat_audit_events_written_total",
		Help: "Room events successfully handed to an audit sink.",
	}, []string{"sink"})

	eventsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "multiroom_chat_audit_events_failed_total",
		Help: "Room events an audit sink rejected.",
	}, []string{"sink"})

	eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multiroom_chat_audit_events_dropped_total",
		Help: "Room events dropped because the audit queue was full.",
	})
)

func init() {
	prometheus.MustRegister(eventsWritten, eventsFailed, eventsDropped)
}
