package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	chatConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "multiroom_chat_connections",
			Help: "Current number of connected chat sessions.",
		},
	)
	chatRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "multiroom_chat_rooms",
			Help: "Current number of open rooms, lobby included.",
		},
	)
	chatMessagesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "multiroom_chat_messages_delivered_total",
			Help: "Total payloads successfully handed to client connections.",
		},
	)
	chatDeliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "multiroom_chat_delivery_failures_total",
			Help: "Total payloads that could not be delivered; each drops the member.",
		},
	)
	chatRoomsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "multiroom_chat_rooms_closed_total",
			Help: "Total rooms closed, either emptied or explicitly.",
		},
	)
)

func init() {
	prometheus.MustRegister(chatConnections, chatRooms, chatMessagesDelivered, chatDeliveryFailures, chatRoomsClosed)
}

func incConnections() {
	chatConnections.Inc()
}

func decConnections() {
	chatConnections.Dec()
}

func setRooms(count int) {
	chatRooms.Set(float64(count))
}

func addDelivered(count int) {
	chatMessagesDelivered.Add(float64(count))
}

func incDeliveryFailures() {
	chatDeliveryFailures.Inc()
}

func incRoomsClosed() {
	chatRoomsClosed.Inc()
}
