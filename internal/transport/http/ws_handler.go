package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
	"seenjeem-admin/internal/metrics"
)

// WSHandler streams catalog activity to dashboard clients.
type WSHandler struct {
	feed     *app.Feed
	reports  *app.ReportService
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(feed *app.Feed, reports *app.ReportService, m *metrics.Metrics, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		feed:    feed,
		reports: reports,
		metrics: m,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and sends "recent", "stats" and then every "activity".
// Clients may send {"type":"stats"} to refresh the dashboard counts.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()
	// the hijacked conn keeps the server's request deadlines
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	if h.metrics != nil {
		h.metrics.LiveConnections.Inc()
		defer h.metrics.LiveConnections.Dec()
	}

	// Subscribe before reading Recent so nothing published in between is lost.
	updates, cancel := h.feed.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections support one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).Debug("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case a, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "activity", Payload: a}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "recent", Payload: h.feed.Recent()}
	send <- h.statsMessage(r.Context())

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "stats":
			send <- h.statsMessage(r.Context())
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) statsMessage(ctx context.Context) outboundMessage[any] {
	if h.reports == nil {
		return outboundMessage[any]{Type: "stats", Payload: domain.DashboardStats{}}
	}
	stats, err := h.reports.Stats(ctx)
	if err != nil {
		h.log.WithError(err).Warn("load stats for ws failed")
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "stats unavailable"}}
	}
	return outboundMessage[any]{Type: "stats", Payload: stats}
}
