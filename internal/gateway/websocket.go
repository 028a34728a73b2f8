package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the configured UI origin once one is configurable
		return true
	},
}

// Event is one message on the session stream
type Event struct {
	Event string        `json:"event"`
	Data  session.State `json:"data"`
}

// EventStream pushes session state changes to websocket clients
type EventStream struct {
	store  *session.Store
	tracer trace.Tracer
	logger *zap.Logger
}

// NewEventStream creates a new session event stream
func NewEventStream(store *session.Store, logger *zap.Logger) *EventStream {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventStream{
		store:  store,
		tracer: otel.Tracer("session-event-stream"),
		logger: logger,
	}
}

// StreamSession handles WebSocket /api/ws/sessions/:id
// @Summary Stream session state
// @Description WebSocket endpoint sending the session state once on connect and again after every change.
// @Description Pass the session token as the token query parameter when headers cannot be set.
// @Tags sessions
// @Param id path string true "Session ID"
// @Param token query string false "Session token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ws/sessions/{id} [get]
func (e *EventStream) StreamSession(c *gin.Context) {
	_, span := e.tracer.Start(c.Request.Context(), "event_stream.stream_session")
	defer span.End()

	sessionID := c.Param("id")
	span.SetAttributes(attribute.String("session.id", sessionID))

	s, err := e.store.Get(sessionID)
	if err != nil {
		respondError(c, http.StatusNotFound, "Session not found", models.ErrCodeNotFound)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.RecordError(err)
		e.logger.Warn("Failed to upgrade connection", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := s.Subscribe()
	defer cancel()

	e.logger.Info("Event stream opened", zap.String("session_id", sessionID))

	// Client -> ignore; reading is only needed to notice closes and pongs.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if err := writeEvent(conn, Event{Event: "state", Data: s.Snapshot()}); err != nil {
		span.RecordError(err)
		return
	}

	for {
		select {
		case state, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session ended"))
				e.logger.Info("Event stream ended with session", zap.String("session_id", sessionID))
				return
			}
			if err := writeEvent(conn, Event{Event: "state", Data: state}); err != nil {
				span.RecordError(err)
				e.logger.Warn("Event stream write failed", zap.String("session_id", sessionID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			e.logger.Info("Event stream closed by client", zap.String("session_id", sessionID))
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, event Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(event)
}
