package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Role tags a connection as the session's host dashboard or a participant
// view. Delivery is identical for both; the role exists for stats and
// connection logging.
type Role string

const (
	RoleHost        Role = "host"
	RoleParticipant Role = "participant"
)

// ConnectionManager maintains the per-session subscriber groups and is the
// single fan-out point for session events. Delivery is best-effort: a slow
// endpoint gets dropped, never blocks the others, and never fails the
// write path that triggered the broadcast.
type ConnectionManager struct {
	// Connection pools organized by session ID
	sessionConnections map[uuid.UUID]map[*Connection]bool
	mu                 sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	// Event broadcasting
	broadcastCh chan BroadcastMessage

	// Optional secondary publisher (NATS); may be nil.
	relay Relay
}

// Connection represents a WebSocket connection to a client.
type Connection struct {
	ID        string
	SessionID uuid.UUID
	Role      Role
	Conn      *websocket.Conn
	Send      chan []byte
	Manager   *ConnectionManager

	ConnectedAt time.Time
	LastPing    time.Time

	// sendMu guards closed and every send on Send. The pump goroutines
	// tear connections down while the broadcast goroutine is mid-delivery;
	// without the lock a disconnect landing between the manager's snapshot
	// and the send would panic the broadcast goroutine on a closed channel.
	sendMu sync.Mutex
	closed bool
}

// sendResult reports what happened to one queued delivery.
type sendResult int

const (
	sendOK sendResult = iota
	sendFull
	sendClosed
)

// trySend queues data for the write pump without blocking.
func (c *Connection) trySend(data []byte) sendResult {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return sendClosed
	}
	select {
	case c.Send <- data:
		return sendOK
	default:
		return sendFull
	}
}

// closeSend closes the send channel exactly once. Idempotent.
func (c *Connection) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// ConnectionConfig holds configuration for WebSocket connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage represents a message to broadcast to a session's group.
type BroadcastMessage struct {
	SessionID uuid.UUID
	Event     *SessionEvent
}

// DefaultConnectionConfig returns default WebSocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager. relay
// may be nil when no secondary publisher is configured.
func NewConnectionManager(config ConnectionConfig, relay Relay) *ConnectionManager {
	return &ConnectionManager{
		sessionConnections: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, 1000),
		relay:       relay,
	}
}

// Start begins processing broadcast messages.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP request to a WebSocket joined to the
// given session.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID, role Role) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		Role:        role,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("session_id", sessionID.String()).
		Str("role", string(role)).
		Msg("websocket connection established")

	return nil
}

// registerConnection adds a connection to its session's group, creating
// the group on first join.
func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.sessionConnections[conn.SessionID] == nil {
		cm.sessionConnections[conn.SessionID] = make(map[*Connection]bool)
	}
	cm.sessionConnections[conn.SessionID][conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Str("session_id", conn.SessionID.String()).
		Int("total_connections", len(cm.sessionConnections[conn.SessionID])).
		Msg("connection registered")
}

// unregisterConnection removes a connection. Idempotent: calling it for a
// connection that already left is a no-op, and the last leave destroys the
// session's group.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	connections, exists := cm.sessionConnections[conn.SessionID]
	if !exists {
		return
	}
	if _, exists := connections[conn]; !exists {
		return
	}
	delete(connections, conn)
	conn.closeSend()

	if len(connections) == 0 {
		delete(cm.sessionConnections, conn.SessionID)
	}

	log.Info().
		Str("connection_id", conn.ID).
		Str("session_id", conn.SessionID.String()).
		Str("role", string(conn.Role)).
		Msg("connection unregistered")
}

// BroadcastToSession queues an event for delivery to every endpoint
// currently joined to the session. Fire-and-forget: the caller's write
// path has already succeeded by the time this runs.
func (cm *ConnectionManager) BroadcastToSession(sessionID uuid.UUID, event *SessionEvent) {
	select {
	case cm.broadcastCh <- BroadcastMessage{SessionID: sessionID, Event: event}:
	default:
		log.Warn().Str("session_id", sessionID.String()).Msg("broadcast channel full, dropping message")
	}
}

// handleBroadcast delivers one queued event.
func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	cm.mu.RLock()
	connections := cm.sessionConnections[message.SessionID]
	// Snapshot so the lock is not held during delivery.
	targets := make([]*Connection, 0, len(connections))
	for conn := range connections {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	if cm.relay != nil {
		cm.relay.Publish(message.Event)
	}

	if len(targets) == 0 {
		return
	}

	eventData, err := json.Marshal(message.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targets {
		switch conn.trySend(eventData) {
		case sendOK:
		case sendClosed:
			// Disconnected between snapshot and delivery; the pump
			// goroutines already tore it down.
		case sendFull:
			// Connection is slow/dead, close it
			log.Warn().
				Str("connection_id", conn.ID).
				Str("session_id", conn.SessionID.String()).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Str("event_type", string(message.Event.Type)).
		Str("session_id", message.SessionID.String()).
		Int("connections", len(targets)).
		Msg("event broadcasted")
}

// ConnectionStats summarizes the current subscriber groups.
type ConnectionStats struct {
	TotalConnections int                     `json:"total_connections"`
	ActiveSessions   int                     `json:"active_sessions"`
	Sessions         map[string]SessionStats `json:"sessions"`
}

// SessionStats counts one session's subscribers by role.
type SessionStats struct {
	Hosts        int `json:"hosts"`
	Participants int `json:"participants"`
}

// GetConnectionStats returns statistics about active connections.
func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{Sessions: make(map[string]SessionStats)}
	for sessionID, connections := range cm.sessionConnections {
		s := SessionStats{}
		for conn := range connections {
			if conn.Role == RoleHost {
				s.Hosts++
			} else {
				s.Participants++
			}
		}
		stats.TotalConnections += len(connections)
		stats.Sessions[sessionID.String()] = s
	}
	stats.ActiveSessions = len(cm.sessionConnections)
	return stats
}

// writePump handles sending messages to the WebSocket connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump handles reading messages from the WebSocket connection.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage processes messages received from the client. Joining
// happens at upgrade time; clients that missed events re-fetch state over
// HTTP rather than sending replay requests here.
func (c *Connection) handleClientMessage(message []byte) {
	log.Debug().
		Str("connection_id", c.ID).
		Str("session_id", c.SessionID.String()).
		RawJSON("message", message).
		Msg("received client message")
}
