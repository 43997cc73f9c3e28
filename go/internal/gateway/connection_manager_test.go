package gateway

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

// newIdleConnection builds a registered connection whose pumps never run.
// The send buffer is sized so a bounded broadcast burst can never fill it,
// which keeps the slow-endpoint teardown path (and its websocket handle)
// out of the test.
func newIdleConnection(cm *ConnectionManager, sessionID uuid.UUID, buffer int) *Connection {
	conn := &Connection{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      RoleParticipant,
		Send:      make(chan []byte, buffer),
		Manager:   cm,
	}
	cm.registerConnection(conn)
	return conn
}

func TestCloseSendIdempotent(t *testing.T) {
	conn := &Connection{Send: make(chan []byte, 1)}

	if got := conn.trySend([]byte("a")); got != sendOK {
		t.Fatalf("trySend before close = %v, want sendOK", got)
	}
	if got := conn.trySend([]byte("b")); got != sendFull {
		t.Fatalf("trySend on full buffer = %v, want sendFull", got)
	}

	conn.closeSend()
	conn.closeSend() // second close must be a no-op

	if got := conn.trySend([]byte("c")); got != sendClosed {
		t.Fatalf("trySend after close = %v, want sendClosed", got)
	}
}

func TestUnregisterTwiceIsNoop(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig(), nil)
	sessionID := uuid.New()
	conn := newIdleConnection(cm, sessionID, 1)

	cm.unregisterConnection(conn)
	cm.unregisterConnection(conn)

	stats := cm.GetConnectionStats()
	if stats.TotalConnections != 0 {
		t.Fatalf("TotalConnections = %d, want 0", stats.TotalConnections)
	}
}

// TestBroadcastDuringDisconnectDoesNotPanic races disconnects against the
// fan-out loop. Broadcasts snapshot the subscriber set before delivering,
// so a connection torn down between the snapshot and the send must be
// skipped rather than crash the broadcast goroutine.
func TestBroadcastDuringDisconnectDoesNotPanic(t *testing.T) {
	const (
		connections = 400
		broadcasts  = 1000
		buffer      = 2048 // > broadcasts, so the full-buffer path never fires
	)

	cm := NewConnectionManager(DefaultConnectionConfig(), nil)
	sessionID := uuid.New()

	conns := make([]*Connection, connections)
	for i := range conns {
		conns[i] = newIdleConnection(cm, sessionID, buffer)
	}

	event, err := NewSessionEvent(sessionID, EventTypeNewResponse, map[string]string{"id": "r1"})
	if err != nil {
		t.Fatalf("NewSessionEvent: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < broadcasts; i++ {
			cm.handleBroadcast(BroadcastMessage{SessionID: sessionID, Event: event})
		}
	}()

	for _, conn := range conns {
		wg.Add(1)
		go func(c *Connection) {
			defer wg.Done()
			cm.unregisterConnection(c)
		}(conn)
	}

	wg.Wait()

	stats := cm.GetConnectionStats()
	if stats.TotalConnections != 0 {
		t.Fatalf("TotalConnections after teardown = %d, want 0", stats.TotalConnections)
	}
}

func TestBroadcastSkipsClosedConnection(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig(), nil)
	sessionID := uuid.New()

	open := newIdleConnection(cm, sessionID, 8)
	gone := newIdleConnection(cm, sessionID, 8)

	// Simulate a pump teardown that lands after a broadcast snapshot:
	// close the channel but leave the connection in the snapshot's hands.
	gone.closeSend()

	event, err := NewSessionEvent(sessionID, EventTypeQuestionActivated, map[string]string{"id": "q1"})
	if err != nil {
		t.Fatalf("NewSessionEvent: %v", err)
	}
	cm.handleBroadcast(BroadcastMessage{SessionID: sessionID, Event: event})

	if got := len(open.Send); got != 1 {
		t.Fatalf("open connection queued %d messages, want 1", got)
	}
	if got := gone.trySend(nil); got != sendClosed {
		t.Fatalf("trySend on closed connection = %v, want sendClosed", got)
	}
}
