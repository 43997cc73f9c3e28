package gateway

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service composes the connection manager, the WebSocket handler, and the
// state handler into the session gateway. It is constructed once at
// process start and injected into the coordinators; nothing reaches it
// through a global registry.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	relay             *NATSRelay
}

// Config holds configuration for the session gateway service.
type Config struct {
	ConnectionConfig ConnectionConfig

	// NATSURL enables the relay when non-empty.
	NATSURL       string
	SubjectPrefix string
}

// DefaultConfig returns default configuration for the session gateway.
// The relay stays disabled until a NATS URL is configured.
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		SubjectPrefix:    "session.events",
	}
}

// NewService creates a new session gateway service.
func NewService(config Config, stateProvider StateProvider) (*Service, error) {
	var relay *NATSRelay
	if config.NATSURL != "" {
		relayConfig := DefaultNATSRelayConfig()
		relayConfig.URL = config.NATSURL
		if config.SubjectPrefix != "" {
			relayConfig.SubjectPrefix = config.SubjectPrefix
		}
		var err error
		relay, err = NewNATSRelay(relayConfig)
		if err != nil {
			return nil, err
		}
	}

	connectionManager := NewConnectionManager(config.ConnectionConfig, relayOrNil(relay))
	wsHandler := NewWebSocketHandler(connectionManager)
	stateHandler := NewStateHandler(stateProvider)

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         wsHandler,
		stateHandler:      stateHandler,
		relay:             relay,
	}, nil
}

// relayOrNil avoids storing a typed nil in the Relay interface field.
func relayOrNil(relay *NATSRelay) Relay {
	if relay == nil {
		return nil
	}
	return relay
}

// Start runs the gateway until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting session gateway")

	go s.connectionManager.Start(ctx)

	<-ctx.Done()

	log.Info().Msg("session gateway shutting down")
	if s.relay != nil {
		s.relay.Close()
	}
	return nil
}

// RegisterRoutes registers the WebSocket and state HTTP routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	log.Info().Msg("session gateway routes registered")
}

// BroadcastToSession delivers an event to every endpoint joined to the
// session. Exposed for the coordinators.
func (s *Service) BroadcastToSession(sessionID uuid.UUID, event *SessionEvent) {
	s.connectionManager.BroadcastToSession(sessionID, event)
}

// Stats returns the current connection statistics.
func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
