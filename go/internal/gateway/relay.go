package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Relay is a secondary, fire-and-forget publisher for session events.
// It exists so a future multi-process deployment can fan events out past
// this process; failures are logged and never reach the write path.
type Relay interface {
	Publish(event *SessionEvent)
}

// NATSRelayConfig holds connection settings for the NATS relay.
type NATSRelayConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSRelayConfig returns default NATS relay configuration.
func DefaultNATSRelayConfig() NATSRelayConfig {
	return NATSRelayConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "session.events",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// NATSRelay publishes every broadcast event to
// <prefix>.<session_id>.<event_type>.
type NATSRelay struct {
	nc     *nats.Conn
	config NATSRelayConfig
}

// NewNATSRelay connects to NATS and returns a relay.
func NewNATSRelay(config NATSRelayConfig) (*NATSRelay, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSRelay{nc: nc, config: config}, nil
}

// Publish sends the event to NATS. Best-effort: errors are logged only.
func (r *NATSRelay) Publish(event *SessionEvent) {
	subject := fmt.Sprintf("%s.%s.%s", r.config.SubjectPrefix, event.SessionID, event.Type)

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("failed to marshal event for relay")
		return
	}

	if err := r.nc.Publish(subject, data); err != nil {
		log.Warn().
			Err(err).
			Str("subject", subject).
			Str("event_type", string(event.Type)).
			Msg("failed to relay event to NATS")
	}
}

// Close drains the NATS connection.
func (r *NATSRelay) Close() {
	if err := r.nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("failed to drain NATS connection")
	}
}
