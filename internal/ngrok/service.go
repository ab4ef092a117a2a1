// Package ngrok exposes the player through an ngrok endpoint when enabled.
package ngrok

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cadence/internal/config"

	"github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok/v2"
)

// ErrMissingToken is returned when the tunnel is enabled without a token.
var ErrMissingToken = errors.New("ngrok auth token not found, set NGROK_AUTHTOKEN or ngrok.auth_token")

// Service owns the agent and the forwarding endpoint.
type Service struct {
	config *config.NgrokConfig
	logger *logrus.Logger
	agent  ngrok.Agent

	mutex  sync.Mutex
	tunnel ngrok.EndpointForwarder
}

// NewService creates the tunnel service. It returns a nil service when the
// tunnel is disabled; every method is safe on a nil receiver.
func NewService(cfg *config.NgrokConfig, logger *logrus.Logger) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if cfg.AuthToken == "" {
		return nil, ErrMissingToken
	}

	agent, err := ngrok.NewAgent(ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		return nil, fmt.Errorf("failed to create ngrok agent: %w", err)
	}

	return &Service{
		config: cfg,
		logger: logger,
		agent:  agent,
	}, nil
}

// TrafficPolicy returns the policy that puts OAuth in front of the endpoint.
func TrafficPolicy(provider string) string {
	return fmt.Sprintf(`
on_http_request:
  - actions:
      - type: oauth
        config:
          provider: %s
`, provider)
}

// endpointOptions builds the options for the configured domain and auth.
func (s *Service) endpointOptions() []ngrok.EndpointOption {
	var opts []ngrok.EndpointOption
	if s.config.Domain != "" {
		opts = append(opts, ngrok.WithURL(s.config.Domain))
	}
	if s.config.EnableAuth {
		opts = append(opts, ngrok.WithTrafficPolicy(TrafficPolicy(s.config.AuthProvider)))
	}
	return opts
}

// StartTunnel forwards the public endpoint to localAddress.
func (s *Service) StartTunnel(ctx context.Context, localAddress string) error {
	if s == nil {
		return nil
	}

	s.logger.WithField("upstream", localAddress).Info("Starting ngrok tunnel")

	tunnel, err := s.agent.Forward(ctx, ngrok.WithUpstream(localAddress), s.endpointOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create ngrok tunnel: %w", err)
	}

	s.mutex.Lock()
	s.tunnel = tunnel
	s.mutex.Unlock()

	entry := s.logger.WithFields(logrus.Fields{
		"public_url": tunnel.URL().String(),
		"upstream":   localAddress,
	})
	if s.config.EnableAuth {
		entry = entry.WithField("oauth_provider", s.config.AuthProvider)
	}
	entry.Info("Ngrok tunnel active")
	return nil
}

// PublicURL returns the endpoint URL, or "" when no tunnel is running.
func (s *Service) PublicURL() string {
	if s == nil {
		return ""
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.tunnel == nil {
		return ""
	}
	return s.tunnel.URL().String()
}

// Stop closes the tunnel.
func (s *Service) Stop() error {
	if s == nil {
		return nil
	}
	s.mutex.Lock()
	tunnel := s.tunnel
	s.tunnel = nil
	s.mutex.Unlock()

	if tunnel == nil {
		return nil
	}
	s.logger.Info("Stopping ngrok tunnel")
	return tunnel.Close()
}
