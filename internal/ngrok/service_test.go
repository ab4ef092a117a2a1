package ngrok

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cadence/internal/config"

	"github.com/sirupsen/logrus"
)

func TestNewServiceDisabled(t *testing.T) {
	logger := logrus.New()

	svc, err := NewService(&config.NgrokConfig{Enabled: false}, logger)
	if err != nil || svc != nil {
		t.Fatalf("Expected nil service for disabled tunnel, got %v (err=%v)", svc, err)
	}

	if err := svc.StartTunnel(context.Background(), "http://localhost:8080"); err != nil {
		t.Errorf("StartTunnel() on nil service error = %v", err)
	}
	if url := svc.PublicURL(); url != "" {
		t.Errorf("Expected empty public URL, got %q", url)
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("Stop() on nil service error = %v", err)
	}
}

func TestNewServiceMissingToken(t *testing.T) {
	_, err := NewService(&config.NgrokConfig{Enabled: true}, logrus.New())
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("Expected ErrMissingToken, got %v", err)
	}
}

func TestTrafficPolicy(t *testing.T) {
	policy := TrafficPolicy("github")
	for _, want := range []string{"on_http_request:", "type: oauth", "provider: github"} {
		if !strings.Contains(policy, want) {
			t.Errorf("Expected %q in policy:\n%s", want, policy)
		}
	}
}

func TestEndpointOptions(t *testing.T) {
	s := &Service{config: &config.NgrokConfig{}}
	if got := len(s.endpointOptions()); got != 0 {
		t.Errorf("Expected no options, got %d", got)
	}

	s.config.Domain = "cadence.ngrok.app"
	s.config.EnableAuth = true
	if got := len(s.endpointOptions()); got != 2 {
		t.Errorf("Expected domain and policy options, got %d", got)
	}
}
