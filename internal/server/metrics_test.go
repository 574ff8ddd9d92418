package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/instrumentation"
)

// newMetricsTestProvider builds an instrumentation provider for server
// tests. Enabled providers export to Prometheus with tracing off.
func newMetricsTestProvider(t *testing.T, enabled bool) *instrumentation.Provider {
	t.Helper()

	cfg := instrumentation.Config{
		ServiceName:    "jarvis-test",
		ServiceVersion: "0.0.1",
		Enabled:        enabled,
	}
	if enabled {
		cfg.MetricsExporter = "prometheus"
		cfg.TracingExporter = "none"
	}

	provider, err := instrumentation.NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return provider
}

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name    string
		config  MetricsServerConfig
		wantErr string
	}{
		{
			name: "valid config",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				Enabled:                 true,
				InstrumentationProvider: newMetricsTestProvider(t, true),
			},
		},
		{
			name: "empty addr falls back to default",
			config: MetricsServerConfig{
				Enabled:                 true,
				InstrumentationProvider: newMetricsTestProvider(t, true),
			},
		},
		{
			name: "nil provider",
			config: MetricsServerConfig{
				Addr:    ":9090",
				Enabled: true,
			},
			wantErr: "instrumentation provider is required",
		},
		{
			name: "disabled provider",
			config: MetricsServerConfig{
				Addr:                    ":9090",
				Enabled:                 true,
				InstrumentationProvider: newMetricsTestProvider(t, false),
			},
			wantErr: "instrumentation provider is not enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := NewMetricsServer(tt.config)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("NewMetricsServer() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("NewMetricsServer() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewMetricsServer() error = %v", err)
			}
			if srv == nil {
				t.Fatal("NewMetricsServer() returned nil server")
			}
			if tt.config.Addr == "" && srv.Addr() != DefaultMetricsAddr {
				t.Errorf("Addr() = %q, want %q", srv.Addr(), DefaultMetricsAddr)
			}
		})
	}
}

func TestMetricsServerServesMetrics(t *testing.T) {
	srv, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    "127.0.0.1:0",
		Enabled:                 true,
		InstrumentationProvider: newMetricsTestProvider(t, true),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	ready := make(chan struct{})
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.StartWithReadySignal(ready)
	}()

	select {
	case <-ready:
	case err := <-serveErr:
		t.Fatalf("metrics server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the metrics listener to bind")
	}

	base := "http://" + srv.BoundAddr()

	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if string(body) != "ok" {
		t.Errorf("GET /healthz body = %q, want %q", string(body), "ok")
	}

	resp, err = http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	exposition, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if !strings.Contains(string(exposition), "# HELP") {
		t.Error("GET /metrics returned no Prometheus exposition output")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Serve() returned %v after shutdown", err)
	}
}

func TestMetricsServerShutdownWithoutStart(t *testing.T) {
	srv, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    ":9090",
		Enabled:                 true,
		InstrumentationProvider: newMetricsTestProvider(t, true),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() before Start() error = %v", err)
	}
}

func TestMetricsServerAddr(t *testing.T) {
	srv, err := NewMetricsServer(MetricsServerConfig{
		Addr:                    ":9091",
		Enabled:                 true,
		InstrumentationProvider: newMetricsTestProvider(t, true),
	})
	if err != nil {
		t.Fatalf("NewMetricsServer() error = %v", err)
	}

	if srv.Addr() != ":9091" {
		t.Errorf("Addr() = %q, want %q", srv.Addr(), ":9091")
	}
}
