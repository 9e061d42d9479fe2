package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, noEnv)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.Driver.Source != "static" || cfg.Delivery.Backend != "ack" {
		t.Errorf("source=%q backend=%q", cfg.Driver.Source, cfg.Delivery.Backend)
	}
}

func TestParseYAMLFlagsAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deliverydash.yaml")
	data := `
api_base_url: http://api.internal/api
fetch_timeout: 3s
driver:
  profile:
    id: "7"
    name: Carlos Mendoza
    vehicle: Moto Honda 150cc
  poll_interval: 30s
  orders:
    - id: "#12345"
      client: Juan Pérez
      client_phone: "+54 9 11 1234-5678"
      urgent: true
      estimated_time: 15 min
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Parse([]string{"-c", path, "-a", ":9090"}, envMap(map[string]string{
		"API_BASE_URL": "http://override/api",
	}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.RunAddress != ":9090" {
		t.Errorf("RunAddress = %q, want :9090", cfg.RunAddress)
	}
	if cfg.APIBaseURL != "http://override/api" {
		t.Errorf("APIBaseURL = %q, want env override", cfg.APIBaseURL)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("FetchTimeout = %v, want 3s", cfg.FetchTimeout)
	}
	if cfg.Driver.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.Driver.PollInterval)
	}
	if cfg.Driver.Profile.Name != "Carlos Mendoza" {
		t.Errorf("Profile.Name = %q", cfg.Driver.Profile.Name)
	}
	if len(cfg.Driver.Orders) != 1 {
		t.Fatalf("len(Orders) = %d, want 1", len(cfg.Driver.Orders))
	}
	o := cfg.Driver.Orders[0]
	if o.ID != "#12345" || !o.Urgent || o.ClientPhone != "+54 9 11 1234-5678" || o.EstimatedTime != "15 min" {
		t.Errorf("order = %+v", o)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RunAddress != Defaults().RunAddress {
		t.Errorf("RunAddress = %q", cfg.RunAddress)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  map[string]string
	}{
		{"bad timeout", map[string]string{"FETCH_TIMEOUT": "soon"}},
		{"negative timeout", map[string]string{"FETCH_TIMEOUT": "-1s"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(nil, envMap(tc.env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateUnknownBackend(t *testing.T) {
	cfg := Defaults()
	cfg.Delivery.Backend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown delivery backend")
	}
	cfg = Defaults()
	cfg.Driver.Source = "fax"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown order source")
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "deliverydash.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Driver.Orders) != 2 || cfg.Driver.Orders[1].Category != "Documentos" {
		t.Errorf("orders = %+v", cfg.Driver.Orders)
	}
}
