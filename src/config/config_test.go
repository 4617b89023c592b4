package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"price-quoter/src/helpers"
	"price-quoter/src/models"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const validYAML = `
name: price-quoter
host: 127.0.0.1
port: 8090
socket:
  url: wss://ws.example.com/websockets/v3
storage:
  db_type: sqlite
  db_path: quotes.db
trading:
  form: risefall
  forms:
    risefall:
      CALL: Rise
      PUT: Fall
form:
  - id: amount
    value: "10"
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.TooltipMinWidth != DefaultTooltipMinWidth {
		t.Errorf("tooltip min width = %d, want %d", cfg.UI.TooltipMinWidth, DefaultTooltipMinWidth)
	}
	if cfg.Socket.PingIntervalSeconds != DefaultPingInterval {
		t.Errorf("ping interval = %d, want %d", cfg.Socket.PingIntervalSeconds, DefaultPingInterval)
	}
	if len(cfg.UI.Slots) != 3 {
		t.Errorf("slots = %v, want 3 defaults", cfg.UI.Slots)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("log level = %q, want INFO", cfg.LogLevel)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	bad := `
name: ""
host: ""
port: 80
socket:
  url: http://not-a-socket
storage:
  db_type: sqlite
trading:
  form: digits
  forms:
    risefall:
      CALL: Rise
`
	_, err := Parse([]byte(bad))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ce *helpers.ConfigurationError
	if !errors.As(err, &ce) {
		t.Errorf("error %T is not a ConfigurationError", err)
	}

	var m models.MConfig
	if err := yaml.Unmarshal([]byte(bad), &m); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	parsed := &Config{MConfig: &m}
	parsed.applyDefaults()
	errs := multierr.Errors(parsed.Validate())
	if len(errs) < 5 {
		t.Errorf("expected at least 5 aggregated errors, got %d: %v", len(errs), errs)
	}
	for _, want := range []string{"application name", "server host", "port", "socket url", "database path", "digits"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
}

func TestValidateDuplicateField(t *testing.T) {
	dup := validYAML + `  - id: amount
    value: "20"
`
	_, err := Parse([]byte(dup))
	if err == nil || !strings.Contains(err.Error(), "declared twice") {
		t.Fatalf("expected duplicate field error, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg.Trading.Defaults = map[string]string{"expiry_time": "16:00:00"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := NewConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Trading.Defaults["expiry_time"] != "16:00:00" {
		t.Errorf("defaults not persisted: %v", loaded.Trading.Defaults)
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	var ce *helpers.ConfigurationError
	if !errors.As(err, &ce) {
		t.Errorf("error %T is not a ConfigurationError", err)
	}
}
