package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/asynctime/errors"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected service name propagated to logging, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "name: is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "environment: must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: test-service
environment: staging
timing:
  sleep: 250ms
  interval: 2s
`)

	var cfg Config
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvPrefix("ASYNCTIME_TEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "test-service" || cfg.Environment != "staging" {
		t.Errorf("service config = %+v", cfg.ServiceConfig)
	}
	if cfg.Timing.Sleep != 250*time.Millisecond {
		t.Errorf("timing.sleep = %v, want 250ms", cfg.Timing.Sleep)
	}
	if cfg.Timing.Interval != 2*time.Second {
		t.Errorf("timing.interval = %v, want 2s", cfg.Timing.Interval)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: test-service
timing:
  sleep: 250ms
`)
	t.Setenv("ASYNCTIME_TEST_TIMING_SLEEP", "1s")
	t.Setenv("ASYNCTIME_TEST_TELEMETRY_METRICS", "true")
	t.Setenv("TIMING_SLEEP", "9s")

	var cfg Config
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvPrefix("ASYNCTIME_TEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Timing.Sleep != time.Second {
		t.Errorf("timing.sleep = %v, want env override 1s", cfg.Timing.Sleep)
	}
	if !cfg.Telemetry.Metrics {
		t.Error("telemetry.metrics not overridden from env")
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yml", "name: test-service\n")
	envPath := writeFile(t, dir, ".env", "ASYNCTIME_ENVFILE_TIMING_TICKS=7\n")
	t.Cleanup(func() { os.Unsetenv("ASYNCTIME_ENVFILE_TIMING_TICKS") })

	var cfg Config
	err := LoadConfig("test-service", &cfg,
		WithConfigFile(cfgPath), WithEnvFile(envPath), WithEnvPrefix("ASYNCTIME_ENVFILE"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Timing.Ticks != 7 {
		t.Errorf("timing.ticks = %d, want 7 from .env", cfg.Timing.Ticks)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg Config
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("ASYNCTIME_NONE"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigBrokenYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "timing: [unterminated\n")
	var cfg Config
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
environment: production
timing:
  work: 10ms
  timeout: 40ms
`)

	cfg, err := Load(WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != ServiceName {
		t.Errorf("name = %q, want default %q", cfg.Name, ServiceName)
	}
	if cfg.Timing.Work != 10*time.Millisecond || cfg.Timing.Timeout != 40*time.Millisecond {
		t.Errorf("timing = %+v", cfg.Timing)
	}
	if cfg.Timing.Ticks != 3 || cfg.Timing.Interval != 50*time.Millisecond {
		t.Errorf("timing defaults not applied: %+v", cfg.Timing)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "negative sleep", mutate: func(c *Config) { c.Timing.Sleep = -time.Second }, errMsg: "timing.sleep"},
		{name: "zero ticks", mutate: func(c *Config) { c.Timing.Ticks = 0 }, errMsg: "timing.ticks"},
		{name: "work not shorter than timeout", mutate: func(c *Config) { c.Timing.Work = c.Timing.Timeout }, errMsg: "timing.work: must be shorter than timing.timeout"},
		{name: "bad endpoint", mutate: func(c *Config) { c.Telemetry.Endpoint = "http://collector" }, errMsg: "telemetry.endpoint"},
		{name: "sample rate above one", mutate: func(c *Config) { c.Telemetry.SampleRate = 2 }, errMsg: "telemetry.sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want it to mention %q", err, tt.errMsg)
			}
		})
	}
}

func TestConfigValidate_ExportingNeedsEndpoint(t *testing.T) {
	tests := []struct {
		name             string
		metrics, tracing bool
		wantMissing      bool
	}{
		{name: "metrics", metrics: true, wantMissing: true},
		{name: "tracing", tracing: true, wantMissing: true},
		{name: "not exporting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.ApplyDefaults()
			c.Telemetry.Metrics = tt.metrics
			c.Telemetry.Tracing = tt.tracing
			c.Telemetry.Endpoint = ""

			err := c.Validate()
			if got := errors.IsCode(err, errors.ErrCodeMissingField); got != tt.wantMissing {
				t.Errorf("missing field = %v (err %v), want %v", got, err, tt.wantMissing)
			}
			if tt.wantMissing && !strings.Contains(err.Error(), "telemetry.endpoint") {
				t.Errorf("error %q does not name the field", err)
			}
		})
	}
}

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]bool
		wantCfg   string
		wantEnv   string
		serviceNm string
	}{
		{
			name:      "cmd directory",
			files:     map[string]bool{"./cmd/asynctime/config.yml": true, "./cmd/asynctime/.env": true},
			serviceNm: "asynctime",
			wantCfg:   "./cmd/asynctime/config.yml",
			wantEnv:   "./cmd/asynctime/.env",
		},
		{
			name:      "short name fallback",
			files:     map[string]bool{"./cmd/demo/config.yml": true},
			serviceNm: "asynctime-demo",
			wantCfg:   "./cmd/demo/config.yml",
		},
		{
			name:      "nothing found",
			files:     map[string]bool{},
			serviceNm: "asynctime",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &Resolver{FileSystem: &mockFS{files: tt.files}}
			files := resolver.ResolveFiles(tt.serviceNm, LoaderConfig{})
			if files.ConfigFile != tt.wantCfg {
				t.Errorf("config file = %q, want %q", files.ConfigFile, tt.wantCfg)
			}
			if files.EnvFile != tt.wantEnv {
				t.Errorf("env file = %q, want %q", files.EnvFile, tt.wantEnv)
			}
		})
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("TIMING_SLEEP")
	want := map[string]bool{"timing_sleep": true, "timing.sleep": true}
	for _, v := range got {
		delete(want, v)
	}
	if len(want) != 0 {
		t.Errorf("missing variants %v in %v", want, got)
	}

	got = generateEnvKeyVariants("TELEMETRY_EXPORT_INTERVAL")
	found := false
	for _, v := range got {
		if v == "telemetry.export_interval" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected telemetry.export_interval among %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("APP")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "APP" {
		t.Errorf("options not applied: %+v", lc)
	}
}
