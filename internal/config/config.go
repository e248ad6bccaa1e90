package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/lazydom/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "lazydom.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 7070

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultFrameInterval is the minimum delay between two preview frames.
	DefaultFrameInterval = "100ms"

	// DefaultWriteTimeout bounds a single websocket write.
	DefaultWriteTimeout = "10s"

	// DefaultSnapshotDir is the default filesystem snapshot directory.
	DefaultSnapshotDir = "snapshots"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "lazydom"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "lazydom"
)

// Config represents the complete lazydom.json configuration.
type Config struct {
	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Preview contains preview server configuration.
	Preview PreviewConfig `json:"preview,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Snapshot contains snapshot storage configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// FrameInterval is the minimum delay between pushed frames (e.g., "100ms").
	FrameInterval string `json:"frameInterval,omitempty"`

	// WriteTimeout bounds one websocket write (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics on the preview server.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled wraps every flush in a span.
	Enabled bool `json:"enabled,omitempty"`

	// TracerName is the name passed to the global tracer provider.
	TracerName string `json:"tracerName,omitempty"`
}

// SnapshotConfig contains snapshot storage settings. A non-empty Bucket
// selects S3; otherwise snapshots are written under Dir.
type SnapshotConfig struct {
	// Dir is the filesystem snapshot directory.
	Dir string `json:"dir,omitempty"`

	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every S3 key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the S3 region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Preview: PreviewConfig{
			Host:          DefaultHost,
			Port:          DefaultPort,
			FrameInterval: DefaultFrameInterval,
			WriteTimeout:  DefaultWriteTimeout,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Snapshot: SnapshotConfig{
			Dir: DefaultSnapshotDir,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for lazydom.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("L041").
				WithDetail("No lazydom.json found in " + filepath.Dir(path)).
				WithSuggestion("Create lazydom.json or run without --config to use defaults")
		}
		return nil, errors.New("L040").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("L040").
			WithDetail("Failed to parse lazydom.json: " + err.Error()).
			WithSuggestion("Check that lazydom.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("L040").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("L040").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.FrameInterval == "" {
		c.Preview.FrameInterval = DefaultFrameInterval
	}
	if c.Preview.WriteTimeout == "" {
		c.Preview.WriteTimeout = DefaultWriteTimeout
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}

	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("L042").Wrap(err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("L042").
			WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("L042").
			WithDetail("Port must be between 0 and 65535")
	}
	for name, v := range map[string]string{
		"preview.frameInterval": c.Preview.FrameInterval,
		"preview.writeTimeout":  c.Preview.WriteTimeout,
	} {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return errors.New("L042").
				WithDetailf("%s must be a duration like 100ms, got %q", name, v)
		}
	}
	if c.Snapshot.Bucket != "" && c.Snapshot.Region == "" {
		return errors.New("L042").
			WithDetail("snapshot.region is required when snapshot.bucket is set")
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

// FrameInterval returns the parsed preview frame interval.
func (c *Config) FrameInterval() time.Duration {
	d, _ := time.ParseDuration(c.Preview.FrameInterval)
	return d
}

// WriteTimeout returns the parsed websocket write timeout.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Preview.WriteTimeout)
	return d
}

// Addr returns the preview listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Preview.Host, c.Preview.Port)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SnapshotDir returns the snapshot directory, resolved against the config
// file's directory when relative.
func (c *Config) SnapshotDir() string {
	return c.resolve(c.Snapshot.Dir)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.configPath == "" {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists reports whether dir contains a lazydom.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
