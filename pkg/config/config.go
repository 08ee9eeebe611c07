package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration for the ax25gwd gateway
// daemon.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Station StationConfig `mapstructure:"station"`
	Matrix  MatrixConfig  `mapstructure:"matrix"`
	Web     WebConfig     `mapstructure:"web"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds gateway identification and its inbound wire-frame
// listener address.
type ServerConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	ListenAddr  string `mapstructure:"listen_addr"` // UDP address wire frames arrive on
}

// StationConfig holds the two AX.25 identities a Codec is built from: the
// local station (normally the ground gateway itself) and the remote peer
// (normally the satellite) it exchanges frames with.
type StationConfig struct {
	LocalCallsign  string `mapstructure:"local_callsign"`
	LocalSSID      int    `mapstructure:"local_ssid"`
	RemoteCallsign string `mapstructure:"remote_callsign"`
	RemoteSSID     int    `mapstructure:"remote_ssid"`
}

// MatrixConfig holds defaults for matrix fragmentation/reassembly.
type MatrixConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`     // information-field payload bytes per fragment
	MaxPending   int `mapstructure:"max_pending"`    // validated positive; not read elsewhere, sessions are not capped
	SessionTTLMs int `mapstructure:"session_ttl_ms"` // idle reassembly session expiry
	MaxRows      int `mapstructure:"max_rows"`       // dimension ceiling for fragment headers accepted by gateway ingest
	MaxCols      int `mapstructure:"max_cols"`       // dimension ceiling for fragment headers accepted by gateway ingest
}

// WebConfig holds the live-monitor dashboard configuration.
type WebConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	AuthRequired bool   `mapstructure:"auth_required"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
}

// StoreConfig holds the persistence layer configuration.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // currently only "sqlite"
	DSN    string `mapstructure:"dsn"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics configuration.
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from file and environment variables.
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/ax25gwd")
	}

	viper.SetEnvPrefix("AX25")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// no config file is fine, defaults apply
		} else if os.IsNotExist(err) {
			// explicitly named file missing is also fine
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.name", "ax25gwd")
	viper.SetDefault("server.description", "AX.25 matrix telemetry gateway")
	viper.SetDefault("server.listen_addr", "0.0.0.0:10001")

	viper.SetDefault("station.local_callsign", "GROUND")
	viper.SetDefault("station.local_ssid", 0)
	viper.SetDefault("station.remote_callsign", "PARSAT")
	viper.SetDefault("station.remote_ssid", 0)

	viper.SetDefault("matrix.chunk_size", 200)
	viper.SetDefault("matrix.max_pending", 16)
	viper.SetDefault("matrix.session_ttl_ms", 30000)
	viper.SetDefault("matrix.max_rows", 1000)
	viper.SetDefault("matrix.max_cols", 1000)

	viper.SetDefault("web.enabled", true)
	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)
	viper.SetDefault("web.auth_required", false)

	viper.SetDefault("store.driver", "sqlite")
	viper.SetDefault("store.dsn", "ax25gwd.db")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.prometheus.enabled", true)
	viper.SetDefault("metrics.prometheus.port", 9090)
	viper.SetDefault("metrics.prometheus.path", "/metrics")
}
