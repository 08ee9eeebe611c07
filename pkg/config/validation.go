package config

import "fmt"

// validate validates the configuration.
func validate(cfg *Config) error {
	if cfg.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}

	if cfg.Station.LocalCallsign == "" {
		return fmt.Errorf("station.local_callsign is required")
	}
	if cfg.Station.RemoteCallsign == "" {
		return fmt.Errorf("station.remote_callsign is required")
	}
	if cfg.Station.LocalSSID < 0 || cfg.Station.LocalSSID > 15 {
		return fmt.Errorf("station.local_ssid must be between 0 and 15")
	}
	if cfg.Station.RemoteSSID < 0 || cfg.Station.RemoteSSID > 15 {
		return fmt.Errorf("station.remote_ssid must be between 0 and 15")
	}

	if cfg.Matrix.ChunkSize < 0 {
		return fmt.Errorf("matrix.chunk_size must not be negative")
	}
	if cfg.Matrix.MaxPending <= 0 {
		return fmt.Errorf("matrix.max_pending must be positive")
	}
	if cfg.Matrix.SessionTTLMs <= 0 {
		return fmt.Errorf("matrix.session_ttl_ms must be positive")
	}
	if cfg.Matrix.MaxRows <= 0 {
		return fmt.Errorf("matrix.max_rows must be positive")
	}
	if cfg.Matrix.MaxCols <= 0 {
		return fmt.Errorf("matrix.max_cols must be positive")
	}

	if cfg.Web.Enabled {
		if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
			return fmt.Errorf("web.port must be between 1 and 65535")
		}
	}

	if cfg.Store.Driver != "sqlite" {
		return fmt.Errorf("store.driver %q is not supported", cfg.Store.Driver)
	}
	if cfg.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port <= 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return fmt.Errorf("metrics.prometheus.port must be between 1 and 65535")
		}
	}

	return nil
}
