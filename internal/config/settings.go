package config

import "time"

var (
	ServiceVersion string
	CommitSHA      string
)

const (
	Development = 1 << iota
	Sandbox
	Staging
	Production
)

type (
	ServiceConfig struct {
		App            App            `json:"app"`
		Database       Database       `json:"database"`
		Feed           Feed           `json:"feed"`
		CircuitBreaker CircuitBreaker `json:"circuit_breaker"`
		Logging        Logging        `json:"logging"`
		Telemetry      Telemetry      `json:"telemetry"`
	}

	App struct {
		ServiceName    string      `envconfig:"APP_SERVICE_NAME" default:"cpm-update-worker" json:"service_name"`
		ServiceVersion string      `json:"service_version"`
		CommitSHA      string      `json:"commit_sha,omitempty"`
		Env            Environment `json:"environment"`
	}

	Environment struct {
		Name string `envconfig:"APP_ENVIRONMENT" default:"development" json:"env"`
	}

	Database struct {
		Host            string        `envconfig:"POSTGRES_HOST" default:"postgres" json:"host"`
		Port            uint          `envconfig:"POSTGRES_PORT" default:"5432" json:"port"`
		Database        string        `envconfig:"POSTGRES_DATABASE" default:"cpm_registry" json:"database"`
		Username        string        `envconfig:"POSTGRES_USERNAME" default:"postgres" json:"username"`
		Password        string        `envconfig:"POSTGRES_PASSWORD" default:"" json:"password,omitempty"`
		SSLMode         string        `envconfig:"POSTGRES_SSL_MODE" default:"disable" json:"ssl_mode"`
		MaxConnections  int           `envconfig:"POSTGRES_MAX_CONNECTIONS" default:"25" json:"max_connections"`
		MinConnections  int           `envconfig:"POSTGRES_MIN_CONNECTIONS" default:"5" json:"min_connections"`
		ConnectTimeout  time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		MaxConnLifetime time.Duration `envconfig:"POSTGRES_MAX_CONN_LIFETIME" default:"1h" json:"max_conn_lifetime"`
		MaxConnIdleTime time.Duration `envconfig:"POSTGRES_MAX_CONN_IDLE_TIME" default:"30m" json:"max_conn_idle_time"`
	}

	// Feed configures where the worker reads its NDJSON change records from
	// and how strictly failures are handled.
	Feed struct {
		Path           string `envconfig:"FEED_PATH" default:"-" json:"path"`
		StorageBackend string `envconfig:"STORAGE_BACKEND" default:"postgres" json:"storage_backend"`
		StopOnError    bool   `envconfig:"FEED_STOP_ON_ERROR" default:"false" json:"stop_on_error"`
		SkipDuplicates bool   `envconfig:"FEED_SKIP_DUPLICATES" default:"true" json:"skip_duplicates"`
	}

	// CircuitBreaker guards aggregate persistence against a failing database
	// so a long feed run fails fast instead of timing out on every record.
	CircuitBreaker struct {
		Enabled          bool          `envconfig:"CB_ENABLED" default:"true" json:"enabled"`
		MaxRequests      uint          `envconfig:"CB_MAX_REQUESTS" default:"1" json:"max_requests"`
		Interval         time.Duration `envconfig:"CB_INTERVAL" default:"60s" json:"interval"`
		Timeout          time.Duration `envconfig:"CB_TIMEOUT" default:"30s" json:"timeout"`
		FailureThreshold uint          `envconfig:"CB_FAILURE_THRESHOLD" default:"5" json:"failure_threshold"`
	}

	Logging struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info" json:"level"`
		Format string `envconfig:"LOG_FORMAT" default:"json" json:"format"`
	}

	Telemetry struct {
		Enabled        bool    `envconfig:"OTEL_ENABLED" default:"false" json:"enabled"`
		OTLPEndpoint   string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"" json:"otlp_endpoint"`
		ServiceName    string  `envconfig:"OTEL_SERVICE_NAME" default:"cpm-update-worker" json:"service_name"`
		ServiceVersion string  `envconfig:"OTEL_SERVICE_VERSION" default:"1.0.0" json:"service_version"`
		Metrics        Metrics `json:"metrics"`
		Traces         Traces  `json:"traces"`
	}

	Metrics struct {
		Enabled bool `envconfig:"METRICS_ENABLED" default:"false" json:"enabled"`
	}

	Traces struct {
		Enabled      bool    `envconfig:"TRACES_ENABLED" default:"false" json:"enabled"`
		SamplerRatio float64 `envconfig:"TRACES_SAMPLER_RATIO" default:"1.0" json:"sampler_ratio"`
	}
)

func (c *ServiceConfig) GetEnvironment() int {
	switch c.App.Env.Name {
	case "production", "prod":
		return Production
	case "staging", "stg":
		return Staging
	case "sandbox", "sbx":
		return Sandbox
	default:
		return Development
	}
}

func (c *ServiceConfig) IsProduction() bool {
	return c.GetEnvironment() == Production
}
