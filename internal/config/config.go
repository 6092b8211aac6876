package config

import "time"

type HTTPConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8080"`
}

// DirectoryConfig points at the remote user-directory API the dashboard
// reconciles against.
type DirectoryConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://reqres.in/api"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	// PageSize is what the directory serves per page. The API does not
	// advertise it, so it is configured here and used to re-derive the
	// page count after local-only mutations.
	PageSize int `env:"PAGE_SIZE" envDefault:"8"`
}

type RedisConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type KafkaConfig struct {
	Enabled     bool     `env:"ENABLED" envDefault:"false"`
	Brokers     []string `env:"BROKERS" envSeparator:","`
	ClientID    string   `env:"CLIENT_ID" envDefault:"userdash"`
	TopicPrefix string   `env:"TOPIC_PREFIX"`
}

// ObservabilityConfig Observability / telemetry configuration
type ObservabilityConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"userdash"`
	ServiceEnv  string `env:"SERVICE_ENV" envDefault:"Development"`
	// e.g. "http://otel-collector:4317"
	OtelEndpoint string `env:"ENDPOINT"`
}

type Config struct {
	// Global environment: Development, Staging, Production...
	Environment string `env:"APP_ENV" envDefault:"Development"`

	HTTP          HTTPConfig          `envPrefix:"HTTP_"`
	Directory     DirectoryConfig     `envPrefix:"DIRECTORY_"`
	Redis         RedisConfig         `envPrefix:"REDIS_"`
	Kafka         KafkaConfig         `envPrefix:"KAFKA_"`
	Observability ObservabilityConfig `envPrefix:"OTEL_"`
}
