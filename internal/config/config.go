package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio de roadmaps.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8000"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	LLMAPIKey       string        `env:"LLM_API_KEY,required"`
	LLMBaseURL      string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel        string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	RoadmapCacheTTL time.Duration `env:"ROADMAP_CACHE_TTL" envDefault:"24h"`
	WikipediaAPIURL string        `env:"WIKIPEDIA_API_URL" envDefault:"https://en.wikipedia.org/w/api.php"`
	WikipediaDelay  time.Duration `env:"WIKIPEDIA_DELAY" envDefault:"100ms"`
	SourcesEnabled  bool          `env:"SOURCES_ENABLED" envDefault:"true"`
	SourcesTimeout  time.Duration `env:"SOURCES_TIMEOUT" envDefault:"20s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
}

// ClientConfig agrupa lo que necesita el cliente de terminal que envía metas.
type ClientConfig struct {
	APIURL           string        `env:"ROADMAP_API_URL" envDefault:"http://localhost:8000"`
	UserID           string        `env:"ROADMAP_USER_ID" envDefault:"user123"`
	Timeout          time.Duration `env:"ROADMAP_TIMEOUT" envDefault:"120s"`
	BootstrapEnabled bool          `env:"BOOTSTRAP_ENABLED" envDefault:"true"`
	BootstrapGoal    string        `env:"BOOTSTRAP_GOAL" envDefault:"Learn Python"`
	BootstrapMode    string        `env:"BOOTSTRAP_MODE" envDefault:"endpoint"`
	ResponseMode     string        `env:"RESPONSE_MODE" envDefault:"json"`
	Supersede        bool          `env:"SUPERSEDE" envDefault:"true"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig carga la configuración del API desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClientConfig carga la configuración del cliente desde variables de entorno.
func LoadClientConfig() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
