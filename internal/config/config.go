package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Recibo"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Backend struct {
		BaseURL string        `envconfig:"BACKEND_URL" default:"http://localhost:8080"`
		Model   string        `envconfig:"AI_MODEL" default:"claude"`
		Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"90s"`
	}

	Suggest struct {
		// Automatic suggestions after a full analysis are staggered by
		// StaggerBase*(row+1), capped at StaggerMax.
		StaggerBase time.Duration `envconfig:"SUGGEST_STAGGER_BASE" default:"100ms"`
		StaggerMax  time.Duration `envconfig:"SUGGEST_STAGGER_MAX" default:"2s"`
	}

	AutoLink bool `envconfig:"AUTO_LINK" default:"false"`
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
