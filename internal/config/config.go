package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/iffykid/Valentines2026/internal/session"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR"`

	// QuizConfig is a file path or an http(s) URL.
	QuizConfig        string        `env:"QUIZ_CONFIG" envDefault:"config.json"`
	QuizConfigTimeout time.Duration `env:"QUIZ_CONFIG_TIMEOUT" envDefault:"5s"`
	MessagingBaseURL  string        `env:"MESSAGING_BASE_URL" envDefault:"https://wa.me"`

	AnswerDelay   time.Duration `env:"ANSWER_DELAY" envDefault:"500ms"`
	GateShake     time.Duration `env:"GATE_SHAKE" envDefault:"500ms"`
	OptionShake   time.Duration `env:"OPTION_SHAKE" envDefault:"400ms"`
	RevealDelay   time.Duration `env:"REVEAL_DELAY" envDefault:"1s"`
	ToastDuration time.Duration `env:"TOAST_DURATION" envDefault:"3s"`

	FrameInterval      time.Duration `env:"FRAME_INTERVAL" envDefault:"16ms"`
	ParticleCount      int           `env:"PARTICLE_COUNT" envDefault:"100"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	for name, d := range map[string]time.Duration{
		"ANSWER_DELAY":         c.AnswerDelay,
		"GATE_SHAKE":           c.GateShake,
		"OPTION_SHAKE":         c.OptionShake,
		"REVEAL_DELAY":         c.RevealDelay,
		"TOAST_DURATION":       c.ToastDuration,
		"FRAME_INTERVAL":       c.FrameInterval,
		"SESSION_IDLE_TIMEOUT": c.SessionIdleTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.ParticleCount <= 0 {
		return fmt.Errorf("PARTICLE_COUNT must be positive, got %d", c.ParticleCount)
	}
	return nil
}

// SessionOptions maps the timing and animation settings onto a session.
func (c Config) SessionOptions(logger *slog.Logger) session.Options {
	return session.Options{
		Timings: session.Timings{
			AnswerDelay:   c.AnswerDelay,
			GateShake:     c.GateShake,
			OptionShake:   c.OptionShake,
			RevealDelay:   c.RevealDelay,
			ToastDuration: c.ToastDuration,
		},
		MessagingBaseURL: c.MessagingBaseURL,
		ParticleCount:    c.ParticleCount,
		Logger:           logger,
	}
}
