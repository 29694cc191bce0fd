package config

import (
	"fmt"
	"time"

	"github.com/fanlift/webhook-service/internal/domain/entity"
)

type ServiceConfig struct {
	Name        string       `yaml:"name"`
	Environment string       `yaml:"environment"`
	Version     string       `yaml:"version"`
	ClientURL   string       `yaml:"client_url"`
	JWTSecret   string       `yaml:"jwt_secret" validate:"required"`
	Redis       RedisConfig  `yaml:"redis"`
	Retry       RetryConfig  `yaml:"retry"`
	Sweep       SweepConfig  `yaml:"sweep"`
	Worker      WorkerConfig `yaml:"worker"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	QueueKey string `yaml:"queue_key"`
}

// RetryConfig is the static backoff configuration: an ordered delay schedule
// and the attempt bound after which events are dead-lettered.
type RetryConfig struct {
	MaxRetries int      `yaml:"max_retries" validate:"required,min=1"`
	Delays     []string `yaml:"delays" validate:"required,min=1,dive,required"`
}

// Policy parses the configured delay schedule into a retry policy
func (c *RetryConfig) Policy() (entity.RetryPolicy, error) {
	delays := make([]time.Duration, 0, len(c.Delays))
	for _, raw := range c.Delays {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return entity.RetryPolicy{}, fmt.Errorf("invalid retry delay %q: %w", raw, err)
		}
		delays = append(delays, d)
	}
	return entity.NewRetryPolicy(delays), nil
}

type SweepConfig struct {
	Interval          string `yaml:"interval"`
	ScanWindow        int    `yaml:"scan_window"`
	BatchSize         int    `yaml:"batch_size"`
	ProcessingTimeout string `yaml:"processing_timeout"`
}

// IntervalDuration returns the sweep period, defaulting to one minute
func (c *SweepConfig) IntervalDuration() (time.Duration, error) {
	if c.Interval == "" {
		return time.Minute, nil
	}
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid sweep interval %q: %w", c.Interval, err)
	}
	return d, nil
}

// ProcessingTimeoutDuration returns the stuck-processing reclaim threshold;
// zero disables reclaiming
func (c *SweepConfig) ProcessingTimeoutDuration() (time.Duration, error) {
	if c.ProcessingTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ProcessingTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid processing timeout %q: %w", c.ProcessingTimeout, err)
	}
	return d, nil
}

type WorkerConfig struct {
	Concurrency int `yaml:"concurrency"`
}
