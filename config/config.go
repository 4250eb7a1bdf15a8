// Package config loads the runtime configuration from YAML.
//
// Example:
//
//	poolSize: 8
//	throughput: 32
//	inboxKind: dispatch
//	inboxCapacity: 1024
//	duplicates: reject
//	unregistered: tolerate
//	shutdownTimeout: 5s
//	initMaxRetries: 5
//	initTimeout: 1s
//	metrics: true
//	logLevel: info
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/internal/validation"
	"github.com/tochemey/abs/log"
)

// InboxKind selects how envelopes are scheduled
type InboxKind string

const (
	// DispatchInbox serializes envelopes per target
	DispatchInbox InboxKind = "dispatch"
	// AsyncInbox submits every envelope straight to the worker pool
	AsyncInbox InboxKind = "async"
)

// DuplicatePolicy decides what registering an existing reference does
type DuplicatePolicy string

const (
	// RejectDuplicates fails the registration
	RejectDuplicates DuplicatePolicy = "reject"
	// OverwriteDuplicates replaces the registered target
	OverwriteDuplicates DuplicatePolicy = "overwrite"
)

// UnregisteredPolicy decides what routing to an unregistered reference does
type UnregisteredPolicy string

const (
	// TolerateUnregistered routes the envelope anyway
	TolerateUnregistered UnregisteredPolicy = "tolerate"
	// RejectUnregistered fails the envelope with a routing failure
	RejectUnregistered UnregisteredPolicy = "reject"
)

const (
	// DefaultThroughput is the number of envelopes an inbox processes before yielding its worker
	DefaultThroughput = 32
	// DefaultShutdownTimeout is how long Stop drains pending envelopes
	DefaultShutdownTimeout = 5 * time.Second
	// DefaultInitMaxRetries is the number of PreStart attempts
	DefaultInitMaxRetries = 5
	// DefaultInitTimeout bounds the PreStart attempts
	DefaultInitTimeout = time.Second
)

// Config is the runtime configuration
type Config struct {
	// PoolSize is the number of workers. Zero means the number of CPUs.
	PoolSize int `yaml:"poolSize"`
	// Throughput is the number of envelopes an inbox processes before yielding its worker
	Throughput int `yaml:"throughput"`
	// InboxKind is either dispatch or async
	InboxKind InboxKind `yaml:"inboxKind"`
	// InboxCapacity bounds each per-target inbox. Zero means unbounded.
	InboxCapacity int `yaml:"inboxCapacity"`
	// Duplicates is the duplicate registration policy
	Duplicates DuplicatePolicy `yaml:"duplicates"`
	// Unregistered is the unregistered receiver policy
	Unregistered UnregisteredPolicy `yaml:"unregistered"`
	// ShutdownTimeout bounds the graceful drain. Zero stops immediately.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	// InitMaxRetries is the number of PreStart attempts
	InitMaxRetries int `yaml:"initMaxRetries"`
	// InitTimeout bounds the PreStart attempts
	InitTimeout time.Duration `yaml:"initTimeout"`
	// Metrics enables the OpenTelemetry instruments
	Metrics bool `yaml:"metrics"`
	// LogLevel is the name of the log level
	LogLevel string `yaml:"logLevel"`
}

var _ validation.Validator = (*Config)(nil)

// Default returns the default configuration
func Default() *Config {
	return &Config{
		PoolSize:        0,
		Throughput:      DefaultThroughput,
		InboxKind:       DispatchInbox,
		InboxCapacity:   0,
		Duplicates:      RejectDuplicates,
		Unregistered:    TolerateUnregistered,
		ShutdownTimeout: DefaultShutdownTimeout,
		InitMaxRetries:  DefaultInitMaxRetries,
		InitTimeout:     DefaultInitTimeout,
		Metrics:         false,
		LogLevel:        log.InfoLevel.String(),
	}
}

// Parse decodes YAML data over the default configuration and validates the result.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads and parses the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}
	return Parse(data)
}

// Level returns the parsed log level
func (c *Config) Level() log.Level {
	return log.ParseLevel(c.LogLevel)
}

// Validate checks every field and reports all violations
func (c *Config) Validate() error {
	err := validation.New(validation.AllErrors()).
		AddAssertion(c.PoolSize >= 0, "poolSize must not be negative").
		AddAssertion(c.Throughput > 0, "throughput must be positive").
		AddAssertion(c.InboxKind == DispatchInbox || c.InboxKind == AsyncInbox, "inboxKind must be dispatch or async").
		AddAssertion(c.InboxCapacity >= 0, "inboxCapacity must not be negative").
		AddAssertion(c.Duplicates == RejectDuplicates || c.Duplicates == OverwriteDuplicates, "duplicates must be reject or overwrite").
		AddAssertion(c.Unregistered == TolerateUnregistered || c.Unregistered == RejectUnregistered, "unregistered must be tolerate or reject").
		AddAssertion(c.ShutdownTimeout >= 0, "shutdownTimeout must not be negative").
		AddAssertion(c.InitMaxRetries > 0, "initMaxRetries must be positive").
		AddAssertion(c.InitTimeout > 0, "initTimeout must be positive").
		AddAssertion(c.Level() != log.InvalidLevel, "logLevel is unknown").
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	return nil
}
