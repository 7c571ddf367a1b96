// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the drweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// Settings may be overridden by environment variables (e.g., the
// DATABASE_URL and DRWEB_OWNER) after reading the file.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory
// items) and a series of functional options (for the optional items).
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/drone-rental/pkg/adapter/config/settings"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb/dronesrp"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb/schemarp"
	"github.com/momeni/drone-rental/pkg/adapter/db/postgres"
	"github.com/momeni/drone-rental/pkg/adapter/db/sqlite"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin"
	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/repo"
	"github.com/momeni/drone-rental/pkg/core/usecase/dronesuc"
	"github.com/momeni/drone-rental/pkg/core/usecase/migrationuc"
	"gopkg.in/yaml.v3"
)

// Defaults of the optional settings.
const (
	DefaultAddress      = ":8080"
	DefaultSQLiteDSN    = "drweb.db"
	DefaultEventsBuffer = 64
	DefaultHeartbeat    = 15 * time.Second
)

// MinHeartbeat is the shortest accepted events heartbeat interval.
// Shorter intervals are raised to MinHeartbeat.
const MinHeartbeat = settings.Duration(time.Second)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	Database Database // database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Registry Registry // drones use case settings
	Events   Events   // change notifications streaming settings
	Logger   Logger   // structured logging settings
}

// Database contains the database related configuration settings.
type Database struct {
	// Driver is either postgres or sqlite (the default).
	Driver string `yaml:"driver" env:"DRWEB_DB_DRIVER" validate:"omitempty,oneof=postgres sqlite"`
	// URL is a postgres://... connection URL or an SQLite file path
	// (or :memory:) depending on the Driver.
	URL string `yaml:"url" env:"DATABASE_URL"`
	// MaxOpenConns limits the PostgreSQL connections, zero means
	// unlimited. SQLite always uses one connection.
	MaxOpenConns int `yaml:"max-open-conns,omitempty" validate:"gte=0"`
	// ConnMaxLifetime is the maximum lifetime of a connection.
	ConnMaxLifetime *settings.Duration `yaml:"conn-max-lifetime,omitempty"`
}

// Gin contains the REST server settings.
type Gin struct {
	Address  string `yaml:"address" env:"DRWEB_ADDRESS"`
	Logger   *bool  `yaml:"logger"`   // Whether to log each request
	Recovery *bool  `yaml:"recovery"` // Whether to recover from panics
}

// Registry contains the drones use case settings.
type Registry struct {
	// Owner is the fleet owner identity which may add drones.
	Owner string `yaml:"owner" env:"DRWEB_OWNER" validate:"required"`
	// ReturnPolicy is holder (default) or anyone.
	ReturnPolicy string `yaml:"return-policy,omitempty" env:"DRWEB_RETURN_POLICY" validate:"omitempty,oneof=holder anyone"`
}

// Events contains the change notifications streaming settings.
type Events struct {
	// Buffer is the number of events which may be queued for each
	// subscriber before it is dropped as a slow subscriber.
	Buffer *int `yaml:"buffer,omitempty"`
	// Heartbeat is the interval of keep-alive comments on idle
	// event streams.
	Heartbeat *settings.Duration `yaml:"heartbeat,omitempty"`
}

// Logger contains the slog settings.
type Logger struct {
	Level  string `yaml:"level,omitempty" env:"DRWEB_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format,omitempty" env:"DRWEB_LOG_FORMAT" validate:"omitempty,oneof=text json"`
}

// Load reads the path configuration file and returns its settings
// after applying the environment variables overrides. An empty path
// means that all settings are taken from the environment variables.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice as a YAML document, overrides
// its settings by the environment variables, and validates and
// normalizes the result. Unknown YAML keys are rejected, so typos do
// not go unnoticed.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It also normalizes
// settings and replaces missing optional values with their defaults.
func (c *Config) ValidateAndNormalize() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Database.Driver == "" {
		c.Database.Driver = sqlite.Driver
	}
	if c.Database.URL == "" {
		if c.Database.Driver != sqlite.Driver {
			return errors.New("database url is required for postgres")
		}
		c.Database.URL = DefaultSQLiteDSN
	}
	if c.Gin.Address == "" {
		c.Gin.Address = DefaultAddress
	}
	settings.Default(&c.Gin.Logger, true)
	settings.Default(&c.Gin.Recovery, true)

	owner, err := model.ParseIdentity(c.Registry.Owner)
	if err != nil {
		return fmt.Errorf("parsing registry owner: %w", err)
	}
	c.Registry.Owner = owner.String()
	if c.Registry.ReturnPolicy == "" {
		c.Registry.ReturnPolicy = dronesuc.ReturnByHolder.String()
	}

	settings.Default(&c.Events.Buffer, DefaultEventsBuffer)
	minBuffer, maxBuffer := 1, 4096
	if err := settings.VerifyRange(
		&c.Events.Buffer, &minBuffer, &maxBuffer,
	); err != nil {
		return fmt.Errorf(
			"VerifyRange(events buffer=%d, minb=%d, maxb=%d): %w",
			*err.Value, minBuffer, maxBuffer, err,
		)
	}
	settings.Default(&c.Events.Heartbeat, settings.Duration(DefaultHeartbeat))
	minHB := MinHeartbeat
	if err := settings.VerifyRange(&c.Events.Heartbeat, &minHB, nil); err != nil {
		log.Warn(
			context.Background(),
			"events heartbeat is adjusted by boundary values",
			log.Valuer("value", err.Value),
			log.Valuer("minb", &minHB),
			log.Err("violation", err),
		)
	}

	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "text"
	}
	return nil
}

// Marshal serializes c as a YAML document.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(ctx context.Context) (*gormdb.Pool, error) {
	d := c.Database
	switch d.Driver {
	case postgres.Driver:
		opts := gormdb.Options{MaxOpenConns: d.MaxOpenConns}
		if d.ConnMaxLifetime != nil {
			opts.ConnMaxLifetime = time.Duration(*d.ConnMaxLifetime)
		}
		return postgres.NewPool(ctx, d.URL, opts)
	case sqlite.Driver:
		return sqlite.NewPool(ctx, d.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", d.Driver)
	}
}

// NewDronesRepo instantiates the drones repository.
func (c *Config) NewDronesRepo() repo.Drones {
	return dronesrp.New()
}

// NewInitDBUseCase instantiates the database initialization use case
// which operates on the p connection pool.
func (c *Config) NewInitDBUseCase(p repo.Pool) *migrationuc.InitDBUseCase {
	return migrationuc.NewInitDB(p, schemarp.New(), c.NewDronesRepo())
}

// NewDronesUseCase instantiates a new drones use case based on the
// settings in the c struct. Each one of the pubs publishers receives
// the change notifications.
func (c *Config) NewDronesUseCase(
	p repo.Pool, pubs ...dronesuc.Publisher,
) (*dronesuc.UseCase, error) {
	rp, err := dronesuc.ParseReturnPolicy(c.Registry.ReturnPolicy)
	if err != nil {
		return nil, fmt.Errorf("parsing return policy: %w", err)
	}
	opts := make([]dronesuc.Option, 0, len(pubs)+1)
	opts = append(opts, dronesuc.WithReturnPolicy(rp))
	for _, pub := range pubs {
		opts = append(opts, dronesuc.WithPublisher(pub))
	}
	owner := model.Identity(c.Registry.Owner)
	return dronesuc.New(p, c.NewDronesRepo(), owner, opts...)
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. Requests are logged using l.
func (g Gin) NewEngine(l *slog.Logger) *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger(l))
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// NewLogger creates a slog.Logger which writes to w with the
// configured format and level.
func (l Logger) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{AddSource: level == slog.LevelDebug, Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
