// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gormdb implements the repo.Pool, repo.Conn, and repo.Tx
// interfaces over the GORM framework. It does not depend on a specific
// DBMS, so the postgres and sqlite packages only open a gorm.Dialector
// and pass it to the Open function of this package. Repositories (such
// as dronesrp) type-assert the repo.Conn and repo.Tx instances to the
// *Conn and *Tx types of this package in order to access GORM.
package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/drone-rental/pkg/core/repo"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool.
type Pool struct {
	*gorm.DB
}

// Options configures the sql.DB which is managed by a Pool.
// Zero values keep the database/sql defaults.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open creates a Pool for the d dialector, configures its connections
// based on opts, and tests it by acquiring a connection once.
func Open(ctx context.Context, d gorm.Dialector, opts Options) (*Pool, error) {
	gdb, err := gorm.Open(d, &gorm.Config{
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			// Set to false in order to log with replaced vars
			ParameterizedQueries: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	db, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("fetching sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

// NoOpConnHandler is a ConnHandler which ignores its connection.
// It can be used in order to test that a connection may be acquired.
func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a connection from the pool and passes it to the f
// handler. The connection is released after f returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

// Close closes all connections of the pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
