// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the drweb
// drone rental registry. Commands are organized using the cobra
// library. The root command starts the web server itself while the
// "db" sub-command initializes the database and the "drone" sub-command
// runs the registry use cases directly (as an operator tool).
//
//	./drweb [-c /path/of/config.yaml]           # start web server
//	./drweb db init [-c /path/of/config.yaml]
//	./drweb db init-dev [-c /path/of/config.yaml]
//	./drweb drone add Falcon-9X --as 0xowner...
//	./drweb drone rent 1 --as 0xrenter...
//	./drweb drone return 1 --as 0xrenter...
//	./drweb drone check 1
//	./drweb drone list
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/momeni/drone-rental/pkg/adapter/config"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin/routes"
	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "drweb",
	Short: "A drone rental registry web server",
	Long: `A drone rental registry web server which keeps the fleet of
drones, lets the fleet owner add drones, lets any known identity rent
an available drone and return it later, and lets everyone check the
drones availability. Every change is published as an event which may
be streamed by the REST API clients.
The registry is kept in a PostgreSQL or SQLite database, as configured
in the YAML config file. Settings may be overridden by environment
variables such as DATABASE_URL and DRWEB_OWNER.`,
	RunE:         startWebServer,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, p, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()
	if c.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	e := c.Gin.NewEngine(slog.Default())
	if _, err = routes.Register(ctx, e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	log.Info(ctx, "listening", slog.String("address", c.Gin.Address))
	if err = e.Run(c.Gin.Address); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// setup loads the configuration file, installs the default logger
// (writing to the cmd error stream), and creates the database
// connection pool.
func setup(
	ctx context.Context, cmd *cobra.Command,
) (*config.Config, *gormdb.Pool, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	slog.SetDefault(c.Logger.NewLogger(cmd.ErrOrStderr()))
	log.Debug(
		ctx, "configs are loaded",
		slog.String("path", cfgPath),
		slog.String("driver", c.Database.Driver),
		slog.String("owner", c.Registry.Owner),
		slog.String("return-policy", c.Registry.ReturnPolicy),
		log.Valuer("heartbeat", c.Events.Heartbeat),
	)
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("creating DB pool: %w", err)
	}
	return c, p, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
// The default config file is used only if it exists, otherwise, all
// settings have to be provided by the environment variables.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); found {
		return
	}
	const defaultPath = "configs/sample-config.yaml"
	if _, err := os.Stat(defaultPath); err == nil {
		cfgPath = defaultPath
	}
}
