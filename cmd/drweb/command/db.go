// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation in a production environment, init creates
the registry tables. In a development environment, init-dev recreates
them with a few sample drones.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the registry tables",
	Long: `Create the registry tables (if they do not exist) with no
drones, so the fleet owner may add them later. Existing drones are kept
intact, so running it again is harmless.`,
	RunE: initProd,
	Args: cobra.NoArgs,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Recreate the registry tables with sample drones",
	Long: `Drop the registry tables (if they exist) and create them
again with a few development suitable drones. All existing drones and
rentals are lost.`,
	RunE: initDev,
	Args: cobra.NoArgs,
}

func initProd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, p, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()
	if err = c.NewInitDBUseCase(p).InitProd(ctx); err != nil {
		return fmt.Errorf("initializing DB with prod data: %w", err)
	}
	log.Info(ctx, "registry tables are ready")
	return nil
}

func initDev(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, p, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()
	if err = c.NewInitDBUseCase(p).InitDev(ctx); err != nil {
		return fmt.Errorf("initializing DB with dev data: %w", err)
	}
	log.Info(ctx, "registry tables are recreated with sample drones")
	return nil
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(initCmd, initDevCmd)
}
