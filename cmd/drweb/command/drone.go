// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin/dronesrs"
	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/usecase/dronesuc"
	"github.com/spf13/cobra"
)

var callerIdentity string

var droneCmd = &cobra.Command{
	Use:   "drone",
	Short: "Run the registry operations directly",
	Long: `Run the registry operations directly against the configured
database, acting as the --as identity. Results are printed as JSON.
Events are logged at the debug level, but they are not delivered to
the event streams of a running web server.`,
}

var addCmd = &cobra.Command{
	Use:   "add MODEL",
	Short: "Add a drone (as the fleet owner)",
	Args:  cobra.ExactArgs(1),
	RunE: withDrones(func(ctx context.Context, cmd *cobra.Command, uc *dronesuc.UseCase, caller model.Identity, args []string) (any, error) {
		id, err := uc.AddDrone(ctx, caller, args[0])
		return map[string]model.DroneID{"id": id}, err
	}),
}

var rentCmd = &cobra.Command{
	Use:   "rent ID",
	Short: "Rent an available drone",
	Args:  cobra.ExactArgs(1),
	RunE: withDrones(func(ctx context.Context, cmd *cobra.Command, uc *dronesuc.UseCase, caller model.Identity, args []string) (any, error) {
		id, err := parseDroneID(args[0])
		if err != nil {
			return nil, err
		}
		return nil, uc.RentDrone(ctx, caller, id)
	}),
}

var returnCmd = &cobra.Command{
	Use:   "return ID",
	Short: "Return a rented drone",
	Args:  cobra.ExactArgs(1),
	RunE: withDrones(func(ctx context.Context, cmd *cobra.Command, uc *dronesuc.UseCase, caller model.Identity, args []string) (any, error) {
		id, err := parseDroneID(args[0])
		if err != nil {
			return nil, err
		}
		return nil, uc.ReturnDrone(ctx, caller, id)
	}),
}

var checkCmd = &cobra.Command{
	Use:   "check ID",
	Short: "Check availability of a drone",
	Args:  cobra.ExactArgs(1),
	RunE: withDrones(func(ctx context.Context, cmd *cobra.Command, uc *dronesuc.UseCase, caller model.Identity, args []string) (any, error) {
		id, err := parseDroneID(args[0])
		if err != nil {
			return nil, err
		}
		a, err := uc.CheckDroneAvailability(ctx, caller, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"id": id, "model": a.Model, "is_rented": a.IsRented,
		}, nil
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all drones",
	Args:  cobra.NoArgs,
	RunE: withDrones(func(ctx context.Context, cmd *cobra.Command, uc *dronesuc.UseCase, caller model.Identity, args []string) (any, error) {
		ds, err := uc.ListDrones(ctx, caller)
		if err != nil {
			return nil, err
		}
		return dronesrs.SerDrones(ds), nil
	}),
}

type droneAction func(
	ctx context.Context,
	cmd *cobra.Command,
	uc *dronesuc.UseCase,
	caller model.Identity,
	args []string,
) (any, error)

// withDrones adapts f as a cobra RunE function which instantiates the
// drones use case and prints the f result as JSON.
func withDrones(f droneAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, p, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer p.Close()
		logEvents := dronesuc.PublisherFunc(
			func(ctx context.Context, e model.Event) {
				log.Debug(ctx, "published", log.Event(e))
			},
		)
		uc, err := c.NewDronesUseCase(p, logEvents)
		if err != nil {
			return fmt.Errorf("creating drones use case: %w", err)
		}
		caller, err := model.ParseIdentity(callerIdentity)
		if err != nil {
			caller = "" // anonymous
		}
		ctx = log.WithAttrs(ctx, log.Caller(caller))
		res, err := f(ctx, cmd, uc, caller, args)
		if err != nil {
			return err
		}
		if res == nil {
			return nil
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
}

func parseDroneID(s string) (model.DroneID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("drone id %q is not a positive integer", s)
	}
	return model.DroneID(id), nil
}

func init() {
	rootCmd.AddCommand(droneCmd)
	droneCmd.PersistentFlags().StringVar(
		&callerIdentity, "as", "", "caller identity, e.g., 0x... address",
	)
	droneCmd.AddCommand(addCmd, rentCmd, returnCmd, checkCmd, listCmd)
}
