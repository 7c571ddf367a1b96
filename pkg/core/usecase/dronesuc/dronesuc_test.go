// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dronesuc_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/momeni/drone-rental/internal/test/memdb"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb/dronesrp"
	"github.com/momeni/drone-rental/pkg/core/cerr"
	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/usecase/dronesuc"
	"github.com/stretchr/testify/suite"
)

const (
	alice model.Identity = "0xalice"
	bob   model.Identity = "0xbob"
)

type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Publish(_ context.Context, e model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event(nil), r.events...)
}

type UseCaseTestSuite struct {
	suite.Suite

	Ctx    context.Context
	Pool   *gormdb.Pool
	Events *recorder
	UC     *dronesuc.UseCase
}

func TestUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &UseCaseTestSuite{Ctx: context.Background()})
}

func (ts *UseCaseTestSuite) SetupTest() {
	ts.Pool = memdb.New(ts.Ctx, ts.T())
	ts.Events = &recorder{}
	ts.UC = ts.newUseCase()
}

func (ts *UseCaseTestSuite) newUseCase(opts ...dronesuc.Option) *dronesuc.UseCase {
	opts = append(opts, dronesuc.WithPublisher(ts.Events))
	uc, err := dronesuc.New(ts.Pool, dronesrp.New(), owner, opts...)
	ts.Require().NoError(err)
	return uc
}

func (ts *UseCaseTestSuite) add(m string) model.DroneID {
	id, err := ts.UC.AddDrone(ts.Ctx, owner, m)
	ts.Require().NoError(err)
	return id
}

func (ts *UseCaseTestSuite) assertAvailability(id model.DroneID, m string, rented bool) {
	a, err := ts.UC.CheckDroneAvailability(ts.Ctx, "", id)
	ts.Require().NoError(err)
	ts.Equal(&model.Availability{Model: m, IsRented: rented}, a)
}

func (ts *UseCaseTestSuite) TestRentalScenario() {
	id := ts.add("Falcon-9X")
	ts.Equal(model.DroneID(1), id)
	ts.assertAvailability(id, "Falcon-9X", false)

	ts.Require().NoError(ts.UC.RentDrone(ts.Ctx, alice, id))
	ts.assertAvailability(id, "Falcon-9X", true)

	err := ts.UC.ReturnDrone(ts.Ctx, bob, id)
	ts.ErrorIs(err, model.ErrNotHolder)
	ts.Equal(403, cerr.StatusCode(err))
	ts.assertAvailability(id, "Falcon-9X", true)

	ts.Require().NoError(ts.UC.ReturnDrone(ts.Ctx, alice, id))
	ts.assertAvailability(id, "Falcon-9X", false)

	ts.Equal([]model.Event{
		model.DroneAdded{ID: id, Model: "Falcon-9X"},
		model.DroneRented{ID: id, Holder: alice},
		model.DroneReturned{ID: id},
	}, ts.Events.Events())
}

func (ts *UseCaseTestSuite) TestIDsAreStrictlyIncreasing() {
	var prev model.DroneID
	for i := 0; i < 5; i++ {
		id := ts.add(fmt.Sprintf("Hornet-%d", i))
		ts.Greater(uint64(id), uint64(prev))
		prev = id
	}
}

func (ts *UseCaseTestSuite) TestAddDroneValidation() {
	_, err := ts.UC.AddDrone(ts.Ctx, alice, "Falcon-9X")
	ts.ErrorIs(err, model.ErrNotFleetOwner)
	ts.Equal(403, cerr.StatusCode(err))

	_, err = ts.UC.AddDrone(ts.Ctx, "", "Falcon-9X")
	ts.ErrorIs(err, model.ErrUnknownCaller)

	_, err = ts.UC.AddDrone(ts.Ctx, owner, "   ")
	ts.ErrorIs(err, model.ErrEmptyModel)
	ts.Equal(400, cerr.StatusCode(err))

	ds, err := ts.UC.ListDrones(ts.Ctx, "")
	ts.Require().NoError(err)
	ts.Empty(ds, "failed additions created records")
	ts.Empty(ts.Events.Events())

	// rejected attempts do not consume ids
	ts.Equal(model.DroneID(1), ts.add("Falcon-9X"))
}

func (ts *UseCaseTestSuite) TestRentFailures() {
	err := ts.UC.RentDrone(ts.Ctx, alice, 42)
	ts.ErrorIs(err, model.ErrDroneNotFound)
	ts.Equal(404, cerr.StatusCode(err))

	id := ts.add("Falcon-9X")
	err = ts.UC.RentDrone(ts.Ctx, "", id)
	ts.ErrorIs(err, model.ErrUnknownCaller)

	ts.Require().NoError(ts.UC.RentDrone(ts.Ctx, alice, id))
	for _, caller := range []model.Identity{alice, bob} {
		err = ts.UC.RentDrone(ts.Ctx, caller, id)
		ts.ErrorIs(err, model.ErrAlreadyRented)
		ts.Equal(409, cerr.StatusCode(err))
	}
	ts.Len(ts.Events.Events(), 2)
}

func (ts *UseCaseTestSuite) TestReturnFailures() {
	err := ts.UC.ReturnDrone(ts.Ctx, alice, 42)
	ts.ErrorIs(err, model.ErrDroneNotFound)

	id := ts.add("Falcon-9X")
	err = ts.UC.ReturnDrone(ts.Ctx, alice, id)
	ts.ErrorIs(err, model.ErrNotRented)
	ts.Equal(409, cerr.StatusCode(err))

	err = ts.UC.ReturnDrone(ts.Ctx, "", id)
	ts.ErrorIs(err, model.ErrUnknownCaller)
	ts.Len(ts.Events.Events(), 1)
}

func (ts *UseCaseTestSuite) TestReturnByAnyone() {
	uc := ts.newUseCase(dronesuc.WithReturnPolicy(dronesuc.ReturnByAnyone))
	id, err := uc.AddDrone(ts.Ctx, owner, "Kestrel-M4")
	ts.Require().NoError(err)
	ts.Require().NoError(uc.RentDrone(ts.Ctx, alice, id))
	ts.Require().NoError(uc.ReturnDrone(ts.Ctx, bob, id))
	ts.assertAvailability(id, "Kestrel-M4", false)
}

func (ts *UseCaseTestSuite) TestCheckMissingDrone() {
	a, err := ts.UC.CheckDroneAvailability(ts.Ctx, alice, 1)
	ts.Nil(a)
	ts.ErrorIs(err, model.ErrDroneNotFound)
	ts.Equal(404, cerr.StatusCode(err))
}

func (ts *UseCaseTestSuite) TestConcurrentRent() {
	id := ts.add("Falcon-9X")
	const n = 16
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := model.Identity(fmt.Sprintf("0xuser%d", i))
			errs[i] = ts.UC.RentDrone(ts.Ctx, caller, id)
		}(i)
	}
	wg.Wait()
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		ts.ErrorIs(err, model.ErrAlreadyRented)
	}
	ts.Equal(1, succeeded)
	ts.assertAvailability(id, "Falcon-9X", true)
}

func (ts *UseCaseTestSuite) TestPerDroneEventOrder() {
	ids := []model.DroneID{ts.add("Falcon-9X"), ts.add("Hornet-2")}
	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(id model.DroneID, caller model.Identity) {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					if ts.UC.RentDrone(ts.Ctx, caller, id) == nil {
						ts.NoError(ts.UC.ReturnDrone(ts.Ctx, caller, id))
					}
				}
			}(id, model.Identity(fmt.Sprintf("0xuser%d", i)))
		}
	}
	wg.Wait()

	// per drone, events must alternate between rented and returned
	rented := map[model.DroneID]bool{}
	for _, e := range ts.Events.Events() {
		switch e.(type) {
		case model.DroneRented:
			ts.False(rented[e.Drone()], "drone %d rented twice", e.Drone())
			rented[e.Drone()] = true
		case model.DroneReturned:
			ts.True(rented[e.Drone()], "drone %d returned twice", e.Drone())
			rented[e.Drone()] = false
		}
	}
	for _, id := range ids {
		ts.False(rented[id])
	}
}

func (ts *UseCaseTestSuite) TestListDrones() {
	a := ts.add("Falcon-9X")
	b := ts.add("Hornet-2")
	ts.Require().NoError(ts.UC.RentDrone(ts.Ctx, bob, b))
	ds, err := ts.UC.ListDrones(ts.Ctx, "")
	ts.Require().NoError(err)
	ts.Require().Len(ds, 2)
	ts.Equal(a, ds[0].ID)
	ts.False(ds[0].Status.IsRented())
	ts.Equal(b, ds[1].ID)
	h, ok := ds[1].Status.Holder()
	ts.True(ok)
	ts.Equal(bob, h)
}

func (ts *UseCaseTestSuite) TestInvalidOptions() {
	_, err := dronesuc.New(ts.Pool, dronesrp.New(), owner,
		dronesuc.WithReturnPolicy(dronesuc.ReturnPolicyInvalid),
	)
	ts.Error(err)
	_, err = dronesuc.New(ts.Pool, dronesrp.New(), owner, dronesuc.WithPublisher(nil))
	ts.Error(err)
	_, err = dronesuc.New(ts.Pool, dronesrp.New(), "")
	ts.Error(err)
}

func (ts *UseCaseTestSuite) TestLogsCarryCallerOnce() {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	ctx := log.WithAttrs(ts.Ctx, log.Caller(alice))
	id := ts.add("Falcon-9X")
	ts.Require().NoError(ts.UC.RentDrone(ctx, alice, id))
	ts.Require().NoError(ts.UC.ReturnDrone(ctx, alice, id))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	ts.Len(lines, 3)
	for _, line := range lines[1:] {
		ts.Equal(1, strings.Count(line, "caller="), line)
		ts.Contains(line, "drone=1")
	}
}
