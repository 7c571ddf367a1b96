// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dronesuc

import (
	"errors"
	"fmt"

	"github.com/momeni/drone-rental/pkg/core/cerr"
	"github.com/momeni/drone-rental/pkg/core/model"
)

// ReturnPolicy specifies who may return a rented drone.
type ReturnPolicy int

// Valid values for the ReturnPolicy enum.
const (
	ReturnPolicyInvalid ReturnPolicy = iota // zero value is invalid

	ReturnByHolder // only the current holder may return a drone
	ReturnByAnyone // any known identity may return a rented drone
)

// ErrUnknownReturnPolicy indicates that a given string may not be
// parsed as a valid/known return policy.
var ErrUnknownReturnPolicy = errors.New("unknown return policy")

// String converts the ReturnPolicy enum to a string. Invalid policies
// cause a panic.
func (p ReturnPolicy) String() string {
	switch p {
	case ReturnByHolder:
		return "holder"
	case ReturnByAnyone:
		return "anyone"
	default:
		panic(fmt.Sprintf("invalid return policy: %d", int(p)))
	}
}

// ParseReturnPolicy parses "holder" or "anyone" strings.
func ParseReturnPolicy(s string) (ReturnPolicy, error) {
	switch s {
	case "holder":
		return ReturnByHolder, nil
	case "anyone":
		return ReturnByAnyone, nil
	default:
		return ReturnPolicyInvalid, ErrUnknownReturnPolicy
	}
}

// AccessController decides if a caller may perform an operation.
// All of its methods return nil or a *cerr.Error and never touch the
// registry contents, so they can be called before any mutation.
//
//	| Operation | Authorized callers               |
//	|-----------|----------------------------------|
//	| add       | fleet owner                      |
//	| rent      | any known identity               |
//	| return    | current holder (or anyone known) |
//
// The return is authorized in two steps, AuthorizeReturnCaller before
// the drone is fetched and AuthorizeReturn after that.
//	| check     | any identity, even anonymous     |
type AccessController struct {
	owner  model.Identity
	policy ReturnPolicy
}

// NewAccessController instantiates an AccessController which treats
// owner as the fleet owner and applies the given return policy.
func NewAccessController(
	owner model.Identity, policy ReturnPolicy,
) (*AccessController, error) {
	if owner == "" {
		return nil, errors.New("fleet owner identity is empty")
	}
	if policy != ReturnByHolder && policy != ReturnByAnyone {
		return nil, fmt.Errorf("invalid return policy: %d", int(policy))
	}
	return &AccessController{owner: owner, policy: policy}, nil
}

// Owner returns the fleet owner identity.
func (ac *AccessController) Owner() model.Identity {
	return ac.owner
}

// AuthorizeAdd permits the fleet owner only.
func (ac *AccessController) AuthorizeAdd(caller model.Identity) error {
	if err := ac.known(caller); err != nil {
		return err
	}
	if caller != ac.owner {
		return cerr.Authorization(model.ErrNotFleetOwner)
	}
	return nil
}

// AuthorizeRent permits any known identity. Whether the drone is
// available is checked by the drone model itself.
func (ac *AccessController) AuthorizeRent(caller model.Identity) error {
	return ac.known(caller)
}

// AuthorizeReturnCaller permits any known identity to attempt a
// return. It runs before the drone is fetched, while AuthorizeReturn
// checks the caller against the fetched drone holder.
func (ac *AccessController) AuthorizeReturnCaller(caller model.Identity) error {
	return ac.known(caller)
}

// AuthorizeReturn permits the holder of the d drone (or any known
// identity with the ReturnByAnyone policy). If d is not rented, there
// is no holder to compare with and the known caller is permitted, so
// the model can report model.ErrNotRented instead.
func (ac *AccessController) AuthorizeReturn(
	caller model.Identity, d *model.Drone,
) error {
	if err := ac.known(caller); err != nil {
		return err
	}
	holder, rented := d.Status.Holder()
	if !rented || ac.policy == ReturnByAnyone || holder == caller {
		return nil
	}
	return cerr.Authorization(model.ErrNotHolder)
}

// AuthorizeRead permits everyone, including anonymous callers.
func (ac *AccessController) AuthorizeRead(model.Identity) error {
	return nil
}

func (ac *AccessController) known(caller model.Identity) error {
	if caller == "" {
		return cerr.Authorization(model.ErrUnknownCaller)
	}
	return nil
}
