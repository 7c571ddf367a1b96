// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dronesuc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the drones use case.
type Option func(uc *UseCase) error

// WithReturnPolicy option configures who may return a rented drone.
// In absence of this option, ReturnByHolder is used.
func WithReturnPolicy(p ReturnPolicy) Option {
	return func(uc *UseCase) error {
		if p != ReturnByHolder && p != ReturnByAnyone {
			return fmt.Errorf("invalid return policy (%d)", int(p))
		}
		if uc.returnPolicy != ReturnPolicyInvalid {
			return errors.New("return policy is already configured")
		}
		uc.returnPolicy = p
		return nil
	}
}

// WithPublisher option asks the use case to publish the change
// notifications using p. This option may be passed multiple times and
// all publishers will receive all notifications in the same order.
func WithPublisher(p Publisher) Option {
	return func(uc *UseCase) error {
		if p == nil {
			return errors.New("publisher is nil")
		}
		uc.publishers = append(uc.publishers, p)
		return nil
	}
}
