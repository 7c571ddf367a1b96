// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dronesuc

import (
	"context"

	"github.com/momeni/drone-rental/pkg/core/model"
)

// Publisher receives the change notifications right after their
// operations commit. Notifications of one drone are published in their
// commit order because Publish is called while that drone is locked.
// Hence, Publish must not block for long and must not call back into
// the UseCase for the same drone.
type Publisher interface {
	Publish(ctx context.Context, e model.Event)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, e model.Event)

// Publish calls f(ctx, e).
func (f PublisherFunc) Publish(ctx context.Context, e model.Event) {
	f(ctx, e)
}
