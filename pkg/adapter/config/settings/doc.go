// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the generic helpers of the config package
// for normalizing optional (pointer typed) settings, verifying their
// ranges, and a YAML friendly time duration type.
package settings
