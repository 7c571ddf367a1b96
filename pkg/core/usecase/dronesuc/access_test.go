// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dronesuc_test

import (
	"testing"

	"github.com/momeni/drone-rental/pkg/core/cerr"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/usecase/dronesuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner model.Identity = "0xfleetowner"

func rentedBy(t *testing.T, holder model.Identity) *model.Drone {
	d, err := model.NewDrone(1, "Falcon-9X")
	require.NoError(t, err)
	require.NoError(t, d.Rent(holder))
	return d
}

func TestAccessController(t *testing.T) {
	ac, err := dronesuc.NewAccessController(owner, dronesuc.ReturnByHolder)
	require.NoError(t, err)
	assert.Equal(t, owner, ac.Owner())

	assert.NoError(t, ac.AuthorizeAdd(owner))
	err = ac.AuthorizeAdd("0xrenter")
	assert.ErrorIs(t, err, model.ErrNotFleetOwner)
	assert.Equal(t, 403, cerr.StatusCode(err))
	assert.ErrorIs(t, ac.AuthorizeAdd(""), model.ErrUnknownCaller)

	assert.NoError(t, ac.AuthorizeRent("0xrenter"))
	assert.NoError(t, ac.AuthorizeRent(owner))
	assert.ErrorIs(t, ac.AuthorizeRent(""), model.ErrUnknownCaller)

	d := rentedBy(t, "0xrenter")
	assert.NoError(t, ac.AuthorizeReturn("0xrenter", d))
	err = ac.AuthorizeReturn("0xother", d)
	assert.ErrorIs(t, err, model.ErrNotHolder)
	assert.Equal(t, 403, cerr.StatusCode(err))
	assert.ErrorIs(t, ac.AuthorizeReturn(owner, d), model.ErrNotHolder)
	assert.ErrorIs(t, ac.AuthorizeReturn("", d), model.ErrUnknownCaller)

	avail, err := model.NewDrone(2, "Hornet-2")
	require.NoError(t, err)
	assert.NoError(t, ac.AuthorizeReturn("0xother", avail))

	assert.NoError(t, ac.AuthorizeReturnCaller("0xother"))
	err = ac.AuthorizeReturnCaller("")
	assert.ErrorIs(t, err, model.ErrUnknownCaller)
	assert.Equal(t, 403, cerr.StatusCode(err))

	assert.NoError(t, ac.AuthorizeRead(""))
	assert.NoError(t, ac.AuthorizeRead("0xother"))
}

func TestAccessControllerReturnByAnyone(t *testing.T) {
	ac, err := dronesuc.NewAccessController(owner, dronesuc.ReturnByAnyone)
	require.NoError(t, err)
	d := rentedBy(t, "0xrenter")
	assert.NoError(t, ac.AuthorizeReturn("0xother", d))
	assert.ErrorIs(t, ac.AuthorizeReturn("", d), model.ErrUnknownCaller)
}

func TestNewAccessControllerValidation(t *testing.T) {
	_, err := dronesuc.NewAccessController("", dronesuc.ReturnByHolder)
	assert.Error(t, err)
	_, err = dronesuc.NewAccessController(owner, dronesuc.ReturnPolicyInvalid)
	assert.Error(t, err)
}

func TestParseReturnPolicy(t *testing.T) {
	for _, p := range []dronesuc.ReturnPolicy{
		dronesuc.ReturnByHolder, dronesuc.ReturnByAnyone,
	} {
		got, err := dronesuc.ParseReturnPolicy(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := dronesuc.ParseReturnPolicy("owner")
	assert.ErrorIs(t, err, dronesuc.ErrUnknownReturnPolicy)
}
