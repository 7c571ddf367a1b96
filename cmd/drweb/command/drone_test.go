// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin/dronesrs"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/stretchr/testify/suite"
)

const (
	fleetOwner = "0xfleetowner"
	alice      = "0xalice"
	bob        = "0xbob"
)

type DroneCmdTestSuite struct {
	suite.Suite

	ConfigPath string
}

func TestDroneCmdTestSuite(t *testing.T) {
	suite.Run(t, &DroneCmdTestSuite{})
}

func (ts *DroneCmdTestSuite) SetupTest() {
	dir := ts.T().TempDir()
	ts.ConfigPath = filepath.Join(dir, "drweb.yaml")
	doc := "database:\n" +
		"  driver: sqlite\n" +
		"  url: " + filepath.Join(dir, "drweb.db") + "\n" +
		"registry:\n" +
		"  owner: " + fleetOwner + "\n" +
		"logger:\n" +
		"  level: error\n"
	ts.Require().NoError(os.WriteFile(ts.ConfigPath, []byte(doc), 0o600))

	prev := slog.Default()
	ts.T().Cleanup(func() { slog.SetDefault(prev) })
	_, err := ts.run("db", "init")
	ts.Require().NoError(err, "failed to create registry tables")
}

// run executes the drweb command with args and the suite config file,
// returning its standard output.
func (ts *DroneCmdTestSuite) run(args ...string) ([]byte, error) {
	cfgPath, callerIdentity = "", ""
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "-c", ts.ConfigPath))
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.Bytes(), err
}

func (ts *DroneCmdTestSuite) check(id string) map[string]any {
	out, err := ts.run("drone", "check", id)
	ts.Require().NoError(err)
	res := map[string]any{}
	ts.Require().NoError(json.Unmarshal(out, &res), string(out))
	return res
}

func (ts *DroneCmdTestSuite) TestRentalScenario() {
	out, err := ts.run("drone", "add", "Falcon-9X", "--as", fleetOwner)
	ts.Require().NoError(err)
	added := map[string]uint64{}
	ts.Require().NoError(json.Unmarshal(out, &added), string(out))
	ts.Equal(map[string]uint64{"id": 1}, added)

	_, err = ts.run("drone", "add", "Hornet-2", "--as", alice)
	ts.ErrorIs(err, model.ErrNotFleetOwner)

	ts.Equal(
		map[string]any{"id": 1.0, "model": "Falcon-9X", "is_rented": false},
		ts.check("1"),
	)

	out, err = ts.run("drone", "rent", "1", "--as", alice)
	ts.Require().NoError(err)
	ts.Empty(out)
	ts.Equal(true, ts.check("1")["is_rented"])

	_, err = ts.run("drone", "rent", "1", "--as", bob)
	ts.ErrorIs(err, model.ErrAlreadyRented)
	_, err = ts.run("drone", "return", "1", "--as", bob)
	ts.ErrorIs(err, model.ErrNotHolder)
	_, err = ts.run("drone", "return", "1")
	ts.ErrorIs(err, model.ErrUnknownCaller)

	out, err = ts.run("drone", "list")
	ts.Require().NoError(err)
	var ds []dronesrs.DroneResp
	ts.Require().NoError(json.Unmarshal(out, &ds), string(out))
	ts.Equal([]dronesrs.DroneResp{
		{ID: 1, Model: "Falcon-9X", IsRented: true, Holder: alice},
	}, ds)

	_, err = ts.run("drone", "return", "1", "--as", alice)
	ts.Require().NoError(err)
	ts.Equal(false, ts.check("1")["is_rented"])
}

func (ts *DroneCmdTestSuite) TestInvalidArgs() {
	_, err := ts.run("drone", "check", "999")
	ts.ErrorIs(err, model.ErrDroneNotFound)
	_, err = ts.run("drone", "rent", "abc", "--as", alice)
	ts.ErrorContains(err, "not a positive integer")
	_, err = ts.run("drone", "rent", "1", "2", "--as", alice)
	ts.Error(err)
	_, err = ts.run("drone", "add", " ", "--as", fleetOwner)
	ts.ErrorIs(err, model.ErrEmptyModel)
}

func (ts *DroneCmdTestSuite) TestParseDroneID() {
	id, err := parseDroneID("42")
	ts.NoError(err)
	ts.Equal(model.DroneID(42), id)
	for _, s := range []string{"", "0", "-1", "abc", "1.5", "18446744073709551616"} {
		_, err := parseDroneID(s)
		ts.Error(err, s)
	}
}
