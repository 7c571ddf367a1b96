// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/drone-rental/internal/test/memdb"
	"github.com/momeni/drone-rental/pkg/adapter/config"
	"github.com/momeni/drone-rental/pkg/adapter/notify/hub"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin"
	"github.com/momeni/drone-rental/pkg/adapter/restful/gin/routes"
	"github.com/stretchr/testify/suite"
)

const (
	owner = "0xfleetowner"
	alice = "0xalice"
	bob   = "0xbob"
)

type GinTestSuite struct {
	suite.Suite

	Ctx context.Context
	Gin *gin.Engine
	Hub *hub.Hub
}

func TestGinTestSuite(t *testing.T) {
	suite.Run(t, &GinTestSuite{Ctx: context.Background()})
}

func (gts *GinTestSuite) SetupTest() {
	c, err := config.Parse([]byte(`
registry:
  owner: ` + owner + `
events:
  buffer: 8
  heartbeat: 1s
`))
	gts.Require().NoError(err, "failed to parse config")
	pool := memdb.New(gts.Ctx, gts.T())
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	gts.Gin = c.Gin.NewEngine(l)
	gts.Require().NotNil(gts.Gin, "cannot instantiate Gin engine")
	gts.Hub, err = routes.Register(gts.Ctx, gts.Gin, pool, c)
	gts.Require().NoError(err, "failed to register Gin routes")
}

func urlEncoded(m map[string]string) io.Reader {
	u := url.Values{}
	for k, v := range m {
		u.Set(k, v)
	}
	return strings.NewReader(u.Encode())
}

func (gts *GinTestSuite) do(
	method, path, caller string, body io.Reader, res any,
) int {
	req, err := http.NewRequest(method, routes.BasePath+path, body)
	gts.Require().NoError(err, "cannot create %s request", method)
	if body != nil {
		req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	}
	if caller != "" {
		req.Header.Add(gin.IdentityHeader, caller)
	}
	w := httptest.NewRecorder()
	gts.Gin.ServeHTTP(w, req)
	if res != nil {
		gts.NoError(json.Unmarshal(w.Body.Bytes(), res), "body is not json")
	}
	return w.Code
}

type detail struct {
	Detail string
}

type availability struct {
	ID       uint64 `json:"id"`
	Model    string `json:"model"`
	IsRented bool   `json:"is_rented"`
}

func (gts *GinTestSuite) add(m string) uint64 {
	res := &struct{ ID uint64 }{}
	code := gts.do(http.MethodPost, "/drones", owner, urlEncoded(map[string]string{
		"model": m,
	}), res)
	gts.Require().Equal(http.StatusCreated, code)
	return res.ID
}

func (gts *GinTestSuite) check(id uint64) availability {
	res := availability{}
	code := gts.do(http.MethodGet, "/drones/"+itoa(id), "", nil, &res)
	gts.Require().Equal(http.StatusOK, code)
	return res
}

func (gts *GinTestSuite) update(id uint64, caller, op string, res any) int {
	return gts.do(
		http.MethodPatch, "/drones/"+itoa(id), caller,
		urlEncoded(map[string]string{"op": op}), res,
	)
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func (gts *GinTestSuite) TestRentalScenario() {
	id := gts.add("Falcon-9X")
	gts.Equal(uint64(1), id)
	gts.Equal(availability{ID: id, Model: "Falcon-9X"}, gts.check(id))

	gts.Equal(http.StatusOK, gts.update(id, alice, "rent", nil))
	gts.True(gts.check(id).IsRented)

	res := &detail{}
	gts.Equal(http.StatusForbidden, gts.update(id, bob, "return", res))
	gts.Contains(res.Detail, "holder")

	gts.Equal(http.StatusOK, gts.update(id, alice, "return", nil))
	gts.False(gts.check(id).IsRented)
}

func (gts *GinTestSuite) TestStatusMapping() {
	id := gts.add("Falcon-9X")
	for _, tc := range []struct {
		name       string
		method     string
		path       string
		caller     string
		body       map[string]string
		code       int
		detailPart string
	}{
		{
			name: "add by non-owner", method: http.MethodPost,
			path: "/drones", caller: alice,
			body: map[string]string{"model": "Hornet-2"},
			code: http.StatusForbidden, detailPart: "owner",
		},
		{
			name: "add anonymously", method: http.MethodPost,
			path: "/drones",
			body: map[string]string{"model": "Hornet-2"},
			code: http.StatusForbidden,
		},
		{
			name: "add blank model", method: http.MethodPost,
			path: "/drones", caller: owner,
			body: map[string]string{"model": "  "},
			code: http.StatusBadRequest, detailPart: "model",
		},
		{
			name: "check missing", method: http.MethodGet,
			path: "/drones/999",
			code: http.StatusNotFound, detailPart: "not found",
		},
		{
			name: "rent with oversized identity", method: http.MethodPatch,
			path: "/drones/" + itoa(id), caller: "0x" + strings.Repeat("f", 600),
			body: map[string]string{"op": "rent"},
			code: http.StatusForbidden, detailPart: "unknown",
		},
		{
			name: "rent missing", method: http.MethodPatch,
			path: "/drones/999", caller: alice,
			body: map[string]string{"op": "rent"},
			code: http.StatusNotFound,
		},
		{
			name: "rent anonymously", method: http.MethodPatch,
			path: "/drones/" + itoa(id),
			body: map[string]string{"op": "rent"},
			code: http.StatusForbidden,
		},
		{
			name: "return available", method: http.MethodPatch,
			path: "/drones/" + itoa(id), caller: alice,
			body: map[string]string{"op": "return"},
			code: http.StatusConflict, detailPart: "not rented",
		},
	} {
		gts.Run(tc.name, func() {
			var body io.Reader
			if tc.body != nil {
				body = urlEncoded(tc.body)
			}
			res := &detail{}
			code := gts.do(tc.method, tc.path, tc.caller, body, res)
			gts.Equal(tc.code, code)
			gts.Contains(res.Detail, tc.detailPart)
		})
	}

	gts.Equal(http.StatusOK, gts.update(id, alice, "rent", nil))
	res := &detail{}
	gts.Equal(http.StatusConflict, gts.update(id, bob, "rent", res))
	gts.Contains(res.Detail, "already rented")
}

func (gts *GinTestSuite) TestBadRequest() {
	for _, tc := range []struct {
		name   string
		path   string
		body   io.Reader
		field  string
		detail string
	}{
		{name: "no body", path: "/drones/1", field: "Op"},
		{name: "no op", path: "/drones/1", body: urlEncoded(nil), field: "Op"},
		{
			name: "invalid op", path: "/drones/1",
			body: urlEncoded(map[string]string{"op": "steal"}), field: "Op",
		},
		{
			name: "invalid id", path: "/drones/abc",
			body: urlEncoded(map[string]string{"op": "rent"}), field: "id",
		},
		{
			name: "zero id", path: "/drones/0",
			body: urlEncoded(map[string]string{"op": "rent"}), field: "id",
		},
	} {
		gts.Run(tc.name, func() {
			res := map[string]any{}
			code := gts.do(http.MethodPatch, tc.path, alice, tc.body, &res)
			gts.Equal(http.StatusBadRequest, code)
			if tc.detail != "" {
				gts.Contains(res["detail"], tc.detail)
			}
			if tc.field != "" {
				gts.Contains(res, tc.field)
			}
		})
	}
}

func (gts *GinTestSuite) TestListDrones() {
	a := gts.add("Falcon-9X")
	b := gts.add("Hornet-2")
	gts.Equal(http.StatusOK, gts.update(b, "0xABCDEF0123456789ABCDEF0123456789ABCDEF01", "rent", nil))

	var res []struct {
		ID       uint64 `json:"id"`
		Model    string `json:"model"`
		IsRented bool   `json:"is_rented"`
		Holder   string `json:"holder"`
	}
	gts.Equal(http.StatusOK, gts.do(http.MethodGet, "/drones", "", nil, &res))
	gts.Require().Len(res, 2)
	gts.Equal(a, res[0].ID)
	gts.False(res[0].IsRented)
	gts.Empty(res[0].Holder)
	gts.Equal(b, res[1].ID)
	gts.True(res[1].IsRented)
	gts.Equal("0xabcdef0123456789abcdef0123456789abcdef01", res[1].Holder)
}

func (gts *GinTestSuite) TestEventsStream() {
	srv := httptest.NewServer(gts.Gin)
	defer srv.Close()
	ctx, cancel := context.WithTimeout(gts.Ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, srv.URL+routes.BasePath+"/events", nil,
	)
	gts.Require().NoError(err)
	resp, err := srv.Client().Do(req)
	gts.Require().NoError(err)
	defer resp.Body.Close()
	gts.Equal(http.StatusOK, resp.StatusCode)
	gts.Contains(resp.Header.Get("Content-Type"), "text/event-stream")
	gts.Require().Eventually(func() bool {
		return gts.Hub.Len() == 1
	}, 5*time.Second, 10*time.Millisecond, "no subscription")

	id := gts.add("Falcon-9X")
	gts.Equal(http.StatusOK, gts.update(id, alice, "rent", nil))
	gts.Equal(http.StatusOK, gts.update(id, alice, "return", nil))

	type sse struct{ event, data string }
	want := []sse{
		{"DroneAdded", `{"id":1,"model":"Falcon-9X"}`},
		{"DroneRented", `{"id":1,"holder":"0xalice"}`},
		{"DroneReturned", `{"id":1}`},
	}
	var got []sse
	var cur sse
	sc := bufio.NewScanner(resp.Body)
	for len(got) < len(want) && sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			cur.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			cur.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "" && cur.event != "":
			got = append(got, cur)
			cur = sse{}
		}
	}
	gts.Equal(want, got)
}
