package pilot_http

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

type testState struct {
	mu    sync.Mutex
	calls []string
}

func recordHandler(name string) RouteHandlerFn[testState] {
	return func(req *RouteRequest[testState], body *bytes.Buffer) (Result, error) {
		req.State.mu.Lock()
		req.State.calls = append(req.State.calls, name+":"+req.Param)
		req.State.mu.Unlock()
		n, _ := body.WriteString(`{"route":"` + name + `"}`)
		return Ok(n), nil
	}
}

func testTable() *RouteTable[testState] {
	userio := NewRouteGroup[testState]("userio").
		Get("", recordHandler("list"), "list").
		Get(":id", recordHandler("value"), "value").
		Post(":id", recordHandler("create"), "create").
		Delete(":id", recordHandler("delete"), "delete").
		Get(":id/info", recordHandler("info"), "info").
		Put(":id/info", recordHandler("setinfo"), "setinfo")
	entries := []RouteEntry[testState]{
		{Method: Get, Pattern: "index", Handler: recordHandler("index"), Description: "index page"},
		{Method: Get, Pattern: "uptime", Handler: recordHandler("uptime"), Description: "uptime"},
	}
	entries = append(entries, userio.Routes...)
	entries = append(entries, RouteEntry[testState]{Method: Get, Pattern: "a/b/c/d", Handler: recordHandler("deep"), Description: "deep"})
	return NewRouteTable(entries...)
}

func TestRouteTableMatch(t *testing.T) {
	table := testTable()
	tests := []struct {
		name    string
		method  HttpMethod
		path    string
		pattern string
		param   string
		err     error
	}{
		{name: "literal", method: Get, path: "uptime", pattern: "uptime"},
		{name: "leading slash", method: Get, path: "/uptime", pattern: "uptime"},
		{name: "group root", method: Get, path: "userio", pattern: "userio"},
		{name: "param", method: Get, path: "userio/a", pattern: "userio/:id", param: "a"},
		{name: "param then literal", method: Get, path: "userio/b/info", pattern: "userio/:id/info", param: "b"},
		{name: "post", method: Post, path: "userio/c", pattern: "userio/:id", param: "c"},
		{name: "delete", method: Delete, path: "userio/d", pattern: "userio/:id", param: "d"},
		{name: "put info", method: Put, path: "userio/d/info", pattern: "userio/:id/info", param: "d"},
		{name: "head has no entry", method: Head, path: "uptime", err: ErrMethodNotAllowed},
		{name: "depth four", method: Get, path: "a/b/c/d", pattern: "a/b/c/d"},
		{name: "param at max length", method: Get, path: "userio/" + strings.Repeat("x", 20), pattern: "userio/:id", param: strings.Repeat("x", 20)},
		{name: "param too long", method: Get, path: "userio/" + strings.Repeat("x", 21), err: ErrRouteNotFound},
		{name: "too deep", method: Get, path: "a/b/c/d/e", err: ErrRouteNotFound},
		{name: "unknown", method: Get, path: "nothing", err: ErrRouteNotFound},
		{name: "empty", method: Get, path: "", err: ErrRouteNotFound},
		{name: "trailing slash", method: Get, path: "userio/", err: ErrRouteNotFound},
		{name: "empty param", method: Get, path: "userio//info", err: ErrRouteNotFound},
		{name: "case sensitive", method: Get, path: "Uptime", err: ErrRouteNotFound},
		{name: "wrong method", method: Put, path: "uptime", err: ErrMethodNotAllowed},
		{name: "wrong method on param", method: Post, path: "userio/a/info", err: ErrMethodNotAllowed},
		{name: "head on list", method: Head, path: "userio", err: ErrMethodNotAllowed},
		{name: "head on param", method: Head, path: "userio/a", err: ErrMethodNotAllowed},
		{name: "head unknown path", method: Head, path: "nothing", err: ErrRouteNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Match(tt.method, tt.path)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("Match() error = %v, want %v", err, tt.err)
				}
				if got.Index != -1 {
					t.Errorf("Match() index = %d, want -1", got.Index)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if p := table.Entry(got.Index).Pattern; p != tt.pattern {
				t.Errorf("Match() pattern = %v, want %v", p, tt.pattern)
			}
			if got.Param != tt.param {
				t.Errorf("Match() param = %v, want %v", got.Param, tt.param)
			}
		})
	}
}

func TestRouteTableCaptureDoesNotLeak(t *testing.T) {
	table := NewRouteTable(
		RouteEntry[testState]{Method: Get, Pattern: "userio/:id/info", Handler: recordHandler("info")},
		RouteEntry[testState]{Method: Get, Pattern: "userio/all", Handler: recordHandler("all")},
	)
	got, err := table.Match(Get, "userio/all")
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if got.Index != 1 || got.Param != "" {
		t.Errorf("Match() = %+v, want index 1 with no param", got)
	}
}

func TestRouteTableIsImmutable(t *testing.T) {
	entries := []RouteEntry[testState]{
		{Method: Get, Pattern: "/uptime/", Handler: recordHandler("uptime")},
	}
	table := NewRouteTable(entries...)
	entries[0].Pattern = "changed"

	copied := table.Entries()
	copied[0].Pattern = "changed"

	if table.Entry(0).Pattern != "uptime" {
		t.Errorf("Entry(0).Pattern = %v, want uptime", table.Entry(0).Pattern)
	}
	if _, err := table.Match(Get, "uptime"); err != nil {
		t.Errorf("Match() error = %v", err)
	}
}

func TestRouteTableWriteTree(t *testing.T) {
	var out bytes.Buffer
	testTable().WriteTree(&out)
	if !strings.Contains(out.String(), "GET    /userio/:id/info - info") {
		t.Errorf("WriteTree() = %q", out.String())
	}
}
