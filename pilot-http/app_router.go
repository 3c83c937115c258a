package pilot_http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

type RouteStateCompatible interface{}

// RouteHandlerFn writes any response body into body and reports the outcome.
type RouteHandlerFn[RouteState RouteStateCompatible] func(*RouteRequest[RouteState], *bytes.Buffer) (Result, error)

// RouteRequest is what a handler sees: the parsed request, the parameter
// captured by the matched route and the shared route state.
type RouteRequest[RouteState RouteStateCompatible] struct {
	Context context.Context
	Request *HttpRequest
	Param   string
	State   *RouteState
}

type RouteEntry[RouteState RouteStateCompatible] struct {
	Method      HttpMethod
	Pattern     string
	Handler     RouteHandlerFn[RouteState]
	Description string
	segments    []string
}

// RouteTable is the ordered, immutable list of routes. The position of an
// entry is its match index and the first full match wins.
type RouteTable[RouteState RouteStateCompatible] struct {
	entries []RouteEntry[RouteState]
}

// RouteMatch identifies the route a request resolved to.
type RouteMatch struct {
	Index int
	Param string
}

func NewRouteTable[RouteState RouteStateCompatible](entries ...RouteEntry[RouteState]) *RouteTable[RouteState] {
	table := &RouteTable[RouteState]{
		entries: make([]RouteEntry[RouteState], len(entries)),
	}
	for i := range entries {
		table.entries[i] = entries[i]
		table.entries[i].Pattern = strings.Trim(entries[i].Pattern, "/")
		table.entries[i].segments = PatternSegments(entries[i].Pattern)
	}
	return table
}

func (t *RouteTable[RouteState]) Len() int {
	return len(t.entries)
}

func (t *RouteTable[RouteState]) Entry(index int) RouteEntry[RouteState] {
	return t.entries[index]
}

// Entries returns a copy of the table in match order.
func (t *RouteTable[RouteState]) Entries() []RouteEntry[RouteState] {
	out := make([]RouteEntry[RouteState], len(t.entries))
	copy(out, t.entries)
	return out
}

// Match resolves method and path against the table. A path that matches
// some entry under a different method yields ErrMethodNotAllowed; a path
// that matches nothing yields ErrRouteNotFound.
func (t *RouteTable[RouteState]) Match(method HttpMethod, path string) (RouteMatch, error) {
	requested, ok := PathSegments(path)
	if !ok {
		return RouteMatch{Index: -1}, ErrRouteNotFound
	}
	pathMatched := false
	for i := range t.entries {
		param, ok := matchSegments(t.entries[i].segments, requested)
		if !ok {
			continue
		}
		pathMatched = true
		if t.entries[i].Method == method {
			return RouteMatch{Index: i, Param: param}, nil
		}
	}
	if pathMatched {
		return RouteMatch{Index: -1}, ErrMethodNotAllowed
	}
	return RouteMatch{Index: -1}, ErrRouteNotFound
}

// matchSegments compares one pattern with the requested segments. The
// captured value is only returned with a full match, so a partially matching
// pattern never leaks its capture to a later entry.
func matchSegments(pattern []string, requested []string) (string, bool) {
	if len(pattern) != len(requested) {
		return "", false
	}
	param := ""
	for i := range pattern {
		seg := requested[i]
		if seg == "" {
			return "", false
		}
		if pattern[i] == ParamMarker {
			if len(seg) > MaxParamLength {
				return "", false
			}
			param = seg
			continue
		}
		if pattern[i] != seg {
			return "", false
		}
	}
	return param, true
}

func (t *RouteTable[RouteState]) PrintTree() {
	t.WriteTree(os.Stdout)
}

func (t *RouteTable[RouteState]) WriteTree(w io.Writer) {
	for i := range t.entries {
		fmt.Fprintf(w, "%-6s /%v - %v\n", t.entries[i].Method, t.entries[i].Pattern, t.entries[i].Description)
	}
}
