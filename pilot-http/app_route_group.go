package pilot_http

import "strings"

// RouteGroup collects entries that share a path prefix, in the order they
// are added.
type RouteGroup[RouteState RouteStateCompatible] struct {
	Prefix string
	Routes []RouteEntry[RouteState]
}

func NewRouteGroup[RouteState RouteStateCompatible](prefix string) *RouteGroup[RouteState] {
	return &RouteGroup[RouteState]{
		Prefix: strings.Trim(prefix, "/"),
		Routes: []RouteEntry[RouteState]{},
	}
}

func (rg *RouteGroup[RouteState]) add(method HttpMethod, path string, handler RouteHandlerFn[RouteState], description string) *RouteGroup[RouteState] {
	pattern := rg.Prefix
	path = strings.Trim(path, "/")
	if path != "" {
		if pattern != "" {
			pattern += "/"
		}
		pattern += path
	}
	rg.Routes = append(rg.Routes, RouteEntry[RouteState]{
		Method:      method,
		Pattern:     pattern,
		Handler:     handler,
		Description: description,
	})
	return rg
}

func (rg *RouteGroup[RouteState]) Get(path string, handler RouteHandlerFn[RouteState], description string) *RouteGroup[RouteState] {
	return rg.add(Get, path, handler, description)
}
func (rg *RouteGroup[RouteState]) Post(path string, handler RouteHandlerFn[RouteState], description string) *RouteGroup[RouteState] {
	return rg.add(Post, path, handler, description)
}
func (rg *RouteGroup[RouteState]) Put(path string, handler RouteHandlerFn[RouteState], description string) *RouteGroup[RouteState] {
	return rg.add(Put, path, handler, description)
}
func (rg *RouteGroup[RouteState]) Delete(path string, handler RouteHandlerFn[RouteState], description string) *RouteGroup[RouteState] {
	return rg.add(Delete, path, handler, description)
}
