package pilot_http

import "strings"

const (
	// MaxURIDepth is the deepest path the matcher will consider.
	MaxURIDepth = 4
	// MaxParamLength bounds a captured path parameter, in bytes.
	MaxParamLength = 20
	// ParamMarker is the pattern segment that captures a parameter.
	ParamMarker = ":id"
)

// PathSegments splits a request path on '/' after dropping one leading
// slash. Empty segments are kept so that "userio/" and "userio//a" never
// match a route. It returns false for an empty path or one deeper than
// MaxURIDepth.
func PathSegments(path string) ([]string, bool) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, false
	}
	segments := make([]string, 0, MaxURIDepth)
	start := 0
	for end := 0; end <= len(path); end++ {
		if end == len(path) || path[end] == '/' {
			if len(segments) == MaxURIDepth {
				return nil, false
			}
			segments = append(segments, path[start:end])
			start = end + 1
		}
	}
	return segments, true
}

// PatternSegments splits a route pattern. Patterns are trusted input and
// are not bounded.
func PatternSegments(pattern string) []string {
	pattern = strings.Trim(pattern, "/")
	if pattern == "" {
		return []string{}
	}
	return strings.Split(pattern, "/")
}
