package pilot_http

import (
	"bytes"
	"strconv"
	"strings"

	pilot_json "github.com/jacksonzamorano/pilot-io/pilot-json"
)

// IndexResource is served when the request path is "/".
const IndexResource = "index"

type HttpRequest struct {
	Method      HttpMethod
	RawMethod   string
	RawURI      string
	Path        string
	QueryString string
	Headers     map[string]string
	Body        []byte
	RemoteAddr  string
	_tempMap    *map[string]string
}

func (req *HttpRequest) QueryMap() map[string]string {
	if req._tempMap == nil {
		m := pilot_json.ParseForm(req.QueryString)
		req._tempMap = &m
	}
	return *req._tempMap
}

func (req *HttpRequest) QueryInt32(key string) *int32 {
	val, ok := req.QueryMap()[key]
	if ok {
		num, err := strconv.ParseInt(val, 10, 32)
		if err == nil {
			v := int32(num)
			return &v
		}
	}
	return nil
}

// FormValue reads name from a form-encoded body.
func (req *HttpRequest) FormValue(name string) (string, bool) {
	return pilot_json.FormValue(string(req.Body), name)
}

func (req *HttpRequest) ContentLength() int {
	n, err := strconv.Atoi(req.Headers["Content-Length"])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// nextToken returns the first whitespace-delimited token of buf and the
// remainder after it.
func nextToken(buf []byte) ([]byte, []byte) {
	start := 0
	for start < len(buf) && isSpace(buf[start]) {
		start++
	}
	end := start
	for end < len(buf) && !isSpace(buf[end]) {
		end++
	}
	return buf[start:end], buf[end:]
}

// ParseRequest decodes one raw request. The method token is matched exactly
// against HttpMethods. GET and HEAD take the URI up to the next whitespace;
// body-bearing methods take it from the rest of the line up to the protocol
// marker and then pick the body out after the header terminator, bounded by
// Content-Length.
func ParseRequest(raw []byte) (*HttpRequest, error) {
	req := &HttpRequest{
		Headers: make(map[string]string),
	}
	token, rest := nextToken(raw)
	if len(token) == 0 {
		return req, ErrMalformedRequest
	}
	req.RawMethod = string(token)
	method, ok := HttpMethods[req.RawMethod]
	if !ok {
		return req, ErrUnsupportedMethod
	}
	req.Method = method

	line := rest
	if idx := bytes.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	var uri []byte
	if method.HasBody() {
		line = bytes.TrimLeft(line, " \t")
		if idx := bytes.Index(line, []byte(" HTTP")); idx >= 0 {
			uri = line[:idx]
		} else {
			uri, _ = nextToken(line)
		}
		uri = bytes.TrimSpace(uri)
	} else {
		uri, _ = nextToken(line)
	}
	if len(uri) == 0 {
		return req, ErrMalformedRequest
	}
	req.RawURI = string(uri)
	req.Path, req.QueryString = splitURI(req.RawURI)

	headerEnd := headerTerminator(raw)
	if idx := bytes.IndexByte(raw, '\n'); idx >= 0 {
		end := len(raw)
		if headerEnd >= 0 {
			end = headerEnd
		}
		if idx+1 < end {
			parseHeaders(raw[idx+1:end], req.Headers)
		}
	}
	if method.HasBody() && headerEnd >= 0 {
		body := raw[headerEnd:]
		n := req.ContentLength()
		if n < len(body) {
			body = body[:n]
		}
		req.Body = body
	}
	return req, nil
}

// splitURI drops the query string and the leading slash. The bare root is
// rewritten to IndexResource.
func splitURI(uri string) (string, string) {
	path, query, _ := strings.Cut(uri, "?")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		path = IndexResource
	}
	return path, query
}

func parseHeaders(block []byte, headers map[string]string) {
	for _, line := range strings.Split(string(block), "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = canonicalHeaderKey(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
}

// canonicalHeaderKey upper-cases the first letter of each dash-separated
// word, so "content-length" and "Content-Length" land on the same key.
func canonicalHeaderKey(key string) string {
	b := []byte(strings.ToLower(key))
	upper := true
	for i := range b {
		if upper && b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
		upper = b[i] == '-'
	}
	return string(b)
}

// headerTerminator returns the offset just past the blank line that ends the
// header block, or -1.
func headerTerminator(raw []byte) int {
	if idx := bytes.Index(raw, []byte("\r\n\r\n")); idx >= 0 {
		return idx + 4
	}
	if idx := bytes.Index(raw, []byte("\n\n")); idx >= 0 {
		return idx + 2
	}
	return -1
}
