package pilot_http

// HttpMethod is the request verb used for route dispatch.
type HttpMethod string

const (
	Get    HttpMethod = "GET"
	Head   HttpMethod = "HEAD"
	Post   HttpMethod = "POST"
	Put    HttpMethod = "PUT"
	Delete HttpMethod = "DELETE"
)

// HttpMethods maps a request-line token to its method. Lookups are
// case-sensitive: "get" is not a method.
var HttpMethods = map[string]HttpMethod{
	"GET":    Get,
	"HEAD":   Head,
	"POST":   Post,
	"PUT":    Put,
	"DELETE": Delete,
}

func (m HttpMethod) String() string {
	return string(m)
}

// HasBody reports whether requests of this method may carry a body
// delimited by Content-Length.
func (m HttpMethod) HasBody() bool {
	return m == Post || m == Put || m == Delete
}
