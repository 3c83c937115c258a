package pilot_http

import "errors"

// RestError is the failure half of a handler or dispatch outcome. Each kind
// maps to exactly one response status.
type RestError int

const (
	ErrRouteNotFound RestError = iota + 1
	ErrMethodNotAllowed
	ErrConflict
	ErrUnsupportedMethod
	ErrMalformedRequest
)

func (e RestError) Error() string {
	switch e {
	case ErrRouteNotFound:
		return "resource not found"
	case ErrMethodNotAllowed:
		return "method not allowed for resource"
	case ErrConflict:
		return "resource state conflict"
	case ErrUnsupportedMethod:
		return "unsupported request method"
	case ErrMalformedRequest:
		return "malformed request line"
	default:
		return "unknown rest error"
	}
}

func (e RestError) Status() StatusCode {
	switch e {
	case ErrMethodNotAllowed:
		return StatusMethodNotAllowed
	case ErrConflict:
		return StatusConflict
	case ErrUnsupportedMethod, ErrMalformedRequest:
		return StatusNotImplemented
	default:
		return StatusNotFound
	}
}

// StatusForError maps any error to a response status. Errors that are not a
// RestError fall back to 404.
func StatusForError(err error) StatusCode {
	var re RestError
	if errors.As(err, &re) {
		return re.Status()
	}
	return StatusNotFound
}
