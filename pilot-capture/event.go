package pilot_capture

import (
	"time"

	"github.com/google/uuid"
)

// Event is one captured occurrence on a connection. Exactly one of the
// payload pointers is set. CBOR encoding uses integer keys.
type Event struct {
	Timestamp    time.Time `cbor:"1,keyasint"`
	ConnectionID string    `cbor:"2,keyasint"`
	Direction    Direction `cbor:"3,keyasint"`
	Category     Category  `cbor:"4,keyasint"`
	RemoteAddr   string    `cbor:"5,keyasint,omitempty"`
	Slot         int       `cbor:"6,keyasint,omitempty"`

	Request     *RequestEvent     `cbor:"10,keyasint,omitempty"`
	Response    *ResponseEvent    `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"13,keyasint,omitempty"`
}

type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

type Category uint8

const (
	CategoryRequest  Category = 0
	CategoryResponse Category = 1
	CategoryState    Category = 2
	CategoryError    Category = 3
)

func (c Category) String() string {
	switch c {
	case CategoryRequest:
		return "REQUEST"
	case CategoryResponse:
		return "RESPONSE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type RequestEvent struct {
	Method   string `cbor:"1,keyasint"`
	Path     string `cbor:"2,keyasint"`
	Query    string `cbor:"3,keyasint,omitempty"`
	BodySize int    `cbor:"4,keyasint,omitempty"`
}

type ResponseEvent struct {
	Status   int  `cbor:"1,keyasint"`
	BodySize int  `cbor:"2,keyasint"`
	HeadOnly bool `cbor:"3,keyasint,omitempty"`
}

type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint"`
	NewState string `cbor:"2,keyasint"`
	Reason   string `cbor:"3,keyasint,omitempty"`
}

type ErrorEvent struct {
	Message string `cbor:"1,keyasint"`
}

// NewConnectionID returns a fresh identifier for a served connection.
func NewConnectionID() string {
	return uuid.NewString()
}

func NewRequestEvent(connID string, remote string, method string, path string, query string, bodySize int) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionIn,
		Category:     CategoryRequest,
		RemoteAddr:   remote,
		Request: &RequestEvent{
			Method:   method,
			Path:     path,
			Query:    query,
			BodySize: bodySize,
		},
	}
}

func NewResponseEvent(connID string, remote string, status int, bodySize int, headOnly bool) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionOut,
		Category:     CategoryResponse,
		RemoteAddr:   remote,
		Response: &ResponseEvent{
			Status:   status,
			BodySize: bodySize,
			HeadOnly: headOnly,
		},
	}
}

func NewStateChangeEvent(connID string, oldState string, newState string, reason string) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Category:     CategoryState,
		StateChange: &StateChangeEvent{
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	}
}

func NewErrorEvent(connID string, remote string, err error) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    DirectionIn,
		Category:     CategoryError,
		RemoteAddr:   remote,
		Error:        &ErrorEvent{Message: err.Error()},
	}
}
