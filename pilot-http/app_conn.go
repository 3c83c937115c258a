package pilot_http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	pilot_capture "github.com/jacksonzamorano/pilot-io/pilot-capture"
)

type ConnState int

const (
	StateIdle ConnState = iota
	StateResponseInProgress
	StateResponseDone
)

func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateResponseInProgress:
		return "RESPONSE_IN_PROGRESS"
	case StateResponseDone:
		return "RESPONSE_DONE"
	default:
		return "UNKNOWN"
	}
}

// Slot serves one connection at a time. It owns its request and body
// buffers; nothing in a slot is shared with another slot.
type Slot[RouteState RouteStateCompatible] struct {
	ID      int32
	app     *Application[RouteState]
	state   ConnState
	conn    net.Conn
	connID  string
	connSeq int64
	request *RequestBuffer
	body    *bytes.Buffer
	pending []byte
}

func NewSlot[RouteState RouteStateCompatible](app *Application[RouteState], id int32) *Slot[RouteState] {
	return &Slot[RouteState]{
		ID:      id,
		app:     app,
		state:   StateIdle,
		request: NewRequestBuffer(app.BufferSize),
		body:    bytes.NewBuffer(make([]byte, 0, app.BufferSize)),
	}
}

func (s *Slot[RouteState]) State() ConnState {
	return s.state
}

// Attach hands a freshly accepted connection to an idle slot.
func (s *Slot[RouteState]) Attach(conn net.Conn) error {
	if s.conn != nil || s.state != StateIdle {
		return fmt.Errorf("slot %d busy in state %s", s.ID, s.state)
	}
	s.conn = conn
	s.connSeq++
	s.connID = pilot_capture.NewConnectionID()
	return nil
}

// Serve drives the attached connection until the slot is idle again.
func (s *Slot[RouteState]) Serve(ctx context.Context) {
	for s.conn != nil {
		if ctx.Err() != nil {
			s.teardown("shutdown")
			return
		}
		s.Step(ctx)
	}
}

// Step advances the connection by one unit of work and returns the new
// state. Idle reads and answers one request; ResponseInProgress sends the
// next chunk; ResponseDone closes the connection.
func (s *Slot[RouteState]) Step(ctx context.Context) ConnState {
	if s.conn == nil {
		return s.state
	}
	switch s.state {
	case StateIdle:
		s.receive(ctx)
	case StateResponseInProgress:
		s.sendNext()
	case StateResponseDone:
		s.teardown("response sent")
	}
	return s.state
}

func (s *Slot[RouteState]) receive(ctx context.Context) {
	s.request.Reset()
	s.body.Reset()
	if s.app.ReadTimeout > 0 {
		s.conn.SetReadDeadline(time.Now().Add(s.app.ReadTimeout))
	}
	if ctx.Err() != nil {
		s.teardown("shutdown")
		return
	}
	err := s.request.Fill(s.conn)
	if err != nil {
		switch {
		case IsPeerClosed(err):
			s.log(2, "Peer closed connection.")
			s.teardown("peer closed")
		case errors.Is(err, os.ErrDeadlineExceeded):
			s.log(1, "Read timed out.")
			s.teardown("read timeout")
		default:
			s.log(1, fmt.Sprintf("Read failed: %v", err))
			s.teardown("read error")
		}
		return
	}

	response := s.process(ctx, s.request.Bytes())
	s.pending = append(response.Header(), response.Payload()...)
	s.sendNext()
}

// process runs one buffered request through parse, match and dispatch.
func (s *Slot[RouteState]) process(ctx context.Context, raw []byte) *HttpResponse {
	var result Result
	remote := s.remote()
	request, err := ParseRequest(raw)
	request.RemoteAddr = remote
	s.app.Capture.Log(pilot_capture.NewRequestEvent(s.connID, remote, request.RawMethod, request.Path, request.QueryString, len(request.Body)))

	if err != nil {
		s.log(1, fmt.Sprintf("Rejected request '%s': %v", request.RawMethod, err))
	} else {
		s.log(1, fmt.Sprintf("%s: '%s'", request.Method, request.Path))
		result, err = s.dispatch(ctx, request)
	}

	response := ComposeResponse(request.Method, result, err, s.body.Bytes())
	s.app.Capture.Log(pilot_capture.NewResponseEvent(s.connID, remote, int(response.StatusCode), len(response.Body), response.HeadOnly))
	s.log(2, fmt.Sprintf("Responding %d %s (%d bytes).", response.StatusCode, response.StatusCode.Text(), len(response.Body)))
	return response
}

func (s *Slot[RouteState]) dispatch(ctx context.Context, request *HttpRequest) (Result, error) {
	if MimeTypeFor(request.Path) != "" {
		s.log(2, "File resources are not served.")
		return Result{}, ErrRouteNotFound
	}
	match, err := s.app.Routes.Match(request.Method, request.Path)
	if err != nil {
		s.log(2, fmt.Sprintf("No route: %v", err))
		return Result{}, err
	}
	entry := s.app.Routes.Entry(match.Index)
	routeData := RouteRequest[RouteState]{
		Context: ctx,
		Request: request,
		Param:   match.Param,
		State:   s.app.State,
	}
	result, err := entry.Handler(&routeData, s.body)
	if err != nil {
		var re RestError
		if !errors.As(err, &re) {
			s.log(1, fmt.Sprintf("Handler for '%s' failed: %v", entry.Pattern, err))
			s.app.Capture.Log(pilot_capture.NewErrorEvent(s.connID, request.RemoteAddr, err))
		}
	}
	return result, err
}

func (s *Slot[RouteState]) sendNext() {
	chunk := s.app.SendChunkSize
	if chunk <= 0 || chunk > len(s.pending) {
		chunk = len(s.pending)
	}
	if err := writeAll(s.conn, s.pending[:chunk]); err != nil {
		s.log(1, fmt.Sprintf("Send failed: %v", err))
		s.teardown("peer closed")
		return
	}
	s.pending = s.pending[chunk:]
	if len(s.pending) > 0 {
		s.transition(StateResponseInProgress, "")
	} else {
		s.transition(StateResponseDone, "")
	}
}

func (s *Slot[RouteState]) transition(next ConnState, reason string) {
	if next == s.state {
		return
	}
	s.app.Capture.Log(pilot_capture.NewStateChangeEvent(s.connID, s.state.String(), next.String(), reason))
	s.state = next
}

// teardown closes the connection, drops any unsent bytes and returns the
// slot to Idle.
func (s *Slot[RouteState]) teardown(reason string) {
	if s.conn != nil {
		s.conn.Close()
	}
	s.pending = nil
	s.request.Reset()
	s.body.Reset()
	if s.state != StateIdle {
		s.transition(StateIdle, reason)
	} else {
		s.app.Capture.Log(pilot_capture.NewStateChangeEvent(s.connID, s.state.String(), StateIdle.String(), reason))
	}
	s.conn = nil
}

func (s *Slot[RouteState]) remote() string {
	if s.conn == nil || s.conn.RemoteAddr() == nil {
		return ""
	}
	return s.conn.RemoteAddr().String()
}

func (s *Slot[RouteState]) log(level int, msg string) {
	if s.app.LogRequestsLevel >= level {
		handlerLog(s.ID, s.connSeq, s.remote(), msg)
	}
}
