package pilot_http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	pilot_capture "github.com/jacksonzamorano/pilot-io/pilot-capture"
)

const (
	// DefaultWorkerCount matches the number of sockets the device serves.
	DefaultWorkerCount = 3
	DefaultReadTimeout = 3 * time.Second
)

type Application[RouteState RouteStateCompatible] struct {
	Port             string
	Routes           *RouteTable[RouteState]
	State            *RouteState
	SilentMode       bool
	Context          context.Context
	WorkerCount      int32
	LogRequestsLevel int
	BufferSize       int
	SendChunkSize    int
	ReadTimeout      time.Duration
	Capture          pilot_capture.Logger

	mu        sync.Mutex
	listener  net.Listener
	ready     chan struct{}
	readyOnce sync.Once
}

func NewApplication[RouteState RouteStateCompatible](port string, routes *RouteTable[RouteState], state *RouteState, ctx context.Context) *Application[RouteState] {
	return &Application[RouteState]{
		Port:             port,
		Routes:           routes,
		State:            state,
		SilentMode:       false,
		Context:          ctx,
		WorkerCount:      DefaultWorkerCount,
		LogRequestsLevel: 0,
		BufferSize:       DataBufSize,
		SendChunkSize:    DataBufSize,
		ReadTimeout:      DefaultReadTimeout,
		Capture:          pilot_capture.NoopLogger{},
		ready:            make(chan struct{}),
	}
}

// Addr blocks until the listener is bound and returns its address.
func (a *Application[RouteState]) Addr() net.Addr {
	<-a.ready
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listener.Addr()
}

// Start listens on Port and serves until Context is cancelled. Each of
// WorkerCount workers owns one Slot and handles one connection at a time;
// further connections wait in the accept queue.
func (a *Application[RouteState]) Start() error {
	listener, err := net.Listen("tcp", a.listenAddress())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Port, err)
	}
	return a.Serve(listener)
}

func (a *Application[RouteState]) Serve(listener net.Listener) error {
	if a.Capture == nil {
		a.Capture = pilot_capture.NoopLogger{}
	}
	if a.WorkerCount <= 0 {
		a.WorkerCount = DefaultWorkerCount
	}
	if a.BufferSize <= 0 {
		a.BufferSize = DataBufSize
	}
	a.mu.Lock()
	a.listener = listener
	a.mu.Unlock()
	a.readyOnce.Do(func() { close(a.ready) })

	if !a.SilentMode {
		fmt.Printf("Starting server on %v with %d slots.\n\nRegistered routes:\n", listener.Addr(), a.WorkerCount)
		a.Routes.PrintTree()
	}

	var wg sync.WaitGroup
	queue := make(chan net.Conn, a.WorkerCount*10)
	recvQueue := make(chan net.Conn, a.WorkerCount*10)
	for i := int32(0); i < a.WorkerCount; i++ {
		wg.Add(1)
		go func(id int32) {
			defer wg.Done()
			handleRequest(queue, a, a.Context, id)
		}(i)
	}
	acceptErr := make(chan error, 1)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					acceptErr <- err
				}
				return
			}
			if a.LogRequestsLevel > 1 {
				log.Printf("{reciever} Dispatching connection from %s\n", conn.RemoteAddr().String())
			}
			select {
			case recvQueue <- conn:
			case <-a.Context.Done():
				conn.Close()
				return
			}
		}
	}()
	for {
		select {
		case <-a.Context.Done():
			log.Println("Stopping pilot-io server...")
			listener.Close()
			wg.Wait()
			drain(queue)
			drain(recvQueue)
			return nil
		case err := <-acceptErr:
			listener.Close()
			wg.Wait()
			drain(queue)
			drain(recvQueue)
			return fmt.Errorf("accept: %w", err)
		case conn := <-recvQueue:
			select {
			case queue <- conn:
			case <-a.Context.Done():
				conn.Close()
			}
		}
	}
}

// drain closes connections that were accepted but never reached a worker.
func drain(queue chan net.Conn) {
	for {
		select {
		case conn := <-queue:
			conn.Close()
		default:
			return
		}
	}
}

func (a *Application[RouteState]) listenAddress() string {
	for i := range a.Port {
		if a.Port[i] == ':' {
			return a.Port
		}
	}
	return ":" + a.Port
}

// handlerLog formats worker output as {worker/connection} (client): message.
func handlerLog(id int32, connId int64, ip string, msg string) {
	log.Printf("{%d/%d} (%s): %s\n", id, connId, ip, msg)
}

func handleRequest[RouteState RouteStateCompatible](queue <-chan net.Conn, app *Application[RouteState], ctx context.Context, id int32) {
	slot := NewSlot(app, id)
	if app.LogRequestsLevel > 1 {
		log.Printf("Worker #%d online, ready for requests.", id)
	}
	for {
		select {
		case <-ctx.Done():
			if app.LogRequestsLevel > 1 {
				log.Printf("Worker #%d shutdown.", id)
			}
			return
		case conn := <-queue:
			if err := slot.Attach(conn); err != nil {
				log.Printf("Worker #%d: %v", id, err)
				conn.Close()
				continue
			}
			// Cancellation interrupts a read that is waiting on the peer.
			stop := context.AfterFunc(ctx, func() {
				conn.SetReadDeadline(time.Now())
			})
			slot.Serve(ctx)
			stop()
		}
	}
}
