package pilot_discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

const (
	ServiceType = "_http._tcp"
	Domain      = "local."
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
	DefaultPort        = 80
)

// Info describes the device being advertised.
type Info struct {
	Target    string
	MACSuffix string
	Port      int
	Pins      []string
	// Path is the resource clients should start from.
	Path string
}

type Config struct {
	// Interface restricts advertising to one interface. Empty means all.
	Interface string
	TTL       time.Duration
	// Instance overrides the generated instance name.
	Instance string
}

// Service is a running registration.
type Service interface {
	Shutdown()
}

// RegisterFunc publishes one service instance.
type RegisterFunc func(instance, service, domain string, port int, txt []string, ifaces []net.Interface, ttl uint32) (Service, error)

// ZeroconfRegister publishes through the zeroconf responder.
func ZeroconfRegister(instance, service, domain string, port int, txt []string, ifaces []net.Interface, ttl uint32) (Service, error) {
	var opts []zeroconf.ServerOption
	if ttl > 0 {
		opts = append(opts, zeroconf.TTL(ttl))
	}
	server, err := zeroconf.Register(instance, service, domain, port, txt, ifaces, opts...)
	if err != nil {
		return nil, err
	}
	return server, nil
}

// Advertiser keeps at most one registration alive.
type Advertiser struct {
	config   Config
	register RegisterFunc

	mu       sync.Mutex
	server   Service
	instance string
}

func NewAdvertiser(config Config) *Advertiser {
	return NewAdvertiserWithRegister(config, ZeroconfRegister)
}

func NewAdvertiserWithRegister(config Config, register RegisterFunc) *Advertiser {
	return &Advertiser{config: config, register: register}
}

func (a *Advertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}
	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// InstanceName builds "<target>-<mac suffix>", cut to the label limit.
func InstanceName(info Info) string {
	name := info.Target
	if info.MACSuffix != "" {
		name += "-" + info.MACSuffix
	}
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name
}

// EncodeTXT renders the TXT records in a fixed order.
func EncodeTXT(info Info) []string {
	path := info.Path
	if path == "" {
		path = "/index"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return []string{
		"path=" + path,
		"target=" + info.Target,
		"pins=" + strings.Join(info.Pins, ","),
	}
}

// Advertise replaces any running registration with one for info.
func (a *Advertiser) Advertise(ctx context.Context, info Info) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
		a.instance = ""
	}

	instance := a.config.Instance
	if instance == "" {
		instance = InstanceName(info)
	}
	port := info.Port
	if port == 0 {
		port = DefaultPort
	}

	server, err := a.register(
		instance,
		ServiceType,
		Domain,
		port,
		EncodeTXT(info),
		a.getInterfaces(),
		uint32(a.config.TTL.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceType, err)
	}
	a.server = server
	a.instance = instance
	return nil
}

// Instance is the name currently advertised, or empty.
func (a *Advertiser) Instance() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.instance
}

func (a *Advertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
		a.instance = ""
	}
	return nil
}
