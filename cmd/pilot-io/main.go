// Command pilot-io serves the user I/O pins of a simulated board over a
// REST interface.
//
// Usage:
//
//	pilot-io [flags]
//
// Flags:
//
//	-config string       Configuration file path
//	-port string         Listen port (overrides the configuration)
//	-log-level string    Log level: debug, info, warn, error (default "info")
//	-request-log int     Request log detail: 0 none, 1 request line, 2 dispatch
//	-store string        Pin store backend: memory, file, postgres
//	-capture string      Append a CBOR capture of every exchange to this file
//	-dump-capture string Print a capture file and exit
//	-interactive         Start the debug console
//
// Examples:
//
//	# Serve on port 8080 with the console
//	pilot-io -port 8080 -interactive
//
//	# Persist pins in PostgreSQL
//	DATABASE_HOST=db pilot-io -store postgres
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	pilot "github.com/jacksonzamorano/pilot-io"
	"github.com/jacksonzamorano/pilot-io/cmd/pilot-io/interactive"
	pilot_capture "github.com/jacksonzamorano/pilot-io/pilot-capture"
	pilot_config "github.com/jacksonzamorano/pilot-io/pilot-config"
	pilot_db "github.com/jacksonzamorano/pilot-io/pilot-db"
	pilot_discovery "github.com/jacksonzamorano/pilot-io/pilot-discovery"
	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
)

// Flags holds the command line. Empty values leave the configuration alone.
type Flags struct {
	ConfigFile  string
	Port        string
	LogLevel    string
	RequestLog  int
	Store       string
	CapturePath string
	DumpCapture string
	Interactive bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.Port, "port", "", "Listen port (overrides the configuration)")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.IntVar(&flags.RequestLog, "request-log", -1, "Request log detail: 0 none, 1 request line, 2 dispatch")
	flag.StringVar(&flags.Store, "store", "", "Pin store backend: memory, file, postgres")
	flag.StringVar(&flags.CapturePath, "capture", "", "Append a CBOR capture of every exchange to this file")
	flag.StringVar(&flags.DumpCapture, "dump-capture", "", "Print a capture file and exit")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Start the debug console")
}

func main() {
	flag.Parse()
	os.Exit(run(flags))
}

// run returns the process exit code. Everything it opens is closed by its
// deferred calls before main exits.
func run(f Flags) int {
	if f.DumpCapture != "" {
		if err := dumpCapture(os.Stdout, f.DumpCapture, pilot_capture.Filter{}); err != nil {
			log.Printf("Failed to read capture: %v", err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(f)
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}
	setupLogging(cfg.LogLevel)

	log.Println("pilot-io")
	log.Println("========")
	log.Printf("Target: %s", cfg.Target)
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Store: %s", cfg.Store.Backend)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hw := pilot_userio.NewSimulatedHardware()
	device, closeStore, err := createDevice(ctx, cfg, hw)
	if err != nil {
		log.Printf("Failed to create device: %v", err)
		return 1
	}
	defer closeStore()

	capture, closeCapture, err := createCapture(cfg)
	if err != nil {
		log.Printf("Failed to open capture: %v", err)
		return 1
	}
	defer closeCapture()

	app := pilot.NewServer(cfg.Port, device, ctx)
	app.WorkerCount = int32(cfg.Workers)
	app.LogRequestsLevel = cfg.RequestLogLevel
	app.ReadTimeout = cfg.ReadTimeout
	app.Capture = capture

	if cfg.Discovery.Enabled {
		advertiser := pilot_discovery.NewAdvertiser(pilot_discovery.Config{
			Interface: firstOrEmpty(cfg.Discovery.Interfaces),
			Instance:  cfg.Discovery.Instance,
		})
		if err := advertiser.Advertise(ctx, discoveryInfo(cfg, device)); err != nil {
			log.Printf("Warning: mDNS advertising failed: %v", err)
		} else {
			log.Printf("Advertising %s as %s", pilot_discovery.ServiceType, advertiser.Instance())
			defer advertiser.Stop()
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- app.Start()
	}()

	if f.Interactive {
		console, err := interactive.New(device, hw)
		if err != nil {
			log.Printf("Failed to start console: %v", err)
			cancel()
			<-done
			return 1
		}
		log.SetOutput(console.Stdout())
		go console.Run(ctx, cancel)
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
		if err := <-done; err != nil {
			log.Printf("Error stopping server: %v", err)
		}
	case err := <-done:
		if err != nil {
			log.Printf("Server failed: %v", err)
			cancel()
			return 1
		}
	}
	if cfg.Store.AutoSave {
		if err := device.Save(context.Background()); err != nil {
			log.Printf("Error saving pins: %v", err)
		}
	}
	log.Println("Goodbye!")
	return 0
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// loadConfig reads the configuration file, then the environment, then
// the command line, each overriding the last.
func loadConfig(f Flags) (*pilot_config.Config, error) {
	cfg, err := pilot_config.Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvironment()
	if f.Port != "" {
		cfg.Port = f.Port
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.RequestLog >= 0 {
		cfg.RequestLogLevel = f.RequestLog
	}
	if f.Store != "" {
		cfg.Store.Backend = f.Store
	}
	if f.CapturePath != "" {
		cfg.Capture.Path = f.CapturePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *pilot_config.Config) (pilot_userio.ConfigStore, func(), error) {
	switch cfg.Store.Backend {
	case pilot_config.StoreFile:
		return pilot_userio.NewFileStore(cfg.Store.Path), func() {}, nil
	case pilot_config.StorePostgres:
		store, err := pilot_db.Connect(ctx, cfg.Store.Database.GetConnectionString())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return pilot_userio.NewMemoryStore(), func() {}, nil
	}
}

// createDevice applies the configured pins, then anything saved in the
// store on top of them.
func createDevice(ctx context.Context, cfg *pilot_config.Config, hw pilot_userio.Hardware) (*pilot.Device, func(), error) {
	bank := pilot_userio.NewBank(hw)
	pins, err := cfg.PinOverrides(pilot_userio.DefaultPins())
	if err != nil {
		return nil, nil, err
	}
	if err := bank.Apply(pins); err != nil {
		return nil, nil, err
	}
	info, err := cfg.NetInfo()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	device := pilot.NewDevice(bank, pilot_userio.NewSystemClock(), pilot_userio.StaticNetInfo{Info: info}, store)
	device.Target = cfg.Target
	device.AutoSave = cfg.Store.AutoSave
	device.Debug = cfg.LogLevel == "debug"
	if err := device.Restore(ctx); err != nil {
		closeStore()
		return nil, nil, err
	}
	return device, closeStore, nil
}

func createCapture(cfg *pilot_config.Config) (pilot_capture.Logger, func(), error) {
	loggers := []pilot_capture.Logger{}
	closeFn := func() {}
	if cfg.Capture.Path != "" {
		fl, err := pilot_capture.NewFileLogger(cfg.Capture.Path)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeFn = func() { fl.Close() }
	}
	if cfg.Capture.Slog {
		loggers = append(loggers, pilot_capture.NewSlogAdapter(slog.Default()))
	}
	if len(loggers) == 0 {
		return pilot_capture.NoopLogger{}, closeFn, nil
	}
	return pilot_capture.NewMultiLogger(loggers...), closeFn, nil
}

func discoveryInfo(cfg *pilot_config.Config, device *pilot.Device) pilot_discovery.Info {
	port := pilot_discovery.DefaultPort
	portString := cfg.Port
	if i := strings.LastIndex(portString, ":"); i >= 0 {
		portString = portString[i+1:]
	}
	if p, err := strconv.Atoi(portString); err == nil && p > 0 {
		port = p
	}
	pins := []string{}
	for _, p := range device.Bank.EnabledPins() {
		pins = append(pins, p.ID)
	}
	return pilot_discovery.Info{
		Target:    device.Target,
		MACSuffix: device.Network.NetInfo().MACSuffix(),
		Port:      port,
		Pins:      pins,
		Path:      "/index",
	}
}

func firstOrEmpty(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func dumpCapture(w io.Writer, path string, filter pilot_capture.Filter) error {
	reader, err := pilot_capture.NewFilteredReader(path, filter)
	if err != nil {
		return err
	}
	defer reader.Close()
	events, err := reader.All()
	if err != nil {
		return err
	}
	for _, event := range events {
		fmt.Fprintln(w, formatEvent(event))
	}
	return nil
}

func formatEvent(event pilot_capture.Event) string {
	prefix := fmt.Sprintf("%s %s %-8s %s", event.Timestamp.Format("15:04:05.000"), event.Direction, event.Category, shortID(event.ConnectionID))
	switch {
	case event.Request != nil:
		return fmt.Sprintf("%s %s %s /%s", prefix, event.RemoteAddr, event.Request.Method, event.Request.Path)
	case event.Response != nil:
		return fmt.Sprintf("%s %d (%d bytes)", prefix, event.Response.Status, event.Response.BodySize)
	case event.StateChange != nil:
		return fmt.Sprintf("%s %s -> %s %s", prefix, event.StateChange.OldState, event.StateChange.NewState, event.StateChange.Reason)
	case event.Error != nil:
		return fmt.Sprintf("%s %s", prefix, event.Error.Message)
	}
	return prefix
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
