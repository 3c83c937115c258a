package pilot_config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config is the device configuration file.
type Config struct {
	Port            string          `yaml:"port"`
	Workers         int             `yaml:"workers"`
	LogLevel        string          `yaml:"log_level"`
	RequestLogLevel int             `yaml:"request_log_level"`
	ReadTimeout     time.Duration   `yaml:"read_timeout"`
	Target          string          `yaml:"target"`
	Network         NetworkConfig   `yaml:"network"`
	Pins            []PinConfig     `yaml:"pins"`
	Store           StoreConfig     `yaml:"store"`
	Capture         CaptureConfig   `yaml:"capture"`
	Discovery       DiscoveryConfig `yaml:"discovery"`
}

type NetworkConfig struct {
	MAC     string `yaml:"mac"`
	IP      string `yaml:"ip"`
	Gateway string `yaml:"gw"`
	Subnet  string `yaml:"sn"`
	DNS     string `yaml:"dns"`
	DHCP    bool   `yaml:"dhcp"`
}

// PinConfig overrides the factory configuration of one pin. Omitted
// fields keep their factory value.
type PinConfig struct {
	ID        string `yaml:"id"`
	Enabled   *bool  `yaml:"enabled"`
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
}

type StoreConfig struct {
	Backend  string                `yaml:"backend"`
	Path     string                `yaml:"path"`
	AutoSave bool                  `yaml:"auto_save"`
	Database DatabaseConfiguration `yaml:"database"`
}

type CaptureConfig struct {
	// Path of the CBOR capture file. Empty disables file capture.
	Path string `yaml:"path"`
	Slog bool   `yaml:"slog"`
}

type DiscoveryConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Instance   string   `yaml:"instance"`
	Interfaces []string `yaml:"interfaces"`
}

// Default returns the factory configuration.
func Default() *Config {
	info := pilot_userio.DefaultNetInfo()
	return &Config{
		Port:            "80",
		Workers:         3,
		LogLevel:        "info",
		RequestLogLevel: 0,
		ReadTimeout:     3 * time.Second,
		Target:          "wizwiki-7500eco",
		Network: NetworkConfig{
			MAC:     info.MAC.String(),
			IP:      pilot_userio.FormatIPv4(info.IP),
			Gateway: pilot_userio.FormatIPv4(info.Gateway),
			Subnet:  pilot_userio.FormatIPv4(info.Subnet),
			DNS:     pilot_userio.FormatIPv4(info.DNS),
			DHCP:    info.DHCP,
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			Path:    "pilot-io/pins.json",
			Database: DatabaseConfiguration{
				Host:     "localhost",
				Port:     "5432",
				Username: "pilot",
				Database: "pilot_io",
			},
		},
	}
}

// Parse decodes data over the factory configuration and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Message: err.Error(), Cause: err}
	}
	return cfg, nil
}

// Load reads the configuration file at path. An empty path yields the
// factory configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return cfg, nil
}

// ApplyEnvironment overlays PILOT_IO_* and DATABASE_* variables.
func (c *Config) ApplyEnvironment() {
	if v := os.Getenv("PILOT_IO_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("PILOT_IO_TARGET"); v != "" {
		c.Target = v
	}
	if v := os.Getenv("PILOT_IO_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("PILOT_IO_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	c.Store.Database = c.Store.Database.withEnvironment()
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the file backend")
		}
	case StorePostgres:
		if c.Store.Database.Host == "" || c.Store.Database.Database == "" {
			return fmt.Errorf("store.database host and database are required")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.NetInfo(); err != nil {
		return err
	}
	if _, err := c.PinOverrides(pilot_userio.DefaultPins()); err != nil {
		return err
	}
	return nil
}

// NetInfo converts the network section into the device's network info.
func (c *Config) NetInfo() (pilot_userio.NetInfo, error) {
	var info pilot_userio.NetInfo
	mac, err := parseMAC(c.Network.MAC)
	if err != nil {
		return info, err
	}
	info.MAC = mac
	info.DHCP = c.Network.DHCP
	fields := []struct {
		name  string
		value string
		dest  *net.IP
	}{
		{"network.ip", c.Network.IP, &info.IP},
		{"network.gw", c.Network.Gateway, &info.Gateway},
		{"network.sn", c.Network.Subnet, &info.Subnet},
		{"network.dns", c.Network.DNS, &info.DNS},
	}
	for _, f := range fields {
		ip, err := pilot_userio.ParseIPv4(f.value)
		if err != nil {
			return info, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dest = ip
	}
	return info, nil
}

// PinOverrides applies the pins section to base and returns the result.
func (c *Config) PinOverrides(base [pilot_userio.PinCount]pilot_userio.Pin) ([]pilot_userio.Pin, error) {
	pins := base
	for _, pc := range c.Pins {
		i, ok := pilot_userio.PinIndex(pc.ID)
		if !ok {
			return nil, fmt.Errorf("pins: unknown pin %q", pc.ID)
		}
		if pc.Enabled != nil {
			pins[i].Enabled = *pc.Enabled
		}
		if pc.Type != "" {
			t, ok := pilot_userio.ParsePinType(pc.Type)
			if !ok {
				return nil, fmt.Errorf("pins.%s: unknown type %q", pc.ID, pc.Type)
			}
			pins[i].Type = t
		}
		if pc.Direction != "" {
			d, ok := pilot_userio.ParseDirection(pc.Direction)
			if !ok {
				return nil, fmt.Errorf("pins.%s: unknown direction %q", pc.ID, pc.Direction)
			}
			pins[i].Direction = d
		}
		if pins[i].Type == pilot_userio.PinAnalog && pins[i].Direction == pilot_userio.DirectionOutput {
			return nil, fmt.Errorf("pins.%s: analog pins are input only", pc.ID)
		}
	}
	return pins[:], nil
}
