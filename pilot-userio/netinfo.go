package pilot_userio

import (
	"fmt"
	"net"
	"strings"
)

type NetInfo struct {
	MAC     net.HardwareAddr
	IP      net.IP
	Gateway net.IP
	Subnet  net.IP
	DNS     net.IP
	DHCP    bool
}

type NetInfoProvider interface {
	NetInfo() NetInfo
}

// StaticNetInfo serves a fixed network configuration.
type StaticNetInfo struct {
	Info NetInfo
}

func (s StaticNetInfo) NetInfo() NetInfo {
	return s.Info
}

// DefaultNetInfo is the factory network configuration.
func DefaultNetInfo() NetInfo {
	return NetInfo{
		MAC:     net.HardwareAddr{0x00, 0x08, 0xdc, 0xaa, 0xbb, 0xcc},
		IP:      net.IPv4(192, 168, 11, 5).To4(),
		Gateway: net.IPv4(192, 168, 11, 1).To4(),
		Subnet:  net.IPv4(255, 255, 255, 0).To4(),
		DNS:     net.IPv4(8, 8, 8, 8).To4(),
		DHCP:    false,
	}
}

// MACString formats the hardware address as lower case colon separated hex.
func (n NetInfo) MACString() string {
	parts := make([]string, len(n.MAC))
	for i, b := range n.MAC {
		parts[i] = fmt.Sprintf("%.2x", b)
	}
	return strings.Join(parts, ":")
}

func (n NetInfo) DHCPString() string {
	if n.DHCP {
		return "enabled"
	}
	return "disabled"
}

// MACSuffix is the last three octets without separators.
func (n NetInfo) MACSuffix() string {
	if len(n.MAC) < 3 {
		return ""
	}
	return fmt.Sprintf("%x", []byte(n.MAC[len(n.MAC)-3:]))
}

// FormatIPv4 renders ip in dotted decimal, or 0.0.0.0 when it is not an
// IPv4 address.
func FormatIPv4(ip net.IP) string {
	v4 := ip.To4()
	if v4 == nil {
		return "0.0.0.0"
	}
	return fmt.Sprintf("%d.%d.%d.%d", v4[0], v4[1], v4[2], v4[3])
}

// ParseIPv4 parses a dotted decimal address.
func ParseIPv4(s string) (net.IP, error) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("invalid IPv4 address %q", s)
	}
	return ip.To4(), nil
}
