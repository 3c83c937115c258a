package pilot_config

import (
	"fmt"
	"net"
)

func parseMAC(s string) (net.HardwareAddr, error) {
	mac, err := net.ParseMAC(s)
	if err != nil {
		return nil, fmt.Errorf("network.mac: %w", err)
	}
	if len(mac) != 6 {
		return nil, fmt.Errorf("network.mac: want 6 octets, got %d", len(mac))
	}
	return mac, nil
}
