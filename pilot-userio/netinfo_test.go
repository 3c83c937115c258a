package pilot_userio

import (
	"net"
	"testing"
	"time"
)

func TestNetInfoFormatting(t *testing.T) {
	info := DefaultNetInfo()
	if got := info.MACString(); got != "00:08:dc:aa:bb:cc" {
		t.Errorf("MACString() = %v", got)
	}
	if got := info.MACSuffix(); got != "aabbcc" {
		t.Errorf("MACSuffix() = %v", got)
	}
	if got := info.DHCPString(); got != "disabled" {
		t.Errorf("DHCPString() = %v", got)
	}
	info.DHCP = true
	if got := info.DHCPString(); got != "enabled" {
		t.Errorf("DHCPString() = %v", got)
	}
}

func TestFormatIPv4(t *testing.T) {
	tests := []struct {
		name string
		ip   net.IP
		want string
	}{
		{"v4", net.IPv4(192, 168, 11, 5), "192.168.11.5"},
		{"v4 short", net.IP{10, 0, 0, 1}, "10.0.0.1"},
		{"nil", nil, "0.0.0.0"},
		{"v6", net.ParseIP("fe80::1"), "0.0.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatIPv4(tt.ip); got != tt.want {
				t.Errorf("FormatIPv4() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUptimeFromDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want Uptime
	}{
		{"zero", 0, Uptime{}},
		{"negative", -time.Second, Uptime{}},
		{"mixed", 26*time.Hour + 3*time.Minute + 4*time.Second + 5*time.Millisecond, Uptime{Hour: 26, Min: 3, Sec: 4, Msec: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UptimeFromDuration(tt.d); got != tt.want {
				t.Errorf("UptimeFromDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSystemClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &SystemClock{start: start, now: func() time.Time { return start.Add(90 * time.Minute) }}
	if got := c.Uptime(); got != (Uptime{Hour: 1, Min: 30}) {
		t.Errorf("Uptime() = %v", got)
	}
}
