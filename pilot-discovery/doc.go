// Package pilot_discovery advertises the device's REST interface over
// mDNS so clients on the local network can find it without knowing its
// address.
package pilot_discovery
