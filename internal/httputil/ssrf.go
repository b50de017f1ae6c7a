package httputil

import (
	"errors"
	"fmt"
	"net"
)

// ErrBlockedAddress marks a redirect target that resolves to a non-public address.
var ErrBlockedAddress = errors.New("refusing redirect to non-public address")

var blockedClasses = []struct {
	label string
	match func(net.IP) bool
}{
	{"private", net.IP.IsPrivate},
	{"loopback", net.IP.IsLoopback},
	{"link-local", net.IP.IsLinkLocalUnicast},
	{"link-local multicast", net.IP.IsLinkLocalMulticast},
	{"multicast", net.IP.IsMulticast},
	{"unspecified", net.IP.IsUnspecified},
}

// ValidateIP returns an error wrapping ErrBlockedAddress when ip is private,
// loopback, link-local, multicast or unspecified. host is only used in the
// error text.
func ValidateIP(ip net.IP, host string) error {
	for _, c := range blockedClasses {
		if c.match(ip) {
			return fmt.Errorf("%w: %s is %s (%s)", ErrBlockedAddress, host, c.label, ip)
		}
	}
	return nil
}
