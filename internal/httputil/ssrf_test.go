package httputil

import (
	"errors"
	"net"
	"strings"
	"testing"
)

func TestValidateIPBlocked(t *testing.T) {
	tests := []struct {
		ip    string
		label string
	}{
		{"10.0.0.1", "private"},
		{"172.16.0.1", "private"},
		{"192.168.255.255", "private"},
		{"fd00::1", "private"},
		{"127.0.0.1", "loopback"},
		{"::1", "loopback"},
		{"169.254.169.254", "link-local"},
		{"fe80::1", "link-local"},
		{"224.0.0.1", "link-local multicast"},
		{"239.1.1.1", "multicast"},
		{"0.0.0.0", "unspecified"},
		{"::", "unspecified"},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			err := ValidateIP(net.ParseIP(tt.ip), "target.test")
			if !errors.Is(err, ErrBlockedAddress) {
				t.Fatalf("ValidateIP(%s) = %v, want ErrBlockedAddress", tt.ip, err)
			}
			if !strings.Contains(err.Error(), "is "+tt.label+" ") {
				t.Errorf("error %q should name class %q", err, tt.label)
			}
			if !strings.Contains(err.Error(), "target.test") {
				t.Errorf("error %q should name the host", err)
			}
		})
	}
}

func TestValidateIPPublic(t *testing.T) {
	for _, s := range []string{"8.8.8.8", "142.250.72.10", "2607:f8b0:4004:800::200e"} {
		t.Run(s, func(t *testing.T) {
			if err := ValidateIP(net.ParseIP(s), s); err != nil {
				t.Errorf("ValidateIP(%s) = %v, want nil", s, err)
			}
		})
	}
}
