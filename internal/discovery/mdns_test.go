// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name    string
		entry   *zeroconf.ServiceEntry
		wantNil bool
		wantIP  string
		wantURL string
	}{
		{
			name: "IPv4 with defaults",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Archer TRS-1"},
				HostName:      "archer-1.local.",
				AddrIPv4:      []net.IP{net.ParseIP("192.168.100.1")},
			},
			wantIP:  "192.168.100.1",
			wantURL: "ws://192.168.100.1:80/ws",
		},
		{
			name: "custom path port and tls",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Archer TRS-2"},
				Port:          8443,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.7")},
				Text:          []string{"path=control", "tls=1", "model=TRS"},
			},
			wantIP:  "10.0.0.7",
			wantURL: "wss://10.0.0.7:8443/control",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Archer v6"},
				Port:          8080,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantIP:  "fe80::1",
			wantURL: "ws://[fe80::1]:8080/ws",
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Archer dual"},
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantIP:  "192.168.1.50",
			wantURL: "ws://192.168.1.50:80/ws",
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Archer ghost"},
			},
			wantNil: true,
		},
		{
			name:    "no instance",
			entry:   &zeroconf.ServiceEntry{AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")}},
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := parseServiceEntry(tt.entry)
			if tt.wantNil {
				assert.Nil(t, device)
				return
			}
			require.NotNil(t, device)
			assert.Equal(t, tt.wantIP, device.IP)
			assert.Equal(t, tt.wantURL, device.URL())
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	device := parseServiceEntry(&zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "Archer"},
		AddrIPv4:      []net.IP{net.ParseIP("192.168.1.2")},
		Text:          []string{"fw=2.1.0", "beta"},
	})
	require.NotNil(t, device)

	assert.Equal(t, map[string]string{"fw": "2.1.0", "beta": ""}, device.Metadata)
	assert.False(t, device.TLS)
	assert.Equal(t, DefaultPath, device.Path)
}

func TestNewScanner(t *testing.T) {
	assert.Equal(t, DefaultScanTimeout, NewScanner().Timeout)
}
