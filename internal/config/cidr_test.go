package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIDRSubnet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		prefix   string
		newbits  int
		netnum   int
		expected string
		wantErr  bool
	}{
		{name: "first /25 of /19", prefix: "10.0.64.0/19", newbits: 6, netnum: 0, expected: "10.0.64.0/25"},
		{name: "second /25 of /19", prefix: "10.0.64.0/19", newbits: 6, netnum: 1, expected: "10.0.64.128/25"},
		{name: "last /25 of /19", prefix: "10.0.64.0/19", newbits: 6, netnum: 63, expected: "10.0.95.128/25"},
		{name: "netnum out of range", prefix: "10.0.64.0/19", newbits: 6, netnum: 64, wantErr: true},
		{name: "negative netnum", prefix: "10.0.64.0/19", newbits: 6, netnum: -1, wantErr: true},
		{name: "too many bits", prefix: "10.0.0.0/30", newbits: 8, netnum: 0, wantErr: true},
		{name: "ipv6 rejected", prefix: "2001:db8::/32", newbits: 8, netnum: 0, wantErr: true},
		{name: "garbage prefix", prefix: "not-a-cidr", newbits: 1, netnum: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CIDRSubnet(tt.prefix, tt.newbits, tt.netnum)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCIDRHost(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		prefix   string
		hostnum  int
		expected string
		wantErr  bool
	}{
		{name: "first host", prefix: "10.0.95.0/25", hostnum: 1, expected: "10.0.95.1"},
		{name: "gateway of network", prefix: "10.0.0.0/16", hostnum: 1, expected: "10.0.0.1"},
		{name: "from the end", prefix: "10.0.95.0/25", hostnum: -1, expected: "10.0.95.127"},
		{name: "past capacity", prefix: "10.0.95.0/30", hostnum: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CIDRHost(tt.prefix, tt.hostnum)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCIDRContains(t *testing.T) {
	t.Parallel()
	inside, err := CIDRContains("10.0.95.0/25", "10.0.95.42")
	require.NoError(t, err)
	assert.True(t, inside)

	outside, err := CIDRContains("10.0.95.0/25", "10.0.96.1")
	require.NoError(t, err)
	assert.False(t, outside)

	_, err = CIDRContains("10.0.95.0/25", "not-an-ip")
	require.Error(t, err)
}
