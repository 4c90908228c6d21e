package config

import (
	"encoding/binary"
	"fmt"
	"net"
)

// CIDRSubnet carves the netnum-th subnet of the given extra mask bits out
// of prefix, in the manner of Terraform's cidrsubnet. Only IPv4 prefixes
// are supported; the vSwitch network is IPv4-only.
func CIDRSubnet(prefix string, newbits, netnum int) (string, error) {
	network, err := parseIPv4CIDR(prefix)
	if err != nil {
		return "", err
	}

	maskSize, totalBits := network.Mask.Size()
	newMaskSize := maskSize + newbits
	if newMaskSize > totalBits {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}

	maxSubnets := 1 << newbits
	if netnum < 0 || netnum >= maxSubnets {
		return "", fmt.Errorf("subnet number %d out of range [0, %d)", netnum, maxSubnets)
	}

	subnetSize := uint64(1) << (totalBits - newMaskSize)
	base := ipv4ToUint(network.IP) + uint64(netnum)*subnetSize

	return fmt.Sprintf("%s/%d", uintToIPv4(base), newMaskSize), nil
}

// CIDRHost returns the hostnum-th address inside prefix, counting from
// the end when hostnum is negative, in the manner of Terraform's cidrhost.
func CIDRHost(prefix string, hostnum int) (string, error) {
	network, err := parseIPv4CIDR(prefix)
	if err != nil {
		return "", err
	}

	maskSize, totalBits := network.Mask.Size()
	maxHosts := uint64(1) << (totalBits - maskSize)

	var offset uint64
	if hostnum < 0 {
		abs := uint64(-hostnum)
		if abs > maxHosts {
			return "", fmt.Errorf("host number %d exceeds capacity %d of %s", hostnum, maxHosts, prefix)
		}
		offset = maxHosts - abs
	} else {
		offset = uint64(hostnum)
		if offset >= maxHosts {
			return "", fmt.Errorf("host number %d exceeds capacity %d of %s", hostnum, maxHosts, prefix)
		}
	}

	return uintToIPv4(ipv4ToUint(network.IP) + offset).String(), nil
}

// CIDRContains reports whether addr falls inside prefix.
func CIDRContains(prefix, addr string) (bool, error) {
	network, err := parseIPv4CIDR(prefix)
	if err != nil {
		return false, err
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false, fmt.Errorf("invalid IP address %q", addr)
	}
	return network.Contains(ip), nil
}

func parseIPv4CIDR(prefix string) (*net.IPNet, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if network.IP.To4() == nil {
		return nil, fmt.Errorf("only IPv4 prefixes are supported, got %s", prefix)
	}
	return network, nil
}

func ipv4ToUint(ip net.IP) uint64 {
	return uint64(binary.BigEndian.Uint32(ip.To4()))
}

func uintToIPv4(val uint64) net.IP {
	ip := make(net.IP, 4)
	// #nosec G115
	binary.BigEndian.PutUint32(ip, uint32(val))
	return ip
}
