// Package addrplan implements IPv4 address allocation from a CIDR block.
// The allocator hands out the lowest free address in ascending order, and
// supports pre-claiming fixed addresses so that automatic assignment never
// collides with pinned ones.
package addrplan

import (
	"encoding/binary"
	"fmt"
	"net"
	"strings"

	"github.com/apparentlymart/go-cidr/cidr"
)

// Block is a parsed IPv4 CIDR block.
type Block struct {
	ipnet *net.IPNet
	// first is the lowest automatic-assignment candidate (network + 1).
	// It is wider than an address so a /32 block at the top of the address
	// space yields an empty candidate range instead of wrapping.
	first uint64
	last  uint32 // highest address in the block
}

// ParseBlock parses a CIDR string like "172.16.0.0/24" into a Block.
// Only IPv4 blocks are supported. A network with host bits set is rejected
// with a hint at the canonical form.
func ParseBlock(s string) (Block, error) {
	s = strings.TrimSpace(s)
	ip, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return Block{}, fmt.Errorf("parsing CIDR %q: %w", s, err)
	}
	if ip.To4() == nil {
		return Block{}, fmt.Errorf("CIDR %q is not an IPv4 block", s)
	}
	if !ip.Equal(ipnet.IP) {
		return Block{}, fmt.Errorf("CIDR %q has host bits set — did you mean %s", s, ipnet)
	}

	firstIP, lastIP := cidr.AddressRange(ipnet)
	return Block{
		ipnet: ipnet,
		first: uint64(ipToUint32(firstIP)) + 1,
		last:  ipToUint32(lastIP),
	}, nil
}

// String returns the block in CIDR notation.
func (b Block) String() string {
	return b.ipnet.String()
}

// Network returns the block's network address.
func (b Block) Network() net.IP {
	return b.ipnet.IP
}

// PrefixLen returns the block's prefix length in bits.
func (b Block) PrefixLen() int {
	ones, _ := b.ipnet.Mask.Size()
	return ones
}

// Contains reports whether the given address lies within the block.
func (b Block) Contains(ip net.IP) bool {
	return b.ipnet.Contains(ip)
}

func ipToUint32(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip.To4())
}

func uint32ToIP(v uint32) net.IP {
	ip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(ip, v)
	return ip
}
