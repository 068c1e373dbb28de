package addrplan

import (
	"fmt"
	"net"
)

// OutOfRangeError is returned by Claim when the address is not inside the
// allocator's block.
type OutOfRangeError struct {
	Address net.IP
	Block   Block
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("address %s does not fall into the %s block", e.Address, e.Block)
}

// DuplicateAddressError is returned by Claim when the address has already
// been handed out or claimed.
type DuplicateAddressError struct {
	Address net.IP
}

func (e *DuplicateAddressError) Error() string {
	return fmt.Sprintf("address %s has already been assigned", e.Address)
}

// ExhaustedError is returned by NextAddress once the block is fully claimed.
type ExhaustedError struct {
	Block Block
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("out of addresses in block %s — increase the block size or reduce the number of hosts", e.Block)
}

// Allocator hands out unique addresses from a Block. All fixed addresses
// must be claimed before automatic assignment starts; Claim is deliberately
// not idempotent so that any collision between two fixed addresses, or
// between a fixed and an already assigned address, surfaces as an error.
type Allocator struct {
	block   Block
	claimed map[uint32]struct{}
	// cursor is the next automatic-assignment candidate. It is wider than
	// an address so that advancing past the last address of a /0 block
	// cannot wrap around.
	cursor uint64
}

// NewAllocator creates an Allocator over the given block with no addresses
// claimed.
func NewAllocator(block Block) *Allocator {
	return &Allocator{
		block:   block,
		claimed: make(map[uint32]struct{}),
		cursor:  block.first,
	}
}

// Block returns the block the allocator assigns from.
func (a *Allocator) Block() Block {
	return a.block
}

// Claim marks the given address as used. It fails with *OutOfRangeError if
// the address lies outside the block and with *DuplicateAddressError if it
// was already claimed.
func (a *Allocator) Claim(ip net.IP) error {
	if ip.To4() == nil || !a.block.Contains(ip) {
		return &OutOfRangeError{Address: ip, Block: a.block}
	}
	v := ipToUint32(ip)
	if _, ok := a.claimed[v]; ok {
		return &DuplicateAddressError{Address: ip}
	}
	a.claimed[v] = struct{}{}
	return nil
}

// NextAddress returns the lowest not-yet-claimed address in the block and
// marks it claimed. The scan starts right above the network address and is
// monotonic: repeated calls return a strictly increasing sequence. Once the
// block is used up it fails with *ExhaustedError.
func (a *Allocator) NextAddress() (net.IP, error) {
	for ; a.cursor <= uint64(a.block.last); a.cursor++ {
		v := uint32(a.cursor)
		if _, ok := a.claimed[v]; ok {
			continue
		}
		a.claimed[v] = struct{}{}
		a.cursor++
		return uint32ToIP(v), nil
	}
	return nil, &ExhaustedError{Block: a.block}
}
