// Package memory defines the basic interfaces for working
// with a 6502 family memory map along with a flat, bounds
// checked implementation used by the CPU core. Any access
// outside of the configured window is an error rather than
// a silent wrap or clamp.
package memory

import (
	"errors"
	"fmt"
)

// MAX_SIZE is the full 16 bit address space.
const MAX_SIZE = 65536

// ErrAddressOutOfRange is matched (via errors.Is) by every AddressOutOfRange.
var ErrAddressOutOfRange = errors.New("address out of range")

// AddressOutOfRange represents an access past the end of the memory window.
type AddressOutOfRange struct {
	Addr int
	Size int
}

// Error implements the interface for error types.
func (e AddressOutOfRange) Error() string {
	return fmt.Sprintf("address 0x%.4X out of range (size 0x%.4X)", e.Addr, e.Size)
}

// Is allows errors.Is(err, ErrAddressOutOfRange).
func (e AddressOutOfRange) Is(target error) bool {
	return target == ErrAddressOutOfRange
}

type Bank interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) (uint8, error)
	// Write updates addr with the new value and returns it.
	Write(addr uint16, val uint8) (uint8, error)
	// PowerOn performs power on reset of the memory. This is implementation specific as to
	// whether it's randomized or preset to all zeros.
	PowerOn()
}

// Flat is a single contiguous RAM region starting at address 0.
type Flat struct {
	addr []uint8
}

// NewFlat returns zero filled memory of the given size which must be
// between 1 and MAX_SIZE.
func NewFlat(size int) (*Flat, error) {
	if size <= 0 || size > MAX_SIZE {
		return nil, fmt.Errorf("memory size %d invalid, must be 1-%d", size, MAX_SIZE)
	}
	return &Flat{addr: make([]uint8, size)}, nil
}

// Size returns the number of addressable cells.
func (f *Flat) Size() int {
	return len(f.addr)
}

func (f *Flat) check(addr int) error {
	if addr < 0 || addr >= len(f.addr) {
		return AddressOutOfRange{Addr: addr, Size: len(f.addr)}
	}
	return nil
}

// Read implements Bank.
func (f *Flat) Read(addr uint16) (uint8, error) {
	if err := f.check(int(addr)); err != nil {
		return 0, err
	}
	return f.addr[addr], nil
}

// Write implements Bank.
func (f *Flat) Write(addr uint16, val uint8) (uint8, error) {
	if err := f.check(int(addr)); err != nil {
		return 0, err
	}
	f.addr[addr] = val
	return f.addr[addr], nil
}

// PowerOn zero fills the entire region.
func (f *Flat) PowerOn() {
	for i := range f.addr {
		f.addr[i] = 0x00
	}
}

// Load copies data into memory starting at offset. If any part of it
// would land outside the window nothing is written.
func (f *Flat) Load(offset uint16, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := f.check(int(offset) + len(data) - 1); err != nil {
		return fmt.Errorf("loading 0x%.4X bytes at 0x%.4X: %w", len(data), offset, err)
	}
	copy(f.addr[offset:], data)
	return nil
}
