// device.go - Device interface shared by every bus-attached peripheral.
//
// Mirrors the interface-segregation style of the teacher's
// video_interface.go: small, composable interfaces rather than one
// monolithic one, so a device only implements the behaviour it needs.

package main

// Device is the minimum contract the bus needs to slot something into
// the memory grid and/or the I/O port table. A device that only uses
// I/O ports (the PSG, the RTC) returns nil pages.
type Device interface {
	Name() string
	// Pages lists the slot pages (0-3) this device occupies when
	// registered with AddDevice. A device that only answers I/O ports
	// returns nil.
	Pages() []int
	ReadMem(addr uint16) byte
	WriteMem(addr uint16, value byte)
}

// IOReader/IOWriter let a device claim specific I/O ports independent
// of whatever memory pages it also occupies (an SCC cartridge occupies
// memory pages but no ports; the PSG occupies ports but no pages).
type IOReader interface {
	IOReadPorts() []int
	ReadIO(port byte) byte
}

type IOWriter interface {
	IOWritePorts() []int
	WriteIO(port byte, value byte)
}

// Resettable is implemented by devices that hold state surviving
// across instructions and must be rewound on a hard reset.
type Resettable interface {
	Reset()
}

// Tickable is implemented by devices whose internal state advances
// with bus clock cycles. None of the devices in this package implement
// it: the RTC reads system time directly, and the VDP's frame
// interrupt comes from the display task's timer.
type Tickable interface {
	Tick(cycles int)
}

// baseDevice gives a concrete device type a Name()/Pages() pair
// without repeating the same two methods on every struct.
type baseDevice struct {
	name  string
	pages []int
}

func (b *baseDevice) Name() string { return b.name }
func (b *baseDevice) Pages() []int { return b.pages }
