// ram_mapper_device.go - bank-switched external RAM expansion.
//
// Grounded on msx.py's memmap device: RAM split into 16KB segments,
// mapped to all four pages of one slot (every subslot), with the
// segment for each page selected by writing the segment number to
// ports 0xFC-0xFF (one port per page). msx.py fixes the expansion at
// 256KB/16 segments; SPEC_FULL.md widens this to a configurable
// segment count (up to 256, i.e. 4MB) with a full 8-bit selector
// register per page, so the constructor takes the segment count
// instead of hardcoding it.

package main

const ramMapperSegmentSize = 0x4000

// RAMMapperDevice is msx.py's memmap: plain RAM behind a 4-register
// bank select, registered at all four pages of a slot (and, per
// msx.py, every subslot of that slot, since the mapper is not itself
// subslot-aware).
type RAMMapperDevice struct {
	baseDevice
	segmentCount int
	ram          []byte
	segment      [pageCount]byte // selected segment per page (full byte)
}

// NewRAMMapperDevice allocates a mapper with segmentCount 16KB
// segments (1..256, i.e. up to 4MB of backing RAM).
func NewRAMMapperDevice(segmentCount int) *RAMMapperDevice {
	if segmentCount <= 0 {
		segmentCount = 16
	}
	if segmentCount > 256 {
		segmentCount = 256
	}
	return &RAMMapperDevice{
		baseDevice:   baseDevice{name: "RAM mapper", pages: []int{0, 1, 2, 3}},
		segmentCount: segmentCount,
		ram:          make([]byte, segmentCount*ramMapperSegmentSize),
	}
}

func (m *RAMMapperDevice) Reset() {
	m.segment = [pageCount]byte{}
}

func (m *RAMMapperDevice) ReadMem(addr uint16) byte {
	page := int(addr >> 14)
	seg := int(m.segment[page]) % m.segmentCount
	return m.ram[seg*ramMapperSegmentSize+int(addr&0x3FFF)]
}

func (m *RAMMapperDevice) WriteMem(addr uint16, value byte) {
	page := int(addr >> 14)
	seg := int(m.segment[page]) % m.segmentCount
	m.ram[seg*ramMapperSegmentSize+int(addr&0x3FFF)] = value
}

// IOReadPorts/IOWritePorts/ReadIO/WriteIO implement the segment-select
// ports 0xFC (page 0) through 0xFF (page 3). Unlike msx.py's 4-bit
// register, the selector is a full byte so segmentCount can exceed 16.
func (m *RAMMapperDevice) IOReadPorts() []int  { return []int{0xFC, 0xFD, 0xFE, 0xFF} }
func (m *RAMMapperDevice) IOWritePorts() []int { return []int{0xFC, 0xFD, 0xFE, 0xFF} }

func (m *RAMMapperDevice) ReadIO(port byte) byte {
	return m.segment[port-0xFC]
}

func (m *RAMMapperDevice) WriteIO(port byte, value byte) {
	m.segment[port-0xFC] = value
}
