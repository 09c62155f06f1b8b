// rom_device.go - plain ROM and bank-switched cartridge ROM mapper.
//
// Grounded on msx.py's rom/gen_rom wiring: a ROM device occupies one
// or more 16KB pages and is read-only at the memory level, ignoring
// writes (a real cartridge's write-protect, not a panic condition).
// Bank-switched cartridges (ASCII8/ASCII16/Konami/Konami-SCC) layer
// bank-select writes on top of the same flat image.

package main

import (
	"fmt"
	"os"
)

// MapperKind identifies which bank-switching convention a cartridge
// ROM uses. Plain ROMs (BIOS/BASIC) use MapperNone and are never
// bank-switched.
type MapperKind int

const (
	MapperNone MapperKind = iota
	MapperASCII8
	MapperASCII16
	MapperKonami
	MapperKonamiSCC
)

// ROMDevice is a read-only image mapped starting at a given page.
// Used directly (MapperNone) for the BIOS/BASIC ROM at slot 0, and
// as the backing image for bank-switched cartridges.
type ROMDevice struct {
	baseDevice
	image  []byte
	mapper MapperKind

	// bank-switching state, meaningless when mapper == MapperNone.
	banks    [4]int // selected 8KB (ASCII8/Konami) or 16KB (ASCII16) bank per window
	bankMask int     // bank index mask derived from image size
	scc      *SCCDevice
}

// NewROMDevice loads path into memory and maps it starting at
// startPage (normally 0 for a BIOS occupying slot 0's full 64KB, or
// the single page a simple 16KB/32KB cartridge ROM claims).
func NewROMDevice(name, path string, startPage int) (*ROMDevice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rom device %s: %w", name, err)
	}
	pages := []int{}
	for p := startPage; p < pageCount && (p-startPage)*pageSize < len(data); p++ {
		pages = append(pages, p)
	}
	if len(pages) == 0 {
		pages = []int{startPage}
	}
	return &ROMDevice{
		baseDevice: baseDevice{name: name, pages: pages},
		image:      data,
	}, nil
}

// NewMapperROMDevice loads a cartridge image and wires it up with one
// of the bank-switched mapper conventions. scc is non-nil only for
// MapperKonamiSCC, whose 0x9800-0x9FFF region serves the SCC's
// registers once a write in 0xB800-0xBFFF has switched the SCC in.
func NewMapperROMDevice(name, path string, mapper MapperKind, scc *SCCDevice) (*ROMDevice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapper rom %s: %w", name, err)
	}
	bankSize := 8192
	if mapper == MapperASCII16 {
		bankSize = 16384
	}
	mask := len(data)/bankSize - 1
	if mask < 0 {
		mask = 0
	}
	r := &ROMDevice{
		baseDevice: baseDevice{name: name, pages: []int{0, 1, 2, 3}},
		image:      data,
		mapper:     mapper,
		bankMask:   mask,
		scc:        scc,
	}
	for i := range r.banks {
		r.banks[i] = i % (mask + 1)
	}
	return r, nil
}

func (r *ROMDevice) Reset() {
	for i := range r.banks {
		r.banks[i] = i
	}
}

// ReadMem returns the byte at addr, resolved through whatever bank is
// currently selected for the 8KB/16KB window addr falls in.
func (r *ROMDevice) ReadMem(addr uint16) byte {
	switch r.mapper {
	case MapperNone:
		off := int(addr) - int(r.Pages()[0])*pageSize
		if off < 0 || off >= len(r.image) {
			return 0xFF
		}
		return r.image[off]

	case MapperASCII16:
		window := (addr - 0x4000) / 0x4000 // 0 or 1; ASCII16 only maps 0x4000-0xBFFF
		if addr < 0x4000 || addr >= 0xC000 {
			return 0xFF
		}
		bank := r.banks[window] & r.bankMask
		off := bank*16384 + int(addr&0x3FFF)
		return r.byteAt(off)

	default: // ASCII8, Konami, Konami-SCC: four 8KB windows from 0x4000
		if addr < 0x4000 || addr >= 0xC000 {
			return 0xFF
		}
		window := (addr - 0x4000) / 0x2000
		if r.mapper == MapperKonamiSCC && r.scc != nil && window == 2 && addr >= 0x9800 && r.scc.sccEnabled {
			return r.scc.ReadWave(addr)
		}
		bank := r.banks[window] & r.bankMask
		off := bank*8192 + int(addr&0x1FFF)
		return r.byteAt(off)
	}
}

func (r *ROMDevice) byteAt(off int) byte {
	if off < 0 || off >= len(r.image) {
		return 0xFF
	}
	return r.image[off]
}

// WriteMem handles bank-select writes for the cartridge mappers; for a
// plain ROM it is a no-op (real ROM hardware ignores writes).
func (r *ROMDevice) WriteMem(addr uint16, value byte) {
	switch r.mapper {
	case MapperNone:
		return

	case MapperASCII8:
		switch {
		case addr >= 0x6000 && addr < 0x6800:
			r.banks[0] = int(value)
		case addr >= 0x6800 && addr < 0x7000:
			r.banks[1] = int(value)
		case addr >= 0x7000 && addr < 0x7800:
			r.banks[2] = int(value)
		case addr >= 0x7800 && addr < 0x8000:
			r.banks[3] = int(value)
		}

	case MapperASCII16:
		switch {
		case addr >= 0x6000 && addr < 0x6800:
			r.banks[0] = int(value)
		case addr >= 0x7000 && addr < 0x7800:
			r.banks[1] = int(value)
		}

	case MapperKonami:
		// Konami (no SCC): bank-select windows at 0x4000/0x6000/0x8000/0xA000,
		// each 8KB wide, write-anywhere-in-window selects the bank.
		window := int(addr-0x4000) / 0x2000
		if window >= 0 && window < 4 {
			r.banks[window] = int(value)
		}

	case MapperKonamiSCC:
		// Same four windows, but window 2's upper half (0x9800-0x9FFF)
		// is the live SCC register page once enabled, and a write
		// anywhere in window 3's upper half (0xB800-0xBFFF) sets the
		// cartridge's SCC in/out gate (nonzero in, zero out).
		window := int(addr-0x4000) / 0x2000
		if window == 2 && addr >= 0x9800 && r.scc != nil && r.scc.sccEnabled {
			r.scc.WriteWave(addr, value)
			return
		}
		if window == 3 && addr >= 0xB800 && r.scc != nil {
			r.scc.WriteEnable(value)
			return
		}
		if window >= 0 && window < 4 {
			r.banks[window] = int(value)
		}
	}
}
