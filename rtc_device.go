// rtc_device.go - RP-5C01-class real time clock.
//
// Grounded directly on RP_5C01.py: a write-only register-index port
// (0xB4) selects which BCD-split wall-clock digit the following read
// from the data port (0xB5) returns. Indices 0x0D and above fall
// through to a small block of general-purpose storage registers
// rather than the clock itself.

package main

import "time"

// RTCDevice is an I/O-only device: it occupies no memory page.
type RTCDevice struct {
	baseDevice
	index byte
	regs  [16]byte
	debug func(string, ...any)
	now   func() time.Time // overridable for tests
}

func NewRTCDevice(debug func(string, ...any)) *RTCDevice {
	if debug == nil {
		debug = func(string, ...any) {}
	}
	return &RTCDevice{
		baseDevice: baseDevice{name: "RP-5C01 (RTC)"},
		debug:      debug,
		now:        time.Now,
	}
}

func (r *RTCDevice) Reset() {
	r.index = 0
	r.regs = [16]byte{}
}

// ReadMem/WriteMem satisfy Device; the RTC occupies no memory page.
func (r *RTCDevice) ReadMem(addr uint16) byte      { return 0xFF }
func (r *RTCDevice) WriteMem(addr uint16, v byte)  {}

func (r *RTCDevice) IOReadPorts() []int  { return []int{0xB5} }
func (r *RTCDevice) IOWritePorts() []int { return []int{0xB4, 0xB5} }

func (r *RTCDevice) ReadIO(port byte) byte {
	now := r.now()
	switch r.index {
	case 0x00:
		return byte(now.Second() % 10)
	case 0x01:
		return byte(now.Second() / 10)
	case 0x02:
		return byte(now.Minute() % 10)
	case 0x03:
		return byte(now.Minute() / 10)
	case 0x04:
		return byte(now.Hour() % 10)
	case 0x05:
		return byte(now.Hour() / 10)
	case 0x06:
		return byte(now.Weekday())
	case 0x07:
		return byte(now.Day() % 10)
	case 0x08:
		return byte(now.Day() / 10)
	case 0x09:
		return byte(int(now.Month()) % 10)
	case 0x0A:
		return byte(int(now.Month()) / 10)
	case 0x0B:
		return byte(now.Year() % 10)
	case 0x0C:
		return byte((now.Year() / 10) % 10)
	}
	r.debug("RP_5C01: read %02x", port)
	return r.regs[r.index]
}

func (r *RTCDevice) WriteIO(port byte, value byte) {
	switch port {
	case 0xB4:
		r.index = value & 0x0F
	case 0xB5:
		r.regs[r.index] = value
		if r.index >= 0x0D {
			r.debug("RP_5C01: write %02x %02x", port, value)
		}
	}
}
