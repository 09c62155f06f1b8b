package main

import (
	"testing"
	"time"
)

func TestRTCDeviceDigitMapping(t *testing.T) {
	r := NewRTCDevice(nil)
	r.now = func() time.Time {
		return time.Date(2026, time.July, 31, 12, 34, 56, 0, time.UTC)
	}

	cases := []struct {
		index byte
		want  byte
	}{
		{0x00, 6}, // seconds % 10
		{0x01, 5}, // seconds / 10
		{0x02, 4}, // minutes % 10
		{0x03, 3}, // minutes / 10
	}
	for _, c := range cases {
		r.WriteIO(0xB4, c.index)
		if got := r.ReadIO(0xB5); got != c.want {
			t.Errorf("index %02x: got %d, want %d", c.index, got, c.want)
		}
	}
}

func TestRTCDeviceIndexMasking(t *testing.T) {
	r := NewRTCDevice(nil)
	r.WriteIO(0xB4, 0xFF)
	if r.index != 0x0F {
		t.Errorf("index = %#x, want 0x0f", r.index)
	}
}

func TestRTCDeviceGeneralStorage(t *testing.T) {
	r := NewRTCDevice(nil)
	r.WriteIO(0xB4, 0x0D)
	r.WriteIO(0xB5, 0x42)
	if got := r.ReadIO(0xB5); got != 0x42 {
		t.Errorf("storage register = %#x, want 0x42", got)
	}
}

func TestRTCDeviceReset(t *testing.T) {
	r := NewRTCDevice(nil)
	r.WriteIO(0xB4, 0x0D)
	r.WriteIO(0xB5, 0x42)
	r.Reset()
	if r.index != 0 || r.regs[0x0D] != 0 {
		t.Errorf("Reset did not clear state: index=%#x regs[0xD]=%#x", r.index, r.regs[0x0D])
	}
}
