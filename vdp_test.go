package main

import "testing"

// setVRAMWritePointer drives the two-byte address latch at port 0x99
// into write mode at address addr (bit 6 of the second byte set,
// skipping the immediate read-ahead pre-fetch).
func setVRAMWritePointer(v *VDP, addr int) {
	v.WriteIO(0x99, byte(addr))
	v.WriteIO(0x99, (byte(addr>>8)&0x3F)|0x40)
}

// setVRAMReadPointer sets the pointer into read mode (bit 6 clear),
// which performs the pre-fetch into the read-ahead byte immediately
// (spec.md §4.4).
func setVRAMReadPointer(v *VDP, addr int) {
	v.WriteIO(0x99, byte(addr))
	v.WriteIO(0x99, byte(addr>>8)&0x3F)
}

func TestDataPortWriteThenReadRoundTrips(t *testing.T) {
	v := NewVDP(func(bool) {})
	setVRAMWritePointer(v, 0x1000)
	v.WriteIO(0x98, 0xAB)

	setVRAMReadPointer(v, 0x1000)
	if got := v.ReadIO(0x98); got != 0xAB {
		t.Fatalf("data port read-back = %#x, want 0xab", got)
	}
}

// TestDataPortSequentialReadsReflectVRAM is the spec's §8 VDP round-trip
// property: after the address latch sets the pointer to P in read mode,
// four successive reads of port 0x98 return ram[P..P+4) in order.
func TestDataPortSequentialReadsReflectVRAM(t *testing.T) {
	v := NewVDP(func(bool) {})
	base := 0x2000
	for i := 0; i < 8; i++ {
		v.vram[base+i] = byte(0x10 + i)
	}

	setVRAMReadPointer(v, base)
	for i := 0; i < 4; i++ {
		if got := v.ReadIO(0x98); got != byte(0x10+i) {
			t.Errorf("sequential read %d = %#x, want %#x", i, got, byte(0x10+i))
		}
	}
}

// TestDataPortPointerCrossing16KBumpsHighRegister exercises the
// register-14 roll-over described in spec.md §4.4: crossing a 16KB
// boundary increments reg14's low 3 bits so the next byte lands in the
// following 16KB VRAM bank rather than wrapping back to address 0.
func TestDataPortPointerCrossing16KBumpsHighRegister(t *testing.T) {
	v := NewVDP(func(bool) {})
	setVRAMWritePointer(v, 0x3FFF)
	v.WriteIO(0x98, 0x01)
	v.WriteIO(0x98, 0x02)

	if v.vram[0x3FFF] != 0x01 {
		t.Fatalf("vram[0x3fff] = %#x, want 0x01", v.vram[0x3FFF])
	}
	if v.regs[14]&0x07 != 1 {
		t.Fatalf("reg14 after crossing 16K boundary = %d, want 1", v.regs[14]&0x07)
	}
	if v.vram[0x4000] != 0x02 {
		t.Fatalf("vram[0x4000] after boundary crossing = %#x, want 0x02", v.vram[0x4000])
	}
}

// TestPaletteWritesYieldScaledRGB is the spec's §8 palette property:
// one two-byte entry written to port 0x9A yields a palette entry whose
// channels equal round(channel*255/7), and the index post-increments.
func TestPaletteWritesYieldScaledRGB(t *testing.T) {
	v := NewVDP(func(bool) {})
	writeVDPReg(v, regPalIndex, 0)

	// Entry 0: R=7,B=3 in byte1 (high/low nibble), G=5 in byte2.
	v.WriteIO(0x9A, (7<<4)|3)
	v.WriteIO(0x9A, 5)

	want := rgb(scale3(7), scale3(5), scale3(3))
	if v.palette[0] != want {
		t.Errorf("palette[0] = %#06x, want %#06x", v.palette[0], want)
	}
	if v.regs[regPalIndex] != 1 {
		t.Errorf("palette index after one entry = %d, want 1 (post-incremented)", v.regs[regPalIndex])
	}
}

func TestPaletteIndexWrapsMod16(t *testing.T) {
	v := NewVDP(func(bool) {})
	writeVDPReg(v, regPalIndex, 15)
	v.WriteIO(0x9A, 0x00)
	v.WriteIO(0x9A, 0x00)
	if v.regs[regPalIndex] != 0 {
		t.Errorf("palette index after entry 15 = %d, want 0 (wrapped)", v.regs[regPalIndex])
	}
}

func TestIndirectRegisterPortAutoIncrements(t *testing.T) {
	v := NewVDP(func(bool) {})
	writeVDPReg(v, regIndirect, 5) // bit7 clear: auto-increment enabled

	v.WriteIO(0x9B, 0x11)
	v.WriteIO(0x9B, 0x22)

	if v.regs[5] != 0x11 {
		t.Errorf("regs[5] = %#x, want 0x11", v.regs[5])
	}
	if v.regs[6] != 0x22 {
		t.Errorf("regs[6] = %#x, want 0x22", v.regs[6])
	}
}

func TestIndirectRegisterPortNoIncrementWhenBit7Set(t *testing.T) {
	v := NewVDP(func(bool) {})
	writeVDPReg(v, regIndirect, 5|0x80) // bit7 set: suppress auto-increment

	v.WriteIO(0x9B, 0x33)
	v.WriteIO(0x9B, 0x44)

	if v.regs[5] != 0x44 {
		t.Errorf("regs[5] = %#x, want 0x44 (second write overwrote, no auto-increment)", v.regs[5])
	}
}

func TestStatusRegister0ClearsVblankAndCoincidenceOnRead(t *testing.T) {
	v := NewVDP(func(bool) {})
	v.status[0] = 0x80 | 0x20 | 0x01
	writeVDPReg(v, regStatusSel, 0)

	got := v.ReadIO(0x99)
	if got != 0x80|0x20|0x01 {
		t.Fatalf("status0 read = %#x, want the full byte before clearing", got)
	}
	if v.status[0]&0x80 != 0 {
		t.Error("status0 bit7 (vblank) must be cleared by a status read")
	}
	if v.status[0]&0x20 != 0 {
		t.Error("status0 bit5 (coincidence) must be cleared by a status read")
	}
}

func TestVideoModeDerivedFromRegisters0And1(t *testing.T) {
	v := NewVDP(func(bool) {})
	writeVDPReg(v, 0, 0x00)
	writeVDPReg(v, 1, 0x00)
	if got := v.VideoMode(); got != modeScreen1 {
		t.Errorf("mode for regs 0/1=0 = %d, want screen1 (%d)", got, modeScreen1)
	}

	writeVDPReg(v, 0, 0x0E)
	writeVDPReg(v, 1, 0x00)
	if got := v.VideoMode(); got != modeScreen8 {
		t.Errorf("mode for reg0=0x0e = %d, want screen8 (%d)", got, modeScreen8)
	}
}

func TestRaiseVSyncSetsStatusAndInterrupt(t *testing.T) {
	var irqAsserted bool
	v := NewVDP(func(on bool) { irqAsserted = on })
	writeVDPReg(v, 1, 0x20) // enable VBLANK interrupt

	v.RaiseVSync()

	if v.status[0]&0x80 == 0 {
		t.Error("RaiseVSync must set status0 bit7")
	}
	if !irqAsserted {
		t.Error("RaiseVSync must assert the CPU IRQ line when interrupts are enabled")
	}
}
