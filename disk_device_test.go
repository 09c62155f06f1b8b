package main

import (
	"os"
	"testing"
)

func newTestFDC(t *testing.T) *FDCDevice {
	t.Helper()

	rom, err := os.CreateTemp(t.TempDir(), "fdcrom")
	if err != nil {
		t.Fatal(err)
	}
	rom.Write(make([]byte, 0x4000))
	rom.Close()

	imgPath := t.TempDir() + "/disk.img"
	image := make([]byte, sectorsPerTrk*sectorSize)
	image[0] = 0x5A
	if err := os.WriteFile(imgPath, image, 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := NewFDCDevice(rom.Name(), imgPath)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestFDCSeekAndReadSector(t *testing.T) {
	d := newTestFDC(t)

	d.WriteMem(regData, 0)
	d.WriteMem(regStatusCmd, 0x10) // SEEK, target track latched in regData
	if d.track != 0 {
		t.Fatalf("track after seek = %d, want 0", d.track)
	}

	d.WriteMem(regSector, 1)
	d.WriteMem(regStatusCmd, 0x80) // READ SECTOR

	first := d.ReadMem(regData)
	if first != 0x5A {
		t.Fatalf("first byte read = %#x, want 0x5a", first)
	}
	for i := 1; i < sectorSize; i++ {
		d.ReadMem(regData)
	}

	if d.status&(fdcBusy|fdcDRQorIndex) != 0 {
		t.Errorf("status after 512 reads = %#x, want BUSY/DRQ clear", d.status)
	}
}

func TestFDCReadSectorWithoutDiskSetsSeekErr(t *testing.T) {
	rom, err := os.CreateTemp(t.TempDir(), "fdcrom")
	if err != nil {
		t.Fatal(err)
	}
	rom.Write(make([]byte, 0x4000))
	rom.Close()

	d, err := NewFDCDevice(rom.Name(), "")
	if err != nil {
		t.Fatal(err)
	}
	d.WriteMem(regStatusCmd, 0x80) // READ SECTOR, no disk inserted
	if d.status&fdcSeekErr == 0 {
		t.Errorf("status = %#x, want fdcSeekErr set", d.status)
	}
}

func TestFDCRestoreSetsTrack0Flag(t *testing.T) {
	d := newTestFDC(t)
	d.track = 42
	d.WriteMem(regStatusCmd, 0x00) // RESTORE
	if d.track != 0 {
		t.Errorf("track after RESTORE = %d, want 0", d.track)
	}
	if d.status&fdcTrack00or == 0 {
		t.Errorf("status = %#x, want track-00 bit set", d.status)
	}
}

func TestFDCROMReadOutsideRegisterBlock(t *testing.T) {
	d := newTestFDC(t)
	if got := d.ReadMem(0x0000); got != d.rom[0] {
		t.Errorf("ROM byte 0 = %#x, want %#x", got, d.rom[0])
	}
}
