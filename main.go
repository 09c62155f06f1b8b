// main.go - CLI, device wiring, and the CPU/display task goroutine
// model.
//
// Grounded on msx.py's CLI (flag set, BIOS-mandatory exit(1), 0x80/0x81/
// 0x91 port wiring) and the teacher's setupEmulation/main() pattern of
// parsing flags, constructing every subsystem, then handing off to a
// tight CPU loop plus a periodic display loop. The two-task split and
// shared stop flag follow the emulator's concurrency model exactly: a
// single bus-wide mutex (already internal to MSXBus) serializes CPU<->
// device transactions, interrupt delivery uses CPU_Z80's existing
// interrupt line, and a single atomic stop flag is polled by both tasks.

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

const (
	defaultSampleRate = 44100
	displayHz         = 50
	cassetteLoadAddr  = 0x8000
	cassetteEntryAddr = 0x8000
)

// sliceFlag collects repeated occurrences of a string flag (-R can be
// given once per cartridge slot).
type sliceFlag []string

func (s *sliceFlag) String() string { return strings.Join(*s, ",") }
func (s *sliceFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		biosPath string
		romSpecs sliceFlag
		sccSpec  string
		diskSpec string
		ideSpec  string
		casPath  string
		logPath  string
		verbose  bool
	)

	flag.StringVar(&biosPath, "b", "", "BIOS/BASIC ROM image (required)")
	flag.Var(&romSpecs, "R", "SLOT:FILE[:OFFSET] install a generic ROM in primary SLOT at OFFSET (hex, default 0x4000)")
	flag.StringVar(&sccSpec, "S", "", "SLOT:FILE install an SCC-ROM cartridge")
	flag.StringVar(&diskSpec, "D", "", "SLOT:FILE:IMAGE install a disk-controller ROM backed by a disk image")
	flag.StringVar(&ideSpec, "I", "", "SLOT:FILE:IMAGE install an IDE-controller ROM and disk image")
	flag.StringVar(&casPath, "C", "", "cassette image to stream-load on demand")
	flag.StringVar(&logPath, "l", "", "debug log path")
	flag.BoolVar(&verbose, "v", false, "mirror debug log to stderr")
	flag.Parse()

	if biosPath == "" {
		fmt.Fprintln(os.Stderr, "msxemu: -b BIOS/BASIC ROM image is required")
		os.Exit(1)
	}

	debug, closeLog, err := newDebugSink(logPath, verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msxemu:", err)
		os.Exit(1)
	}
	defer closeLog()

	m, err := buildMachine(biosPath, romSpecs, sccSpec, diskSpec, ideSpec, debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msxemu:", err)
		os.Exit(1)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("msxemu: BIOS=%s ROMs=%d SCC=%t disk=%t ide=%t\n",
			biosPath, len(romSpecs), sccSpec != "", diskSpec != "", ideSpec != "")
	}

	if casPath != "" {
		cas, err := LoadCassette(casPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "msxemu:", err)
			os.Exit(1)
		}
		m.cassette = cas
	}

	video, err := NewVideoOutput(VIDEO_BACKEND_EBITEN)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msxemu:", err)
		os.Exit(1)
	}
	_ = video.SetDisplayConfig(DisplayConfig{Width: 256, Height: 212, Scale: 2, RefreshRate: displayHz})
	if kbSrc, ok := video.(KeyboardInput); ok {
		kbSrc.SetKeySink(m.keyboard)
	}
	if err := video.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "msxemu:", err)
		os.Exit(1)
	}

	audio, err := NewOtoPlayer(defaultSampleRate)
	if err != nil {
		fmt.Fprintln(os.Stderr, "msxemu:", err)
		os.Exit(1)
	}
	audio.SetupPlayer(NewMSXMixer(m.psg, m.scc, m.music, defaultSampleRate))
	audio.Start()
	defer audio.Close()

	m.run(video)
}

// machine bundles every constructed device so main can wire them once
// and reach them again from the CLI-triggered cassette hook and the
// audio mixer setup.
type machine struct {
	bus      *MSXBus
	cpu      *CPU_Z80
	vdp      *VDP
	psg      *PSGDevice
	scc      *SCCDevice
	music    *MusicDevice
	keyboard *KeyboardMatrix
	cassette *CassetteImage

	stop atomic.Bool
}

func buildMachine(biosPath string, romSpecs sliceFlag, sccSpec, diskSpec, ideSpec string, debug func(string, ...any)) (*machine, error) {
	m := &machine{}
	m.bus = NewMSXBus(debug)
	m.cpu = NewCPU_Z80(m.bus)

	bios, err := NewROMDevice("BIOS/BASIC", biosPath, 0)
	if err != nil {
		return nil, err
	}
	m.bus.AddDevice(bios, 0, 0)

	m.vdp = NewVDP(m.cpu.SetIRQLine)
	m.bus.AddDevice(m.vdp, -1, -1)

	m.psg = NewPSGDevice()
	m.bus.AddDevice(m.psg, -1, -1)

	m.keyboard = NewKeyboardMatrix()
	m.bus.AddDevice(m.keyboard, -1, -1)

	m.music = NewMusicDevice()
	m.bus.AddDevice(m.music, -1, -1)

	rtc := NewRTCDevice(debug)
	m.bus.AddDevice(rtc, -1, -1)

	m.bus.ioWriteFn[0x80] = func(_ byte, v byte) {
		debug("terminator port 0x80 written (%02x); stopping", v)
		m.stop.Store(true)
	}
	m.bus.ioWriteFn[0x91] = func(_ byte, v byte) {
		debug("printer: %c", v)
	}

	for _, spec := range romSpecs {
		slot, path, offset, err := parseROMSpec(spec)
		if err != nil {
			return nil, err
		}
		rom, err := NewROMDevice(fmt.Sprintf("cartridge ROM (slot %d)", slot), path, offset/pageSize)
		if err != nil {
			return nil, err
		}
		m.bus.AddDevice(rom, slot, 0)
	}

	if sccSpec != "" {
		slot, path, err := parseSlotFile(sccSpec)
		if err != nil {
			return nil, err
		}
		m.scc = NewSCCDevice()
		rom, err := NewMapperROMDevice(fmt.Sprintf("SCC cartridge (slot %d)", slot), path, MapperKonamiSCC, m.scc)
		if err != nil {
			return nil, err
		}
		m.bus.AddDevice(rom, slot, 0)
	}

	if diskSpec != "" {
		slot, romPath, imgPath, err := parseSlotFileImage(diskSpec)
		if err != nil {
			return nil, err
		}
		fdc, err := NewFDCDevice(romPath, imgPath)
		if err != nil {
			return nil, err
		}
		m.bus.AddDevice(fdc, slot, 0)
	}

	if ideSpec != "" {
		slot, romPath, imgPath, err := parseSlotFileImage(ideSpec)
		if err != nil {
			return nil, err
		}
		ide, err := NewIDEDevice(romPath, imgPath)
		if err != nil {
			return nil, err
		}
		m.bus.AddDevice(ide, slot, 0)
	}

	m.bus.Reset()
	m.cpu.Reset()
	return m, nil
}

func parseSlotFile(spec string) (slot int, path string, err error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("expected SLOT:FILE, got %q", spec)
	}
	slot, err = strconv.Atoi(parts[0])
	if err != nil || slot < 0 || slot >= slotCount {
		return 0, "", fmt.Errorf("invalid slot in %q", spec)
	}
	return slot, parts[1], nil
}

func parseSlotFileImage(spec string) (slot int, path string, image string, err error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return 0, "", "", fmt.Errorf("expected SLOT:FILE:IMAGE, got %q", spec)
	}
	slot, err = strconv.Atoi(parts[0])
	if err != nil || slot < 0 || slot >= slotCount {
		return 0, "", "", fmt.Errorf("invalid slot in %q", spec)
	}
	return slot, parts[1], parts[2], nil
}

func parseROMSpec(spec string) (slot int, path string, offset int, err error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return 0, "", 0, fmt.Errorf("expected SLOT:FILE[:OFFSET], got %q", spec)
	}
	slot, err = strconv.Atoi(parts[0])
	if err != nil || slot < 0 || slot >= slotCount {
		return 0, "", 0, fmt.Errorf("invalid slot in %q", spec)
	}
	offset = 0x4000
	if len(parts) == 3 {
		v, err := strconv.ParseInt(strings.TrimPrefix(parts[2], "0x"), 16, 32)
		if err != nil {
			return 0, "", 0, fmt.Errorf("invalid offset in %q: %w", spec, err)
		}
		offset = int(v)
	}
	return slot, parts[1], offset, nil
}

func newDebugSink(logPath string, verbose bool) (func(string, ...any), func(), error) {
	var f *os.File
	if logPath != "" {
		var err error
		f, err = os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("debug log: %w", err)
		}
	}
	sink := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		if f != nil {
			fmt.Fprintln(f, line)
		}
		if verbose {
			fmt.Fprintln(os.Stderr, line)
		}
	}
	closeFn := func() {
		if f != nil {
			f.Close()
		}
	}
	return sink, closeFn, nil
}

// run starts the CPU task in a new goroutine and the display task in
// the caller, exiting once the shared stop flag is set by either task
// or by a port-0x80 write.
func (m *machine) run(video VideoOutput) {
	go m.cpuTask()
	m.displayTask(video)
}

// cpuTask is the tight step loop: the only blocking point is the
// bus-wide mutex inside MSXBus.
func (m *machine) cpuTask() {
	for !m.stop.Load() {
		m.cpu.Step()
	}
}

// displayTask runs at ~50Hz, raising vsync, rendering the current
// video mode into the window, and hosting the cassette-load trap at
// port 0x81.
func (m *machine) displayTask(video VideoOutput) {
	ticker := time.NewTicker(time.Second / displayHz)
	defer ticker.Stop()

	m.bus.ioReadFn[0x81] = func(byte) byte {
		if m.cassette != nil {
			m.cassette.LoadInto(m.bus, m.cpu, cassetteLoadAddr, cassetteEntryAddr)
		}
		return 0
	}

	for !m.stop.Load() {
		<-ticker.C
		m.vdp.RaiseVSync()
		buf, w, h := m.vdp.RenderFrame()
		cfg := video.GetDisplayConfig()
		cfg.Width, cfg.Height = w, h
		_ = video.SetDisplayConfig(cfg)
		_ = video.UpdateFrame(buf)
		if !video.IsStarted() {
			m.stop.Store(true)
		}
	}
	_ = video.Close()
}
