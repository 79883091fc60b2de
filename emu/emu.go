// Package emu runs a cartridge board outside of a full console: it owns the
// board, the interrupt line and the work RAM, and exposes them to tools
// through memory domains.
package emu

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"nesboard/emu/log"
	"nesboard/hw/audio"
	"nesboard/hw/hwdefs"
	"nesboard/hw/mappers"
	"nesboard/hw/memdomain"
	"nesboard/hw/snapshot"
)

// NTSC PPU clock rate, in Hz.
const ppuClockRate = 5369318

// The harness has no sound hardware, the audio output is a probe of the IRQ
// line: high while asserted, low otherwise.
const irqProbeLevel = 8000

type Emulator struct {
	Board   mappers.Board
	IRQ     *hwdefs.IRQLine
	Domains *memdomain.List
	Audio   audio.SoundProvider

	cfg Config

	// wramMu guards the work RAM against concurrent accesses from tools.
	wramMu   sync.Mutex
	wram     []byte
	freeWRAM func() error
	closed   bool // work RAM released, guarded by wramMu

	tickRate  int
	tickAccum int
	clocks    uint64
}

// PowerUp loads the board required by cart and prepares it for emulation.
func PowerUp(cart *mappers.Cart, cfg Config) (*Emulator, error) {
	cfg.Check()

	e := &Emulator{
		IRQ:      new(hwdefs.IRQLine),
		cfg:      cfg,
		tickRate: cfg.Audio.TickRate,
		freeWRAM: func() error { return nil },
	}

	var opts []mappers.Option
	if cart.WRAMSize != 0 {
		if err := e.allocWRAM(cart.WRAMSize); err != nil {
			return nil, err
		}
		opts = append(opts, mappers.WithWRAM(e.wram))
	}

	board, err := mappers.Load(cart, e.IRQ, opts...)
	if err != nil {
		e.freeWRAM()
		return nil, err
	}
	e.Board = board

	if e.Domains, err = e.buildDomains(); err != nil {
		e.freeWRAM()
		return nil, err
	}

	switch cfg.Audio.Synthesis {
	case SynthBlip:
		e.Audio = audio.NewBandLimited(cfg.Audio.TickRate, cfg.Audio.SampleRate, cfg.Emulation.FrameRate)
	default:
		e.Audio = audio.NewResampler(cfg.Audio.SampleRate, cfg.Emulation.FrameRate)
	}

	log.ModEmu.InfoZ("power up").
		String("board", board.Name()).
		Bool("offheap", cfg.Emulation.OffHeapWRAM).
		String("synthesis", cfg.Audio.Synthesis).
		End()
	return e, nil
}

func (e *Emulator) allocWRAM(size int) error {
	if !e.cfg.Emulation.OffHeapWRAM {
		e.wram = make([]byte, size)
		return nil
	}

	mem, free, err := allocNative(size)
	if err != nil {
		return fmt.Errorf("failed to allocate work RAM: %w", err)
	}
	e.wram, e.freeWRAM = mem, free
	return nil
}

// buildDomains takes the board domains, replacing those which give access to
// the work RAM with versions taking the work RAM lock.
func (e *Emulator) buildDomains() (*memdomain.List, error) {
	l, err := memdomain.NewList()
	if err != nil {
		return nil, err
	}

	for _, d := range e.Board.Domains() {
		switch d.Name() {
		case "WRAM":
			d = memdomain.NewPointerMonitor("WRAM", memdomain.LittleEndian,
				unsafe.Pointer(unsafe.SliceData(e.wram)), int64(len(e.wram)), true, 1, &e.wramMu)
		case memdomain.SystemBusName:
			d = e.lockedDomain(d)
		}
		if err := l.Add(d); err != nil {
			return nil, err
		}
	}
	if err := l.SetMain(memdomain.SystemBusName); err != nil {
		return nil, err
	}
	return l, nil
}

func (e *Emulator) lockedDomain(d memdomain.Domain) memdomain.Domain {
	peek := func(addr int64) uint8 {
		e.wramMu.Lock()
		defer e.wramMu.Unlock()
		if e.closed {
			return 0
		}
		v, _ := d.PeekByte(addr)
		return v
	}
	var poke memdomain.PokeFunc
	if d.Writable() {
		poke = func(addr int64, val uint8) {
			e.wramMu.Lock()
			defer e.wramMu.Unlock()
			if e.closed {
				return
			}
			d.PokeByte(addr, val)
		}
	}
	return memdomain.NewDelegate(d.Name(), d.Size(), d.Endian(), peek, poke, d.WordSize())
}

// RunScanlines clocks the board for n scanlines. The emulation stops with an
// error if the board reaches a mode that can't be emulated.
func (e *Emulator) RunScanlines(n int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var uerr *hwdefs.UnsupportedModeError
			if rerr, ok := r.(error); ok && errors.As(rerr, &uerr) {
				log.ModEmu.ErrorZ("emulation stopped").Error("err", uerr).End()
				err = uerr
				return
			}
			panic(r)
		}
	}()

	for range n * hwdefs.DotsPerScanline {
		e.Board.ClockPPU()
		e.clocks++

		e.tickAccum += e.tickRate
		if e.tickAccum >= ppuClockRate {
			e.tickAccum -= ppuClockRate
			var s int16 = -irqProbeLevel
			if e.IRQ.Asserted(hwdefs.External) {
				s = irqProbeLevel
			}
			e.Audio.Tick(s)
		}
	}
	return nil
}

// Clocks returns the number of PPU clocks run since power up.
func (e *Emulator) Clocks() uint64 { return e.clocks }

func (e *Emulator) AddLogContext(z *log.EntryZ) {
	z.Uint64("clock", e.clocks)
}

func isWRAM(addr uint16) bool { return addr >= 0x6000 && addr < 0x8000 }

// CPUWrite performs a CPU write on the cartridge. Writes below $6000 are not
// decoded by the cartridge and are ignored.
func (e *Emulator) CPUWrite(addr uint16, val uint8) {
	bus := e.Board.CPUBus()
	switch {
	case !bus.Contains(addr):
		log.ModEmu.DebugZ("write outside cartridge").Hex16("addr", addr).Hex8("val", val).End()
	case isWRAM(addr):
		e.wramMu.Lock()
		if !e.closed {
			bus.Write8(addr, val)
		}
		e.wramMu.Unlock()
	default:
		bus.Write8(addr, val)
	}
}

// CPURead performs a CPU read on the cartridge. Addresses not decoded by the
// cartridge read as 0.
func (e *Emulator) CPURead(addr uint16) uint8 {
	bus := e.Board.CPUBus()
	switch {
	case !bus.Contains(addr):
		return 0
	case isWRAM(addr):
		e.wramMu.Lock()
		defer e.wramMu.Unlock()
		if e.closed {
			return 0
		}
	}
	return bus.Read8(addr)
}

// IRQSources returns the sources currently asserting the interrupt line.
func (e *Emulator) IRQSources() hwdefs.IRQSource {
	return e.IRQ.Sources()
}

// EndFrame drains the audio samples of the frame and, if rec is not nil,
// writes them to it. It returns the number of samples reported by the
// provider.
func (e *Emulator) EndFrame(rec *audio.Recorder) (int, error) {
	samples, nsamp := e.Audio.GetSamplesSync()
	if rec != nil {
		if err := rec.Write(samples); err != nil {
			return nsamp, err
		}
	}
	return nsamp, nil
}

// SaveState returns a snapshot of the board state.
func (e *Emulator) SaveState() ([]byte, error) {
	e.wramMu.Lock()
	defer e.wramMu.Unlock()

	data, err := snapshot.Save(e.Board)
	if err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	return data, nil
}

// LoadState restores a snapshot produced by SaveState. The board is left
// untouched if the snapshot can't be restored.
func (e *Emulator) LoadState(data []byte) error {
	e.wramMu.Lock()
	defer e.wramMu.Unlock()

	if err := snapshot.Load(e.Board, data); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	return nil
}

// Close releases the work RAM. Afterwards, the WRAM domain is empty, and the
// work RAM reads as 0 and ignores writes through the System Bus domain and
// CPURead/CPUWrite. The emulator must not be run anymore.
func (e *Emulator) Close() error {
	if d, ok := e.Domains.Get("WRAM"); ok {
		d.(*memdomain.PointerMonitor).Remap(nil, 0)
	}

	e.wramMu.Lock()
	defer e.wramMu.Unlock()

	e.closed = true
	free := e.freeWRAM
	e.wram = nil
	e.freeWRAM = func() error { return nil }
	if err := free(); err != nil {
		return fmt.Errorf("failed to release work RAM: %w", err)
	}
	return nil
}
